package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iereview/landinPage/internal/booking"
	"github.com/iereview/landinPage/internal/contact"
	httpmiddleware "github.com/iereview/landinPage/internal/http/middleware"
	"github.com/iereview/landinPage/internal/site"
	"github.com/iereview/landinPage/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	SiteHandler    *site.Handler
	ContactHandler *contact.Handler
	BookingHandler *booking.Handler
	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	// RateLimiter guards the JSON API. Nil disables limiting.
	RateLimiter *httpmiddleware.RateLimiter
}

// Page routes. Each path renders one section inside the shared layout;
// "/" renders all of them.
var pages = []struct {
	path    string
	title   string
	section string
}{
	{"/about", "About", site.SectionAbout},
	{"/counselors", "Counselors", site.SectionCounselors},
	{"/services", "Services", site.SectionServices},
	{"/how-it-works", "How It Works", site.SectionHowItWorks},
	{"/testimonials", "Testimonials", site.SectionTestimonials},
	{"/plans", "Plans", site.SectionPlans},
	{"/contact", "Contact", site.SectionContact},
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", site.StaticHandler()))

	if cfg.SiteHandler != nil {
		r.Get("/", cfg.SiteHandler.Page("", site.AllSections...))
		for _, p := range pages {
			r.Get(p.path, cfg.SiteHandler.Page(p.title, p.section))
		}
		r.Post("/contact", cfg.SiteHandler.SubmitContact)
		r.NotFound(cfg.SiteHandler.NotFound)
	}

	r.Route("/api", func(api chi.Router) {
		if len(cfg.CORSAllowedOrigins) > 0 {
			api.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
		}
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.ContactHandler != nil {
			api.Post("/contact", cfg.ContactHandler.Submit)
			api.Post("/contact/validate", cfg.ContactHandler.Validate)
		}
		if cfg.BookingHandler != nil {
			api.Route("/checkout", cfg.BookingHandler.Routes)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
