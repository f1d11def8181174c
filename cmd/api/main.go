package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iereview/landinPage/cmd/mainconfig"
	"github.com/iereview/landinPage/internal/api/router"
	"github.com/iereview/landinPage/internal/booking"
	"github.com/iereview/landinPage/internal/bookingapi"
	appconfig "github.com/iereview/landinPage/internal/config"
	"github.com/iereview/landinPage/internal/contact"
	"github.com/iereview/landinPage/internal/content"
	"github.com/iereview/landinPage/internal/guard"
	httpmiddleware "github.com/iereview/landinPage/internal/http/middleware"
	"github.com/iereview/landinPage/internal/notify"
	"github.com/iereview/landinPage/internal/observability/metrics"
	"github.com/iereview/landinPage/internal/site"
	"github.com/iereview/landinPage/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting predicto site",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := mainconfig.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	g := mainconfig.BuildGuard(redisClient, cfg, logger)
	notifier := notify.NewService(mainconfig.BuildEmailSender(ctx, cfg, logger), cfg.OperatorEmail, logger)

	app, err := newApp(cfg, g, notifier, prometheus.NewRegistry(), logger)
	if err != nil {
		logger.Error("failed to build site", "error", err)
		os.Exit(1)
	}

	go booking.NewSweeper(app.orchestrator, time.Minute, logger).Start(ctx)
	go app.limiter.StartEviction(ctx, 10*time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	app.contact.Wait()
	app.orchestrator.Wait()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type app struct {
	handler      http.Handler
	contact      *contact.Service
	orchestrator *booking.Orchestrator
	limiter      *httpmiddleware.RateLimiter
}

// newApp wires the services and routes. reg receives the site metrics
// plus the Go runtime collectors and backs /metrics.
func newApp(cfg *appconfig.Config, g guard.Guard, notifier *notify.Service, reg *prometheus.Registry, logger *logging.Logger) (*app, error) {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	siteMetrics := metrics.NewSiteMetrics(reg)

	api := bookingapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger).WithObserver(siteMetrics)

	contactSvc := contact.NewService(api, g, contact.Options{
		City:     cfg.ContactCityPlaceholder,
		Notifier: notifier,
		Metrics:  siteMetrics,
	}, logger)

	gateway := booking.NewHostedGateway()
	orchestrator := booking.NewOrchestrator(api, gateway, booking.Config{
		Amount:       cfg.BookingAmount,
		BrandName:    cfg.CheckoutBrandName,
		Description:  cfg.CheckoutDescription,
		ThemeColor:   cfg.CheckoutThemeColor,
		SuccessDelay: cfg.SuccessDisplayDelay,
		Countdown:    cfg.RedirectCountdown,
		SessionTTL:   cfg.CheckoutSessionTTL,
	}, logger,
		booking.WithGuard(g),
		booking.WithNotifier(notifier),
		booking.WithObserver(siteMetrics),
	)

	siteCopy, err := content.Load(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("load site content: %w", err)
	}
	renderer, err := site.NewRenderer(siteCopy, site.Options{
		CheckoutScriptURL: cfg.CheckoutScriptURL,
		BookingAmount:     cfg.BookingAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := router.New(&router.Config{
		Logger:             logger,
		SiteHandler:        site.NewHandler(renderer, contactSvc, logger),
		ContactHandler:     contact.NewHandler(contactSvc, logger),
		BookingHandler:     booking.NewHandler(orchestrator, gateway, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	return &app{
		handler:      handler,
		contact:      contactSvc,
		orchestrator: orchestrator,
		limiter:      limiter,
	}, nil
}
