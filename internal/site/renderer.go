// Package site renders the landing page and its per-section pages.
package site

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/iereview/landinPage/internal/contact"
	"github.com/iereview/landinPage/internal/content"
	"github.com/iereview/landinPage/internal/loader"
)

// Section names, in page order.
const (
	SectionHero         = "hero"
	SectionAbout        = "about"
	SectionCounselors   = "counselors"
	SectionServices     = "services"
	SectionHowItWorks   = "howItWorks"
	SectionTestimonials = "testimonials"
	SectionPlans        = "plans"
	SectionContact      = "contact"
)

// AllSections is the landing page.
var AllSections = []string{
	SectionHero, SectionAbout, SectionCounselors, SectionServices,
	SectionHowItWorks, SectionTestimonials, SectionPlans, SectionContact,
}

// Options configures page rendering.
type Options struct {
	CheckoutScriptURL string
	BookingAmount     int
}

// ContactView is the contact form's render state.
type ContactView struct {
	Form      contact.Form
	Errors    contact.FieldErrors
	CanSubmit bool
	Toast     string
	ToastMs   int64
	Loader    *loader.View
}

// Page is the data handed to the layout template.
type Page struct {
	Site          *content.Site
	Title         string
	Show          map[string]bool
	Checkout      bool
	Contact       ContactView
	BookingAmount int
	Scripts       []Script
}

// Renderer executes the embedded templates against the site copy.
type Renderer struct {
	site *content.Site
	opts Options
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer(site *content.Site, opts Options) (*Renderer, error) {
	if site == nil {
		return nil, fmt.Errorf("site: content is required")
	}
	tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}
	return &Renderer{site: site, opts: opts, tmpl: tmpl}, nil
}

var funcs = template.FuncMap{
	"sectionID": func(name string) string {
		if name == SectionHowItWorks {
			return "how-it-works"
		}
		return name
	},
	"fieldError": func(errs contact.FieldErrors, field string) string {
		return errs[field]
	},
	"join": strings.Join,
}

// checkoutSections carry a data-open-payment control.
var checkoutSections = []string{SectionPlans, SectionContact}

// NewPage builds the page data for sections. A fresh script registry is
// used per page; the checkout widget script and payment modal are included
// only when a section with a pay button is shown.
func (r *Renderer) NewPage(title string, sections ...string) *Page {
	show := make(map[string]bool, len(sections))
	for _, s := range sections {
		show[s] = true
	}

	var scripts Scripts
	checkout := false
	for _, s := range checkoutSections {
		if show[s] {
			scripts.Require(Script{Src: r.opts.CheckoutScriptURL, Async: true})
			checkout = true
		}
	}
	scripts.Require(Script{Src: "/static/js/app.js", Defer: true})

	p := &Page{
		Site:          r.site,
		Title:         title,
		Show:          show,
		Checkout:      checkout,
		BookingAmount: r.opts.BookingAmount,
		Scripts:       scripts.List(),
	}
	p.Contact.Errors = contact.FieldErrors{}
	return p
}

// Render writes the full document for p.
func (r *Renderer) Render(w io.Writer, p *Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "layout.html", p); err != nil {
		return fmt.Errorf("site: render %s: %w", p.Title, err)
	}
	return nil
}
