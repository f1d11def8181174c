// Package content holds the copy for the landing page sections. The
// default copy is embedded from site.yaml; CONTENT_FILE can point at a
// replacement with the same shape.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Link is a labelled anchor.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Header is a section heading with one highlighted run of words.
type Header struct {
	Lead       string `yaml:"lead"`
	Highlight  string `yaml:"highlight"`
	Trail      string `yaml:"trail"`
	Subheading string `yaml:"subheading"`
}

// Card is shared by counselors, services and how-it-works steps.
type Card struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	Icon  string `yaml:"icon"`
	Image string `yaml:"image"`
}

type Brand struct {
	Name    string `yaml:"name"`
	Logo    string `yaml:"logo"`
	Tagline string `yaml:"tagline"`
}

type Hero struct {
	Tag         string `yaml:"tag"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Primary     Link   `yaml:"primary"`
	Secondary   Link   `yaml:"secondary"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type About struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Stat        Stat     `yaml:"stat"`
	Subtitle    string   `yaml:"subtitle"`
	Highlights  []string `yaml:"highlights"`
	CTA         Link     `yaml:"cta"`
}

// CardSection is a heading followed by a grid of cards.
type CardSection struct {
	Header Header `yaml:"header"`
	Items  []Card `yaml:"items"`
	Banner Banner `yaml:"banner"`
	CTA    Link   `yaml:"cta"`
}

// Banner is the call-out box under the services grid.
type Banner struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	CTA   Link   `yaml:"cta"`
}

type Testimonial struct {
	Name    string `yaml:"name"`
	Subtext string `yaml:"subtext"`
	Quote   string `yaml:"quote"`
}

type Testimonials struct {
	Header Header        `yaml:"header"`
	Items  []Testimonial `yaml:"items"`
}

type Plan struct {
	Title       string   `yaml:"title"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	ButtonText  string   `yaml:"buttonText"`
	Highlight   bool     `yaml:"highlight"`
	Features    []string `yaml:"features"`
}

type Plans struct {
	Header     Header `yaml:"header"`
	Items      []Plan `yaml:"items"`
	CustomNote Link   `yaml:"customNote"`
}

type Consultation struct {
	Title      string `yaml:"title"`
	Text       string `yaml:"text"`
	ButtonText string `yaml:"buttonText"`
}

type Contact struct {
	Header       Header       `yaml:"header"`
	FormTitle    string       `yaml:"formTitle"`
	Phone        string       `yaml:"phone"`
	Email        string       `yaml:"email"`
	Address      []string     `yaml:"address"`
	Consultation Consultation `yaml:"consultation"`
}

type Footer struct {
	QuickLinks      []Link `yaml:"quickLinks"`
	ServiceLinks    []Link `yaml:"serviceLinks"`
	NewsletterTitle string `yaml:"newsletterTitle"`
	NewsletterText  string `yaml:"newsletterText"`
	Copyright       string `yaml:"copyright"`
}

// Site is every section's copy.
type Site struct {
	Brand        Brand        `yaml:"brand"`
	Nav          []Link       `yaml:"nav"`
	NavCTA       Link         `yaml:"navCta"`
	Hero         Hero         `yaml:"hero"`
	About        About        `yaml:"about"`
	Counselors   CardSection  `yaml:"counselors"`
	Services     CardSection  `yaml:"services"`
	HowItWorks   CardSection  `yaml:"howItWorks"`
	Testimonials Testimonials `yaml:"testimonials"`
	Plans        Plans        `yaml:"plans"`
	Contact      Contact      `yaml:"contact"`
	Footer       Footer       `yaml:"footer"`
}

// Default parses the embedded copy.
func Default() (*Site, error) {
	return Parse(defaultSite, "site.yaml")
}

// Load reads the copy from path, or the embedded default when path is
// empty.
func Load(path string) (*Site, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a YAML document. source names it in errors.
func Parse(data []byte, source string) (*Site, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("content: %s is empty", source)
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", source, err)
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("content: %s: %w", source, err)
	}
	return &site, nil
}

// Validate checks the fields every page template relies on.
func (s *Site) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("brand.name", s.Brand.Name)
	check("hero.title", s.Hero.Title)
	check("about.title", s.About.Title)
	check("contact.email", s.Contact.Email)
	check("contact.phone", s.Contact.Phone)
	if len(s.Counselors.Items) == 0 {
		missing = append(missing, "counselors.items")
	}
	if len(s.Services.Items) == 0 {
		missing = append(missing, "services.items")
	}
	if len(s.HowItWorks.Items) == 0 {
		missing = append(missing, "howItWorks.items")
	}
	if len(s.Plans.Items) == 0 {
		missing = append(missing, "plans.items")
	}
	for i, p := range s.Plans.Items {
		check(fmt.Sprintf("plans.items[%d].title", i), p.Title)
		check(fmt.Sprintf("plans.items[%d].price", i), p.Price)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Step pairs a how-it-works card with its 1-based position.
type Step struct {
	Number int
	Card
}

// Steps numbers the how-it-works cards.
func (s *Site) Steps() []Step {
	steps := make([]Step, len(s.HowItWorks.Items))
	for i, c := range s.HowItWorks.Items {
		steps[i] = Step{Number: i + 1, Card: c}
	}
	return steps
}
