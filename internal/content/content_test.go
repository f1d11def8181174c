package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if site.Brand.Name != "Predicto" {
		t.Errorf("brand = %q", site.Brand.Name)
	}
	if got := len(site.Counselors.Items); got != 4 {
		t.Errorf("counselors = %d, want 4", got)
	}

	var prices []string
	var highlighted []string
	for _, p := range site.Plans.Items {
		prices = append(prices, p.Title+" "+p.Price)
		if p.Highlight {
			highlighted = append(highlighted, p.Title)
		}
	}
	if diff := cmp.Diff([]string{"Basic ₹2,999", "Premium ₹7,999", "Complete ₹14,999"}, prices); diff != "" {
		t.Errorf("plans mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Premium"}, highlighted); diff != "" {
		t.Errorf("highlighted plans mismatch (-want +got):\n%s", diff)
	}

	wantAddress := []string{"123 Main Street, Bangalore", "Karnataka, India - 560001"}
	if diff := cmp.Diff(wantAddress, site.Contact.Address); diff != "" {
		t.Errorf("address mismatch (-want +got):\n%s", diff)
	}
	if site.Contact.Phone != "+91 9876543210" || site.Contact.Email != "contact@predicto.tier.app" {
		t.Errorf("contact info = %q / %q", site.Contact.Phone, site.Contact.Email)
	}
	if site.About.Stat.Value != "1000+" {
		t.Errorf("about stat = %q", site.About.Stat.Value)
	}
}

func TestSteps(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	steps := site.Steps()
	if len(steps) != len(site.HowItWorks.Items) {
		t.Fatalf("steps = %d", len(steps))
	}
	if steps[0].Number != 1 || steps[0].Title != "Schedule Your Consultation" {
		t.Errorf("first step = %+v", steps[0])
	}
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	doc := `
brand: { name: Acme }
hero: { title: Hi }
about: { title: About }
contact: { email: a@b.com, phone: "1" }
counselors: { items: [ { name: A } ] }
services: { items: [ { title: S } ] }
howItWorks: { items: [ { title: H } ] }
plans: { items: [ { title: P, price: "₹1" } ] }
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	site, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if site.Brand.Name != "Acme" {
		t.Errorf("brand = %q", site.Brand.Name)
	}

	empty, err := Load("")
	if err != nil || empty.Brand.Name != "Predicto" {
		t.Errorf("Load(\"\") should fall back to the embedded copy, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "  \n", "is empty"},
		{"bad yaml", "brand: [", "parse"},
		{"missing fields", "brand: { name: X }", "missing hero.title"},
		{"plan without price", `
brand: { name: X }
hero: { title: T }
about: { title: A }
contact: { email: e, phone: p }
counselors: { items: [ { name: A } ] }
services: { items: [ { title: S } ] }
howItWorks: { items: [ { title: H } ] }
plans: { items: [ { title: P } ] }
`, "plans.items[0].price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
