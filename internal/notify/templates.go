package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy is applied to every rendered HTML body. Visitor text reaches
// the template already escaped; the policy drops anything outside the
// user-content allowlist.
var htmlPolicy = bluemonday.UGCPolicy()

// Renderer renders small templates for operator emails.
type Renderer struct{}

// Render compiles the provided template text with strict missing-key semantics.
func (Renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("notify: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("notify: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderHTML is Render for the HTML alternative part. Data is escaped by
// html/template and the output is sanitised with htmlPolicy.
func (Renderer) RenderHTML(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("notify: template text required")
	}
	t, err := htmltemplate.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("notify: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: execute %s: %w", name, err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}

const enquiryTemplate = `New enquiry from the website

Name:    {{.Name}}
Email:   {{.Email}}
Phone:   {{.Phone}}

{{.Message}}
`

const enquiryHTMLTemplate = `<p><strong>New enquiry from the website</strong></p>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
<tr><td>Phone</td><td>{{.Phone}}</td></tr>
</table>
<pre>{{.Message}}</pre>
`

const bookingTemplate = `Consultation booked and paid

Name:        {{.CustomerName}}
Email:       {{.CustomerEmail}}
Phone:       {{.CustomerPhone}}
Booking ID:  {{.BookingID}}
Payment ID:  {{.PaymentID}}
Scheduling:  {{.SchedulingURL}}
`
