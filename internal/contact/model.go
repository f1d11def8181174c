package contact

import (
	"regexp"
	"strings"
)

// Field names as posted by the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

// Fields lists the contact form fields in display order.
var Fields = []string{FieldName, FieldEmail, FieldPhone, FieldMessage}

// MinMessageLength is the minimum trimmed message length.
const MinMessageLength = 10

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Form is a contact enquiry as typed by the visitor.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to its message. Valid fields map to "".
type FieldErrors map[string]string

// Empty reports whether no field carries an error.
func (fe FieldErrors) Empty() bool {
	for _, msg := range fe {
		if msg != "" {
			return false
		}
	}
	return true
}

// Value returns the raw value of field.
func (f Form) Value(field string) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldMessage:
		return f.Message
	default:
		return ""
	}
}

// Errors validates every field.
func (f Form) Errors() FieldErrors {
	errs := make(FieldErrors, len(Fields))
	for _, field := range Fields {
		errs[field] = ValidateField(field, f.Value(field))
	}
	return errs
}

// Complete reports whether every field has non-blank content.
func (f Form) Complete() bool {
	for _, field := range Fields {
		if strings.TrimSpace(f.Value(field)) == "" {
			return false
		}
	}
	return true
}

// ValidateField returns the message for value under field's rule, or ""
// when the value is acceptable. Unknown fields always validate.
func ValidateField(field, value string) string {
	switch field {
	case FieldName:
		if strings.TrimSpace(value) == "" {
			return "Name is required"
		}
	case FieldEmail:
		if value == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(value) {
			return "Invalid email address"
		}
	case FieldPhone:
		if value == "" {
			return "Phone is required"
		}
		if !phonePattern.MatchString(value) {
			return "Phone must be 10 digits"
		}
	case FieldMessage:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "Message is required"
		}
		if len([]rune(trimmed)) < MinMessageLength {
			return "Message must be at least 10 characters"
		}
	}
	return ""
}

// CanSubmit reports whether the submit control is enabled: every field is
// filled in and no field carries an error.
func CanSubmit(f Form, errs FieldErrors) bool {
	return f.Complete() && errs.Empty()
}
