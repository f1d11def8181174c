package booking

import (
	"strings"

	"github.com/iereview/landinPage/internal/contact"
)

// Payment form field names.
const (
	FieldCustomerName  = "customerName"
	FieldCustomerEmail = "customerEmail"
	FieldCustomerPhone = "customerPhone"
)

// CustomerFields lists the payment form fields in display order.
var CustomerFields = []string{FieldCustomerName, FieldCustomerEmail, FieldCustomerPhone}

// Customer is the identity collected by the payment modal. It follows the
// contact form rules minus the message.
type Customer struct {
	Name  string `json:"customerName"`
	Email string `json:"customerEmail"`
	Phone string `json:"customerPhone"`
}

// Errors validates every field. Valid fields map to "".
func (c Customer) Errors() map[string]string {
	return map[string]string{
		FieldCustomerName:  contact.ValidateField(contact.FieldName, c.Name),
		FieldCustomerEmail: contact.ValidateField(contact.FieldEmail, c.Email),
		FieldCustomerPhone: contact.ValidateField(contact.FieldPhone, c.Phone),
	}
}

// Validate returns a *ValidationError when any field is invalid.
func (c Customer) Validate() error {
	errs := c.Errors()
	for _, msg := range errs {
		if msg != "" {
			return &ValidationError{Fields: errs}
		}
	}
	return nil
}

func (c Customer) normalized() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
