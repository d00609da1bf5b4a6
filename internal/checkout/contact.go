package checkout

import (
	"regexp"
	"strings"

	pkgerrors "github.com/juvshop/juv-backend/pkg/errors"
)

// Contact carries the checkout form fields.
type Contact struct {
	Email string
	Phone string
}

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// validateContact returns a field-keyed validation error, or nil. No store
// access happens before this passes.
func validateContact(contact Contact) error {
	fields := map[string]string{}

	email := strings.TrimSpace(contact.Email)
	if email == "" {
		fields["email"] = "is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "must be a valid email"
	}

	phone := strings.TrimSpace(contact.Phone)
	if phone == "" {
		fields["phone"] = "is required"
	} else if !phonePattern.MatchString(phone) {
		fields["phone"] = "must be a valid phone number"
	}

	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}
	return nil
}
