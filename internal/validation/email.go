package validation

import (
	"errors"
	"net/mail"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateEmail validates email presence, format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	return validation.Validate(email,
		validation.Required.Error("Missing email"),
		// RFC 5321: total max 254 with @
		validation.Length(0, 254).Error("Invalid email"),
		validation.By(parseAddress),
	)
}

func parseAddress(value interface{}) error {
	email, _ := value.(string)
	addr, err := mail.ParseAddress(email)
	// Reject display-name forms such as "Bob <bob@example.com>"
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return errors.New("Invalid email")
	}
	return nil
}
