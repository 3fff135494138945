package validation

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidatePassword checks a password can be hashed.
// Maximum length: 72 bytes (bcrypt limitation); bcrypt rejects longer input.
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required.Error("Missing password"),
		validation.By(func(interface{}) error {
			if len(password) > 72 {
				return validation.NewError("validation_password_too_long", "Password is too long")
			}
			return nil
		}),
	)
}
