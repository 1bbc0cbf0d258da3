package validation

import (
	"net/mail"
	"strings"
)

// CredentialsRequest mirrors the fields needed for credential validation.
type CredentialsRequest struct {
	Email    string
	Password string
}

// ValidateCredentialsRequest validates a sign-in or sign-up request. The
// password policy itself (minimum length) lives in the auth service; this
// only rejects structurally unusable input.
func ValidateCredentialsRequest(req CredentialsRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}
