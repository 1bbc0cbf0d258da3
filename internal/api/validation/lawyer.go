package validation

import (
	"net/mail"
	"strings"
)

// LawyerRequest mirrors the fields needed for lawyer create/update validation.
type LawyerRequest struct {
	Name           string
	Specialization string
	ExperienceYrs  int
	Rating         float64
	ContactEmail   string
}

// ValidateLawyerRequest validates the fields of a lawyer create or update.
func ValidateLawyerRequest(req LawyerRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	if strings.TrimSpace(req.Specialization) == "" {
		errs = append(errs, FieldError{Field: "specialization", Message: "specialization is required"})
	}

	if req.ExperienceYrs < 0 {
		errs = append(errs, FieldError{Field: "experienceYears", Message: "experienceYears must not be negative"})
	}

	if req.Rating < 0 || req.Rating > 5 {
		errs = append(errs, FieldError{Field: "rating", Message: "rating must be between 0 and 5"})
	}

	if req.ContactEmail != "" {
		if _, err := mail.ParseAddress(req.ContactEmail); err != nil {
			errs = append(errs, FieldError{Field: "contactEmail", Message: "contactEmail must be a valid address"})
		}
	}

	return errs
}
