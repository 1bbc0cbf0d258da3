package validation

import "strings"

// SubmitCaseRequest mirrors the fields needed for case submission validation.
type SubmitCaseRequest struct {
	Title       string
	Description string
	Category    string
}

// ValidateSubmitCaseRequest validates the fields of a case submission.
func ValidateSubmitCaseRequest(req SubmitCaseRequest) []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	}

	if strings.TrimSpace(req.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}

	return errs
}
