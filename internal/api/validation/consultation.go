package validation

import (
	"strings"

	"github.com/google/uuid"
)

// ConsultationRequest mirrors the fields needed for consultation validation.
type ConsultationRequest struct {
	LawyerID string
	CaseID   string
	Message  string
}

// ValidateConsultationRequest validates the fields of a consultation request.
func ValidateConsultationRequest(req ConsultationRequest) []FieldError {
	var errs []FieldError

	if req.LawyerID == "" {
		errs = append(errs, FieldError{Field: "lawyerId", Message: "lawyerId is required"})
	} else if _, err := uuid.Parse(req.LawyerID); err != nil {
		errs = append(errs, FieldError{Field: "lawyerId", Message: "lawyerId must be a valid UUID"})
	}

	if req.CaseID != "" {
		if _, err := uuid.Parse(req.CaseID); err != nil {
			errs = append(errs, FieldError{Field: "caseId", Message: "caseId must be a valid UUID"})
		}
	}

	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	}

	return errs
}
