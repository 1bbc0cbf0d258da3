package validation_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/validation"
)

func fields(errs []validation.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateCredentialsRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateCredentialsRequest(validation.CredentialsRequest{
		Email:    "user@example.com",
		Password: "password123",
	}))

	errs := validation.ValidateCredentialsRequest(validation.CredentialsRequest{})
	assert.ElementsMatch(t, []string{"email", "password"}, fields(errs))

	errs = validation.ValidateCredentialsRequest(validation.CredentialsRequest{
		Email:    "not-an-email",
		Password: "password123",
	})
	assert.Equal(t, []string{"email"}, fields(errs))
}

func TestValidateSubmitCaseRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateSubmitCaseRequest(validation.SubmitCaseRequest{
		Title:       "Tenant dispute",
		Description: "Landlord withheld the deposit",
		Category:    "property",
	}))

	errs := validation.ValidateSubmitCaseRequest(validation.SubmitCaseRequest{})
	assert.ElementsMatch(t, []string{"title", "description", "category"}, fields(errs))

	errs = validation.ValidateSubmitCaseRequest(validation.SubmitCaseRequest{
		Title:       strings.Repeat("x", 256),
		Description: "d",
		Category:    "property",
	})
	assert.Equal(t, []string{"title"}, fields(errs))
}

func TestValidateLawyerRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateLawyerRequest(validation.LawyerRequest{
		Name:           "Priya Sharma",
		Specialization: "family",
		ExperienceYrs:  10,
		Rating:         4.5,
		ContactEmail:   "priya@example.com",
	}))

	errs := validation.ValidateLawyerRequest(validation.LawyerRequest{
		ExperienceYrs: -1,
		Rating:        5.5,
		ContactEmail:  "nope",
	})
	assert.ElementsMatch(t,
		[]string{"name", "specialization", "experienceYears", "rating", "contactEmail"},
		fields(errs))
}

func TestValidateConsultationRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateConsultationRequest(validation.ConsultationRequest{
		LawyerID: uuid.NewString(),
		Message:  "Please review my case",
	}))

	errs := validation.ValidateConsultationRequest(validation.ConsultationRequest{
		LawyerID: "not-a-uuid",
		CaseID:   "also-not",
	})
	assert.ElementsMatch(t, []string{"lawyerId", "caseId", "message"}, fields(errs))
}
