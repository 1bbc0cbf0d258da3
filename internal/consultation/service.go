package consultation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// ErrInvalidStatus is returned for an unknown target status.
var ErrInvalidStatus = fmt.Errorf("invalid consultation status")

// Notifier is the subset of the notification service used here.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Service provides consultation operations. Lawyer responses notify the
// requesting user; notification failures never fail the response itself.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates a consultation Service.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Request records a new consultation request.
func (s *Service) Request(ctx context.Context, userID, lawyerID uuid.UUID, caseID *uuid.UUID, message string) (*Consultation, error) {
	c := &Consultation{
		UserID:   userID,
		LawyerID: lawyerID,
		CaseID:   caseID,
		Message:  message,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("consultation requested", "consultationId", c.ID, "userId", userID, "lawyerId", lawyerID)
	return c, nil
}

// Respond records a lawyer's response and notifies the requesting user.
func (s *Service) Respond(ctx context.Context, id uuid.UUID, status string, responseText *string) (*Consultation, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Respond(ctx, id, status, responseText); err != nil {
		return nil, err
	}
	c.Status = status
	c.Response = responseText

	actionURL := "/dashboard"
	err = s.notifier.Notify(ctx, &notification.Notification{
		UserID:    c.UserID,
		Type:      notification.TypeLawyerResponse,
		Title:     "Lawyer responded",
		Message:   fmt.Sprintf("Your consultation request is now %s", status),
		CaseID:    c.CaseID,
		ActionURL: &actionURL,
	})
	if err != nil {
		slog.Error("lawyer response notification failed", "consultationId", c.ID, "error", err)
	}

	return c, nil
}
