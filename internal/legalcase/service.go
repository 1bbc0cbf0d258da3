package legalcase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// ErrInvalidStatus is returned for an unknown target status.
var ErrInvalidStatus = fmt.Errorf("invalid case status")

// Notifier is the subset of the notification service the case service uses.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Service provides case lifecycle operations. Status transitions notify the
// case owner; notification failures never fail the transition itself.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates a case Service.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Submit records a new case for the user.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, title, description, category string) (*Case, error) {
	c := &Case{
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("case submitted", "caseId", c.ID, "userId", userID, "category", category)
	return c, nil
}

// UpdateStatus moves a case to the given status and notifies the owner.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Case, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status

	actionURL := fmt.Sprintf("/cases/%s", c.ID)
	err = s.notifier.Notify(ctx, &notification.Notification{
		UserID:    c.UserID,
		Type:      notification.TypeStatusChange,
		Title:     "Case status updated",
		Message:   fmt.Sprintf("%q is now %s", c.Title, status),
		CaseID:    &c.ID,
		ActionURL: &actionURL,
	})
	if err != nil {
		slog.Error("status change notification failed", "caseId", c.ID, "error", err)
	}

	return c, nil
}
