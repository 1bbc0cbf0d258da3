package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/storage"
)

// Notifier is the subset of the notification service used here.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Service stores document blobs plus their metadata and notifies the case
// owner about uploads. The blob write happens before the metadata insert;
// a failed insert removes the orphaned blob.
type Service struct {
	repo     Repository
	blobs    storage.Storage
	notifier Notifier
}

// NewService creates a document Service.
func NewService(repo Repository, blobs storage.Storage, notifier Notifier) *Service {
	return &Service{repo: repo, blobs: blobs, notifier: notifier}
}

// Upload stores the blob and its metadata for the given case.
func (s *Service) Upload(ctx context.Context, caseID, userID uuid.UUID, filename string, size int64, data io.Reader) (*Document, error) {
	d := &Document{
		ID:        uuid.New(),
		CaseID:    caseID,
		UserID:    userID,
		Filename:  filename,
		SizeBytes: size,
	}

	path, err := s.blobs.Upload(ctx, d.ID, filename, data)
	if err != nil {
		return nil, fmt.Errorf("storing document blob: %w", err)
	}
	d.StoragePath = path

	if err := s.repo.Create(ctx, d); err != nil {
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			slog.Error("orphaned blob cleanup failed", "path", path, "error", delErr)
		}
		return nil, err
	}

	actionURL := fmt.Sprintf("/cases/%s", caseID)
	err = s.notifier.Notify(ctx, &notification.Notification{
		UserID:    userID,
		Type:      notification.TypeDocumentUpload,
		Title:     "Document uploaded",
		Message:   fmt.Sprintf("%q was attached to your case", filename),
		CaseID:    &caseID,
		ActionURL: &actionURL,
	})
	if err != nil {
		slog.Error("document upload notification failed", "documentId", d.ID, "error", err)
	}

	return d, nil
}

// Open returns the blob stream for a document. The caller closes it.
func (s *Service) Open(ctx context.Context, d *Document) (io.ReadCloser, error) {
	return s.blobs.Download(ctx, d.StoragePath)
}

// Delete removes the metadata and then the blob. A blob deletion failure is
// logged, not surfaced; the record is already gone and the blob is
// unreachable.
func (s *Service) Delete(ctx context.Context, d *Document) error {
	if err := s.repo.Delete(ctx, d.ID); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, d.StoragePath); err != nil {
		slog.Error("blob deletion failed", "documentId", d.ID, "path", d.StoragePath, "error", err)
	}
	return nil
}
