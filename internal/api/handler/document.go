package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/document"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
)

const maxDocumentSize = 20 << 20 // 20 MiB

type documentResponse struct {
	ID        string `json:"id"`
	CaseID    string `json:"caseId"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"sizeBytes"`
	CreatedAt string `json:"createdAt"`
}

// DocumentHandler handles case document upload, listing, download and
// deletion. All routes are nested under a case the caller can access.
type DocumentHandler struct {
	service  *document.Service
	repo     document.Repository
	caseRepo legalcase.Repository
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service *document.Service, repo document.Repository, caseRepo legalcase.Repository) *DocumentHandler {
	return &DocumentHandler{service: service, repo: repo, caseRepo: caseRepo}
}

// Upload handles POST /api/cases/{id}/documents (multipart, field "file").
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	c, ok := h.loadCase(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_UPLOAD", "Request must include a file field", requestID)
		return
	}
	defer file.Close()

	d, err := h.service.Upload(r.Context(), c.ID, state.Identity.ID, header.Filename, header.Size, file)
	if err != nil {
		slog.Error("document upload failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store document", requestID)
		return
	}

	response.Success(w, http.StatusCreated, newDocumentResponse(d), requestID)
}

// List handles GET /api/cases/{id}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	c, ok := h.loadCase(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	docs, err := h.repo.ListByCase(r.Context(), c.ID)
	if err != nil {
		slog.Error("listing documents failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load documents", requestID)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, newDocumentResponse(&docs[i]))
	}
	response.Success(w, http.StatusOK, out, requestID)
}

// Download handles GET /api/cases/{id}/documents/{docId}.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	d, ok := h.loadDocument(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	stream, err := h.service.Open(r.Context(), d)
	if err != nil {
		slog.Error("document download failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read document", requestID)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, stream); err != nil {
		slog.Error("streaming document failed", "error", err, "requestId", requestID)
	}
}

// Delete handles DELETE /api/cases/{id}/documents/{docId}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	d, ok := h.loadDocument(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), d); err != nil {
		slog.Error("document deletion failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete document", requestID)
		return
	}

	response.NoContent(w)
}

func (h *DocumentHandler) loadCase(w http.ResponseWriter, r *http.Request, userID uuid.UUID, isAdmin bool, requestID string) (*legalcase.Case, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Case ID must be a valid UUID", requestID)
		return nil, false
	}

	c, err := h.caseRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, legalcase.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Case not found", requestID)
			return nil, false
		}
		slog.Error("loading case failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load case", requestID)
		return nil, false
	}

	if c.UserID != userID && !isAdmin {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Case not found", requestID)
		return nil, false
	}

	return c, true
}

func (h *DocumentHandler) loadDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID, isAdmin bool, requestID string) (*document.Document, bool) {
	c, ok := h.loadCase(w, r, userID, isAdmin, requestID)
	if !ok {
		return nil, false
	}

	docID, err := uuid.Parse(chi.URLParam(r, "docId"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Document ID must be a valid UUID", requestID)
		return nil, false
	}

	d, err := h.repo.GetByID(r.Context(), docID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Document not found", requestID)
			return nil, false
		}
		slog.Error("loading document failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load document", requestID)
		return nil, false
	}

	if d.CaseID != c.ID {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Document not found", requestID)
		return nil, false
	}

	return d, true
}

func newDocumentResponse(d *document.Document) documentResponse {
	return documentResponse{
		ID:        d.ID.String(),
		CaseID:    d.CaseID.String(),
		Filename:  d.Filename,
		SizeBytes: d.SizeBytes,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
