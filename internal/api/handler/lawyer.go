package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/validation"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/lawyer"
)

type lawyerRequest struct {
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	ExperienceYrs  int     `json:"experienceYears"`
	Location       string  `json:"location"`
	Rating         float64 `json:"rating"`
	ContactEmail   string  `json:"contactEmail"`
}

type lawyerResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	ExperienceYrs  int     `json:"experienceYears"`
	Location       string  `json:"location"`
	Rating         float64 `json:"rating"`
	ContactEmail   string  `json:"contactEmail"`
	CreatedAt      string  `json:"createdAt"`
}

// LawyerHandler handles the public lawyer directory and its admin management.
type LawyerHandler struct {
	repo lawyer.Repository
}

// NewLawyerHandler creates a new LawyerHandler.
func NewLawyerHandler(repo lawyer.Repository) *LawyerHandler {
	return &LawyerHandler{repo: repo}
}

// List handles GET /api/lawyers.
func (h *LawyerHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	lawyers, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("listing lawyers failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load lawyers", requestID)
		return
	}

	out := make([]lawyerResponse, 0, len(lawyers))
	for i := range lawyers {
		out = append(out, newLawyerResponse(&lawyers[i]))
	}
	response.Success(w, http.StatusOK, out, requestID)
}

// GetByID handles GET /api/lawyers/{id}.
func (h *LawyerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Lawyer ID must be a valid UUID", requestID)
		return
	}

	l, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeLawyerError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, newLawyerResponse(l), requestID)
}

// Create handles POST /api/admin/lawyers.
func (h *LawyerHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := h.decodeLawyer(w, r, requestID)
	if !ok {
		return
	}

	l := &lawyer.Lawyer{
		Name:           req.Name,
		Specialization: req.Specialization,
		ExperienceYrs:  req.ExperienceYrs,
		Location:       req.Location,
		Rating:         req.Rating,
		ContactEmail:   req.ContactEmail,
	}
	if err := h.repo.Create(r.Context(), l); err != nil {
		slog.Error("creating lawyer failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lawyer", requestID)
		return
	}

	response.Success(w, http.StatusCreated, newLawyerResponse(l), requestID)
}

// Update handles PUT /api/admin/lawyers/{id}.
func (h *LawyerHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Lawyer ID must be a valid UUID", requestID)
		return
	}

	req, ok := h.decodeLawyer(w, r, requestID)
	if !ok {
		return
	}

	l := &lawyer.Lawyer{
		ID:             id,
		Name:           req.Name,
		Specialization: req.Specialization,
		ExperienceYrs:  req.ExperienceYrs,
		Location:       req.Location,
		Rating:         req.Rating,
		ContactEmail:   req.ContactEmail,
	}
	if err := h.repo.Update(r.Context(), l); err != nil {
		h.writeLawyerError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, newLawyerResponse(l), requestID)
}

// Delete handles DELETE /api/admin/lawyers/{id}.
func (h *LawyerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Lawyer ID must be a valid UUID", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeLawyerError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

func (h *LawyerHandler) decodeLawyer(w http.ResponseWriter, r *http.Request, requestID string) (lawyerRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req lawyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return req, false
	}

	fieldErrors := validation.ValidateLawyerRequest(validation.LawyerRequest{
		Name:           req.Name,
		Specialization: req.Specialization,
		ExperienceYrs:  req.ExperienceYrs,
		Rating:         req.Rating,
		ContactEmail:   req.ContactEmail,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return req, false
	}

	return req, true
}

func (h *LawyerHandler) writeLawyerError(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, lawyer.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Lawyer not found", requestID)
		return
	}
	slog.Error("lawyer operation failed", "error", err, "requestId", requestID)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Lawyer operation failed", requestID)
}

func newLawyerResponse(l *lawyer.Lawyer) lawyerResponse {
	return lawyerResponse{
		ID:             l.ID.String(),
		Name:           l.Name,
		Specialization: l.Specialization,
		ExperienceYrs:  l.ExperienceYrs,
		Location:       l.Location,
		Rating:         l.Rating,
		ContactEmail:   l.ContactEmail,
		CreatedAt:      l.CreatedAt.UTC().Format(time.RFC3339),
	}
}
