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
	"github.com/ramakrishnanyadav/legalaid-backend/internal/consultation"
)

type consultationRequest struct {
	LawyerID string `json:"lawyerId"`
	CaseID   string `json:"caseId"`
	Message  string `json:"message"`
}

type respondRequest struct {
	Status   string  `json:"status"`
	Response *string `json:"response"`
}

type consultationResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	LawyerID  string  `json:"lawyerId"`
	CaseID    *string `json:"caseId,omitempty"`
	Message   string  `json:"message"`
	Status    string  `json:"status"`
	Response  *string `json:"response,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// ConsultationHandler handles consultation requests and their admin review.
type ConsultationHandler struct {
	service *consultation.Service
	repo    consultation.Repository
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(service *consultation.Service, repo consultation.Repository) *ConsultationHandler {
	return &ConsultationHandler{service: service, repo: repo}
}

// Create handles POST /api/consultations.
func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req consultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateConsultationRequest(validation.ConsultationRequest{
		LawyerID: req.LawyerID,
		CaseID:   req.CaseID,
		Message:  req.Message,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	lawyerID, _ := uuid.Parse(req.LawyerID)
	var caseID *uuid.UUID
	if req.CaseID != "" {
		id, _ := uuid.Parse(req.CaseID)
		caseID = &id
	}

	c, err := h.service.Request(r.Context(), state.Identity.ID, lawyerID, caseID, req.Message)
	if err != nil {
		slog.Error("consultation request failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to request consultation", requestID)
		return
	}

	response.Success(w, http.StatusCreated, newConsultationResponse(c), requestID)
}

// ListMine handles GET /api/consultations.
func (h *ConsultationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	consultations, err := h.repo.ListByUser(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("listing consultations failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load consultations", requestID)
		return
	}

	response.Success(w, http.StatusOK, newConsultationResponses(consultations), requestID)
}

// ListAll handles GET /api/admin/consultations.
func (h *ConsultationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	consultations, err := h.repo.ListAll(r.Context())
	if err != nil {
		slog.Error("listing all consultations failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load consultations", requestID)
		return
	}

	response.Success(w, http.StatusOK, newConsultationResponses(consultations), requestID)
}

// Respond handles PATCH /api/admin/consultations/{id}: records the lawyer
// outcome, notifying the requesting user through their feed.
func (h *ConsultationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Consultation ID must be a valid UUID", requestID)
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	c, err := h.service.Respond(r.Context(), id, req.Status, req.Response)
	if err != nil {
		switch {
		case errors.Is(err, consultation.ErrInvalidStatus):
			response.Err(w, http.StatusBadRequest, "INVALID_STATUS", "Unknown consultation status", requestID)
		case errors.Is(err, consultation.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Consultation not found", requestID)
		default:
			slog.Error("consultation response failed", "error", err, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update consultation", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, newConsultationResponse(c), requestID)
}

func newConsultationResponse(c *consultation.Consultation) consultationResponse {
	resp := consultationResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		LawyerID:  c.LawyerID.String(),
		Message:   c.Message,
		Status:    c.Status,
		Response:  c.Response,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.CaseID != nil {
		s := c.CaseID.String()
		resp.CaseID = &s
	}
	return resp
}

func newConsultationResponses(consultations []consultation.Consultation) []consultationResponse {
	out := make([]consultationResponse, 0, len(consultations))
	for i := range consultations {
		out = append(out, newConsultationResponse(&consultations[i]))
	}
	return out
}
