package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/analysis"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/response"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/validation"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
)

type submitCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type caseResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type analysisResponse struct {
	ID                string `json:"id"`
	CaseID            string `json:"caseId"`
	VictoryLikelihood int    `json:"victoryLikelihood"`
	CostEstimate      string `json:"costEstimate"`
	DurationEstimate  string `json:"durationEstimate"`
	FIRDraft          string `json:"firDraft"`
	GeneratedBy       string `json:"generatedBy"`
	CreatedAt         string `json:"createdAt"`
}

// CaseHandler handles case submission, browsing, analysis, and the admin
// case overview.
type CaseHandler struct {
	service  *legalcase.Service
	repo     legalcase.Repository
	analyzer *analysis.Service
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(service *legalcase.Service, repo legalcase.Repository, analyzer *analysis.Service) *CaseHandler {
	return &CaseHandler{service: service, repo: repo, analyzer: analyzer}
}

// Submit handles POST /api/cases. Analysis starts in the background; the
// caller learns about completion through the notification feed.
func (h *CaseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req submitCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSubmitCaseRequest(validation.SubmitCaseRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c, err := h.service.Submit(r.Context(), state.Identity.ID, req.Title, req.Description, req.Category)
	if err != nil {
		slog.Error("case submission failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit case", requestID)
		return
	}

	h.analyzer.AnalyzeAsync(c.ID)

	response.Success(w, http.StatusCreated, newCaseResponse(c), requestID)
}

// ListMine handles GET /api/cases.
func (h *CaseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	cases, err := h.repo.ListByUser(r.Context(), state.Identity.ID)
	if err != nil {
		slog.Error("listing cases failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load cases", requestID)
		return
	}

	response.Success(w, http.StatusOK, newCaseResponses(cases), requestID)
}

// GetByID handles GET /api/cases/{id}. Owners see their own cases; admins
// see any case.
func (h *CaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	c, ok := h.loadAuthorized(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, newCaseResponse(c), requestID)
}

// Analyze handles POST /api/cases/{id}/analyze: re-runs analysis on demand.
func (h *CaseHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	c, ok := h.loadAuthorized(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	h.analyzer.AnalyzeAsync(c.ID)

	response.Success(w, http.StatusAccepted, map[string]string{"status": "analysis_started"}, requestID)
}

// GetAnalysis handles GET /api/cases/{id}/analysis.
func (h *CaseHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state := middleware.GetSessionState(r.Context())

	c, ok := h.loadAuthorized(w, r, state.Identity.ID, state.IsAdmin, requestID)
	if !ok {
		return
	}

	a, err := h.repo.GetAnalysisByCase(r.Context(), c.ID)
	if err != nil {
		if errors.Is(err, legalcase.ErrAnalysisNotFound) {
			response.Err(w, http.StatusNotFound, "ANALYSIS_PENDING", "Analysis has not completed yet", requestID)
			return
		}
		slog.Error("loading analysis failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analysis", requestID)
		return
	}

	response.Success(w, http.StatusOK, analysisResponse{
		ID:                a.ID.String(),
		CaseID:            a.CaseID.String(),
		VictoryLikelihood: a.VictoryLikelihood,
		CostEstimate:      a.CostEstimate,
		DurationEstimate:  a.DurationEstimate,
		FIRDraft:          a.FIRDraft,
		GeneratedBy:       a.GeneratedBy,
		CreatedAt:         a.CreatedAt.UTC().Format(time.RFC3339),
	}, requestID)
}

// ListAll handles GET /api/admin/cases.
func (h *CaseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	cases, err := h.repo.ListAll(r.Context())
	if err != nil {
		slog.Error("listing all cases failed", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load cases", requestID)
		return
	}

	response.Success(w, http.StatusOK, newCaseResponses(cases), requestID)
}

// UpdateStatus handles PATCH /api/admin/cases/{id}/status.
func (h *CaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Case ID must be a valid UUID", requestID)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	c, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, legalcase.ErrInvalidStatus):
			response.Err(w, http.StatusBadRequest, "INVALID_STATUS", "Unknown case status", requestID)
		case errors.Is(err, legalcase.ErrNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Case not found", requestID)
		default:
			slog.Error("case status update failed", "error", err, "requestId", requestID)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update case", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, newCaseResponse(c), requestID)
}

// loadAuthorized fetches the case in the URL and enforces owner-or-admin
// access. Unauthorized access reads as not-found so case IDs are not
// probeable.
func (h *CaseHandler) loadAuthorized(w http.ResponseWriter, r *http.Request, userID uuid.UUID, isAdmin bool, requestID string) (*legalcase.Case, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "Case ID must be a valid UUID", requestID)
		return nil, false
	}

	c, err := h.repo.GetByID(r.Context(), id)
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

func newCaseResponse(c *legalcase.Case) caseResponse {
	return caseResponse{
		ID:          c.ID.String(),
		UserID:      c.UserID.String(),
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newCaseResponses(cases []legalcase.Case) []caseResponse {
	out := make([]caseResponse, 0, len(cases))
	for i := range cases {
		out = append(out, newCaseResponse(&cases[i]))
	}
	return out
}
