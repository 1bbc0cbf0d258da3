// Package analysis generates case analyses: a victory prediction, cost and
// duration estimates, and an FIR draft. Generation uses Gemini when a client
// is configured and falls back to a deterministic heuristic otherwise, so
// the rest of the pipeline behaves the same either way.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/notification"
)

// ErrGenerationFailed is returned when no analysis could be produced.
var ErrGenerationFailed = errors.New("failed to generate analysis")

const generationTimeout = 2 * time.Minute

// Notifier is the subset of the notification service used here.
type Notifier interface {
	Notify(ctx context.Context, n *notification.Notification) error
}

// Service runs case analysis generation.
type Service struct {
	caseRepo legalcase.Repository
	notifier Notifier
	client   *genai.Client // nil means heuristic-only
	model    string
}

// NewService creates an analysis Service. client may be nil.
func NewService(caseRepo legalcase.Repository, notifier Notifier, client *genai.Client, model string) *Service {
	return &Service{
		caseRepo: caseRepo,
		notifier: notifier,
		client:   client,
		model:    model,
	}
}

// AnalyzeAsync starts analysis for the case in the background and returns
// immediately. Completion is reported through the notification feed, which is
// how the requesting client learns the result is ready.
func (s *Service) AnalyzeAsync(caseID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()

		if err := s.Analyze(ctx, caseID); err != nil {
			slog.Error("case analysis failed", "caseId", caseID, "error", err)
		}
	}()
}

// Analyze generates and stores an analysis for the case, moves it to the
// analyzed status, and notifies the owner.
func (s *Service) Analyze(ctx context.Context, caseID uuid.UUID) error {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return err
	}

	if err := s.caseRepo.UpdateStatus(ctx, caseID, legalcase.StatusAnalyzing); err != nil {
		return err
	}

	result := s.generate(ctx, c)
	result.CaseID = caseID

	if err := s.caseRepo.CreateAnalysis(ctx, result); err != nil {
		return err
	}
	if err := s.caseRepo.UpdateStatus(ctx, caseID, legalcase.StatusAnalyzed); err != nil {
		return err
	}

	actionURL := fmt.Sprintf("/cases/%s", caseID)
	err = s.notifier.Notify(ctx, &notification.Notification{
		UserID:    c.UserID,
		Type:      notification.TypeCaseAnalysis,
		Title:     "Case analysis ready",
		Message:   fmt.Sprintf("Analysis for %q has completed", c.Title),
		CaseID:    &caseID,
		ActionURL: &actionURL,
	})
	if err != nil {
		slog.Error("analysis notification failed", "caseId", caseID, "error", err)
	}

	slog.Info("case analysis completed", "caseId", caseID, "generatedBy", result.GeneratedBy)
	return nil
}

// generatedAnalysis is the JSON shape the model is asked to return.
type generatedAnalysis struct {
	VictoryLikelihood int    `json:"victoryLikelihood"`
	CostEstimate      string `json:"costEstimate"`
	DurationEstimate  string `json:"durationEstimate"`
	FIRDraft          string `json:"firDraft"`
}

func (s *Service) generate(ctx context.Context, c *legalcase.Case) *legalcase.Analysis {
	if s.client != nil {
		if a, err := s.generateWithGemini(ctx, c); err == nil {
			return a
		} else {
			slog.Warn("gemini generation failed, using heuristic", "caseId", c.ID, "error", err)
		}
	}
	return Heuristic(c)
}

func (s *Service) generateWithGemini(ctx context.Context, c *legalcase.Case) (*legalcase.Analysis, error) {
	prompt := fmt.Sprintf(`You are a legal analyst for Indian law. Analyze the case below and
respond with a single JSON object with fields: victoryLikelihood (integer
0-100), costEstimate (string, INR range), durationEstimate (string), and
firDraft (string, a complete First Information Report draft).

Category: %s
Title: %s
Description: %s`, c.Category, c.Title, c.Description)

	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var parsed generatedAnalysis
	if err := json.Unmarshal([]byte(extractJSON(text.String())), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing model output: %v", ErrGenerationFailed, err)
	}
	if parsed.VictoryLikelihood < 0 {
		parsed.VictoryLikelihood = 0
	}
	if parsed.VictoryLikelihood > 100 {
		parsed.VictoryLikelihood = 100
	}

	return &legalcase.Analysis{
		VictoryLikelihood: parsed.VictoryLikelihood,
		CostEstimate:      parsed.CostEstimate,
		DurationEstimate:  parsed.DurationEstimate,
		FIRDraft:          parsed.FIRDraft,
		GeneratedBy:       "gemini",
	}, nil
}

// extractJSON strips markdown fencing the model sometimes wraps around JSON.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
