package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/analysis"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
)

func sampleCase(category, description string) *legalcase.Case {
	return &legalcase.Case{
		Title:       "Deposit withheld",
		Category:    category,
		Description: description,
	}
}

func TestHeuristicIsDeterministic(t *testing.T) {
	c := sampleCase("property", "The landlord kept the deposit without cause")

	first := analysis.Heuristic(c)
	second := analysis.Heuristic(c)
	assert.Equal(t, first, second)
}

func TestHeuristicLikelihoodStaysInRange(t *testing.T) {
	descriptions := []string{
		"short",
		strings.Repeat("a long and winding account of events ", 50),
		"",
	}
	categories := []string{"property", "criminal", "family", "consumer", "unknown-category"}

	for _, cat := range categories {
		for _, desc := range descriptions {
			a := analysis.Heuristic(sampleCase(cat, desc))
			assert.GreaterOrEqual(t, a.VictoryLikelihood, 5)
			assert.LessOrEqual(t, a.VictoryLikelihood, 95)
		}
	}
}

func TestHeuristicCategoryShapesEstimates(t *testing.T) {
	criminal := analysis.Heuristic(sampleCase("criminal", "assault complaint"))
	civil := analysis.Heuristic(sampleCase("consumer", "defective appliance"))

	assert.NotEqual(t, criminal.CostEstimate, civil.CostEstimate)
	assert.NotEqual(t, criminal.DurationEstimate, civil.DurationEstimate)
}

func TestHeuristicFIRDraftMentionsCase(t *testing.T) {
	c := sampleCase("family", "custody disagreement after separation")

	a := analysis.Heuristic(c)
	require.NotEmpty(t, a.FIRDraft)
	assert.Contains(t, a.FIRDraft, c.Title)
	assert.Contains(t, a.FIRDraft, c.Description)
	assert.Equal(t, "heuristic", a.GeneratedBy)
}
