package analysis

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/legalcase"
)

// categoryBaseline maps case categories to a baseline victory likelihood.
var categoryBaseline = map[string]int{
	"property":   55,
	"criminal":   40,
	"family":     60,
	"consumer":   70,
	"employment": 65,
	"civil":      50,
}

// Heuristic produces a deterministic analysis from the case contents alone.
// Used when no Gemini client is configured and as the fallback when
// generation fails, so submitting a case always yields an analysis.
func Heuristic(c *legalcase.Case) *legalcase.Analysis {
	base, ok := categoryBaseline[strings.ToLower(c.Category)]
	if !ok {
		base = 50
	}

	// Longer descriptions give the analyst more to work with; nudge the
	// likelihood deterministically within a small band.
	h := fnv.New32a()
	h.Write([]byte(c.Description))
	nudge := int(h.Sum32()%21) - 10

	likelihood := base + nudge
	if likelihood < 5 {
		likelihood = 5
	}
	if likelihood > 95 {
		likelihood = 95
	}

	cost := "INR 25,000 - 75,000"
	duration := "6-12 months"
	if strings.ToLower(c.Category) == "criminal" {
		cost = "INR 50,000 - 2,00,000"
		duration = "1-3 years"
	}

	fir := fmt.Sprintf(`FIRST INFORMATION REPORT (DRAFT)

To: The Officer In-Charge

Subject: %s

1. Complainant: [name and address of complainant]
2. Nature of complaint: %s matter.
3. Statement of facts:
%s

4. The complainant requests that the above be registered and investigated
   in accordance with law.

Date: [date]                         Signature: [complainant]`,
		c.Title, c.Category, c.Description)

	return &legalcase.Analysis{
		VictoryLikelihood: likelihood,
		CostEstimate:      cost,
		DurationEstimate:  duration,
		FIRDraft:          fir,
		GeneratedBy:       "heuristic",
	}
}
