package scoring

import (
	"fmt"

	"github.com/citypulse-app/curator/internal/fuzzy"
)

// Fuzzy variable names shared between the adapter and its callers.
const (
	InputInterest  = "interest_match"
	InputProximity = "location_proximity"
	InputOverlap   = "time_overlap"
	InputBudget    = "budget_alignment"

	OutputRecommendation = "recommendation"
)

// NewEventSystem builds the fixed inference configuration for event scoring:
// four inputs and one output over 0-100, three linguistic sets per variable,
// and a ten-rule base with high/low symmetry. This is configuration only; all
// algorithmic machinery lives in the fuzzy package.
func NewEventSystem() (*fuzzy.System, error) {
	s := fuzzy.New()

	interest := s.AddInput(InputInterest, 0, 100)
	if err := addSets(interest,
		setSpec{"low", 0, 0, 40},
		setSpec{"medium", 20, 50, 80},
		setSpec{"high", 60, 100, 100},
	); err != nil {
		return nil, err
	}

	proximity := s.AddInput(InputProximity, 0, 100)
	if err := addSets(proximity,
		setSpec{"far", 0, 0, 40},
		setSpec{"moderate", 20, 50, 80},
		setSpec{"near", 60, 100, 100},
	); err != nil {
		return nil, err
	}

	overlap := s.AddInput(InputOverlap, 0, 100)
	if err := addSets(overlap,
		setSpec{"no_overlap", 0, 0, 30},
		setSpec{"partial", 20, 50, 80},
		setSpec{"complete", 70, 100, 100},
	); err != nil {
		return nil, err
	}

	budget := s.AddInput(InputBudget, 0, 100)
	if err := addSets(budget,
		setSpec{"over_budget", 0, 0, 30},
		setSpec{"at_limit", 20, 50, 80},
		setSpec{"within_budget", 70, 100, 100},
	); err != nil {
		return nil, err
	}

	recommendation := s.AddOutput(OutputRecommendation, 0, 100)
	if err := addSets(recommendation,
		setSpec{"low", 0, 15, 30},
		setSpec{"medium", 20, 45, 70},
		setSpec{"high", 60, 80, 100},
	); err != nil {
		return nil, err
	}

	if err := addEventRules(s); err != nil {
		return nil, err
	}
	return s, nil
}

type setSpec struct {
	name    string
	a, b, c float64
}

func addSets(v *fuzzy.Variable, specs ...setSpec) error {
	for _, spec := range specs {
		if err := v.AddSet(spec.name, fuzzy.ShapeTriangular, spec.a, spec.b, spec.c); err != nil {
			return fmt.Errorf("variable %s: %w", v.Name(), err)
		}
	}
	return nil
}

func addEventRules(s *fuzzy.System) error {
	rules := []struct {
		terms []fuzzy.Term
		op    fuzzy.Operator
		out   string
	}{
		// The best combinations recommend strongly.
		{allOf("high", "near", "complete", "within_budget"), fuzzy.And, "high"},
		{allOf("high", "near", "complete", "at_limit"), fuzzy.And, "high"},
		{allOf("high", "near", "partial", "within_budget"), fuzzy.And, "high"},
		{allOf("medium", "near", "complete", "within_budget"), fuzzy.And, "high"},

		// Balanced combinations land in the middle.
		{allOf("high", "moderate", "partial", "within_budget"), fuzzy.And, "medium"},
		{allOf("medium", "moderate", "partial", "at_limit"), fuzzy.And, "medium"},
		{allOf("medium", "moderate", "partial", "within_budget"), fuzzy.And, "medium"},

		// Any single disqualifier pulls the recommendation down.
		{[]fuzzy.Term{{Variable: InputInterest, Set: "low"}}, fuzzy.Or, "low"},
		{[]fuzzy.Term{{Variable: InputOverlap, Set: "no_overlap"}}, fuzzy.Or, "low"},
		{[]fuzzy.Term{{Variable: InputBudget, Set: "over_budget"}}, fuzzy.Or, "low"},
	}

	for _, r := range rules {
		if _, err := s.AddRule(r.terms, r.op, map[string]string{OutputRecommendation: r.out}); err != nil {
			return fmt.Errorf("event rule base: %w", err)
		}
	}
	return nil
}

// allOf builds the common four-term antecedent in input declaration order.
func allOf(interest, proximity, overlap, budget string) []fuzzy.Term {
	return []fuzzy.Term{
		{Variable: InputInterest, Set: interest},
		{Variable: InputProximity, Set: proximity},
		{Variable: InputOverlap, Set: overlap},
		{Variable: InputBudget, Set: budget},
	}
}
