package fuzzy

import (
	"fmt"
	"sort"
	"strings"
)

// Operator combines the degrees of a rule's antecedent terms.
type Operator int

const (
	And Operator = iota // minimum of term degrees
	Or                  // maximum of term degrees
)

func (op Operator) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// Term names one antecedent condition: variable IS set.
type Term struct {
	Variable string
	Set      string
}

// Rule is a weighted IF-THEN rule: an antecedent of terms joined by a single
// operator, and a consequent assigning one set per output variable. Rules are
// immutable once added to a System.
type Rule struct {
	terms      []Term
	op         Operator
	consequent map[string]string // output variable -> set
	weight     float64
}

// FiringStrength combines the fuzzified degrees of the antecedent terms and
// applies the rule weight. A term whose variable or set is absent from the
// inputs contributes a degree of 0.0 rather than failing, so rules may
// reference variables not present in a given evaluation. A rule with no terms
// never fires.
func (r *Rule) FiringStrength(fuzzified map[string]map[string]float64) float64 {
	if len(r.terms) == 0 {
		return 0
	}

	strength := 0.0
	for i, term := range r.terms {
		degree := fuzzified[term.Variable][term.Set] // missing keys read as 0
		if i == 0 {
			strength = degree
			continue
		}
		switch r.op {
		case And:
			if degree < strength {
				strength = degree
			}
		case Or:
			if degree > strength {
				strength = degree
			}
		}
	}
	return strength * r.weight
}

// Evaluate returns, for every output variable the rule targets, the firing
// strength attributed to its consequent set.
func (r *Rule) Evaluate(fuzzified map[string]map[string]float64) map[string]map[string]float64 {
	strength := r.FiringStrength(fuzzified)
	out := make(map[string]map[string]float64, len(r.consequent))
	for outVar, outSet := range r.consequent {
		out[outVar] = map[string]float64{outSet: strength}
	}
	return out
}

// Weight returns the rule's scalar weight.
func (r *Rule) Weight() float64 { return r.weight }

// String renders the rule as "IF x IS a AND y IS b THEN z IS c".
func (r *Rule) String() string {
	parts := make([]string, len(r.terms))
	for i, t := range r.terms {
		parts[i] = t.Variable + " IS " + t.Set
	}

	outVars := make([]string, 0, len(r.consequent))
	for v := range r.consequent {
		outVars = append(outVars, v)
	}
	sort.Strings(outVars)
	cons := make([]string, len(outVars))
	for i, v := range outVars {
		cons[i] = v + " IS " + r.consequent[v]
	}

	return "IF " + strings.Join(parts, " "+r.op.String()+" ") + " THEN " + strings.Join(cons, " AND ")
}
