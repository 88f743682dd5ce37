package fuzzy

import "fmt"

// System is a Mamdani fuzzy inference system: input and output variables plus
// a weighted rule base. Build the model fully before the first Evaluate call;
// once built it is read-only, and Evaluate is a pure function that is safe to
// call concurrently.
type System struct {
	inputs  map[string]*Variable
	outputs map[string]*Variable
	rules   []*Rule
}

// New returns an empty system.
func New() *System {
	return &System{
		inputs:  make(map[string]*Variable),
		outputs: make(map[string]*Variable),
	}
}

// AddInput declares an input variable over [min, max] at the default universe
// resolution and returns it so sets can be attached.
func (s *System) AddInput(name string, min, max float64) *Variable {
	v := NewVariable(name, min, max, DefaultUniversePoints)
	s.inputs[name] = v
	return v
}

// AddOutput declares an output variable over [min, max] at the default
// universe resolution and returns it so sets can be attached.
func (s *System) AddOutput(name string, min, max float64) *Variable {
	v := NewVariable(name, min, max, DefaultUniversePoints)
	s.outputs[name] = v
	return v
}

// Input returns the named input variable, if declared.
func (s *System) Input(name string) (*Variable, bool) {
	v, ok := s.inputs[name]
	return v, ok
}

// Output returns the named output variable, if declared.
func (s *System) Output(name string) (*Variable, bool) {
	v, ok := s.outputs[name]
	return v, ok
}

// InputVariables returns the declared input variables.
func (s *System) InputVariables() []*Variable {
	out := make([]*Variable, 0, len(s.inputs))
	for _, v := range s.inputs {
		out = append(out, v)
	}
	return out
}

// OutputVariables returns the declared output variables.
func (s *System) OutputVariables() []*Variable {
	out := make([]*Variable, 0, len(s.outputs))
	for _, v := range s.outputs {
		out = append(out, v)
	}
	return out
}

// Rules returns the rule base in insertion order.
func (s *System) Rules() []*Rule { return s.rules }

// AddRule appends a rule with the default weight of 1.0.
func (s *System) AddRule(terms []Term, op Operator, consequent map[string]string) (*Rule, error) {
	return s.AddWeightedRule(terms, op, consequent, 1.0)
}

// AddWeightedRule appends a rule to the rule base. The operator, weight and
// every consequent reference are validated here so that Evaluate never has to
// fail at inference time.
func (s *System) AddWeightedRule(terms []Term, op Operator, consequent map[string]string, weight float64) (*Rule, error) {
	if op != And && op != Or {
		return nil, fmt.Errorf("add rule: %w: %s", ErrUnknownOperator, op)
	}
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("add rule: %w: %v", ErrInvalidWeight, weight)
	}
	for outVar, outSet := range consequent {
		v, ok := s.outputs[outVar]
		if !ok {
			return nil, fmt.Errorf("add rule: %w: %q", ErrUnknownOutput, outVar)
		}
		if _, ok := v.Set(outSet); !ok {
			return nil, fmt.Errorf("add rule: %w: %q has no set %q", ErrUnknownOutput, outVar, outSet)
		}
	}

	cons := make(map[string]string, len(consequent))
	for k, v := range consequent {
		cons[k] = v
	}
	rule := &Rule{
		terms:      append([]Term(nil), terms...),
		op:         op,
		consequent: cons,
		weight:     weight,
	}
	s.rules = append(s.rules, rule)
	return rule, nil
}

// Evaluate runs the full inference pipeline for one set of crisp inputs:
// fuzzification, rule evaluation with max-aggregation per output set,
// implication by truncation, and centroid defuzzification. Inputs naming an
// undeclared variable are ignored; an output for which no rule fired yields
// the midpoint of its universe.
func (s *System) Evaluate(inputs map[string]float64) map[string]float64 {
	fuzzified := s.fuzzify(inputs)
	strengths := s.aggregateStrengths(fuzzified)

	out := make(map[string]float64, len(s.outputs))
	for name, v := range s.outputs {
		curve := aggregateCurve(v, strengths[name])
		out[name] = centroid(v, curve)
	}
	return out
}

// AggregatedCurve returns the merged, truncated output membership curve that
// defuzzification would integrate for the named output, letting callers render
// the inference result without re-implementing the pipeline.
func (s *System) AggregatedCurve(output string, inputs map[string]float64) ([]float64, bool) {
	v, ok := s.outputs[output]
	if !ok {
		return nil, false
	}
	strengths := s.aggregateStrengths(s.fuzzify(inputs))
	return aggregateCurve(v, strengths[output]), true
}

func (s *System) fuzzify(inputs map[string]float64) map[string]map[string]float64 {
	fuzzified := make(map[string]map[string]float64, len(inputs))
	for name, x := range inputs {
		if v, ok := s.inputs[name]; ok {
			fuzzified[name] = v.Fuzzify(x)
		}
	}
	return fuzzified
}

// aggregateStrengths folds every rule's firing strength into a per-output,
// per-set maximum. Sets never mentioned by a firing rule stay at 0.
func (s *System) aggregateStrengths(fuzzified map[string]map[string]float64) map[string]map[string]float64 {
	agg := make(map[string]map[string]float64, len(s.outputs))
	for name, v := range s.outputs {
		strengths := make(map[string]float64, len(v.sets))
		for setName := range v.sets {
			strengths[setName] = 0
		}
		agg[name] = strengths
	}

	for _, rule := range s.rules {
		for outVar, outSets := range rule.Evaluate(fuzzified) {
			existing, ok := agg[outVar]
			if !ok {
				continue
			}
			for setName, strength := range outSets {
				if strength > existing[setName] {
					existing[setName] = strength
				}
			}
		}
	}
	return agg
}

// aggregateCurve truncates each output set's curve at its aggregated firing
// strength and merges the truncated curves by pointwise maximum.
func aggregateCurve(v *Variable, strengths map[string]float64) []float64 {
	curve := make([]float64, len(v.universe))
	for setName, strength := range strengths {
		if strength <= 0 {
			continue
		}
		set := v.sets[setName]
		for i, degree := range set.degrees {
			if degree > strength {
				degree = strength
			}
			if degree > curve[i] {
				curve[i] = degree
			}
		}
	}
	return curve
}

// centroid computes the Center of Area of the aggregated curve. An all-zero
// curve means no rule fired; the universe midpoint is the defined fallback.
func centroid(v *Variable, curve []float64) float64 {
	var num, den float64
	for i, degree := range curve {
		num += v.universe[i] * degree
		den += degree
	}
	if den == 0 {
		return v.Midpoint()
	}
	return num / den
}
