package fuzzy

import (
	"fmt"
	"math"
	"sort"
)

// Shape identifies a membership function constructor.
type Shape string

const (
	ShapeTriangular  Shape = "triangular"
	ShapeTrapezoidal Shape = "trapezoidal"
	ShapeGaussian    Shape = "gaussian"
)

// Set is a named linguistic set sampled over its variable's universe of
// discourse. Sets are built once during configuration and read-only afterwards.
type Set struct {
	name     string
	universe []float64 // shared with the owning Variable
	degrees  []float64 // membership degree per universe sample, in [0,1]
}

func newSet(name string, universe []float64, shape Shape, params ...float64) (*Set, error) {
	s := &Set{
		name:     name,
		universe: universe,
		degrees:  make([]float64, len(universe)),
	}

	switch shape {
	case ShapeTriangular:
		if len(params) != 3 {
			return nil, fmt.Errorf("set %q: %w: triangular takes (a, b, c), got %d values", name, ErrBadShapeParams, len(params))
		}
		for i, x := range universe {
			s.degrees[i] = triangularAt(x, params[0], params[1], params[2])
		}
	case ShapeTrapezoidal:
		if len(params) != 4 {
			return nil, fmt.Errorf("set %q: %w: trapezoidal takes (a, b, c, d), got %d values", name, ErrBadShapeParams, len(params))
		}
		for i, x := range universe {
			s.degrees[i] = trapezoidalAt(x, params[0], params[1], params[2], params[3])
		}
	case ShapeGaussian:
		if len(params) != 2 {
			return nil, fmt.Errorf("set %q: %w: gaussian takes (mean, sigma), got %d values", name, ErrBadShapeParams, len(params))
		}
		mean, sigma := params[0], params[1]
		if sigma <= 0 {
			return nil, fmt.Errorf("set %q: %w: got %v", name, ErrInvalidSigma, sigma)
		}
		for i, x := range universe {
			s.degrees[i] = math.Exp(-((x - mean) * (x - mean)) / (2 * sigma * sigma))
		}
	default:
		return nil, fmt.Errorf("set %q: %w: %q", name, ErrUnknownShape, shape)
	}

	return s, nil
}

// triangularAt rises from 0 at a to 1 at b and falls back to 0 at c.
// A zero-width side (a==b or b==c) is a step at the peak, not a division by zero.
func triangularAt(x, a, b, c float64) float64 {
	switch {
	case x < a || x > c:
		return 0
	case x == b:
		return 1
	case x < b:
		return (x - a) / (b - a)
	default:
		return (c - x) / (c - b)
	}
}

// trapezoidalAt rises a→b, holds 1 over [b, c], falls c→d.
func trapezoidalAt(x, a, b, c, d float64) float64 {
	switch {
	case x < a || x > d:
		return 0
	case x >= b && x <= c:
		return 1
	case x < b:
		return (x - a) / (b - a)
	default:
		return (d - x) / (d - c)
	}
}

// Name returns the set's linguistic label.
func (s *Set) Name() string { return s.name }

// Curve returns a copy of the sampled membership degrees, one per universe sample.
func (s *Set) Curve() []float64 {
	out := make([]float64, len(s.degrees))
	copy(out, s.degrees)
	return out
}

// Membership returns the degree to which x belongs to the set. Values outside
// the universe take the first/last sampled degree (flat extrapolation); values
// inside are linearly interpolated between the two bracketing samples.
func (s *Set) Membership(x float64) float64 {
	if x <= s.universe[0] {
		return s.degrees[0]
	}
	last := len(s.universe) - 1
	if x >= s.universe[last] {
		return s.degrees[last]
	}

	// Smallest index whose sample is >= x; x is strictly inside the universe,
	// so idx is in [1, last].
	idx := sort.SearchFloat64s(s.universe, x)
	x1, x2 := s.universe[idx-1], s.universe[idx]
	y1, y2 := s.degrees[idx-1], s.degrees[idx]
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
