package fuzzy

// DefaultUniversePoints is the number of samples taken across a variable's
// range when no explicit resolution is given.
const DefaultUniversePoints = 100

// Variable is a named fuzzy axis: a universe of discourse plus the linguistic
// sets defined over it. The universe is created once at construction and
// shared, read-only, by every set belonging to the variable.
type Variable struct {
	name     string
	universe []float64
	sets     map[string]*Set
}

// NewVariable samples points equally spaced values across [min, max].
// Fewer than two points cannot carry an interpolation grid, so the default
// resolution is used instead.
func NewVariable(name string, min, max float64, points int) *Variable {
	if points < 2 {
		points = DefaultUniversePoints
	}
	universe := make([]float64, points)
	step := (max - min) / float64(points-1)
	for i := range universe {
		universe[i] = min + float64(i)*step
	}
	// Pin the last sample to avoid accumulated rounding drift.
	universe[points-1] = max

	return &Variable{
		name:     name,
		universe: universe,
		sets:     make(map[string]*Set),
	}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Universe returns a copy of the variable's sampled universe of discourse.
func (v *Variable) Universe() []float64 {
	out := make([]float64, len(v.universe))
	copy(out, v.universe)
	return out
}

// Min and Max return the universe bounds.
func (v *Variable) Min() float64 { return v.universe[0] }
func (v *Variable) Max() float64 { return v.universe[len(v.universe)-1] }

// Midpoint returns the centre of the universe, the defuzzification fallback
// when no rule fires for this variable.
func (v *Variable) Midpoint() float64 {
	return (v.Min() + v.Max()) / 2
}

// AddSet attaches a named linguistic set built from the given shape and
// parameters. Re-adding an existing name overwrites the previous set: sets are
// keyed containers until evaluation begins.
func (v *Variable) AddSet(name string, shape Shape, params ...float64) error {
	set, err := newSet(name, v.universe, shape, params...)
	if err != nil {
		return err
	}
	v.sets[name] = set
	return nil
}

// Set returns the named set, if present.
func (v *Variable) Set(name string) (*Set, bool) {
	s, ok := v.sets[name]
	return s, ok
}

// Curves returns a copy of every set's sampled membership curve, keyed by set
// name. Intended for callers that want to render the variable; the engine
// itself does no plotting.
func (v *Variable) Curves() map[string][]float64 {
	out := make(map[string][]float64, len(v.sets))
	for name, s := range v.sets {
		out[name] = s.Curve()
	}
	return out
}

// Fuzzify converts a crisp value into membership degrees across every set
// defined on the variable.
func (v *Variable) Fuzzify(x float64) map[string]float64 {
	out := make(map[string]float64, len(v.sets))
	for name, s := range v.sets {
		out[name] = s.Membership(x)
	}
	return out
}
