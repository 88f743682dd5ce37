package scoring

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/citypulse-app/curator/internal/fuzzy"
	"github.com/citypulse-app/curator/internal/store"
)

// Config holds the adapter's tuning constants.
type Config struct {
	// HistoryBoost is the flat bonus added to the interest input when the
	// event shares a category with attendance history.
	HistoryBoost float64
	// HighThreshold and MediumThreshold split crisp scores into bands.
	HighThreshold   float64
	MediumThreshold float64
}

// DefaultConfig returns the tuning the rule base was calibrated for.
func DefaultConfig() Config {
	return Config{
		HistoryBoost:    10,
		HighThreshold:   70,
		MediumThreshold: 30,
	}
}

// ScoringResult captures the complete scoring output for a single event.
type ScoringResult struct {
	EventID         uuid.UUID      `json:"event_id"`
	Score           float64        `json:"score"`
	Band            string         `json:"band"`
	Factors         []FactorResult `json:"factors"`
	HistoryBoost    float64        `json:"history_boost"`
	BoostedInterest float64        `json:"boosted_interest"`
}

// Factor returns the named factor from the breakdown.
func (r ScoringResult) Factor(name string) (FactorResult, bool) {
	for _, f := range r.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorResult{}, false
}

// Scorer derives crisp factor scores from an event and the user's preferences
// and runs them through the fuzzy inference system. The scorer is read-only
// after construction and safe for concurrent use.
type Scorer struct {
	system *fuzzy.System
	cfg    Config
	logger *slog.Logger
}

// NewScorer builds the event fuzzy system and wraps it with the given tuning.
func NewScorer(cfg Config, logger *slog.Logger) (*Scorer, error) {
	system, err := NewEventSystem()
	if err != nil {
		return nil, err
	}
	return &Scorer{system: system, cfg: cfg, logger: logger}, nil
}

// System exposes the underlying fuzzy system for read-only inspection
// (universe samples and membership curves for rendering).
func (s *Scorer) System() *fuzzy.System { return s.system }

// ScoreEvent computes the recommendation score for one event.
func (s *Scorer) ScoreEvent(event *store.Event, prefs *store.Preferences, attended []*store.Event) ScoringResult {
	interest := InterestMatchFactor(event, prefs)
	proximity := ProximityFactor(event, prefs)
	overlap := TimeOverlapFactor(event, prefs)
	budget := BudgetFactor(event, prefs)

	boost := HistoryBoost(event, attended, s.cfg.HistoryBoost)
	boosted := math.Min(100, interest.Score+boost)

	outputs := s.system.Evaluate(map[string]float64{
		InputInterest:  boosted,
		InputProximity: proximity.Score,
		InputOverlap:   overlap.Score,
		InputBudget:    budget.Score,
	})
	score := outputs[OutputRecommendation]

	return ScoringResult{
		EventID:         event.ID,
		Score:           score,
		Band:            s.Band(score),
		Factors:         []FactorResult{interest, proximity, overlap, budget},
		HistoryBoost:    boost,
		BoostedInterest: boosted,
	}
}

// Band maps a crisp score to "low", "medium" or "high" using the configured
// thresholds.
func (s *Scorer) Band(score float64) string {
	switch {
	case score >= s.cfg.HighThreshold:
		return "high"
	case score >= s.cfg.MediumThreshold:
		return "medium"
	default:
		return "low"
	}
}
