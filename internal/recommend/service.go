package recommend

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/citypulse-app/curator/internal/bus"
	"github.com/citypulse-app/curator/internal/config"
	"github.com/citypulse-app/curator/internal/scoring"
	"github.com/citypulse-app/curator/internal/store"
)

// Recommendation pairs an event with its scoring breakdown.
type Recommendation struct {
	Event      *store.Event          `json:"event"`
	Score      float64               `json:"score"`
	Band       string                `json:"band"`
	DistanceKm float64               `json:"distance_km"`
	Result     scoring.ScoringResult `json:"result"`
}

// Query narrows and orders the recommendation listing.
type Query struct {
	Search string
	Sort   string
	Band   string
	Limit  int
}

// RuleActivation reports how strongly a single rule fired for an event.
type RuleActivation struct {
	Rule     string  `json:"rule"`
	Strength float64 `json:"strength"`
}

// Explanation is the full scoring trace for a single event.
type Explanation struct {
	Event  *store.Event          `json:"event"`
	Result scoring.ScoringResult `json:"result"`
	Rules  []RuleActivation      `json:"rules"`
}

// Service scores the event catalogue against the stored preferences. It runs a
// background refresh loop that periodically re-scores everything and publishes
// the top picks on the bus.
type Service struct {
	store  store.Store
	bus    bus.Client
	scorer *scoring.Scorer
	cfg    *config.Config
	logger *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, b bus.Client, scorer *scoring.Scorer, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		bus:    b,
		scorer: scorer,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.refreshLoop(ctx)
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Scorer exposes the underlying scorer for read-only inspection.
func (s *Service) Scorer() *scoring.Scorer { return s.scorer }

// Recommendations scores every event in the catalogue and returns them
// filtered and ordered per the query.
func (s *Service) Recommendations(ctx context.Context, q Query) ([]Recommendation, error) {
	events, err := s.store.ListEvents(ctx, store.EventFilter{Search: q.Search, Limit: 1000})
	if err != nil {
		return nil, err
	}

	prefs, err := s.effectivePreferences(ctx)
	if err != nil {
		return nil, err
	}
	attended, err := s.store.ListAttendedEvents(ctx)
	if err != nil {
		s.logger.Warn("failed to load attendance history", "error", err)
		attended = nil
	}

	recs := make([]Recommendation, 0, len(events))
	for _, ev := range events {
		result := s.scorer.ScoreEvent(ev, prefs, attended)
		if q.Band != "" && result.Band != q.Band {
			continue
		}
		recs = append(recs, Recommendation{
			Event:      ev,
			Score:      result.Score,
			Band:       result.Band,
			DistanceKm: scoring.DistanceKm(prefs.Latitude, prefs.Longitude, ev.Latitude, ev.Longitude),
			Result:     result,
		})
	}

	sortRecommendations(recs, q.Sort)

	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}
	return recs, nil
}

// Explain scores one event and reports each rule's firing strength alongside
// the factor breakdown. Returns nil when the event does not exist.
func (s *Service) Explain(ctx context.Context, eventID uuid.UUID) (*Explanation, error) {
	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}

	prefs, err := s.effectivePreferences(ctx)
	if err != nil {
		return nil, err
	}
	attended, err := s.store.ListAttendedEvents(ctx)
	if err != nil {
		attended = nil
	}

	result := s.scorer.ScoreEvent(ev, prefs, attended)

	// Re-fuzzify the crisp inputs to trace per-rule firing strengths.
	system := s.scorer.System()
	inputs := map[string]float64{scoring.InputInterest: result.BoostedInterest}
	for _, name := range []string{scoring.InputProximity, scoring.InputOverlap, scoring.InputBudget} {
		if f, ok := result.Factor(name); ok {
			inputs[name] = f.Score
		}
	}
	fuzzified := make(map[string]map[string]float64, len(inputs))
	for name, x := range inputs {
		if v, ok := system.Input(name); ok {
			fuzzified[name] = v.Fuzzify(x)
		}
	}

	rules := system.Rules()
	activations := make([]RuleActivation, 0, len(rules))
	for _, r := range rules {
		activations = append(activations, RuleActivation{
			Rule:     r.String(),
			Strength: r.FiringStrength(fuzzified),
		})
	}

	return &Explanation{Event: ev, Result: result, Rules: activations}, nil
}

// effectivePreferences returns the stored preferences, or a profile built from
// the configured defaults when none have been saved yet.
func (s *Service) effectivePreferences(ctx context.Context) (*store.Preferences, error) {
	prefs, err := s.store.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &store.Preferences{
			Latitude:      s.cfg.Recommend.DefaultLatitude,
			Longitude:     s.cfg.Recommend.DefaultLongitude,
			MaxDistanceKm: s.cfg.Recommend.DefaultMaxDistanceKm,
			MaxBudget:     s.cfg.Recommend.DefaultMaxBudget,
		}
	}
	return prefs, nil
}

func sortRecommendations(recs []Recommendation, key string) {
	switch key {
	case "name":
		sort.Slice(recs, func(i, j int) bool {
			return strings.ToLower(recs[i].Event.Name) < strings.ToLower(recs[j].Event.Name)
		})
	case "time":
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Event.StartTime.Before(recs[j].Event.StartTime)
		})
	case "cost":
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].Event.Cost < recs[j].Event.Cost
		})
	case "distance":
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].DistanceKm < recs[j].DistanceKm
		})
	default: // "recommendation"
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Score != recs[j].Score {
				return recs[i].Score > recs[j].Score
			}
			return strings.ToLower(recs[i].Event.Name) < strings.ToLower(recs[j].Event.Name)
		})
	}
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Service) refresh(ctx context.Context) {
	recs, err := s.Recommendations(ctx, Query{})
	if err != nil {
		s.logger.Error("recommendation refresh failed", "error", err)
		return
	}
	s.logger.Info("recommendations refreshed", "count", len(recs))

	if s.bus == nil {
		return
	}
	top := recs
	if len(top) > 5 {
		top = top[:5]
	}
	entries := make([]bus.RecommendationEntry, 0, len(top))
	for _, r := range top {
		entries = append(entries, bus.RecommendationEntry{
			EventID: r.Event.ID.String(),
			Name:    r.Event.Name,
			Score:   r.Score,
			Band:    r.Band,
		})
	}
	_ = s.bus.Publish(bus.SubjectRecommendations, bus.RecommendationsRefreshedEvent{
		Top:       entries,
		Total:     len(recs),
		Timestamp: time.Now().UTC(),
	})
}

// SetupSubscriptions registers bus subscriptions for bookkeeping events.
func (s *Service) SetupSubscriptions() {
	if s.bus == nil {
		return
	}

	_ = s.bus.Subscribe(bus.SubjectEventAny, func(subject string, _ []byte) {
		s.logger.Debug("event catalogue changed", "subject", subject)
	})

	_ = s.bus.Subscribe(bus.SubjectPreferencesUpdated, func(_ string, data []byte) {
		var evt bus.PreferencesUpdatedEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			s.logger.Warn("invalid preferences event", "error", err)
			return
		}
		s.logger.Info("preferences updated",
			"max_distance_km", evt.MaxDistanceKm,
			"max_budget", evt.MaxBudget,
			"categories", evt.Categories)
	})
}
