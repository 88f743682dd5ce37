package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/citypulse-app/curator/internal/config"
	"github.com/citypulse-app/curator/internal/recommend"
	"github.com/citypulse-app/curator/internal/scoring"
	"github.com/citypulse-app/curator/internal/store"
)

func newTestService(t *testing.T, ms *MockStore) *recommend.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scorer, err := scoring.NewScorer(scoring.DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewScorer failed: %v", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return recommend.New(ms, nil, scorer, cfg, logger)
}

func recommendationsRouter(svc *recommend.Service) http.Handler {
	h := NewRecommendationsHandler(svc)
	r := chi.NewRouter()
	r.Get("/recommendations", h.List)
	r.Get("/recommendations/{id}/explain", h.Explain)
	r.Get("/fuzzy/variables", h.Variables)
	return r
}

func seededMockStore(ev *store.Event) *MockStore {
	ms := new(MockStore)
	ms.On("ListEvents", mock.Anything, mock.Anything).Return([]*store.Event{ev}, nil)
	ms.On("GetPreferences", mock.Anything).Return(&store.Preferences{
		Latitude:      ev.Latitude,
		Longitude:     ev.Longitude,
		MaxDistanceKm: 30,
		MaxBudget:     100,
		Categories:    map[string]float64{"music": 0.9},
		PreferredTimes: []store.TimeRange{
			{Start: ev.StartTime, End: ev.EndTime},
		},
	}, nil)
	ms.On("ListAttendedEvents", mock.Anything).Return([]*store.Event{}, nil)
	return ms
}

func TestListRecommendations(t *testing.T) {
	ev := testEvent()
	ms := seededMockStore(ev)
	svc := newTestService(t, ms)

	req := httptest.NewRequest("GET", "/recommendations", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var recs []recommend.Recommendation
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&recs))
	assert.Len(t, recs, 1)
	assert.Equal(t, ev.ID, recs[0].Event.ID)
	assert.Equal(t, "high", recs[0].Band)
	assert.Greater(t, recs[0].Score, 70.0)
}

func TestListRecommendationsBadLimit(t *testing.T) {
	ev := testEvent()
	svc := newTestService(t, seededMockStore(ev))

	req := httptest.NewRequest("GET", "/recommendations?limit=banana", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExplainRecommendation(t *testing.T) {
	ev := testEvent()
	ms := seededMockStore(ev)
	ms.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)
	svc := newTestService(t, ms)

	req := httptest.NewRequest("GET", "/recommendations/"+ev.ID.String()+"/explain", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var exp recommend.Explanation
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&exp))
	assert.Equal(t, ev.ID, exp.Event.ID)
	assert.Len(t, exp.Rules, 10)
	assert.Len(t, exp.Result.Factors, 4)
}

func TestExplainRecommendationNotFound(t *testing.T) {
	ev := testEvent()
	ms := seededMockStore(ev)
	missing := uuid.New()
	ms.On("GetEvent", mock.Anything, missing).Return(nil, nil)
	svc := newTestService(t, ms)

	req := httptest.NewRequest("GET", "/recommendations/"+missing.String()+"/explain", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFuzzyVariables(t *testing.T) {
	ev := testEvent()
	svc := newTestService(t, seededMockStore(ev))

	req := httptest.NewRequest("GET", "/fuzzy/variables", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Variables []VariableInfo `json:"variables"`
		Rules     []string       `json:"rules"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Variables, 5) // 4 inputs + 1 output
	assert.Len(t, body.Rules, 10)

	for _, v := range body.Variables {
		assert.Equal(t, 0.0, v.Min)
		assert.Equal(t, 100.0, v.Max)
		assert.Len(t, v.Curves, 3)
		assert.NotEmpty(t, v.Universe)
	}
}

func TestListRecommendationsSorted(t *testing.T) {
	near := testEvent()
	far := testEvent()
	far.ID = uuid.New()
	far.Name = "Antique Fair"
	far.Categories = []string{"shopping"}
	far.Latitude = 47.6062
	far.Longitude = -122.3321
	far.Cost = 250
	far.StartTime = near.StartTime.Add(26 * time.Hour)
	far.EndTime = far.StartTime.Add(4 * time.Hour)

	ms := new(MockStore)
	ms.On("ListEvents", mock.Anything, mock.Anything).Return([]*store.Event{far, near}, nil)
	ms.On("GetPreferences", mock.Anything).Return(&store.Preferences{
		Latitude:      near.Latitude,
		Longitude:     near.Longitude,
		MaxDistanceKm: 30,
		MaxBudget:     100,
		Categories:    map[string]float64{"music": 0.9},
		PreferredTimes: []store.TimeRange{
			{Start: near.StartTime, End: near.EndTime},
		},
	}, nil)
	ms.On("ListAttendedEvents", mock.Anything).Return([]*store.Event{}, nil)
	svc := newTestService(t, ms)

	req := httptest.NewRequest("GET", "/recommendations?sort=recommendation", nil)
	w := httptest.NewRecorder()
	recommendationsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var recs []recommend.Recommendation
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&recs))
	assert.Len(t, recs, 2)
	assert.Equal(t, near.ID, recs[0].Event.ID)
}
