package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/citypulse-app/curator/internal/store"
)

// MockStore implements store.Store for handler tests
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateEvent(ctx context.Context, event *store.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStore) GetEvent(ctx context.Context, id uuid.UUID) (*store.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Event), args.Error(1)
}

func (m *MockStore) ListEvents(ctx context.Context, filter store.EventFilter) ([]*store.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Event), args.Error(1)
}

func (m *MockStore) UpdateEvent(ctx context.Context, event *store.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) GetPreferences(ctx context.Context) (*store.Preferences, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Preferences), args.Error(1)
}

func (m *MockStore) PutPreferences(ctx context.Context, prefs *store.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

func (m *MockStore) AddAttendance(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockStore) RemoveAttendance(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockStore) ListAttendedEvents(ctx context.Context) ([]*store.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Event), args.Error(1)
}

func (m *MockStore) GetStats(ctx context.Context) (*store.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Stats), args.Error(1)
}

func (m *MockStore) Close() error { return nil }

func testEvent() *store.Event {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	return &store.Event{
		ID:         uuid.New(),
		Name:       "Jazz in the Park",
		Categories: []string{"music"},
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Latitude:   37.7749,
		Longitude:  -122.4194,
		Cost:       20,
	}
}

func eventsRouter(s store.Store) http.Handler {
	h := NewEventsHandler(s, nil)
	r := chi.NewRouter()
	r.Post("/events", h.Create)
	r.Get("/events", h.List)
	r.Get("/events/{id}", h.Get)
	r.Put("/events/{id}", h.Update)
	r.Delete("/events/{id}", h.Delete)
	r.Post("/events/{id}/attendance", h.Attend)
	r.Delete("/events/{id}/attendance", h.Unattend)
	return r
}

func TestCreateEvent(t *testing.T) {
	ms := new(MockStore)
	ms.On("CreateEvent", mock.Anything, mock.AnythingOfType("*store.Event")).Return(nil)

	body, _ := json.Marshal(EventRequest{
		Name:       "Jazz in the Park",
		Categories: []string{"music"},
		StartTime:  time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
		Cost:       20,
	})
	req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var created store.Event
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "Jazz in the Park", created.Name)
	ms.AssertExpectations(t)
}

func TestCreateEventValidation(t *testing.T) {
	ms := new(MockStore)
	router := eventsRouter(ms)

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/events", bytes.NewReader([]byte("not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		body, _ := json.Marshal(EventRequest{Cost: 10})
		req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		body, _ := json.Marshal(EventRequest{
			Name:      "Backwards",
			StartTime: time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
		})
		req := httptest.NewRequest("POST", "/events", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	ms.AssertNotCalled(t, "CreateEvent")
}

func TestGetEvent(t *testing.T) {
	ev := testEvent()
	ms := new(MockStore)
	ms.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)

	req := httptest.NewRequest("GET", "/events/"+ev.ID.String(), nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got store.Event
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, ev.ID, got.ID)
}

func TestGetEventNotFound(t *testing.T) {
	id := uuid.New()
	ms := new(MockStore)
	ms.On("GetEvent", mock.Anything, id).Return(nil, nil)

	req := httptest.NewRequest("GET", "/events/"+id.String(), nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventBadID(t *testing.T) {
	ms := new(MockStore)
	req := httptest.NewRequest("GET", "/events/not-a-uuid", nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents(t *testing.T) {
	ev := testEvent()
	ms := new(MockStore)
	ms.On("ListEvents", mock.Anything, store.EventFilter{Category: "music", Limit: 10}).
		Return([]*store.Event{ev}, nil)

	req := httptest.NewRequest("GET", "/events?category=music&limit=10", nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []*store.Event
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got, 1)
	ms.AssertExpectations(t)
}

func TestUpdateEvent(t *testing.T) {
	ev := testEvent()
	ms := new(MockStore)
	ms.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)
	ms.On("UpdateEvent", mock.Anything, mock.AnythingOfType("*store.Event")).Return(nil)

	body, _ := json.Marshal(EventRequest{
		Name:       "Jazz in the Park (moved)",
		Categories: []string{"music", "outdoors"},
		StartTime:  ev.StartTime,
		EndTime:    ev.EndTime,
		Cost:       25,
	})
	req := httptest.NewRequest("PUT", "/events/"+ev.ID.String(), bytes.NewReader(body))
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got store.Event
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Jazz in the Park (moved)", got.Name)
	assert.Equal(t, 25.0, got.Cost)
}

func TestDeleteEvent(t *testing.T) {
	ev := testEvent()
	ms := new(MockStore)
	ms.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)
	ms.On("DeleteEvent", mock.Anything, ev.ID).Return(nil)

	req := httptest.NewRequest("DELETE", "/events/"+ev.ID.String(), nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ms.AssertExpectations(t)
}

func TestAttendEvent(t *testing.T) {
	ev := testEvent()
	ms := new(MockStore)
	ms.On("GetEvent", mock.Anything, ev.ID).Return(ev, nil)
	ms.On("AddAttendance", mock.Anything, ev.ID).Return(nil)

	req := httptest.NewRequest("POST", "/events/"+ev.ID.String()+"/attendance", nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ms.AssertExpectations(t)
}

func TestUnattendEvent(t *testing.T) {
	id := uuid.New()
	ms := new(MockStore)
	ms.On("RemoveAttendance", mock.Anything, id).Return(nil)

	req := httptest.NewRequest("DELETE", "/events/"+id.String()+"/attendance", nil)
	w := httptest.NewRecorder()
	eventsRouter(ms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	ms.AssertExpectations(t)
}
