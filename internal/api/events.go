package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/citypulse-app/curator/internal/bus"
	"github.com/citypulse-app/curator/internal/store"
)

type EventsHandler struct {
	store store.Store
	bus   bus.Client
}

func NewEventsHandler(s store.Store, b bus.Client) *EventsHandler {
	return &EventsHandler{store: s, bus: b}
}

type EventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Cost        float64   `json:"cost"`
	Popularity  int       `json:"popularity,omitempty"`
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}
	if !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_time before start_time"})
		return
	}

	event := &store.Event{
		Name:        req.Name,
		Description: req.Description,
		Categories:  req.Categories,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Cost:        req.Cost,
		Popularity:  req.Popularity,
	}
	if event.Categories == nil {
		event.Categories = []string{}
	}

	if err := h.store.CreateEvent(r.Context(), event); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(bus.SubjectEventCreated(event.ID.String()), bus.EventChangedEvent{
			EventID:    event.ID.String(),
			Name:       event.Name,
			Categories: event.Categories,
		})
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	events, err := h.store.ListEvents(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil || event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Categories = req.Categories
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.Latitude = req.Latitude
	event.Longitude = req.Longitude
	event.Cost = req.Cost
	event.Popularity = req.Popularity
	if event.Categories == nil {
		event.Categories = []string{}
	}

	if err := h.store.UpdateEvent(r.Context(), event); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(bus.SubjectEventUpdated(event.ID.String()), bus.EventChangedEvent{
			EventID:    event.ID.String(),
			Name:       event.Name,
			Categories: event.Categories,
		})
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil || event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	if err := h.store.DeleteEvent(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(bus.SubjectEventDeleted(id.String()), bus.EventChangedEvent{
			EventID: id.String(),
			Name:    event.Name,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *EventsHandler) Attend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	event, err := h.store.GetEvent(r.Context(), id)
	if err != nil || event == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	if err := h.store.AddAttendance(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(bus.SubjectEventAttended(id.String()), bus.EventChangedEvent{
			EventID:    id.String(),
			Name:       event.Name,
			Categories: event.Categories,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "attended"})
}

func (h *EventsHandler) Unattend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	if err := h.store.RemoveAttendance(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
