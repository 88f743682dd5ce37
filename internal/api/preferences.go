package api

import (
	"encoding/json"
	"net/http"

	"github.com/citypulse-app/curator/internal/bus"
	"github.com/citypulse-app/curator/internal/store"
)

type PreferencesHandler struct {
	store store.Store
	bus   bus.Client
}

func NewPreferencesHandler(s store.Store, b bus.Client) *PreferencesHandler {
	return &PreferencesHandler{store: s, bus: b}
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPreferences(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if prefs == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no preferences saved"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var prefs store.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	for cat, weight := range prefs.Categories {
		if weight < 0 || weight > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "category weight out of range [0,1]: " + cat,
			})
			return
		}
	}
	for _, tr := range prefs.PreferredTimes {
		if tr.End.Before(tr.Start) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferred time window ends before it starts"})
			return
		}
	}

	if err := h.store.PutPreferences(r.Context(), &prefs); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(bus.SubjectPreferencesUpdated, bus.PreferencesUpdatedEvent{
			MaxDistanceKm: prefs.MaxDistanceKm,
			MaxBudget:     prefs.MaxBudget,
			Categories:    len(prefs.Categories),
		})
	}

	writeJSON(w, http.StatusOK, &prefs)
}

func (h *PreferencesHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListAttendedEvents(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
