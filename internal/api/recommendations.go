package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/citypulse-app/curator/internal/fuzzy"
	"github.com/citypulse-app/curator/internal/recommend"
)

type RecommendationsHandler struct {
	svc *recommend.Service
}

func NewRecommendationsHandler(svc *recommend.Service) *RecommendationsHandler {
	return &RecommendationsHandler{svc: svc}
}

func (h *RecommendationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := recommend.Query{
		Search: r.URL.Query().Get("q"),
		Sort:   r.URL.Query().Get("sort"),
		Band:   r.URL.Query().Get("band"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		q.Limit = n
	}

	recs, err := h.svc.Recommendations(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendationsHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	exp, err := h.svc.Explain(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if exp == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

type VariableInfo struct {
	Name     string               `json:"name"`
	Kind     string               `json:"kind"`
	Min      float64              `json:"min"`
	Max      float64              `json:"max"`
	Universe []float64            `json:"universe"`
	Curves   map[string][]float64 `json:"curves"`
}

// Variables exposes the fuzzy model's membership curves for rendering.
func (h *RecommendationsHandler) Variables(w http.ResponseWriter, r *http.Request) {
	system := h.svc.Scorer().System()

	var infos []VariableInfo
	for _, v := range system.InputVariables() {
		infos = append(infos, describeVariable(v, "input"))
	}
	for _, v := range system.OutputVariables() {
		infos = append(infos, describeVariable(v, "output"))
	}

	rules := system.Rules()
	ruleStrings := make([]string, 0, len(rules))
	for _, rule := range rules {
		ruleStrings = append(ruleStrings, rule.String())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"variables": infos,
		"rules":     ruleStrings,
	})
}

func describeVariable(v *fuzzy.Variable, kind string) VariableInfo {
	return VariableInfo{
		Name:     v.Name(),
		Kind:     kind,
		Min:      v.Min(),
		Max:      v.Max(),
		Universe: v.Universe(),
		Curves:   v.Curves(),
	}
}
