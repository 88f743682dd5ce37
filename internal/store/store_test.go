package store

import (
	"testing"
	"time"
)

func TestEventFilterDefaults(t *testing.T) {
	f := EventFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Category != "" {
		t.Error("expected empty category filter")
	}
	if f.Search != "" {
		t.Error("expected empty search filter")
	}
}

func TestTimeRangeFields(t *testing.T) {
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	r := TimeRange{Start: start, End: start.Add(8 * time.Hour)}
	if !r.End.After(r.Start) {
		t.Error("expected end after start")
	}
}

func TestPreferencesCategories(t *testing.T) {
	p := Preferences{
		Categories: map[string]float64{"Music": 0.8, "Food": 0.5},
	}
	if len(p.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(p.Categories))
	}
	if p.Categories["Music"] != 0.8 {
		t.Errorf("expected Music weight 0.8, got %f", p.Categories["Music"])
	}
}
