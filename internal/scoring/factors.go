package scoring

import (
	"math"

	"github.com/citypulse-app/curator/internal/store"
)

// FactorResult captures one crisp input to the fuzzy system, on a 0-100 scale.
type FactorResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between the user location and
// the event location.
func DistanceKm(userLat, userLon, eventLat, eventLon float64) float64 {
	lat1 := userLat * math.Pi / 180
	lon1 := userLon * math.Pi / 180
	lat2 := eventLat * math.Pi / 180
	lon2 := eventLon * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// InterestMatchFactor averages the user's weight for each of the event's
// categories. Categories the user has no opinion on count as neutral 50; with
// no preferences at all the whole factor is neutral.
func InterestMatchFactor(event *store.Event, prefs *store.Preferences) FactorResult {
	if len(prefs.Categories) == 0 {
		return FactorResult{Name: "interest_match", Score: 50, Available: false, Reason: "no category preferences"}
	}
	if len(event.Categories) == 0 {
		return FactorResult{Name: "interest_match", Score: 50, Available: false, Reason: "event has no categories"}
	}

	var total float64
	for _, cat := range event.Categories {
		if weight, ok := prefs.Categories[cat]; ok {
			total += weight * 100
		} else {
			total += 50
		}
	}
	score := total / float64(len(event.Categories))
	return FactorResult{Name: "interest_match", Score: clamp(score, 0, 100), Available: true, Reason: "from category weights"}
}

// HistoryBoost returns boost if the event shares a category with any attended
// event, 0 otherwise. The boost is applied to the interest input before
// fuzzification; it is adapter policy, not part of the inference engine.
func HistoryBoost(event *store.Event, attended []*store.Event, boost float64) float64 {
	if len(attended) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	for _, a := range attended {
		for _, cat := range a.Categories {
			seen[cat] = true
		}
	}
	for _, cat := range event.Categories {
		if seen[cat] {
			return boost
		}
	}
	return 0
}

// ProximityFactor scores distance against the user's max distance: 100 at the
// user's location, falling linearly to 0 at max distance and beyond.
func ProximityFactor(event *store.Event, prefs *store.Preferences) FactorResult {
	if prefs.MaxDistanceKm <= 0 {
		return FactorResult{Name: "location_proximity", Score: 50, Available: false, Reason: "no max distance set"}
	}

	distance := DistanceKm(prefs.Latitude, prefs.Longitude, event.Latitude, event.Longitude)
	if distance <= 0 {
		return FactorResult{Name: "location_proximity", Score: 100, Available: true, Reason: "at user location"}
	}

	score := 100 * (1 - math.Min(distance/prefs.MaxDistanceKm, 1))
	return FactorResult{Name: "location_proximity", Score: clamp(score, 0, 100), Available: true, Reason: "from distance"}
}

// TimeOverlapFactor scores how much of the event falls inside the user's
// preferred windows, as a percentage of the event's duration.
func TimeOverlapFactor(event *store.Event, prefs *store.Preferences) FactorResult {
	if len(prefs.PreferredTimes) == 0 {
		return FactorResult{Name: "time_overlap", Score: 50, Available: false, Reason: "no preferred times"}
	}

	duration := event.EndTime.Sub(event.StartTime).Seconds()
	if duration <= 0 {
		return FactorResult{Name: "time_overlap", Score: 0, Available: true, Reason: "event has no duration"}
	}

	var overlap float64
	for _, window := range prefs.PreferredTimes {
		start := event.StartTime
		if window.Start.After(start) {
			start = window.Start
		}
		end := event.EndTime
		if window.End.Before(end) {
			end = window.End
		}
		if end.After(start) {
			overlap += end.Sub(start).Seconds()
		}
	}

	score := overlap / duration * 100
	return FactorResult{Name: "time_overlap", Score: clamp(score, 0, 100), Available: true, Reason: "from preferred windows"}
}

// BudgetFactor scores cost against the user's budget. Free events score 100;
// within budget the score falls linearly 100→70; past budget it falls 30→0,
// hitting 0 at twice the budget.
func BudgetFactor(event *store.Event, prefs *store.Preferences) FactorResult {
	if event.Cost <= 0 {
		return FactorResult{Name: "budget_alignment", Score: 100, Available: true, Reason: "free event"}
	}
	if prefs.MaxBudget <= 0 {
		return FactorResult{Name: "budget_alignment", Score: 0, Available: true, Reason: "no budget but event costs money"}
	}

	var score float64
	if event.Cost <= prefs.MaxBudget {
		score = 100 - (event.Cost/prefs.MaxBudget)*30
	} else {
		overRatio := (event.Cost - prefs.MaxBudget) / prefs.MaxBudget
		score = 30 * (1 - math.Min(overRatio, 1))
	}
	return FactorResult{Name: "budget_alignment", Score: clamp(score, 0, 100), Available: true, Reason: "from budget"}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
