package bus

import "time"

type EventChangedEvent struct {
	EventID    string   `json:"event_id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories,omitempty"`
}

type PreferencesUpdatedEvent struct {
	MaxDistanceKm float64 `json:"max_distance_km"`
	MaxBudget     float64 `json:"max_budget"`
	Categories    int     `json:"categories"`
}

type RecommendationEntry struct {
	EventID string  `json:"event_id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Band    string  `json:"band"`
}

type RecommendationsRefreshedEvent struct {
	Top       []RecommendationEntry `json:"top"`
	Total     int                   `json:"total"`
	Timestamp time.Time             `json:"timestamp"`
}
