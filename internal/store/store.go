package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a candidate item to be scored against the user's preferences.
// Categories are always a normalized list, never a bare string.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Categories  []string  `json:"categories"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Cost        float64   `json:"cost"`
	Popularity  int       `json:"popularity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TimeRange is a preferred attendance window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Preferences holds the single user profile that recommendations are scored
// against.
type Preferences struct {
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	MaxDistanceKm  float64            `json:"max_distance_km"`
	MaxBudget      float64            `json:"max_budget"`
	Categories     map[string]float64 `json:"categories"` // category -> weight in [0,1]
	PreferredTimes []TimeRange        `json:"preferred_times,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// EventFilter narrows ListEvents results.
type EventFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// Stats summarizes the event catalogue.
type Stats struct {
	TotalEvents   int            `json:"total_events"`
	FreeEvents    int            `json:"free_events"`
	AvgCost       float64        `json:"avg_cost"`
	AttendedCount int            `json:"attended_count"`
	Categories    map[string]int `json:"categories"`
}

type Store interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	GetPreferences(ctx context.Context) (*Preferences, error)
	PutPreferences(ctx context.Context, prefs *Preferences) error

	AddAttendance(ctx context.Context, eventID uuid.UUID) error
	RemoveAttendance(ctx context.Context, eventID uuid.UUID) error
	ListAttendedEvents(ctx context.Context) ([]*Event, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
