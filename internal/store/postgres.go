package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const eventColumns = `event_id, name, description, categories,
	start_time, end_time, latitude, longitude, cost, popularity,
	created_at, updated_at`

func (s *PostgresStore) CreateEvent(ctx context.Context, event *Event) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO curator_events (name, description, categories,
			start_time, end_time, latitude, longitude, cost, popularity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING event_id, created_at, updated_at`,
		event.Name, event.Description, event.Categories,
		event.StartTime, event.EndTime, event.Latitude, event.Longitude,
		event.Cost, event.Popularity,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	e := &Event{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM curator_events WHERE event_id = $1`, id,
	).Scan(
		&e.ID, &e.Name, &e.Description, &e.Categories,
		&e.StartTime, &e.EndTime, &e.Latitude, &e.Longitude, &e.Cost, &e.Popularity,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM curator_events WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND $%d = ANY(categories)", n)
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		n++
		query += fmt.Sprintf(
			" AND (name ILIKE $%d OR description ILIKE $%d"+
				" OR EXISTS (SELECT 1 FROM unnest(categories) AS category WHERE category ILIKE $%d))",
			n, n, n)
		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY start_time ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, event *Event) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE curator_events SET
			name = $2, description = $3, categories = $4,
			start_time = $5, end_time = $6, latitude = $7, longitude = $8,
			cost = $9, popularity = $10, updated_at = now()
		WHERE event_id = $1`,
		event.ID, event.Name, event.Description, event.Categories,
		event.StartTime, event.EndTime, event.Latitude, event.Longitude,
		event.Cost, event.Popularity,
	)
	return err
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM curator_events WHERE event_id = $1`, id)
	return err
}

// Preferences live in a single row; the service scores for one profile.
func (s *PostgresStore) GetPreferences(ctx context.Context) (*Preferences, error) {
	p := &Preferences{}
	var categoriesJSON, timesJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT latitude, longitude, max_distance_km, max_budget,
			categories, preferred_times, updated_at
		FROM curator_preferences WHERE id = 1`,
	).Scan(
		&p.Latitude, &p.Longitude, &p.MaxDistanceKm, &p.MaxBudget,
		&categoriesJSON, &timesJSON, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if categoriesJSON != nil {
		_ = json.Unmarshal(categoriesJSON, &p.Categories)
	}
	if timesJSON != nil {
		_ = json.Unmarshal(timesJSON, &p.PreferredTimes)
	}
	return p, nil
}

func (s *PostgresStore) PutPreferences(ctx context.Context, prefs *Preferences) error {
	categoriesJSON, _ := json.Marshal(prefs.Categories)
	timesJSON, _ := json.Marshal(prefs.PreferredTimes)

	return s.pool.QueryRow(ctx, `
		INSERT INTO curator_preferences (id, latitude, longitude,
			max_distance_km, max_budget, categories, preferred_times, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			max_distance_km = EXCLUDED.max_distance_km,
			max_budget = EXCLUDED.max_budget,
			categories = EXCLUDED.categories,
			preferred_times = EXCLUDED.preferred_times,
			updated_at = now()
		RETURNING updated_at`,
		prefs.Latitude, prefs.Longitude, prefs.MaxDistanceKm, prefs.MaxBudget,
		categoriesJSON, timesJSON,
	).Scan(&prefs.UpdatedAt)
}

func (s *PostgresStore) AddAttendance(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO curator_attendance (event_id)
		VALUES ($1)
		ON CONFLICT (event_id) DO NOTHING`, eventID)
	return err
}

func (s *PostgresStore) RemoveAttendance(ctx context.Context, eventID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM curator_attendance WHERE event_id = $1`, eventID)
	return err
}

func (s *PostgresStore) ListAttendedEvents(ctx context.Context) ([]*Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM curator_events
		WHERE event_id IN (SELECT event_id FROM curator_attendance)
		ORDER BY start_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN cost <= 0 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(cost), 0),
			(SELECT COUNT(*) FROM curator_attendance)
		FROM curator_events`,
	).Scan(&stats.TotalEvents, &stats.FreeEvents, &stats.AvgCost, &stats.AttendedCount)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT category, COUNT(*)
		FROM curator_events, unnest(categories) AS category
		GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.Categories = make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.Categories[category] = count
	}
	return stats, rows.Err()
}

func scanEvents(rows pgx.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Categories,
			&e.StartTime, &e.EndTime, &e.Latitude, &e.Longitude, &e.Cost, &e.Popularity,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
