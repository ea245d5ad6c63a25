package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrEventNotFound = errors.New("event not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateEvent(ctx context.Context, organizerID int, name, description, venue, city string, startsAt time.Time) (*Event, error) {
	query := `
		INSERT INTO events (organizer_id, name, description, venue, city, starts_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'draft')
		RETURNING id, organizer_id, name, description, venue, city, starts_at, status, created_at, updated_at
	`

	var ev Event
	err := r.db.GetContext(ctx, &ev, query, organizerID, name, description, venue, city, startsAt)
	if err != nil {
		return nil, err
	}

	return &ev, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int) (*Event, error) {
	var ev Event
	err := r.db.GetContext(ctx, &ev, `
		SELECT id, organizer_id, name, description, venue, city, starts_at, status, created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return &ev, nil
}

func (r *repository) ListPublished(ctx context.Context, city string) ([]Event, error) {
	events := []Event{}

	if city != "" {
		err := r.db.SelectContext(ctx, &events, `
			SELECT id, organizer_id, name, description, venue, city, starts_at, status, created_at, updated_at
			FROM events
			WHERE status = 'published' AND city = $1
			ORDER BY starts_at
		`, city)
		return events, err
	}

	err := r.db.SelectContext(ctx, &events, `
		SELECT id, organizer_id, name, description, venue, city, starts_at, status, created_at, updated_at
		FROM events
		WHERE status = 'published'
		ORDER BY starts_at
	`)
	return events, err
}

func (r *repository) Publish(ctx context.Context, id, organizerID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET status = 'published', updated_at = NOW()
		WHERE id = $1 AND organizer_id = $2 AND status = 'draft'
	`, id, organizerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}
