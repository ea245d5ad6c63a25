package event

import "time"

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          int         `db:"id" json:"id"`
	OrganizerID int         `db:"organizer_id" json:"organizer_id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Venue       string      `db:"venue" json:"venue"`
	City        string      `db:"city" json:"city"`
	StartsAt    time.Time   `db:"starts_at" json:"starts_at"`
	Status      EventStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

type CreateEventRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Venue       string `json:"venue" validate:"required"`
	City        string `json:"city" validate:"required"`
	StartsAt    string `json:"starts_at" validate:"required"`
}
