package event

import (
	"context"
	"time"
)

type Repository interface {
	CreateEvent(ctx context.Context, organizerID int, name, description, venue, city string, startsAt time.Time) (*Event, error)
	GetEventByID(ctx context.Context, id int) (*Event, error)
	ListPublished(ctx context.Context, city string) ([]Event, error)
	Publish(ctx context.Context, id, organizerID int) error
	Exists(ctx context.Context, id int) (bool, error)
}
