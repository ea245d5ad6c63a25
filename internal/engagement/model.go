package engagement

import "time"

// Flag is one of the per-user engagement toggles on an event.
type Flag string

const (
	FlagInterested Flag = "interested"
	FlagGoing      Flag = "going"
	FlagOnTheWay   Flag = "on_the_way"
	FlagViewed     Flag = "viewed"
)

// Record holds one user's engagement state for one event. Exactly one row
// exists per (event, user) pair, created lazily on first interaction.
type Record struct {
	EventID      int        `db:"event_id" json:"event_id"`
	UserID       int        `db:"user_id" json:"user_id"`
	Interested   bool       `db:"interested" json:"interested"`
	Going        bool       `db:"going" json:"going"`
	OnTheWay     bool       `db:"on_the_way" json:"on_the_way"`
	Viewed       bool       `db:"viewed" json:"viewed"`
	InterestedAt *time.Time `db:"interested_at" json:"interested_at,omitempty"`
	GoingAt      *time.Time `db:"going_at" json:"going_at,omitempty"`
	OnTheWayAt   *time.Time `db:"on_the_way_at" json:"on_the_way_at,omitempty"`
	ViewedAt     *time.Time `db:"viewed_at" json:"viewed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Counters are the per-event aggregates. Each count equals the number of
// records with the matching flag set; boosts is bumped by boost purchases.
type Counters struct {
	EventID         int       `db:"event_id" json:"event_id"`
	InterestedCount int       `db:"interested_count" json:"interested_count"`
	GoingCount      int       `db:"going_count" json:"going_count"`
	OnTheWayCount   int       `db:"on_the_way_count" json:"on_the_way_count"`
	Views           int       `db:"views" json:"views"`
	Boosts          int       `db:"boosts" json:"boosts"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ParseFlag validates a flag name coming from the HTTP surface.
func ParseFlag(s string) (Flag, bool) {
	switch Flag(s) {
	case FlagInterested, FlagGoing, FlagOnTheWay:
		return Flag(s), true
	}
	return "", false
}
