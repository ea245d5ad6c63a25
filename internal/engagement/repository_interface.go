package engagement

import "context"

type Repository interface {
	// Mark sets the flag and bumps the event counter only on a real
	// false-to-true transition. It reports whether a transition happened;
	// re-marking is a no-op.
	Mark(ctx context.Context, eventID, userID int, flag Flag) (bool, error)
	// Unmark clears the flag, decrementing the counter only on a true
	// transition. The viewed flag cannot be unmarked.
	Unmark(ctx context.Context, eventID, userID int, flag Flag) (bool, error)
	IsMarked(ctx context.Context, eventID, userID int, flag Flag) (bool, error)
	// RecordView sets viewed once per (event, user); later calls are no-ops.
	RecordView(ctx context.Context, eventID, userID int) (bool, error)
	GetCounters(ctx context.Context, eventID int) (*Counters, error)
	GetRecord(ctx context.Context, eventID, userID int) (*Record, error)
}
