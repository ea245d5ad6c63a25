package engagement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidFlag   = errors.New("invalid engagement flag")
)

// flagColumns maps a flag to its record column, timestamp column and counter
// column. Only whitelisted names ever reach the SQL below.
var flagColumns = map[Flag][3]string{
	FlagInterested: {"interested", "interested_at", "interested_count"},
	FlagGoing:      {"going", "going_at", "going_count"},
	FlagOnTheWay:   {"on_the_way", "on_the_way_at", "on_the_way_count"},
	FlagViewed:     {"viewed", "viewed_at", "views"},
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) ensureEvent(ctx context.Context, tx *sqlx.Tx, eventID int) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID); err != nil {
		return err
	}
	if !exists {
		return ErrEventNotFound
	}

	// Counters row is created lazily alongside the first interaction.
	_, err := tx.ExecContext(ctx,
		`INSERT INTO event_counters (event_id) VALUES ($1) ON CONFLICT (event_id) DO NOTHING`,
		eventID,
	)
	return err
}

// setFlag performs the conditional flag write. The WHERE guard on the upsert
// makes an already-set flag a zero-row update, so the counter below moves
// only when the flag actually transitioned.
func (r *repository) setFlag(ctx context.Context, eventID, userID int, flag Flag) (bool, error) {
	cols, ok := flagColumns[flag]
	if !ok {
		return false, ErrInvalidFlag
	}
	flagCol, atCol, counterCol := cols[0], cols[1], cols[2]

	var changed bool
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		changed = false

		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := r.ensureEvent(ctx, tx, eventID); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO event_engagement (event_id, user_id, %[1]s, %[2]s)
			VALUES ($1, $2, TRUE, NOW())
			ON CONFLICT (event_id, user_id)
			DO UPDATE SET %[1]s = TRUE, %[2]s = NOW(), updated_at = NOW()
			WHERE event_engagement.%[1]s = FALSE
		`, flagCol, atCol)

		result, err := tx.ExecContext(ctx, query, eventID, userID)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected > 0 {
			bump := fmt.Sprintf(
				`UPDATE event_counters SET %s = %s + 1, updated_at = NOW() WHERE event_id = $1`,
				counterCol, counterCol,
			)
			if _, err := tx.ExecContext(ctx, bump, eventID); err != nil {
				return err
			}
			changed = true
		}

		return tx.Commit()
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (r *repository) Mark(ctx context.Context, eventID, userID int, flag Flag) (bool, error) {
	if flag == FlagViewed {
		return false, ErrInvalidFlag
	}
	return r.setFlag(ctx, eventID, userID, flag)
}

func (r *repository) Unmark(ctx context.Context, eventID, userID int, flag Flag) (bool, error) {
	cols, ok := flagColumns[flag]
	if !ok || flag == FlagViewed {
		return false, ErrInvalidFlag
	}
	flagCol, atCol, counterCol := cols[0], cols[1], cols[2]

	var changed bool
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		changed = false

		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if err := r.ensureEvent(ctx, tx, eventID); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE event_engagement
			SET %[1]s = FALSE, %[2]s = NULL, updated_at = NOW()
			WHERE event_id = $1 AND user_id = $2 AND %[1]s = TRUE
		`, flagCol, atCol)

		result, err := tx.ExecContext(ctx, query, eventID, userID)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rowsAffected > 0 {
			drop := fmt.Sprintf(
				`UPDATE event_counters SET %s = %s - 1, updated_at = NOW() WHERE event_id = $1`,
				counterCol, counterCol,
			)
			if _, err := tx.ExecContext(ctx, drop, eventID); err != nil {
				return err
			}
			changed = true
		}

		return tx.Commit()
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (r *repository) IsMarked(ctx context.Context, eventID, userID int, flag Flag) (bool, error) {
	cols, ok := flagColumns[flag]
	if !ok {
		return false, ErrInvalidFlag
	}

	var marked bool
	query := fmt.Sprintf(`SELECT %s FROM event_engagement WHERE event_id = $1 AND user_id = $2`, cols[0])
	err := r.db.GetContext(ctx, &marked, query, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return marked, nil
}

func (r *repository) RecordView(ctx context.Context, eventID, userID int) (bool, error) {
	return r.setFlag(ctx, eventID, userID, FlagViewed)
}

func (r *repository) GetCounters(ctx context.Context, eventID int) (*Counters, error) {
	counters := &Counters{}
	err := r.db.GetContext(ctx, counters, `
		SELECT event_id, interested_count, going_count, on_the_way_count, views, boosts, updated_at
		FROM event_counters
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		// No interactions yet; distinguish a quiet event from a missing one.
		exists, err := db.Exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrEventNotFound
		}
		return &Counters{EventID: eventID}, nil
	}

	return counters, nil
}

func (r *repository) GetRecord(ctx context.Context, eventID, userID int) (*Record, error) {
	record := &Record{}
	err := r.db.GetContext(ctx, record, `
		SELECT event_id, user_id, interested, going, on_the_way, viewed,
		       interested_at, going_at, on_the_way_at, viewed_at, created_at, updated_at
		FROM event_engagement
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Record{EventID: eventID, UserID: userID}, nil
		}
		return nil, err
	}
	return record, nil
}

// AddBoostsTx bumps the boosts counter inside the caller's transaction so a
// boost purchase and its counter move commit together.
func AddBoostsTx(ctx context.Context, tx *sqlx.Tx, eventID, quantity int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO event_counters (event_id) VALUES ($1) ON CONFLICT (event_id) DO NOTHING`,
		eventID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE event_counters SET boosts = boosts + $2, updated_at = NOW() WHERE event_id = $1`,
		eventID, quantity,
	)
	return err
}
