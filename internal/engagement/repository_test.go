package engagement

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEngagementMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func expectEnsureEvent(mock sqlmock.Sqlmock, eventID int, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)")).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))

	if exists {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_counters (event_id) VALUES ($1) ON CONFLICT (event_id) DO NOTHING")).
			WithArgs(eventID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestMark_FirstTimeBumpsCounter(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 42, true)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_engagement (event_id, user_id, interested, interested_at) VALUES ($1, $2, TRUE, NOW()) ON CONFLICT (event_id, user_id) DO UPDATE SET interested = TRUE, interested_at = NOW(), updated_at = NOW() WHERE event_engagement.interested = FALSE")).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_counters SET interested_count = interested_count + 1, updated_at = NOW() WHERE event_id = $1")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	changed, err := repo.Mark(context.Background(), 42, 7, FlagInterested)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_RepeatIsNoOp(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 42, true)

	// Flag already TRUE: the guarded upsert touches zero rows and the
	// counter must not move.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_engagement (event_id, user_id, going, going_at) VALUES ($1, $2, TRUE, NOW()) ON CONFLICT (event_id, user_id) DO UPDATE SET going = TRUE, going_at = NOW(), updated_at = NOW() WHERE event_engagement.going = FALSE")).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectCommit()

	changed, err := repo.Mark(context.Background(), 42, 7, FlagGoing)
	require.NoError(t, err)
	assert.False(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_UnknownEvent(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 99, false)
	mock.ExpectRollback()

	_, err := repo.Mark(context.Background(), 99, 7, FlagInterested)
	assert.ErrorIs(t, err, ErrEventNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMark_ViewedRejected(t *testing.T) {
	repo, _, close := setupEngagementMock(t)
	defer close()

	_, err := repo.Mark(context.Background(), 42, 7, FlagViewed)
	assert.ErrorIs(t, err, ErrInvalidFlag)

	_, err = repo.Unmark(context.Background(), 42, 7, FlagViewed)
	assert.ErrorIs(t, err, ErrInvalidFlag)
}

func TestUnmark_DropsCounterOnlyWhenSet(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 42, true)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_engagement SET interested = FALSE, interested_at = NULL, updated_at = NOW() WHERE event_id = $1 AND user_id = $2 AND interested = TRUE")).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_counters SET interested_count = interested_count - 1, updated_at = NOW() WHERE event_id = $1")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	changed, err := repo.Unmark(context.Background(), 42, 7, FlagInterested)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnmark_NotSetIsNoOp(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 42, true)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_engagement SET going = FALSE, going_at = NULL, updated_at = NOW() WHERE event_id = $1 AND user_id = $2 AND going = TRUE")).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectCommit()

	changed, err := repo.Unmark(context.Background(), 42, 7, FlagGoing)
	require.NoError(t, err)
	assert.False(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordView_FirstViewCounts(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectBegin()
	expectEnsureEvent(mock, 42, true)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_engagement (event_id, user_id, viewed, viewed_at) VALUES ($1, $2, TRUE, NOW()) ON CONFLICT (event_id, user_id) DO UPDATE SET viewed = TRUE, viewed_at = NOW(), updated_at = NOW() WHERE event_engagement.viewed = FALSE")).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_counters SET views = views + 1, updated_at = NOW() WHERE event_id = $1")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	changed, err := repo.RecordView(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMarked_MissingRowMeansFalse(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT interested FROM event_engagement WHERE event_id = $1 AND user_id = $2")).
		WithArgs(42, 7).
		WillReturnError(sql.ErrNoRows)

	marked, err := repo.IsMarked(context.Background(), 42, 7, FlagInterested)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestGetCounters_QuietEventReturnsZeros(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id, interested_count, going_count, on_the_way_count, views, boosts, updated_at FROM event_counters WHERE event_id = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	counters, err := repo.GetCounters(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, counters.EventID)
	assert.Equal(t, 0, counters.InterestedCount)
	assert.Equal(t, 0, counters.Views)
}

func TestGetCounters_UnknownEvent(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id, interested_count, going_count, on_the_way_count, views, boosts, updated_at FROM event_counters WHERE event_id = $1")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.GetCounters(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetCounters_ExistingCounters(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id, interested_count, going_count, on_the_way_count, views, boosts, updated_at FROM event_counters WHERE event_id = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "interested_count", "going_count", "on_the_way_count", "views", "boosts", "updated_at"}).
			AddRow(42, 12, 5, 2, 240, 3, time.Now()))

	counters, err := repo.GetCounters(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 12, counters.InterestedCount)
	assert.Equal(t, 5, counters.GoingCount)
	assert.Equal(t, 2, counters.OnTheWayCount)
	assert.Equal(t, 240, counters.Views)
	assert.Equal(t, 3, counters.Boosts)
}

func TestGetRecord_MissingRowIsAllFalse(t *testing.T) {
	repo, mock, close := setupEngagementMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT event_id, user_id, interested, going, on_the_way, viewed, interested_at, going_at, on_the_way_at, viewed_at, created_at, updated_at FROM event_engagement WHERE event_id = $1 AND user_id = $2")).
		WithArgs(42, 7).
		WillReturnError(sql.ErrNoRows)

	record, err := repo.GetRecord(context.Background(), 42, 7)
	require.NoError(t, err)
	assert.Equal(t, 42, record.EventID)
	assert.False(t, record.Interested)
	assert.False(t, record.Going)
	assert.Nil(t, record.InterestedAt)
}
