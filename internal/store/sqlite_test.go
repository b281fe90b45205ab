package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-buddy/internal/errors"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewSQLiteStoreFromDB(db, zerolog.Nop())
	require.NoError(t, err)
	return s, mock
}

func TestSQLiteStoreFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Empty(t, s.Load(ctx), "fresh database has no trades")
	assert.True(t, s.LastSaved(ctx).IsZero())

	trades := sampleTrades()
	require.NoError(t, s.Save(ctx, trades))
	assert.False(t, s.LastSaved(ctx).IsZero())

	// Last write wins.
	require.NoError(t, s.Save(ctx, trades[:1]))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, trades[:1], reopened.Load(ctx))
}

func TestSQLiteStoreLoadQueryErrorIsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(TradesKey).
		WillReturnError(errors.New("disk I/O error"))

	got := s.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreLoadMalformedIsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(TradesKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"not": "an array"}`))

	assert.Empty(t, s.Load(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreLoadDecodes(t *testing.T) {
	s, mock := newMockStore(t)
	data, err := EncodeTrades(sampleTrades())
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(TradesKey).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(string(data)))

	assert.Equal(t, sampleTrades(), s.Load(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreSaveError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO kv")).
		WithArgs(TradesKey, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	err := s.Save(context.Background(), sampleTrades())
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStoreSaveRetriesWhenBusy(t *testing.T) {
	s, mock := newMockStore(t)
	s.retry.InitialDelay = time.Millisecond

	insert := regexp.QuoteMeta("INSERT OR REPLACE INTO kv")
	mock.ExpectExec(insert).WillReturnError(sqlite3.Error{Code: sqlite3.ErrBusy})
	mock.ExpectExec(insert).WillReturnError(sqlite3.Error{Code: sqlite3.ErrLocked})
	mock.ExpectExec(insert).
		WithArgs(TradesKey, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, s.Save(context.Background(), sampleTrades()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsBusy(t *testing.T) {
	assert.True(t, isBusy(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, isBusy(fmt.Errorf("wrapped: %w", sqlite3.Error{Code: sqlite3.ErrLocked})))
	assert.False(t, isBusy(sqlite3.Error{Code: sqlite3.ErrReadonly}))
	assert.False(t, isBusy(errors.New("database is locked")))
}

func TestSQLiteStoreSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnError(errors.New("read-only database"))

	_, err = NewSQLiteStoreFromDB(db, zerolog.Nop())
	assert.Error(t, err)
}
