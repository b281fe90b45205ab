package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/models"
	"trade-buddy/pkg/utils"
)

// TradesKey is the kv key holding the trade log.
const TradesKey = "trades"

// SQLiteStore implements TradeStore on a single key/value table.
type SQLiteStore struct {
	db     *sql.DB
	retry  utils.RetryConfig
	logger zerolog.Logger
}

var _ TradeStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer; the whole log is a single row.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store, err := NewSQLiteStoreFromDB(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStoreFromDB wraps an already opened database and ensures the
// schema exists.
func NewSQLiteStoreFromDB(db *sql.DB, logger zerolog.Logger) (*SQLiteStore, error) {
	retry := utils.DefaultRetryConfig()
	retry.Retryable = isBusy
	store := &SQLiteStore{
		db:     db,
		retry:  retry,
		logger: logger.With().Str("component", "store").Logger(),
	}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the trade log. Any failure yields an empty log.
func (s *SQLiteStore) Load(ctx context.Context) []models.Trade {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, TradesKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Trade{}
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read trade log")
		return []models.Trade{}
	}
	return decodeStored([]byte(value), "sqlite", s.logger)
}

// Save replaces the stored trade log.
func (s *SQLiteStore) Save(ctx context.Context, trades []models.Trade) error {
	data, err := EncodeTrades(trades)
	if err != nil {
		return err
	}
	attempt := 0
	err = utils.Retry(ctx, s.retry, func() error {
		if attempt++; attempt > 1 {
			s.logger.Debug().Int("attempt", attempt).Msg("Retrying save on busy database")
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO kv (key, value, updated_at)
			VALUES (?, ?, ?)
		`, TradesKey, string(data), time.Now().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: failed to save trades: %v", apperrors.ErrDatabaseError, err)
	}
	return nil
}

// isBusy reports whether err is SQLite refusing a write because another
// connection holds the lock.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// LastSaved returns when the trade log was last written, or the zero time.
func (s *SQLiteStore) LastSaved(ctx context.Context) time.Time {
	var updated time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, TradesKey).Scan(&updated)
	if err != nil {
		return time.Time{}
	}
	return updated
}
