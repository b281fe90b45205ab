// Package store provides trade log persistence interfaces and implementations.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"trade-buddy/internal/models"
)

// TradeStore persists the whole trade sequence as one value.
//
// Load never fails: missing, unreadable or malformed content is logged and
// reported as an empty sequence. Save replaces the stored sequence (last
// write wins).
type TradeStore interface {
	Load(ctx context.Context) []models.Trade
	Save(ctx context.Context, trades []models.Trade) error
}

// MemoryStore keeps the encoded trade log in memory. It goes through the
// same codec as SQLiteStore, so loaded trades never alias saved ones.
type MemoryStore struct {
	mu     sync.RWMutex
	data   []byte
	logger zerolog.Logger
}

var _ TradeStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logger: zerolog.Nop()}
}

// NewMemoryStoreWithData creates an in-memory store holding raw, which need
// not be valid.
func NewMemoryStoreWithData(raw []byte, logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), raw...), logger: logger}
}

// Load decodes the stored log.
func (m *MemoryStore) Load(ctx context.Context) []models.Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decodeStored(m.data, "memory", m.logger)
}

// Save encodes and replaces the stored log.
func (m *MemoryStore) Save(ctx context.Context, trades []models.Trade) error {
	data, err := EncodeTrades(trades)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Raw returns a copy of the encoded log.
func (m *MemoryStore) Raw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.data...)
}

// decodeStored applies the Load contract to a stored value.
func decodeStored(data []byte, source string, logger zerolog.Logger) []models.Trade {
	if len(data) == 0 {
		return []models.Trade{}
	}
	trades, err := DecodeTrades(data)
	if err != nil {
		logger.Warn().Err(err).Str("source", source).Msg("Discarding malformed trade log")
		return []models.Trade{}
	}
	return trades
}
