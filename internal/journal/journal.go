// Package journal owns the trade log: it validates and records trades,
// persists every mutation through a store, and keeps the derived statistics
// and insights current.
package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trade-buddy/internal/analysis"
	"trade-buddy/internal/analysis/patterns"
	"trade-buddy/internal/analysis/stats"
	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/logging"
	"trade-buddy/internal/models"
	"trade-buddy/internal/store"
)

// Snapshot is the read-only projection handed to the presentation layer.
type Snapshot struct {
	Trades   []models.Trade   `json:"trades"`
	Stats    stats.Stats      `json:"stats"`
	Insights []models.Insight `json:"insights"`
}

// Journal is the canonical trade sequence plus its derived views.
type Journal struct {
	mu       sync.RWMutex
	trades   []models.Trade
	stats    stats.Stats
	insights []models.Insight

	store    store.TradeStore
	detector analysis.PatternDetector
	now      func() time.Time
	newID    func() (string, error)
	logger   zerolog.Logger
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock sets the time source for new trade timestamps.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithIDGenerator sets the id source for new trades.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(j *Journal) { j.newID = fn }
}

// WithDetector replaces the behavioral pattern detector.
func WithDetector(d analysis.PatternDetector) Option {
	return func(j *Journal) { j.detector = d }
}

// New creates an empty journal backed by s. Call Load to read the stored log.
func New(s store.TradeStore, logger zerolog.Logger, opts ...Option) *Journal {
	j := &Journal{
		store:    s,
		detector: patterns.NewBehaviorDetector(),
		now:      time.Now,
		newID:    newTradeID,
		logger:   logging.WithComponent(logger, "journal"),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.recompute()
	return j
}

func newTradeID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Load replaces the in-memory log with the stored one.
func (j *Journal) Load(ctx context.Context) {
	trades := j.store.Load(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = trades
	j.recompute()
	j.logger.Debug().Int("trades", len(trades)).Msg("Journal loaded")
}

// Trades returns a copy of the trade log, oldest first.
func (j *Journal) Trades() []models.Trade {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return copyTrades(j.trades)
}

// Snapshot returns the current trades with their statistics and insights.
func (j *Journal) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	insights := make([]models.Insight, len(j.insights))
	copy(insights, j.insights)
	return Snapshot{
		Trades:   copyTrades(j.trades),
		Stats:    j.stats,
		Insights: insights,
	}
}

// Get returns the trade with the given id.
func (j *Journal) Get(id string) (models.Trade, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, t := range j.trades {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Trade{}, fmt.Errorf("%w: %s", apperrors.ErrTradeNotFound, id)
}

// Validate checks a draft without recording it.
func Validate(d models.TradeDraft) error {
	if models.NormalizeSymbol(d.Symbol) == "" {
		return apperrors.NewValidationError("symbol", d.Symbol, "a symbol is required", apperrors.ErrSymbolRequired)
	}
	if !d.Outcome.Valid() {
		return apperrors.NewValidationError("outcome", d.Outcome, "must be win or loss", apperrors.ErrInvalidOutcome)
	}
	if d.Responses != nil {
		if err := d.Responses.CheckComplete(d.Outcome); err != nil {
			return apperrors.NewValidationError("responses", len(d.Responses), err.Error(), apperrors.ErrIncompleteQuestionnaire)
		}
	}
	return nil
}

// Record validates a draft and appends it as a new trade. Nothing is
// recorded when validation fails.
func (j *Journal) Record(ctx context.Context, d models.TradeDraft) (models.Trade, error) {
	if err := Validate(d); err != nil {
		return models.Trade{}, err
	}
	id, err := j.newID()
	if err != nil {
		return models.Trade{}, apperrors.Wrap(err, "failed to generate trade id")
	}

	t := models.Trade{
		ID:                id,
		Symbol:            models.NormalizeSymbol(d.Symbol),
		Outcome:           d.Outcome,
		Profit:            d.Profit,
		Timestamp:         j.now().UTC(),
		Notes:             d.Notes,
		PostTradeThoughts: d.PostTradeThoughts,
		Responses:         copyResponses(d.Responses),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = append(j.trades, t)
	j.commit(ctx)
	logging.LogTrade(j.logger, t.ID, t.Symbol, string(t.Outcome), t.Profit, t.Completed())
	return t, nil
}

// Delete removes the trade with the given id.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	kept := make([]models.Trade, 0, len(j.trades))
	for _, t := range j.trades {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(j.trades) {
		return fmt.Errorf("%w: %s", apperrors.ErrTradeNotFound, id)
	}
	j.trades = kept
	j.commit(ctx)
	j.logger.Info().Str("trade_id", id).Msg("Trade deleted")
	return nil
}

// Import replaces the whole log with payload, a JSON array of trades. A
// rejected payload leaves the log untouched. Trades without an id get one.
func (j *Journal) Import(ctx context.Context, payload []byte) (int, error) {
	trades, err := store.DecodeTrades(payload)
	if err != nil {
		logging.LogImport(j.logger, 0, err)
		return 0, err
	}
	for i := range trades {
		if trades[i].ID != "" {
			continue
		}
		if trades[i].ID, err = j.newID(); err != nil {
			return 0, apperrors.Wrap(err, "failed to generate trade id")
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.trades = trades
	j.commit(ctx)
	logging.LogImport(j.logger, len(trades), nil)
	return len(trades), nil
}

// Export serializes the log as an indented JSON array.
func (j *Journal) Export() ([]byte, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return store.EncodeTrades(j.trades)
}

// commit persists the log and refreshes derived views. Save failures are
// logged; the in-memory log stays authoritative. Callers hold mu.
func (j *Journal) commit(ctx context.Context) {
	if err := j.store.Save(ctx, j.trades); err != nil {
		j.logger.Error().Err(err).Int("trades", len(j.trades)).Msg("Failed to persist trade log")
	}
	j.recompute()
}

func (j *Journal) recompute() {
	j.stats = stats.Compute(j.trades)
	j.insights = j.detector.Detect(j.trades)
	if j.insights == nil {
		j.insights = []models.Insight{}
	}

	titles := make([]string, len(j.insights))
	for i, in := range j.insights {
		titles[i] = in.Title
	}
	logging.LogInsights(j.logger, len(patterns.Completed(j.trades)), titles)
}

func copyTrades(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	for i, t := range trades {
		t.Responses = copyResponses(t.Responses)
		out[i] = t
	}
	return out
}

func copyResponses(r models.Responses) models.Responses {
	if r == nil {
		return nil
	}
	out := make(models.Responses, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
