package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/models"
)

func sampleTrades() []models.Trade {
	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	return []models.Trade{
		{
			ID:        "0190a0b0-0000-7000-8000-000000000001",
			Symbol:    "EURUSD",
			Outcome:   models.OutcomeLoss,
			Profit:    -1.25,
			Timestamp: ts,
			Notes:     "chased the breakout",
			Responses: models.Responses{
				models.QuestionRevenge:  models.YesNo(true),
				models.QuestionStopLoss: models.YesNo(true),
				models.QuestionEmotion:  models.Text("annoyed"),
				models.QuestionPlan:     models.Unparsed("sort of"),
				models.QuestionFOMO:     models.YesNo(false),
			},
		},
		{
			ID:        "0190a0b0-0000-7000-8000-000000000002",
			Symbol:    "AAPL",
			Outcome:   models.OutcomeWin,
			Profit:    0.75,
			Timestamp: ts.Add(30 * time.Minute),
			Responses: models.Responses{
				models.QuestionConfidence: models.Scale(9),
				models.QuestionPlan:       models.YesNo(true),
				models.QuestionEmotion:    models.Text("calm"),
				models.QuestionSize:       models.YesNo(true),
				models.QuestionImpulse:    models.Numeric(0),
			},
		},
		{
			ID:                "0190a0b0-0000-7000-8000-000000000003",
			Symbol:            "NQ",
			Outcome:           models.OutcomeWin,
			Profit:            2.5,
			Timestamp:         ts.Add(time.Hour),
			PostTradeThoughts: "followed the plan",
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	trades := sampleTrades()
	data, err := EncodeTrades(trades)
	require.NoError(t, err)

	got, err := DecodeTrades(data)
	require.NoError(t, err)
	assert.Equal(t, trades, got)
	assert.Nil(t, got[2].Responses, "unanswered questionnaire stays nil")
}

func TestEncodeNil(t *testing.T) {
	data, err := EncodeTrades(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	got, err := DecodeTrades(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeLenientFields(t *testing.T) {
	payload := `[
		{"id": 1709303400000, "symbol": " aapl ", "outcome": "win", "profit": 1.5, "timestamp": 1709303400000},
		{"symbol": "TSLA", "outcome": "loss", "timestamp": "2024-03-01T14:30:00Z",
		 "responses": {"confidence": "9", "impulse": 45, "size": "no", "revenge": "yes", "mood": "ignored"}}
	]`
	got, err := DecodeTrades([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1709303400000", got[0].ID)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, time.UnixMilli(1709303400000).UTC(), got[0].Timestamp)

	assert.Equal(t, "", got[1].ID)
	assert.Equal(t, 0.0, got[1].Profit)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC), got[1].Timestamp)
	assert.Equal(t, models.Responses{
		models.QuestionConfidence: models.Scale(9),
		models.QuestionImpulse:    models.Numeric(45),
		models.QuestionSize:       models.YesNo(false),
		models.QuestionRevenge:    models.YesNo(true),
	}, got[1].Responses)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"object", `{"symbol": "AAPL"}`},
		{"not json", "symbol,outcome\nAAPL,win"},
		{"truncated", `[{"symbol": "AAPL", "outcome": "win"`},
		{"missing symbol", `[{"outcome": "win"}]`},
		{"bad outcome", `[{"symbol": "AAPL", "outcome": "draw"}]`},
		{"bad timestamp", `[{"symbol": "AAPL", "outcome": "win", "timestamp": "yesterday"}]`},
		{"bad id", `[{"id": {}, "symbol": "AAPL", "outcome": "win"}]`},
		{"element not object", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTrades([]byte(tt.payload))
			assert.ErrorIs(t, err, apperrors.ErrImportRejected)
			assert.Nil(t, got)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	assert.Empty(t, m.Load(ctx))

	trades := sampleTrades()
	require.NoError(t, m.Save(ctx, trades))

	loaded := m.Load(ctx)
	assert.Equal(t, trades, loaded)

	// Loaded trades are independent copies.
	loaded[0].Responses[models.QuestionRevenge] = models.YesNo(false)
	assert.True(t, m.Load(ctx)[0].Responses.Yes(models.QuestionRevenge))
}

func TestMemoryStoreMalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"not json", `{"trades": []}`, `[{"symbol": ""}]`} {
		m := NewMemoryStoreWithData([]byte(raw), zerolog.Nop())
		got := m.Load(context.Background())
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}
