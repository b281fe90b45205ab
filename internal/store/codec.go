package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "trade-buddy/internal/errors"
	"trade-buddy/internal/models"
)

// wireTrade is the lenient on-disk and import form of a trade. Ids may be
// strings or numbers; timestamps may be RFC 3339 strings or unix millis.
type wireTrade struct {
	ID                json.RawMessage  `json:"id"`
	Symbol            string           `json:"symbol"`
	Outcome           string           `json:"outcome"`
	Profit            *float64         `json:"profit"`
	Timestamp         json.RawMessage  `json:"timestamp"`
	Notes             string           `json:"notes"`
	PostTradeThoughts string           `json:"postTradeThoughts"`
	Responses         models.Responses `json:"responses"`
}

// EncodeTrades writes trades as an indented JSON array. A nil slice is
// written as [].
func EncodeTrades(trades []models.Trade) ([]byte, error) {
	if trades == nil {
		trades = []models.Trade{}
	}
	data, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode trades")
	}
	return data, nil
}

// DecodeTrades parses a JSON array of trades. The whole payload is rejected
// if it is not an array or any element is not a valid trade. Trades without
// an id come back with an empty ID.
func DecodeTrades(data []byte) ([]models.Trade, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.NewDataError("decode", "payload is not a JSON array", apperrors.ErrImportRejected)
	}

	var wire []wireTrade
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, apperrors.NewDataError("decode", err.Error(), apperrors.ErrImportRejected)
	}

	trades := make([]models.Trade, 0, len(wire))
	for i, w := range wire {
		t, err := w.trade()
		if err != nil {
			return nil, apperrors.NewDataError("decode", fmt.Sprintf("trade %d: %v", i, err), apperrors.ErrImportRejected)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func (w wireTrade) trade() (models.Trade, error) {
	id, err := decodeID(w.ID)
	if err != nil {
		return models.Trade{}, err
	}
	ts, err := decodeTimestamp(w.Timestamp)
	if err != nil {
		return models.Trade{}, err
	}
	symbol := models.NormalizeSymbol(w.Symbol)
	if symbol == "" {
		return models.Trade{}, apperrors.ErrSymbolRequired
	}
	outcome, ok := models.ParseOutcome(w.Outcome)
	if !ok {
		return models.Trade{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidOutcome, w.Outcome)
	}

	t := models.Trade{
		ID:                id,
		Symbol:            symbol,
		Outcome:           outcome,
		Timestamp:         ts,
		Notes:             w.Notes,
		PostTradeThoughts: w.PostTradeThoughts,
		Responses:         w.Responses,
	}
	if w.Profit != nil {
		t.Profit = *w.Profit
	}
	return t, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %s", raw)
	}
	return n.String(), nil
}

func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	if isNull(raw) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
		}
		return ts, nil
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %s", raw)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
