package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorUnwrapsSentinel(t *testing.T) {
	err := NewValidationError("symbol", "", "must not be empty", ErrSymbolRequired)

	assert.True(t, Is(err, ErrSymbolRequired))
	assert.Contains(t, err.Error(), "symbol")

	var ve *ValidationError
	wrapped := fmt.Errorf("saving trade: %w", err)
	assert.True(t, As(wrapped, &ve))
	assert.Equal(t, "symbol", ve.Field)
}

func TestDataErrorMessage(t *testing.T) {
	err := NewDataError("sqlite", "decode trades", fmt.Errorf("unexpected EOF"))
	assert.Equal(t, "data error [sqlite]: decode trades: unexpected EOF", err.Error())

	bare := NewDataError("import", "not an array", nil)
	assert.Equal(t, "data error [import]: not an array", bare.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))

	err := Wrapf(ErrTradeNotFound, "delete %s", "abc")
	assert.True(t, Is(err, ErrTradeNotFound))
	assert.Equal(t, "delete abc: trade not found", err.Error())
}
