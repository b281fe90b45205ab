package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"chatty", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerWithConfigWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "debug", Console: true, Out: &buf})

	LogTrade(logger, "t1", "EURUSD", "loss", -1.5, true)
	assert.Contains(t, buf.String(), "Trade recorded")
	assert.Contains(t, buf.String(), "EURUSD")
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "warn", Console: true, Out: &buf})

	LogInsights(logger, 3, []string{"Revenge Trading"})
	assert.Empty(t, buf.String())

	LogImport(logger, 0, errors.New("bad payload"))
	assert.Contains(t, buf.String(), "Import rejected")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)

	ctxLogger := FromContext(ctx)
	ctxLogger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")

	// A bare context yields a no-op logger rather than panicking.
	bareLogger := FromContext(context.Background())
	bareLogger.Info().Msg("dropped")
}
