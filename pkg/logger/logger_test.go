package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestSlogLogger_JSONErrorCarriesErrorAttr(t *testing.T) {
	var buf bytes.Buffer
	l := newSlogLogger(&buf, "info", true).With("order_id", 7)

	l.Errorf(errors.New("smtp down"), "mail to %s failed", "owner")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "mail to owner failed", rec["msg"])
	assert.Equal(t, "smtp down", rec["error"])
	assert.Equal(t, float64(7), rec["order_id"])
}

func TestSlogLogger_DebugFilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newSlogLogger(&buf, "info", false)

	l.Debugf("hidden")

	assert.Empty(t, buf.String())
}

func TestSlog_NopDiscards(t *testing.T) {
	l := Slog(NewNop())
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
