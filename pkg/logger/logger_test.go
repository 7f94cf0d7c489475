package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, getLogLevel(tt.in))
		})
	}
}

func TestLogOrderCreatedWritesStructuredFields(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.WithShowContext("1-nyc-p1").LogOrderCreated(context.Background(), "GBC-1-ABC", "1-nyc-p1", false, 99.5)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Order Created", entry["msg"])
	assert.Equal(t, "GBC-1-ABC", entry["order_id"])
	assert.Equal(t, false, entry["durable"])
	assert.Equal(t, 99.5, entry["total"])
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	l.DebugWithContext(context.Background(), "hidden", map[string]interface{}{"k": 1})
	assert.Empty(t, buf.String())

	l.WithError(errors.New("boom")).LogSeatsHeld(context.Background(), "show-42", "h1", 2, time.Unix(0, 0))
	assert.Contains(t, buf.String(), `"error":"boom"`)
}
