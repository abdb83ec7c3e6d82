package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	SetGlobalLogger(New(Config{Level: "debug", Format: "json", Output: &buf}))

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), 42)
	WithContext(ctx).Info().Msg("search short-circuited")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(42), line["user_id"])
	assert.Equal(t, "search short-circuited", line["message"])
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "chatty", Output: &buf})

	logger.Zerolog().Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Zerolog().Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
