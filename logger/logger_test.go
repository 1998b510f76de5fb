package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Warn().Int64("tournament_id", 7).Msg("level changed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "level changed", line["message"])
	assert.Equal(t, float64(7), line["tournament_id"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(config.Config{LogLevel: "", LogFormat: "console"}, &buf)
	require.NoError(t, err)

	log.Info().Str("event", "Start").Msg("emit event")
	assert.Contains(t, buf.String(), "emit event")
	assert.Contains(t, buf.String(), "event=Start")
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	_, err := NewWithWriter(config.Config{LogLevel: "loud", LogFormat: "json"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}
