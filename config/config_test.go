package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weedbox/pokertournament/apperr"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "pokertournament.db", cfg.DBPath)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30, cfg.MoveConfirmTimeout)
	assert.Equal(t, "system", cfg.Username)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"POKER_DB_PATH":              "/tmp/league.db",
		"POKER_TICK_INTERVAL":        "2s",
		"POKER_LOG_LEVEL":            "debug",
		"POKER_LOG_FORMAT":           "console",
		"POKER_MOVE_CONFIRM_TIMEOUT": "10",
		"POKER_USERNAME":             "director",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/league.db", cfg.DBPath)
	assert.Equal(t, 2*time.Second, cfg.TickInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 10, cfg.MoveConfirmTimeout)
	assert.Equal(t, "director", cfg.Username)
}

func TestLoadFrom_Invalid(t *testing.T) {
	testCases := []map[string]string{
		{"POKER_TICK_INTERVAL": "soon"},
		{"POKER_TICK_INTERVAL": "0s"},
		{"POKER_MOVE_CONFIRM_TIMEOUT": "0"},
		{"POKER_LOG_FORMAT": "xml"},
	}

	for _, environment := range testCases {
		_, err := LoadFrom(environment)
		assert.True(t, errors.Is(err, apperr.ErrConfiguration), "%v", environment)
	}
}
