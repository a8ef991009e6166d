package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, k := range []string{"STATBOOK_DB", "STATBOOK_LOG_LEVEL", "STATBOOK_FORMAT", "STATBOOK_PERIODS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, "statbook.db", c.DB)
	assert.Equal(t, "text", c.Format)
	assert.Equal(t, 4, c.Periods)

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("STATBOOK_DB", "/tmp/season.db")
	t.Setenv("STATBOOK_LOG_LEVEL", "DEBUG")
	t.Setenv("STATBOOK_FORMAT", "json")
	t.Setenv("STATBOOK_PERIODS", "2")

	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, Config{DB: "/tmp/season.db", LogLevel: "DEBUG", Format: "json", Periods: 2}, *c)

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"format", "STATBOOK_FORMAT", "xml"},
		{"periods", "STATBOOK_PERIODS", "0"},
		{"not a number", "STATBOOK_PERIODS", "four"},
		{"level", "STATBOOK_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := New()
			assert.Error(t, err)
		})
	}
}
