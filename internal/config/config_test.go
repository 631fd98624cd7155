package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_NAME", "planner.db")
	t.Setenv("PORT", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_CHANNEL_ID", "")

	cfg := Load()

	assert.Equal(t, "planner.db", cfg.DBName)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultPollInterval, cfg.PollInterval)
	assert.False(t, cfg.SlackEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_NAME", "planner.db")
	t.Setenv("PORT", "9090")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("APP_PASSWORD", "secret")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-token")
	t.Setenv("SLACK_CHANNEL_ID", "C123")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, "secret", cfg.AppPassword)
	assert.True(t, cfg.SlackEnabled())
}

func TestGetDurationOrDefault_Invalid(t *testing.T) {
	t.Setenv("SOME_INTERVAL", "soon")
	assert.Equal(t, time.Minute, getDurationOrDefault("SOME_INTERVAL", time.Minute))

	t.Setenv("SOME_INTERVAL", "-3s")
	assert.Equal(t, time.Minute, getDurationOrDefault("SOME_INTERVAL", time.Minute))
}
