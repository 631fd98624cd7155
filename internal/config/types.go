package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	AppPassword   string
	PollInterval  time.Duration
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SlackEnabled reports whether announcements can be posted to Slack.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}
