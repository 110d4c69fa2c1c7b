package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Poller.JobTimeout)
	assert.Equal(t, "https://nomadlist.com", cfg.Travel.BaseURL)
	assert.Equal(t, 60*time.Minute, cfg.Travel.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Checkin.Interval)
	assert.Equal(t, 5*time.Minute, cfg.GitHub.CommitInterval)
	assert.Equal(t, 15*time.Minute, cfg.GitHub.ChartInterval)
	assert.Equal(t, 15*time.Minute, cfg.Trello.Interval)
	assert.Equal(t, 15*time.Minute, cfg.Nutrition.Interval)
	assert.Equal(t, 5*24*time.Hour, cfg.Calendar.Window)
	assert.Equal(t, 24*time.Hour, cfg.Calendar.MaxEventDuration)
	assert.Equal(t, 30*time.Minute, cfg.Mood.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Photos.Interval)
	assert.Equal(t, 1, cfg.Clock.OffsetHours)
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  http_port: 9090
travel:
  user: levels
  key: travel-key
github:
  user: levels
  full_name: Pieter Levels
calendar:
  urls:
    - https://calendar.example.com/feed.ics
site:
  profile_picture_url: https://cdn.example.com/me.jpg
  conferences:
    - location: Amsterdam
      dates: 12-14 Oct
      name: PerfConf
      link: https://perfconf.example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "levels", cfg.Travel.User)
	assert.Equal(t, "travel-key", cfg.Travel.Key.Value())
	assert.Equal(t, "Pieter Levels", cfg.GitHub.FullName)
	assert.Equal(t, []string{"https://calendar.example.com/feed.ics"}, cfg.Calendar.URLs)
	require.Len(t, cfg.Site.Conferences, 1)
	assert.Equal(t, "PerfConf", cfg.Site.Conferences[0].Name)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	content := "server:\n  http_port: 9090\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SERVER_HTTP_PORT", "9191")
	t.Setenv("TRELLO_WORK_BOARD_ID", "board123")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("CLOCK_OFFSET_HOURS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "board123", cfg.Trello.WorkBoardID)
	assert.Equal(t, "gh-token", cfg.GitHub.Token.Value())
	assert.Equal(t, 7, cfg.Clock.OffsetHours)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"negative fetch timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }, "fetch timeout"},
		{"negative job timeout", func(c *Config) { c.Poller.JobTimeout = -time.Second }, "job timeout"},
		{"negative travel interval", func(c *Config) { c.Travel.Interval = -time.Minute }, "travel interval"},
		{"negative mood interval", func(c *Config) { c.Mood.Interval = -time.Minute }, "mood interval"},
		{"negative calendar window", func(c *Config) { c.Calendar.Window = -time.Hour }, "window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
