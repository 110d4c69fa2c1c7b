// Package config provides configuration loading for lifedash.
//
// Configuration is loaded from an optional YAML file and environment
// variables with sensible defaults. Secrets and identifiers for the polled
// sources live here; a missing secret degrades the owning refresh job to a
// permanently failing (and logged) one, it never prevents startup.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete lifedash configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Clock     ClockConfig     `koanf:"clock"`
	Fetch     FetchConfig     `koanf:"fetch"`
	Poller    PollerConfig    `koanf:"poller"`
	Travel    TravelConfig    `koanf:"travel"`
	Checkin   CheckinConfig   `koanf:"checkin"`
	GitHub    GitHubConfig    `koanf:"github"`
	Trello    TrelloConfig    `koanf:"trello"`
	Nutrition NutritionConfig `koanf:"nutrition"`
	Calendar  CalendarConfig  `koanf:"calendar"`
	Mood      MoodConfig      `koanf:"mood"`
	Photos    PhotosConfig    `koanf:"photos"`
	Site      SiteConfig      `koanf:"site"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Development bool `koanf:"development"`
}

// ClockConfig holds the fixed "local time" offset.
//
// The offset is hand-configured rather than derived from the current
// location; the travel source does not expose a timezone.
type ClockConfig struct {
	OffsetHours int `koanf:"offset_hours"`
}

// FetchConfig holds outbound HTTP client settings shared by all refresh jobs.
type FetchConfig struct {
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// PollerConfig holds scheduler-level settings.
type PollerConfig struct {
	JobTimeout time.Duration `koanf:"job_timeout"`
}

// TravelConfig configures the travel-tracker (NomadList) job.
type TravelConfig struct {
	User     string        `koanf:"user"`
	Key      Secret        `koanf:"key"`
	BaseURL  string        `koanf:"base_url"`
	Interval time.Duration `koanf:"interval"`
}

// CheckinConfig configures the check-in (Swarm) job.
type CheckinConfig struct {
	Token    Secret        `koanf:"token"`
	BaseURL  string        `koanf:"base_url"`
	Interval time.Duration `koanf:"interval"`
}

// GitHubConfig configures the commit-activity and contributions-chart jobs.
type GitHubConfig struct {
	User           string        `koanf:"user"`
	FullName       string        `koanf:"full_name"`
	Token          Secret        `koanf:"token"`
	APIBaseURL     string        `koanf:"api_base_url"`
	ChartBaseURL   string        `koanf:"chart_base_url"`
	CommitInterval time.Duration `koanf:"commit_interval"`
	ChartInterval  time.Duration `koanf:"chart_interval"`
}

// TrelloConfig configures the task-count job (two boards).
type TrelloConfig struct {
	Key             Secret        `koanf:"key"`
	Token           Secret        `koanf:"token"`
	WorkBoardID     string        `koanf:"work_board_id"`
	PersonalBoardID string        `koanf:"personal_board_id"`
	BaseURL         string        `koanf:"base_url"`
	Interval        time.Duration `koanf:"interval"`
}

// NutritionConfig configures the nutrition-tracker job.
type NutritionConfig struct {
	User     string        `koanf:"user"`
	BaseURL  string        `koanf:"base_url"`
	Interval time.Duration `koanf:"interval"`
}

// CalendarConfig configures the calendar job.
type CalendarConfig struct {
	URLs             []string      `koanf:"urls"`
	Window           time.Duration `koanf:"window"`
	MaxEventDuration time.Duration `koanf:"max_event_duration"`
	Interval         time.Duration `koanf:"interval"`
}

// MoodConfig configures the mood (life sheet) job. Disabled when URL is empty.
type MoodConfig struct {
	URL      string        `koanf:"url"`
	Interval time.Duration `koanf:"interval"`
}

// PhotosConfig configures the photo-feed job. Disabled when the token is unset.
type PhotosConfig struct {
	Token    Secret        `koanf:"token"`
	BaseURL  string        `koanf:"base_url"`
	Interval time.Duration `koanf:"interval"`
}

// Conference is a static upcoming-conference entry, supplied via config.
type Conference struct {
	Location string `koanf:"location" json:"location"`
	Dates    string `koanf:"dates" json:"dates"`
	Name     string `koanf:"name" json:"name"`
	Link     string `koanf:"link" json:"link"`
}

// SiteConfig holds presentation settings for the snapshot.
type SiteConfig struct {
	MapsKey           Secret       `koanf:"maps_key"`
	ProfilePictureURL string       `koanf:"profile_picture_url"`
	Conferences       []Conference `koanf:"conferences"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 15 * time.Second
	}
	if cfg.Fetch.RatePerSecond == 0 {
		cfg.Fetch.RatePerSecond = 5
	}
	if cfg.Fetch.Burst == 0 {
		cfg.Fetch.Burst = 10
	}

	if cfg.Poller.JobTimeout == 0 {
		cfg.Poller.JobTimeout = 30 * time.Second
	}

	if cfg.Travel.BaseURL == "" {
		cfg.Travel.BaseURL = "https://nomadlist.com"
	}
	if cfg.Travel.Interval == 0 {
		cfg.Travel.Interval = 60 * time.Minute
	}

	if cfg.Checkin.BaseURL == "" {
		cfg.Checkin.BaseURL = "https://api.foursquare.com"
	}
	if cfg.Checkin.Interval == 0 {
		cfg.Checkin.Interval = 5 * time.Minute
	}

	if cfg.GitHub.ChartBaseURL == "" {
		cfg.GitHub.ChartBaseURL = "https://github.com"
	}
	if cfg.GitHub.CommitInterval == 0 {
		cfg.GitHub.CommitInterval = 5 * time.Minute
	}
	if cfg.GitHub.ChartInterval == 0 {
		cfg.GitHub.ChartInterval = 15 * time.Minute
	}

	if cfg.Trello.BaseURL == "" {
		cfg.Trello.BaseURL = "https://api.trello.com"
	}
	if cfg.Trello.Interval == 0 {
		cfg.Trello.Interval = 15 * time.Minute
	}

	if cfg.Nutrition.BaseURL == "" {
		cfg.Nutrition.BaseURL = "https://www.myfitnesspal.com"
	}
	if cfg.Nutrition.Interval == 0 {
		cfg.Nutrition.Interval = 15 * time.Minute
	}

	if cfg.Calendar.Window == 0 {
		cfg.Calendar.Window = 5 * 24 * time.Hour
	}
	if cfg.Calendar.MaxEventDuration == 0 {
		cfg.Calendar.MaxEventDuration = 24 * time.Hour
	}
	if cfg.Calendar.Interval == 0 {
		cfg.Calendar.Interval = 15 * time.Minute
	}

	if cfg.Mood.Interval == 0 {
		cfg.Mood.Interval = 30 * time.Minute
	}

	if cfg.Photos.BaseURL == "" {
		cfg.Photos.BaseURL = "https://api.instagram.com"
	}
	if cfg.Photos.Interval == 0 {
		cfg.Photos.Interval = 30 * time.Minute
	}

	if cfg.Clock.OffsetHours == 0 {
		cfg.Clock.OffsetHours = 1
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if c.Poller.JobTimeout <= 0 {
		return errors.New("poller job timeout must be positive")
	}
	if c.Calendar.Window <= 0 {
		return errors.New("calendar window must be positive")
	}
	if c.Calendar.MaxEventDuration <= 0 {
		return errors.New("calendar max event duration must be positive")
	}

	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"travel", c.Travel.Interval},
		{"checkin", c.Checkin.Interval},
		{"github commit", c.GitHub.CommitInterval},
		{"github chart", c.GitHub.ChartInterval},
		{"trello", c.Trello.Interval},
		{"nutrition", c.Nutrition.Interval},
		{"calendar", c.Calendar.Interval},
		{"mood", c.Mood.Interval},
		{"photos", c.Photos.Interval},
	} {
		if iv.d <= 0 {
			return fmt.Errorf("%s interval must be positive", iv.name)
		}
	}

	return nil
}
