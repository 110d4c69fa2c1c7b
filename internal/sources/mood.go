package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
	"github.com/fyrsmithlabs/lifedash/internal/timeutil"
)

// Mood refreshes the self-reported mood from the life-sheet endpoint.
type Mood struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.MoodConfig
	logger *zap.Logger
}

// NewMood creates the mood job.
func NewMood(st *store.Store, client *fetch.Client, cfg config.MoodConfig, logger *zap.Logger) *Mood {
	return &Mood{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("mood"),
	}
}

func (j *Mood) Name() string            { return "mood" }
func (j *Mood) Interval() time.Duration { return j.cfg.Interval }

type moodResponse struct {
	Mood struct {
		Value json.Number `json:"value"`
		Time  string      `json:"time"`
	} `json:"mood"`
}

// moodLabel maps the 0-5 level to its label and emoji.
func moodLabel(level int64) (string, string, bool) {
	switch level {
	case 5:
		return "pumped, energized", "🤩", true
	case 4:
		return "happy, excited", "😃", true
	case 3:
		return "good, alright", "😎", true
	case 0, 1, 2:
		return "okay", "🙃", true
	default:
		return "", "", false
	}
}

// Refresh fetches the life sheet and replaces the mood record, keeping the
// raw payload alongside the derived labels.
func (j *Mood) Refresh(ctx context.Context) error {
	if j.cfg.URL == "" {
		return fmt.Errorf("mood url not configured")
	}

	body, err := j.client.Get(ctx, j.cfg.URL)
	if err != nil {
		return fmt.Errorf("mood: %w", err)
	}

	var resp moodResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("mood: decode response: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("mood: decode raw payload: %w", err)
	}

	level, err := resp.Mood.Value.Int64()
	if err != nil {
		return fmt.Errorf("mood: level %q is not a number", resp.Mood.Value)
	}
	label, emoji, ok := moodLabel(level)
	if !ok {
		return fmt.Errorf("mood: unexpected level %d", level)
	}

	m := store.Mood{
		Level: label,
		Emoji: emoji,
		Raw:   raw,
	}
	if at, err := time.Parse(time.RFC3339, resp.Mood.Time); err == nil {
		m.RelativeTime = timeutil.Ago(at)
	}

	j.store.SetMood(m)
	j.logger.Info("mood loaded", zap.Int64("level", level))
	return nil
}
