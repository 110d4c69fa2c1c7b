package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
	"github.com/fyrsmithlabs/lifedash/internal/timeutil"
)

// Calendar refreshes the upcoming-events list from the configured ICS feeds.
//
// All feeds are fetched first, then the merged list is sorted and committed
// in one store write, so readers never see a half-merged or unsorted list.
// A failing feed is skipped (its events drop out until it recovers); the
// write only aborts when every feed fails, keeping the last good list.
type Calendar struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.CalendarConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendar creates the calendar job.
func NewCalendar(st *store.Store, client *fetch.Client, cfg config.CalendarConfig, logger *zap.Logger) *Calendar {
	return &Calendar{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("calendar"),
		now:    time.Now,
	}
}

func (j *Calendar) Name() string            { return "calendar" }
func (j *Calendar) Interval() time.Duration { return j.cfg.Interval }

// Refresh fans in all feeds and replaces the event list.
func (j *Calendar) Refresh(ctx context.Context) error {
	if len(j.cfg.URLs) == 0 {
		return fmt.Errorf("no calendar feeds configured")
	}

	now := j.now()
	var merged []store.Event
	var errs []error

	for _, feedURL := range j.cfg.URLs {
		events, err := j.fetchFeed(ctx, feedURL, now)
		if err != nil {
			j.logger.Warn("calendar feed failed", zap.String("url", feedURL), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		merged = append(merged, events...)
	}

	if len(errs) == len(j.cfg.URLs) {
		return fmt.Errorf("all calendar feeds failed: %w", errors.Join(errs...))
	}

	sort.Slice(merged, func(a, b int) bool {
		return merged[a].RawStart.Before(merged[b].RawStart)
	})

	j.store.SetEvents(merged)
	j.logger.Info("calendar loaded", zap.Int("events", len(merged)))
	return nil
}

// fetchFeed parses one ICS feed, keeping events that start within the
// forward window and last less than the day-event cutoff.
func (j *Calendar) fetchFeed(ctx context.Context, feedURL string, now time.Time) ([]store.Event, error) {
	body, err := j.client.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var events []store.Event
	for _, ev := range cal.Events() {
		start, err := ev.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil {
			continue
		}

		if !start.After(now) || start.After(now.Add(j.cfg.Window)) {
			continue
		}
		if end.Sub(start) >= j.cfg.MaxEventDuration {
			// Day- and week-long blocks are not appointments.
			continue
		}

		events = append(events, store.Event{
			RawStart: start,
			Start:    timeutil.Ago(start),
			End:      timeutil.Ago(end),
			Duration: timeutil.DurationHours(start, end),
		})
	}
	return events, nil
}
