package sources

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Conferences publishes the statically configured upcoming-conference list.
// There is no upstream; the list comes from config and the job exists so the
// field flows through the same scheduler path as everything else.
type Conferences struct {
	store *store.Store
	list  []store.Conference
}

// NewConferences creates the static conferences job.
func NewConferences(st *store.Store, entries []config.Conference, logger *zap.Logger) *Conferences {
	list := make([]store.Conference, 0, len(entries))
	for _, e := range entries {
		list = append(list, store.Conference{
			Location: e.Location,
			Dates:    e.Dates,
			Name:     e.Name,
			Link:     e.Link,
		})
	}
	logger.Named("conferences").Debug("configured", zap.Int("count", len(list)))
	return &Conferences{store: st, list: list}
}

func (j *Conferences) Name() string            { return "conferences" }
func (j *Conferences) Interval() time.Duration { return 24 * time.Hour }

func (j *Conferences) Refresh(context.Context) error {
	j.store.SetConferences(j.list)
	return nil
}
