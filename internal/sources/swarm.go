package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
	"github.com/fyrsmithlabs/lifedash/internal/timeutil"
)

// Swarm refreshes the latest venue check-in.
type Swarm struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.CheckinConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSwarm creates the check-in job.
func NewSwarm(st *store.Store, client *fetch.Client, cfg config.CheckinConfig, logger *zap.Logger) *Swarm {
	return &Swarm{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("swarm"),
		now:    time.Now,
	}
}

func (j *Swarm) Name() string            { return "swarm" }
func (j *Swarm) Interval() time.Duration { return j.cfg.Interval }

type swarmResponse struct {
	Response struct {
		Checkins struct {
			Items []struct {
				CreatedAt int64 `json:"createdAt"`
				Venue     struct {
					Name     string `json:"name"`
					Location struct {
						FormattedAddress []string `json:"formattedAddress"`
					} `json:"location"`
				} `json:"venue"`
			} `json:"items"`
		} `json:"checkins"`
	} `json:"response"`
}

// Refresh fetches the newest check-in and replaces the check-in record.
// An account with no check-ins yet is not an error, but it also does not
// mark the source loaded: there is nothing to serve.
func (j *Swarm) Refresh(ctx context.Context) error {
	if !j.cfg.Token.IsSet() {
		return fmt.Errorf("check-in token not configured")
	}

	url := fmt.Sprintf("%s/v2/users/self/checkins?oauth_token=%s&limit=1&sort=newestfirst&v=20210911",
		j.cfg.BaseURL, j.cfg.Token.Value())

	var resp swarmResponse
	if err := j.client.GetJSON(ctx, url, &resp); err != nil {
		return fmt.Errorf("swarm: %w", err)
	}

	items := resp.Response.Checkins.Items
	if len(items) == 0 {
		j.logger.Debug("no check-ins in response")
		return nil
	}

	latest := items[0]
	c := store.Checkin{
		Name:             latest.Venue.Name,
		FormattedAddress: strings.Join(latest.Venue.Location.FormattedAddress, ", "),
	}
	if latest.CreatedAt > 0 {
		c.When = timeutil.When(j.now(), time.Unix(latest.CreatedAt, 0))
	}

	j.store.SetCheckin(c)
	j.logger.Info("check-in loaded",
		zap.String("venue", c.Name),
		zap.String("address", c.FormattedAddress),
	)
	return nil
}
