package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Photos refreshes the recent-photos list from the photo feed.
type Photos struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.PhotosConfig
	logger *zap.Logger
}

// NewPhotos creates the photo-feed job.
func NewPhotos(st *store.Store, client *fetch.Client, cfg config.PhotosConfig, logger *zap.Logger) *Photos {
	return &Photos{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("photos"),
	}
}

func (j *Photos) Name() string            { return "photos" }
func (j *Photos) Interval() time.Duration { return j.cfg.Interval }

type photoFeedResponse struct {
	Data []struct {
		Caption *struct {
			Text string `json:"text"`
		} `json:"caption"`
		Images struct {
			StandardResolution struct {
				URL string `json:"url"`
			} `json:"standard_resolution"`
		} `json:"images"`
		Link        string `json:"link"`
		CreatedTime string `json:"created_time"`
	} `json:"data"`
}

// Refresh fetches the feed and replaces the photo list. Captions are
// optional; a missing one becomes an empty text rather than a failure.
func (j *Photos) Refresh(ctx context.Context) error {
	if !j.cfg.Token.IsSet() {
		return fmt.Errorf("photo feed token not configured")
	}

	url := fmt.Sprintf("%s/v1/users/self/media/recent?access_token=%s", j.cfg.BaseURL, j.cfg.Token.Value())

	var resp photoFeedResponse
	if err := j.client.GetJSON(ctx, url, &resp); err != nil {
		return fmt.Errorf("photos: %w", err)
	}

	photos := make([]store.Photo, 0, len(resp.Data))
	for _, item := range resp.Data {
		p := store.Photo{
			URL:  item.Images.StandardResolution.URL,
			Link: item.Link,
		}
		if item.Caption != nil {
			p.Text = item.Caption.Text
		}
		if secs, err := strconv.ParseInt(item.CreatedTime, 10, 64); err == nil {
			p.Posted = time.Unix(secs, 0)
		}
		photos = append(photos, p)
	}

	j.store.SetPhotos(photos)
	j.logger.Info("photos loaded", zap.Int("count", len(photos)))
	return nil
}
