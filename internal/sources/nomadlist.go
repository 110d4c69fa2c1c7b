// Package sources implements the refresh jobs, one per external source.
//
// Every job fetches one upstream, transforms the response into store types,
// and writes its owned field group in a single call. Errors are returned to
// the scheduler; on failure nothing is written, so the last good value stays
// served.
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

// NomadList refreshes the travel field group: current location, next city,
// and future stays.
type NomadList struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.TravelConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewNomadList creates the travel job.
func NewNomadList(st *store.Store, client *fetch.Client, cfg config.TravelConfig, logger *zap.Logger) *NomadList {
	return &NomadList{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("nomadlist"),
		now:    time.Now,
	}
}

func (j *NomadList) Name() string            { return "nomadlist" }
func (j *NomadList) Interval() time.Duration { return j.cfg.Interval }

type nomadListLocation struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DateStart   string  `json:"date_start"`
}

type nomadListTrip struct {
	Place      string `json:"place"`
	Country    string `json:"country"`
	Length     string `json:"length"`
	EpochStart int64  `json:"epoch_start"`
	EpochEnd   int64  `json:"epoch_end"`
}

type nomadListResponse struct {
	Location struct {
		Now  nomadListLocation  `json:"now"`
		Next *nomadListLocation `json:"next"`
	} `json:"location"`
	Trips []nomadListTrip `json:"trips"`
}

// Refresh fetches the profile JSON and replaces the travel group.
func (j *NomadList) Refresh(ctx context.Context) error {
	if j.cfg.User == "" {
		return fmt.Errorf("travel user not configured")
	}

	url := fmt.Sprintf("%s/@%s.json", j.cfg.BaseURL, j.cfg.User)
	if j.cfg.Key.IsSet() {
		url += "?key=" + j.cfg.Key.Value()
	}

	var resp nomadListResponse
	if err := j.client.GetJSON(ctx, url, &resp); err != nil {
		return fmt.Errorf("nomadlist: %w", err)
	}

	now := j.now()
	loc := resp.Location.Now

	t := store.TravelStatus{
		Lat: loc.Latitude,
		Lng: loc.Longitude,
	}

	switch {
	case loc.DateStart == now.Format("2006-01-02"):
		// Switching cities today: show an in-transit status.
		t.CurrentCity = "✈️ " + loc.City
		t.Moving = true
	case loc.CountryCode != "":
		t.CurrentCity = loc.City + ", " + strings.ToUpper(loc.CountryCode)
	default:
		t.CurrentCity = "Unknown"
	}

	if next := resp.Location.Next; next != nil && next.City != "" {
		t.NextCity = next.City
		if start, err := time.Parse("2006-01-02", next.DateStart); err == nil {
			t.NextCityIn = timeutil.Ago(start)
		}
	}

	// Trips arrive newest-first; collect the future ones and flip so the
	// soonest stay leads.
	for _, trip := range resp.Trips {
		if trip.EpochStart <= now.Unix() {
			continue
		}
		start := time.Unix(trip.EpochStart, 0)
		t.Stays = append(t.Stays, store.Stay{
			Name:     trip.Place + ", " + trip.Country,
			From:     timeutil.Ago(start),
			For:      trip.Length,
			FromDate: start,
			ToDate:   time.Unix(trip.EpochEnd, 0),
		})
	}
	for i, k := 0, len(t.Stays)-1; i < k; i, k = i+1, k-1 {
		t.Stays[i], t.Stays[k] = t.Stays[k], t.Stays[i]
	}

	j.store.SetTravel(t)
	j.logger.Info("travel data loaded",
		zap.String("city", t.CurrentCity),
		zap.Bool("moving", t.Moving),
		zap.Int("stays", len(t.Stays)),
	)
	return nil
}
