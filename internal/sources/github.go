package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Commits refreshes the last-commit record from the user's public event
// feed: the newest pushed commit that is not a merge and was authored under
// the configured full name.
type Commits struct {
	store  *store.Store
	gh     *github.Client
	cfg    config.GitHubConfig
	logger *zap.Logger
}

// NewCommits creates the commit-activity job. The token is optional; without
// it the client uses unauthenticated rate limits.
func NewCommits(st *store.Store, cfg config.GitHubConfig, logger *zap.Logger) (*Commits, error) {
	var hc *http.Client
	if cfg.Token.IsSet() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token.Value()})
		hc = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(hc)
	if cfg.APIBaseURL != "" {
		base, err := url.Parse(cfg.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api base url: %w", err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		gh.BaseURL = base
	}

	return &Commits{
		store:  st,
		gh:     gh,
		cfg:    cfg,
		logger: logger.Named("github"),
	}, nil
}

func (j *Commits) Name() string            { return "github-commits" }
func (j *Commits) Interval() time.Duration { return j.cfg.CommitInterval }

// Refresh scans recent events for the newest qualifying commit. No
// qualifying commit in the window is a no-op, not an error: the previous
// record stays.
func (j *Commits) Refresh(ctx context.Context) error {
	if j.cfg.User == "" {
		return fmt.Errorf("github user not configured")
	}

	events, _, err := j.gh.Activity.ListEventsPerformedByUser(ctx, j.cfg.User, false,
		&github.ListOptions{PerPage: 30})
	if err != nil {
		return fmt.Errorf("github events: %w", err)
	}

	for _, ev := range events {
		if ev.GetType() != "PushEvent" {
			continue
		}
		payload, err := ev.ParsePayload()
		if err != nil {
			j.logger.Debug("skipping unparsable push event", zap.Error(err))
			continue
		}
		push, ok := payload.(*github.PushEvent)
		if !ok {
			continue
		}

		// Commits within a push are oldest-first; walk backwards so the
		// newest one wins.
		for i := len(push.Commits) - 1; i >= 0; i-- {
			c := push.Commits[i]
			if strings.Contains(c.GetMessage(), "Merge") {
				continue
			}
			if c.GetAuthor().GetName() != j.cfg.FullName {
				continue
			}

			commit := store.Commit{
				Message:   c.GetMessage(),
				Repo:      ev.GetRepo().GetName(),
				Link:      commitHTMLURL(c.GetURL()),
				Timestamp: ev.GetCreatedAt().Time,
			}
			j.store.SetCommit(commit)
			j.logger.Info("last commit loaded",
				zap.String("repo", commit.Repo),
				zap.Time("at", commit.Timestamp),
			)
			return nil
		}
	}

	j.logger.Debug("no qualifying commit in recent events")
	return nil
}

// commitHTMLURL rewrites an API commit URL into its web form.
func commitHTMLURL(apiURL string) string {
	u := strings.Replace(apiURL, "api.github.com", "github.com", 1)
	u = strings.Replace(u, "github.com/repos", "github.com", 1)
	return strings.Replace(u, "/commits/", "/commit/", 1)
}

// Contributions refreshes the raw contributions-chart SVG fragment scraped
// from the profile page.
type Contributions struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.GitHubConfig
	logger *zap.Logger
}

// NewContributions creates the contributions-chart job.
func NewContributions(st *store.Store, client *fetch.Client, cfg config.GitHubConfig, logger *zap.Logger) *Contributions {
	return &Contributions{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("contributions"),
	}
}

func (j *Contributions) Name() string            { return "github-chart" }
func (j *Contributions) Interval() time.Duration { return j.cfg.ChartInterval }

// Refresh fetches the chart fragment, swaps the fixed dimensions for a
// viewBox so it scales, and stores the <svg> slice.
func (j *Contributions) Refresh(ctx context.Context) error {
	if j.cfg.User == "" {
		return fmt.Errorf("github user not configured")
	}

	body, err := j.client.Get(ctx, fmt.Sprintf("%s/users/%s/contributions", j.cfg.ChartBaseURL, j.cfg.User))
	if err != nil {
		return fmt.Errorf("contributions chart: %w", err)
	}

	markup := strings.Replace(string(body), `width="828" height="128"`, `viewBox="0 0 828 128"`, 1)
	start := strings.Index(markup, "<svg")
	end := strings.Index(markup, "</svg>")
	if start < 0 || end < 0 {
		return fmt.Errorf("contributions chart: no svg fragment in response")
	}

	svg := markup[start : end+len("</svg>")]
	j.store.SetContributionsChart(svg)
	j.logger.Info("contributions chart loaded", zap.Int("length", len(svg)))
	return nil
}
