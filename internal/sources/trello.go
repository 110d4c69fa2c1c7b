package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Trello refreshes the open-card counts for the work and personal boards.
// The two boards are fetched independently and written independently, so
// one board's failure never blocks the other's result.
type Trello struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.TrelloConfig
	logger *zap.Logger
}

// NewTrello creates the task-count job.
func NewTrello(st *store.Store, client *fetch.Client, cfg config.TrelloConfig, logger *zap.Logger) *Trello {
	return &Trello{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("trello"),
	}
}

func (j *Trello) Name() string            { return "trello" }
func (j *Trello) Interval() time.Duration { return j.cfg.Interval }

type trelloList struct {
	Name  string `json:"name"`
	Cards []struct {
		ID string `json:"id"`
	} `json:"cards"`
}

// Refresh fans out to both boards. Partial success still writes the board
// that worked; the combined error is returned for the failing one(s).
func (j *Trello) Refresh(ctx context.Context) error {
	if !j.cfg.Key.IsSet() || !j.cfg.Token.IsSet() {
		return fmt.Errorf("trello credentials not configured")
	}

	var errs []error

	if n, err := j.countBoard(ctx, j.cfg.WorkBoardID); err != nil {
		errs = append(errs, fmt.Errorf("work board: %w", err))
	} else {
		j.store.SetWorkTodos(n)
		j.logger.Debug("work todos loaded", zap.Int("count", n))
	}

	if n, err := j.countBoard(ctx, j.cfg.PersonalBoardID); err != nil {
		errs = append(errs, fmt.Errorf("personal board: %w", err))
	} else {
		j.store.SetPersonalTodos(n)
		j.logger.Debug("personal todos loaded", zap.Int("count", n))
	}

	return errors.Join(errs...)
}

// countBoard totals the open cards across a board's lists, skipping lists
// whose name marks them done.
func (j *Trello) countBoard(ctx context.Context, boardID string) (int, error) {
	if boardID == "" {
		return 0, fmt.Errorf("board id not configured")
	}

	url := fmt.Sprintf("%s/1/boards/%s/lists?cards=open&card_fields=all&filter=open&fields=all&key=%s&token=%s",
		j.cfg.BaseURL, boardID, j.cfg.Key.Value(), j.cfg.Token.Value())

	var lists []trelloList
	if err := j.client.GetJSON(ctx, url, &lists); err != nil {
		return 0, err
	}

	count := 0
	for _, l := range lists {
		if strings.HasPrefix(l.Name, "Done") {
			continue
		}
		count += len(l.Cards)
	}
	return count, nil
}
