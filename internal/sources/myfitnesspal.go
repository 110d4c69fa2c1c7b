package sources

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/config"
	"github.com/fyrsmithlabs/lifedash/internal/fetch"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Diary pseudo-entries that are totals or adjustments, not food.
var skippedDiaryEntries = map[string]bool{
	"TOTAL:":    true,
	"Exercises": true,
	"Withings Health Mate  calorie adjustment": true,
}

// MyFitnessPal refreshes the nutrition field group: macro totals plus the
// day's food entries.
type MyFitnessPal struct {
	store  *store.Store
	client *fetch.Client
	cfg    config.NutritionConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewMyFitnessPal creates the nutrition job.
func NewMyFitnessPal(st *store.Store, client *fetch.Client, cfg config.NutritionConfig, logger *zap.Logger) *MyFitnessPal {
	return &MyFitnessPal{
		store:  st,
		client: client,
		cfg:    cfg,
		logger: logger.Named("myfitnesspal"),
		now:    time.Now,
	}
}

func (j *MyFitnessPal) Name() string            { return "myfitnesspal" }
func (j *MyFitnessPal) Interval() time.Duration { return j.cfg.Interval }

type diaryDay struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Entries  []struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	} `json:"entries"`
}

// Refresh fetches today's diary. When today shows no calories yet (the
// tracker has not synced), it falls back to yesterday exactly once.
func (j *MyFitnessPal) Refresh(ctx context.Context) error {
	if j.cfg.User == "" {
		return fmt.Errorf("nutrition user not configured")
	}

	now := j.now()
	day, err := j.fetchDay(ctx, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	if day.Calories == 0 {
		day, err = j.fetchDay(ctx, now.AddDate(0, 0, -1).Format("2006-01-02"))
		if err != nil {
			return err
		}
	}

	macros := store.Macros{
		KCal:    day.Calories,
		Carbs:   day.Carbs,
		Protein: day.Protein,
		Fat:     day.Fat,
	}
	items := make([]store.FoodItem, 0, len(day.Entries))
	for _, e := range day.Entries {
		if skippedDiaryEntries[e.Name] {
			continue
		}
		items = append(items, store.FoodItem{Name: e.Name, Amount: e.Amount})
	}

	j.store.SetNutrition(macros, items)
	j.logger.Info("nutrition loaded",
		zap.Float64("kcal", macros.KCal),
		zap.Int("items", len(items)),
	)
	return nil
}

func (j *MyFitnessPal) fetchDay(ctx context.Context, date string) (*diaryDay, error) {
	url := fmt.Sprintf("%s/api/diary/%s?date=%s", j.cfg.BaseURL, j.cfg.User, date)

	var day diaryDay
	if err := j.client.GetJSON(ctx, url, &day); err != nil {
		return nil, fmt.Errorf("diary %s: %w", date, err)
	}
	return &day, nil
}
