// Package ingest folds externally pushed health-metric exports into the
// store.
//
// This is the one synchronous write path: it runs inside the HTTP request
// that delivers the export and bypasses the scheduler entirely. Validation
// failures reject the whole payload with no state mutation.
package ingest

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Required metric series names in the export.
const (
	metricActiveEnergy = "active_energy"
	metricExerciseTime = "apple_exercise_time"
	metricStandHour    = "apple_stand_hour"
)

// Export is the pushed health-export payload.
type Export struct {
	Data ExportData `json:"data"`
}

// ExportData carries the metric series and optional workouts.
type ExportData struct {
	Metrics  []Metric        `json:"metrics"`
	Workouts []WorkoutRecord `json:"workouts"`
}

// Metric is one named series of per-day samples.
type Metric struct {
	Name string   `json:"name"`
	Data []Sample `json:"data"`
}

// Sample is one quantity reading.
type Sample struct {
	Qty float64 `json:"qty"`
}

// WorkoutRecord is one workout in the export.
type WorkoutRecord struct {
	Name         string    `json:"name"`
	End          time.Time `json:"end"`
	ActiveEnergy Sample    `json:"activeEnergy"`
}

// ValidationError marks a rejected payload. The store is untouched when one
// is returned.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Service validates exports and writes the activity field group.
type Service struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the ingest service.
func NewService(st *store.Store, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Service{
		store:  st,
		logger: logger.Named("ingest"),
		now:    time.Now,
	}, nil
}

// Ingest validates the export and, on success, replaces the activity list,
// the last workout, and the update stamp in one store write.
//
// The three required series are per-day-aligned arrays; they must all be
// present with equal lengths or the payload is rejected. Energy and
// exercise values round to the nearest whole unit; stand hours are kept as
// reported. The last workout comes from the first workout record, or is
// cleared when the export carries none.
func (s *Service) Ingest(export Export) error {
	if export.Data.Metrics == nil {
		return validationErrorf("metrics missing")
	}

	energy, ok := findMetric(export.Data.Metrics, metricActiveEnergy)
	if !ok {
		return validationErrorf("required series %q missing", metricActiveEnergy)
	}
	exercise, ok := findMetric(export.Data.Metrics, metricExerciseTime)
	if !ok {
		return validationErrorf("required series %q missing", metricExerciseTime)
	}
	stand, ok := findMetric(export.Data.Metrics, metricStandHour)
	if !ok {
		return validationErrorf("required series %q missing", metricStandHour)
	}

	if len(energy.Data) != len(exercise.Data) || len(exercise.Data) != len(stand.Data) {
		return validationErrorf("series lengths differ: energy=%d exercise=%d stand=%d",
			len(energy.Data), len(exercise.Data), len(stand.Data))
	}

	days := make([]store.ActivityDay, len(energy.Data))
	for i := range energy.Data {
		days[i] = store.ActivityDay{
			ActiveEnergy: int(math.Round(energy.Data[i].Qty)),
			ExerciseTime: int(math.Round(exercise.Data[i].Qty)),
			StandHour:    stand.Data[i].Qty,
		}
	}

	var workout *store.Workout
	if len(export.Data.Workouts) > 0 {
		w := export.Data.Workouts[0]
		workout = &store.Workout{
			Timestamp:    w.End,
			ActiveEnergy: int(math.Round(w.ActiveEnergy.Qty)),
			Name:         w.Name,
		}
	}

	s.store.SetActivity(workout, days, s.now())
	s.logger.Info("activity ingested",
		zap.Int("days", len(days)),
		zap.Bool("workout", workout != nil),
	)
	return nil
}

// findMetric returns the first series with the given name, mirroring how
// the export format repeats series.
func findMetric(metrics []Metric, name string) (Metric, bool) {
	for _, m := range metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
