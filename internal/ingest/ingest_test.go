package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/store"
)

func series(name string, qtys ...float64) Metric {
	m := Metric{Name: name}
	for _, q := range qtys {
		m.Data = append(m.Data, Sample{Qty: q})
	}
	return m
}

func validExport() Export {
	return Export{Data: ExportData{
		Metrics: []Metric{
			series("active_energy", 520.6, 480.2, 610.0),
			series("apple_exercise_time", 32.4, 28.5, 45.0),
			series("apple_stand_hour", 11, 9, 12.5),
		},
		Workouts: []WorkoutRecord{
			{
				Name:         "Outdoor Run",
				End:          time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC),
				ActiveEnergy: Sample{Qty: 384.7},
			},
			{
				Name:         "Walk",
				End:          time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC),
				ActiveEnergy: Sample{Qty: 120.1},
			},
		},
	}}
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New()
	svc, err := NewService(st, zap.NewNop())
	require.NoError(t, err)
	return svc, st
}

func TestNewService(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		_, err := NewService(nil, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("requires a logger", func(t *testing.T) {
		_, err := NewService(store.New(), nil)
		assert.Error(t, err)
	})
}

func TestIngest(t *testing.T) {
	t.Run("zips aligned series into per-day records", func(t *testing.T) {
		svc, st := newTestService(t)

		require.NoError(t, svc.Ingest(validExport()))

		v := st.View()
		require.Len(t, v.Activity, 3)
		assert.Equal(t, store.ActivityDay{ActiveEnergy: 521, ExerciseTime: 32, StandHour: 11}, v.Activity[0])
		assert.Equal(t, store.ActivityDay{ActiveEnergy: 480, ExerciseTime: 29, StandHour: 9}, v.Activity[1])
		// Stand hours keep their precision; energy and exercise round.
		assert.Equal(t, store.ActivityDay{ActiveEnergy: 610, ExerciseTime: 45, StandHour: 12.5}, v.Activity[2])

		require.NotNil(t, v.LastWorkout)
		assert.Equal(t, "Outdoor Run", v.LastWorkout.Name)
		assert.Equal(t, 385, v.LastWorkout.ActiveEnergy)
		assert.Equal(t, time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC), v.LastWorkout.Timestamp)

		require.NotNil(t, v.ActivityUpdatedAt)
		assert.WithinDuration(t, time.Now(), *v.ActivityUpdatedAt, 5*time.Second)
	})

	t.Run("no workouts clears the previous one", func(t *testing.T) {
		svc, st := newTestService(t)

		require.NoError(t, svc.Ingest(validExport()))
		require.NotNil(t, st.View().LastWorkout)

		export := validExport()
		export.Data.Workouts = nil
		require.NoError(t, svc.Ingest(export))

		assert.Nil(t, st.View().LastWorkout)
	})

	t.Run("missing metrics collection is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Ingest(Export{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("missing required series is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		export := validExport()
		export.Data.Metrics = export.Data.Metrics[:2] // drop stand hours

		err := svc.Ingest(export)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "apple_stand_hour")
	})

	t.Run("mismatched series lengths leave prior state untouched", func(t *testing.T) {
		svc, st := newTestService(t)
		require.NoError(t, svc.Ingest(validExport()))
		before := st.View()

		bad := Export{Data: ExportData{
			Metrics: []Metric{
				series("active_energy", 1, 2, 3),
				series("apple_exercise_time", 1, 2, 3),
				series("apple_stand_hour", 1, 2),
			},
			Workouts: []WorkoutRecord{{Name: "Swim"}},
		}}

		err := svc.Ingest(bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		after := st.View()
		assert.Equal(t, before.Activity, after.Activity)
		assert.Equal(t, before.LastWorkout, after.LastWorkout)
		assert.Equal(t, before.ActivityUpdatedAt, after.ActivityUpdatedAt)
	})

	t.Run("extra series are ignored", func(t *testing.T) {
		svc, st := newTestService(t)

		export := validExport()
		export.Data.Metrics = append(export.Data.Metrics, series("heart_rate", 60, 61))

		require.NoError(t, svc.Ingest(export))
		assert.Len(t, st.View().Activity, 3)
	})
}
