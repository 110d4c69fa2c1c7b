package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeJob counts invocations and can fail or panic on demand.
type fakeJob struct {
	name     string
	interval time.Duration
	runs     atomic.Int64
	fail     bool
	panics   bool
}

func (j *fakeJob) Name() string            { return j.name }
func (j *fakeJob) Interval() time.Duration { return j.interval }

func (j *fakeJob) Refresh(ctx context.Context) error {
	j.runs.Add(1)
	if j.panics {
		panic("boom")
	}
	if j.fail {
		return errors.New("upstream unavailable")
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestNewScheduler(t *testing.T) {
	t.Run("requires a logger", func(t *testing.T) {
		_, err := NewScheduler(nil, nil)
		assert.Error(t, err)
	})
}

func TestSchedulerRunsJobs(t *testing.T) {
	t.Run("runs every job immediately at start", func(t *testing.T) {
		a := &fakeJob{name: "a", interval: time.Hour}
		b := &fakeJob{name: "b", interval: time.Hour}

		s, err := NewScheduler(zap.NewNop(), []Job{a, b})
		require.NoError(t, err)
		require.NoError(t, s.Start())
		defer s.Stop()

		waitFor(t, func() bool { return a.runs.Load() == 1 && b.runs.Load() == 1 })
	})

	t.Run("reruns on the interval", func(t *testing.T) {
		j := &fakeJob{name: "fast", interval: 10 * time.Millisecond}

		s, err := NewScheduler(zap.NewNop(), []Job{j})
		require.NoError(t, err)
		require.NoError(t, s.Start())
		defer s.Stop()

		waitFor(t, func() bool { return j.runs.Load() >= 3 })
	})

	t.Run("a failing job keeps being retried and never affects others", func(t *testing.T) {
		bad := &fakeJob{name: "bad", interval: 10 * time.Millisecond, fail: true}
		good := &fakeJob{name: "good", interval: 10 * time.Millisecond}

		s, err := NewScheduler(zap.NewNop(), []Job{bad, good})
		require.NoError(t, err)
		require.NoError(t, s.Start())
		defer s.Stop()

		waitFor(t, func() bool { return bad.runs.Load() >= 2 && good.runs.Load() >= 2 })
	})

	t.Run("a panicking job does not kill its loop", func(t *testing.T) {
		j := &fakeJob{name: "panicky", interval: 10 * time.Millisecond, panics: true}

		s, err := NewScheduler(zap.NewNop(), []Job{j})
		require.NoError(t, err)
		require.NoError(t, s.Start())
		defer s.Stop()

		waitFor(t, func() bool { return j.runs.Load() >= 2 })
	})
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Run("double start errors", func(t *testing.T) {
		s, err := NewScheduler(zap.NewNop(), []Job{&fakeJob{name: "a", interval: time.Hour}})
		require.NoError(t, err)
		require.NoError(t, s.Start())
		defer s.Stop()

		assert.Error(t, s.Start())
	})

	t.Run("stop halts rescheduling and is idempotent", func(t *testing.T) {
		j := &fakeJob{name: "fast", interval: 10 * time.Millisecond}
		s, err := NewScheduler(zap.NewNop(), []Job{j})
		require.NoError(t, err)
		require.NoError(t, s.Start())

		waitFor(t, func() bool { return j.runs.Load() >= 1 })
		s.Stop()
		s.Stop()

		settled := j.runs.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, settled, j.runs.Load())
	})

	t.Run("can be restarted after stop", func(t *testing.T) {
		j := &fakeJob{name: "a", interval: time.Hour}
		s, err := NewScheduler(zap.NewNop(), []Job{j})
		require.NoError(t, err)

		require.NoError(t, s.Start())
		s.Stop()
		require.NoError(t, s.Start())
		defer s.Stop()

		waitFor(t, func() bool { return j.runs.Load() >= 2 })
	})
}
