package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retentionLogger struct {
	cutoffs []time.Time
	deleted int
	err     error
}

func (r *retentionLogger) Send(_ models.Activity) error { return nil }
func (r *retentionLogger) Search(_ map[string][]string, _ int) ([]map[string]any, error) {
	return nil, nil
}
func (r *retentionLogger) CountByDay(_ map[string][]string, _ int) ([]models.TimeSeriesPoint, error) {
	return nil, nil
}
func (r *retentionLogger) Close() error { return nil }

func (r *retentionLogger) DeleteOlderThan(cutoff time.Time) (int, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return r.deleted, r.err
}

func TestActivityRetentionWorker(t *testing.T) {
	now := time.Date(2025, time.March, 15, 3, 0, 0, 0, time.UTC)

	t.Run("should delete entries older than the retention window", func(t *testing.T) {
		logger := &retentionLogger{deleted: 12}
		worker := &ActivityRetentionWorker{
			ActivityLogger: logger,
			RetentionDays:  90,
			Now:            func() time.Time { return now },
		}

		result := RunCycle(context.Background(), ActivityRetentionWorkerName, worker.Tasks())

		require.Len(t, logger.cutoffs, 1)
		assert.Equal(t, time.Date(2024, time.December, 15, 3, 0, 0, 0, time.UTC), logger.cutoffs[0])
		assert.Equal(t, 12, result.Counts["expired_activity"])
		assert.Empty(t, result.Failed)
	})

	t.Run("should report failed tasks", func(t *testing.T) {
		logger := &retentionLogger{err: errors.New("index closed")}
		worker := &ActivityRetentionWorker{ActivityLogger: logger, RetentionDays: 30, Now: func() time.Time { return now }}

		result := RunCycle(context.Background(), ActivityRetentionWorkerName, worker.Tasks())

		assert.Equal(t, []string{"expired_activity"}, result.Failed)
	})
}

func TestRunCycleStopsOnCancelledContext(t *testing.T) {
	calls := 0
	tasks := []WorkerTask{
		{Name: "first", Fn: func(_ context.Context) (int, error) { calls++; return 1, nil }},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := RunCycle(ctx, "test", tasks)

	assert.Zero(t, calls)
	assert.Zero(t, result.Counts["first"])
}

func TestStartPeriodicWorkerReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 4)
	tasks := []WorkerTask{
		{Name: "tick", Fn: func(_ context.Context) (int, error) {
			runs <- struct{}{}
			return 0, nil
		}},
	}

	done := make(chan struct{})
	go func() {
		StartPeriodicWorker(ctx, "test", time.Hour, tasks)
		close(done)
	}()

	select {
	case <-runs:
	case <-time.After(time.Second):
		t.Fatal("worker did not run its first cycle")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
