package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WorkerTask is one named step of a worker cycle. Fn returns how many items it processed.
type WorkerTask struct {
	Name string
	Fn   func(ctx context.Context) (int, error)
}

// CycleResult reports the outcome of one worker cycle, keyed by task name.
type CycleResult struct {
	Counts   map[string]int
	Failed   []string
	Duration time.Duration
}

func executeTasks(ctx context.Context, workerName string, tasks []WorkerTask) (map[string]int, []string) {
	counts := make(map[string]int, len(tasks))
	var failed []string

	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}

		count, err := task.Fn(ctx)
		if err != nil {
			zap.L().Error("Worker task failed",
				zap.String("worker", workerName),
				zap.String("task", task.Name),
				zap.Error(err))
			failed = append(failed, task.Name)
		}
		counts[task.Name] = count
	}

	return counts, failed
}

// StartPeriodicWorker runs a cycle immediately, then once per interval until ctx is done.
func StartPeriodicWorker(ctx context.Context, workerName string, interval time.Duration, tasks []WorkerTask) {
	zap.L().Info("Starting worker",
		zap.String("worker", workerName),
		zap.Duration("interval", interval))

	RunCycle(ctx, workerName, tasks)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Worker shutting down", zap.String("worker", workerName))
			return
		case <-ticker.C:
			RunCycle(ctx, workerName, tasks)
		}
	}
}

// RunCycle executes the tasks once and logs their counts and timing.
func RunCycle(ctx context.Context, workerName string, tasks []WorkerTask) CycleResult {
	startTime := time.Now()

	counts, failed := executeTasks(ctx, workerName, tasks)
	result := CycleResult{Counts: counts, Failed: failed, Duration: time.Since(startTime)}

	fields := []zap.Field{zap.String("worker", workerName)}
	for _, task := range tasks {
		fields = append(fields, zap.Int(task.Name, counts[task.Name]))
	}
	fields = append(fields, zap.Duration("duration", result.Duration))
	if len(failed) > 0 {
		fields = append(fields, zap.Strings("failed", failed))
	}

	zap.L().Info("Worker cycle complete", fields...)
	return result
}
