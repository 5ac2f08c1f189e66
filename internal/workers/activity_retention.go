package workers

import (
	"context"
	"time"

	"dashboard/internal/activity"
)

const ActivityRetentionWorkerName = "activity_retention"

// ActivityRetentionWorker drops audit entries older than RetentionDays.
type ActivityRetentionWorker struct {
	ActivityLogger activity.IActivityLogger
	RetentionDays  int
	RunInterval    time.Duration
	Now            func() time.Time
}

func (w *ActivityRetentionWorker) Tasks() []WorkerTask {
	return []WorkerTask{
		{Name: "expired_activity", Fn: w.deleteExpiredActivity},
	}
}

func (w *ActivityRetentionWorker) Start(ctx context.Context) {
	StartPeriodicWorker(ctx, ActivityRetentionWorkerName, w.RunInterval, w.Tasks())
}

func (w *ActivityRetentionWorker) cutoff() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	return now().AddDate(0, 0, -w.RetentionDays)
}

func (w *ActivityRetentionWorker) deleteExpiredActivity(_ context.Context) (int, error) {
	return w.ActivityLogger.DeleteOlderThan(w.cutoff())
}
