package baseline

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Register schedules Refresh to run on a fixed interval (§4.6, default
// 60 minutes) against sched.
func (r *Refresher) Register(sched gocron.Scheduler, interval time.Duration) error {
	_, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := r.Refresh(context.Background()); err != nil {
				r.logger.Error("baseline refresh failed", "error", err)
			}
		}),
	)
	return err
}
