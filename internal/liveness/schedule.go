package liveness

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Register schedules Sweep to run on a fixed interval (§4.5, default 5
// minutes) against sched. The first sweep runs after the first interval
// elapses, matching gocron's DurationJob semantics.
func (m *Monitor) Register(sched gocron.Scheduler, interval time.Duration) error {
	_, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := m.Sweep(context.Background()); err != nil {
				m.logger.Error("liveness sweep failed", "error", err)
			}
		}),
	)
	return err
}
