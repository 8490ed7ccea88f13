// Package alert is the Alert Coordinator: it renders the Korean-locale
// templates (§6), deduplicates identical in-flight alerts within a short
// window, and fans out sends over a bounded worker pool (REDESIGN
// FLAGS — replacing the original's unbounded fire-and-forget tasks).
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Sender delivers a rendered message to every configured recipient. The
// SMS Gateway's bulk distribution surface (send_sms_all) satisfies this.
type Sender interface {
	SendAll(ctx context.Context, message string) error
}

// Logger is the minimal logging surface the Coordinator needs.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// Coordinator queues alert sends. Queue is non-blocking: it spawns a
// detached goroutine bounded by a worker-pool semaphore and returns
// immediately, matching the fire-and-forget contract of §4.3.
type Coordinator struct {
	sender Sender
	sem    *semaphore.Weighted
	logger Logger

	dedupMu     sync.Mutex
	dedup       map[string]time.Time
	dedupWindow time.Duration
}

// New constructs a Coordinator. poolSize bounds concurrent sends;
// dedupWindow is how long an identical (device, kind) alert is
// suppressed after it is first queued.
func New(sender Sender, poolSize int, dedupWindow time.Duration) *Coordinator {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Coordinator{
		sender:      sender,
		sem:         semaphore.NewWeighted(int64(poolSize)),
		logger:      noopLogger{},
		dedup:       make(map[string]time.Time),
		dedupWindow: dedupWindow,
	}
}

// SetLogger sets the logger used to report send failures.
func (c *Coordinator) SetLogger(logger Logger) {
	c.logger = logger
}

// Queue renders kind/data and schedules a send to every recipient,
// unless an identical (canonicalID, kind) alert was already queued
// within the dedup window. The send runs detached from the caller — per
// §5, subtasks are not individually cancellable and terminate only on
// process shutdown.
func (c *Coordinator) Queue(canonicalID string, kind Kind, data Data) {
	if !c.admit(canonicalID, kind) {
		return
	}

	message := Render(kind, data)

	go func() {
		if err := c.sem.Acquire(context.Background(), 1); err != nil {
			c.logger.Error("alert worker pool acquire failed", "device", canonicalID, "error", err)
			return
		}
		defer c.sem.Release(1)

		if err := c.sender.SendAll(context.Background(), message); err != nil {
			c.logger.Error("alert send failed", "device", canonicalID, "error", err)
		}
	}()
}

func (c *Coordinator) admit(canonicalID string, kind Kind) bool {
	key := fmt.Sprintf("%s:%d", canonicalID, kind)

	c.dedupMu.Lock()
	defer c.dedupMu.Unlock()

	now := time.Now()
	if last, ok := c.dedup[key]; ok && now.Sub(last) < c.dedupWindow {
		return false
	}
	c.dedup[key] = now
	return true
}
