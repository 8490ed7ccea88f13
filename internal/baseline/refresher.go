package baseline

import (
	"context"
	"fmt"

	"github.com/wacker23/dolphin-core/internal/equipment"
	"github.com/wacker23/dolphin-core/internal/rdb"
)

// Logger is the minimal logging surface the Refresher needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// history is the subset of the RDB Gateway the Refresher depends on —
// narrowed to ease testing with a fake. *rdb.Gateway satisfies it.
type history interface {
	ListActiveEquipment(ctx context.Context) ([]equipment.Equipment, error)
	HistoryAmpereDuty(ctx context.Context, equipmentType string, id int, channel string) ([]rdb.AmpereDutyPair, error)
}

// Refresher rebuilds the Baseline Cache on a fixed cadence (§4.6, every
// 60 minutes by default).
type Refresher struct {
	history history
	cache   *Cache
	logger  Logger
}

// NewRefresher constructs a Refresher over the given history source and
// cache. source is usually an *rdb.Gateway, accepted through the history
// interface above.
func NewRefresher(source history, cache *Cache) *Refresher {
	return &Refresher{history: source, cache: cache, logger: noopLogger{}}
}

// SetLogger sets the logger used to report per-device refresh failures.
func (r *Refresher) SetLogger(logger Logger) {
	r.logger = logger
}

// Refresh rebuilds the entire snapshot off-lock and swaps it in once,
// per the copy-on-write design: a classifier reading the old snapshot
// mid-refresh is unaffected.
func (r *Refresher) Refresh(ctx context.Context) error {
	devices, err := r.history.ListActiveEquipment(ctx)
	if err != nil {
		return fmt.Errorf("listing active equipment: %w", err)
	}

	next := make(map[string]DeviceBaselines, len(devices))
	for _, e := range devices {
		if e.Units == 0 {
			continue // guard division, §4.6 step 3
		}

		red, err := r.buildChannel(ctx, e, "red")
		if err != nil {
			r.logger.Error("baseline refresh failed", "device", e.CanonicalID(), "channel", "red", "error", err)
			continue
		}
		green, err := r.buildChannel(ctx, e, "green")
		if err != nil {
			r.logger.Error("baseline refresh failed", "device", e.CanonicalID(), "channel", "green", "error", err)
			continue
		}

		next[e.CanonicalID()] = DeviceBaselines{Red: red, Green: green}
	}

	r.cache.Swap(next)
	r.logger.Info("baseline cache refreshed", "devices", len(next))
	return nil
}

// buildChannel groups a device's (ampere, duty) history by duty string
// and averages, normalised per unit (§4.6 steps 2-3).
func (r *Refresher) buildChannel(ctx context.Context, e equipment.Equipment, channel string) (map[string]float64, error) {
	pairs, err := r.history.HistoryAmpereDuty(ctx, e.Type, e.ID, channel)
	if err != nil {
		return nil, err
	}

	type accum struct {
		sum   float64
		count int
	}
	groups := make(map[string]*accum)
	for _, p := range pairs {
		a, ok := groups[p.Duty]
		if !ok {
			a = &accum{}
			groups[p.Duty] = a
		}
		a.sum += p.Ampere
		a.count++
	}

	out := make(map[string]float64, len(groups))
	for duty, a := range groups {
		if a.count == 0 {
			continue
		}
		out[duty] = (a.sum / float64(a.count)) / float64(e.Units)
	}
	return out, nil
}
