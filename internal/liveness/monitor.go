package liveness

import (
	"context"
	"fmt"
	"time"

	"github.com/wacker23/dolphin-core/internal/alert"
	"github.com/wacker23/dolphin-core/internal/equipment"
)

// kst is a fixed UTC+9 offset — the original never observes daylight
// saving, so a fixed zone avoids depending on the system tzdata.
var kst = time.FixedZone("KST", 9*60*60)

// Logger is the minimal logging surface the Monitor needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// store is the subset of the RDB Gateway the Monitor depends on.
type store interface {
	ListActiveEquipment(ctx context.Context) ([]equipment.Equipment, error)
	LatestEquipmentStatus(ctx context.Context, equipmentType string, id int) (*equipment.EquipmentStatus, error)
	UpdateDeviceState(ctx context.Context, equipmentType string, id int, state equipment.EquipmentStatusState) error
}

// alerter queues a rendered alert for asynchronous delivery.
type alerter interface {
	Queue(canonicalID string, kind alert.Kind, data alert.Data)
}

// Monitor implements the fixed-cadence liveness sweep.
type Monitor struct {
	store  store
	alerts alerter
	logger Logger
	now    func() time.Time
}

// New constructs a Monitor over the given RDB Gateway and Alert
// Coordinator.
func New(store store, alerts alerter) *Monitor {
	return &Monitor{store: store, alerts: alerts, logger: noopLogger{}, now: time.Now}
}

// SetLogger sets the logger used to report per-device sweep failures.
func (m *Monitor) SetLogger(logger Logger) {
	m.logger = logger
}

// Sweep runs one liveness pass over every active device (§4.5).
func (m *Monitor) Sweep(ctx context.Context) error {
	devices, err := m.store.ListActiveEquipment(ctx)
	if err != nil {
		return fmt.Errorf("listing active equipment: %w", err)
	}

	for _, e := range devices {
		if err := m.sweepOne(ctx, e); err != nil {
			m.logger.Error("liveness sweep failed", "device", e.CanonicalID(), "error", err)
		}
	}
	return nil
}

func (m *Monitor) sweepOne(ctx context.Context, e equipment.Equipment) error {
	status, err := m.store.LatestEquipmentStatus(ctx, e.Type, e.ID)
	if err != nil {
		return err
	}
	if status == nil {
		return nil // no action if there are no status records for the device
	}

	receiveUTC := asKST(status.ReceiveDate).UTC()
	delta := m.now().UTC().Sub(receiveUTC).Seconds()

	switch {
	case delta > 1.5*float64(e.Interval) && e.DeviceState != equipment.StateFault:
		if err := m.store.UpdateDeviceState(ctx, e.Type, e.ID, equipment.StateFault); err != nil {
			return err
		}
		m.alerts.Queue(e.CanonicalID(), alert.KindLTEFault, alert.Data{Place: e.LocationName, Type: e.Type, ID: e.ID})

	case e.DeviceState == equipment.StateFault && delta <= 1.5*float64(e.Interval):
		if err := m.store.UpdateDeviceState(ctx, e.Type, e.ID, equipment.StateNormal); err != nil {
			return err
		}
		m.alerts.Queue(e.CanonicalID(), alert.KindLTEResumed, alert.Data{Place: e.LocationName, Type: e.Type, ID: e.ID})
	}

	return nil
}

// asKST reinterprets t's wall-clock components as a time in the KST
// zone, regardless of what zone t currently carries — mirroring "the
// stored naive time interpreted as KST" from spec §4.5.
func asKST(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), kst)
}
