package controllerstatus

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wacker23/dolphin-core/internal/alert"
	"github.com/wacker23/dolphin-core/internal/equipment"
)

type fakeStore struct {
	mu         sync.Mutex
	equipments map[string]equipment.Equipment
	inserted   []equipment.EquipmentStatus
	states     map[string]equipment.EquipmentStatusState
}

func newFakeStore() *fakeStore {
	return &fakeStore{equipments: map[string]equipment.Equipment{}, states: map[string]equipment.EquipmentStatusState{}}
}

func (f *fakeStore) GetEquipment(ctx context.Context, equipmentType string, id int) (*equipment.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.equipments[equipmentType+strconv.Itoa(id)]
	if !ok {
		return nil, equipment.ErrNotFound
	}
	cp := e
	return &cp, nil
}

func (f *fakeStore) UpdateDeviceState(ctx context.Context, equipmentType string, id int, state equipment.EquipmentStatusState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[equipmentType+strconv.Itoa(id)] = state
	return nil
}

func (f *fakeStore) InsertEquipmentStatus(ctx context.Context, s equipment.EquipmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, s)
	return nil
}

func (f *fakeStore) insertedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

func (f *fakeStore) lastInserted() equipment.EquipmentStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserted[len(f.inserted)-1]
}

func (f *fakeStore) stateOf(canonical string) equipment.EquipmentStatusState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[canonical]
}

type fakeBaseline struct {
	red, green map[string]float64
	ok         bool
}

func (f fakeBaseline) Get(canonicalID string) (map[string]float64, map[string]float64, bool) {
	return f.red, f.green, f.ok
}

type fakeAlerter struct {
	mu     sync.Mutex
	queued []queuedAlert
}

func (f *fakeAlerter) Queue(canonicalID string, kind alert.Kind, data alert.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, queuedAlert{kind, data})
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queued)
}

func (f *fakeAlerter) kinds() []alert.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]alert.Kind, len(f.queued))
	for i, q := range f.queued {
		out[i] = q.kind
	}
	return out
}

func payload19(values ...string) []byte {
	if len(values) != 19 {
		panic("payload19 requires exactly 19 fields")
	}
	return []byte(strings.Join(values, "\n"))
}

func waitForCond(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestHandleDropsUnknownDevicePrefix(t *testing.T) {
	store := newFakeStore()
	h := New(store, fakeBaseline{}, &fakeAlerter{}, nil)

	if err := h.Handle("XYZ99/status/controller", payload19(
		"1", "1", "10", "10", "0", "50", "50", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if store.insertedCount() != 0 {
		t.Error("expected no insert for unrecognised prefix")
	}
}

func TestHandleDropsWrongFieldCount(t *testing.T) {
	store := newFakeStore()
	h := New(store, fakeBaseline{}, &fakeAlerter{}, nil)

	if err := h.Handle("AGL12/status/controller", []byte("1\n2\n3")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if store.insertedCount() != 0 {
		t.Error("expected no insert for malformed field count")
	}
}

func TestHandleDropsUnknownEquipment(t *testing.T) {
	store := newFakeStore()
	h := New(store, fakeBaseline{}, &fakeAlerter{}, nil)

	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "10", "10", "0", "50", "50", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if store.insertedCount() != 0 {
		t.Error("expected no insert when equipment row is absent")
	}
}

func TestHandleMalformedPayloadQueuesAlertAndPersistsAbnormal(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 4, DeviceState: equipment.StateNormal, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	h := New(store, fakeBaseline{}, alerts, nil)

	if err := h.Handle("AGL12/status/controller", payload19(
		"notanumber", "1", "10", "10", "0", "50", "50", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return store.insertedCount() == 1 })
	rec := store.lastInserted()
	if rec.State != equipment.StateAbnormal || !rec.Abnormal {
		t.Errorf("record = %+v, want Abnormal/StateAbnormal", rec)
	}
	waitForCond(t, func() bool { return alerts.count() == 1 })
	if got := alerts.kinds(); got[0] != alert.KindMalformedPayload {
		t.Errorf("kinds = %v, want [KindMalformedPayload]", got)
	}
	waitForCond(t, func() bool { return store.stateOf("AGL12") == equipment.StateETC })
}

func TestHandleFaultRecoveryQueuesAlert(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 4, DeviceState: equipment.StateFault, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	h := New(store, fakeBaseline{}, alerts, nil)

	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "400", "400", "0", "100", "100", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return alerts.count() >= 1 })
	kinds := alerts.kinds()
	found := false
	for _, k := range kinds {
		if k == alert.KindLTEResumed {
			found = true
		}
	}
	if !found {
		t.Errorf("kinds = %v, want KindLTEResumed present", kinds)
	}
}

func TestHandleOutOfToleranceQueuesAbnormalCurrent(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 1, DeviceState: equipment.StateNormal, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	baseline := fakeBaseline{red: map[string]float64{"100": 100}, green: map[string]float64{"100": 100}, ok: true}
	h := New(store, baseline, alerts, nil)

	// ampere_red=400 vastly exceeds the 100±20% window for duty=100.
	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "400", "100", "0", "100", "100", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return alerts.count() >= 1 })
	kinds := alerts.kinds()
	if kinds[0] != alert.KindRedAbnormalCurrent {
		t.Errorf("kinds = %v, want [KindRedAbnormalCurrent]", kinds)
	}
	waitForCond(t, func() bool { return store.insertedCount() == 1 })
	if rec := store.lastInserted(); rec.State != equipment.StateAbnormal {
		t.Errorf("record state = %v, want StateAbnormal", rec.State)
	}
}

func TestHandleCommErrorQueuesRS485Alert(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 1, DeviceState: equipment.StateNormal, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	baseline := fakeBaseline{red: map[string]float64{"100": 100}, green: map[string]float64{"100": 100}, ok: true}
	h := New(store, baseline, alerts, nil)

	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "100", "100", "0", "100", "100", "1", "25", "0", "0", "0", "9", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return alerts.count() >= 1 })
	for _, k := range alerts.kinds() {
		if k != alert.KindRS485CommError {
			t.Errorf("kinds = %v, want only KindRS485CommError", alerts.kinds())
		}
	}

	// A comm glitch alone is not a fault: readings are within tolerance,
	// so the persisted state and mirrored device state must stay normal.
	waitForCond(t, func() bool { return store.insertedCount() == 1 })
	if rec := store.lastInserted(); rec.State != equipment.StateNormal {
		t.Errorf("record state = %v, want StateNormal (comm error alone must not mark abnormal)", rec.State)
	}
	waitForCond(t, func() bool { return store.stateOf("AGL12") == equipment.StateNormal })
}

func TestHandleExcludedDeviceSuppressesAlerts(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 4, DeviceState: equipment.StateFault, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	h := New(store, fakeBaseline{}, alerts, []string{"AGL12"})

	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "400", "400", "0", "100", "100", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return store.insertedCount() == 1 })
	time.Sleep(10 * time.Millisecond)
	if alerts.count() != 0 {
		t.Errorf("alerts.count() = %d, want 0 (device excluded)", alerts.count())
	}
}

func TestHandleNormalPathNoAlerts(t *testing.T) {
	store := newFakeStore()
	store.equipments["AGL12"] = equipment.Equipment{Type: "AGL", ID: 12, Units: 1, DeviceState: equipment.StateNormal, LocationName: "Main St"}
	alerts := &fakeAlerter{}
	h := New(store, fakeBaseline{}, alerts, nil)

	if err := h.Handle("AGL12/status/controller", payload19(
		"1", "1", "100", "100", "0", "100", "100", "1", "25", "0", "0", "0", "0", "0", "0", "0", "OK", "1", "1")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	waitForCond(t, func() bool { return store.insertedCount() == 1 })
	time.Sleep(10 * time.Millisecond)
	if alerts.count() != 0 {
		t.Errorf("alerts.count() = %d, want 0 for a clean normal reading", alerts.count())
	}
	if rec := store.lastInserted(); rec.State != equipment.StateNormal {
		t.Errorf("record state = %v, want StateNormal", rec.State)
	}
}
