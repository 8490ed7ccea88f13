package controllerstatus

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/wacker23/dolphin-core/internal/alert"
	"github.com/wacker23/dolphin-core/internal/equipment"
	"github.com/wacker23/dolphin-core/internal/infrastructure/mqtt"
)

// Logger is the minimal logging surface the Handler needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// equipmentStore is the subset of the RDB Gateway this handler needs.
type equipmentStore interface {
	GetEquipment(ctx context.Context, equipmentType string, id int) (*equipment.Equipment, error)
	UpdateDeviceState(ctx context.Context, equipmentType string, id int, state equipment.EquipmentStatusState) error
}

// statusStore is the subset of the RDB Gateway used to persist records.
type statusStore interface {
	InsertEquipmentStatus(ctx context.Context, s equipment.EquipmentStatus) error
}

// baselineSource is the read surface of the Baseline Cache.
type baselineSource interface {
	Get(canonicalID string) (red, green map[string]float64, ok bool)
}

// alerter queues a rendered alert for asynchronous delivery.
type alerter interface {
	Queue(canonicalID string, kind alert.Kind, data alert.Data)
}

// Handler implements the Controller-status classification pipeline.
type Handler struct {
	equipment equipmentStore
	status    statusStore
	baseline  baselineSource
	alerts    alerter
	exclude   map[string]struct{}
	logger    Logger
}

// New constructs a Handler. excludeDevices suppresses all alerts for the
// listed canonical device ids (EXCLUDE_DEVICES, §4.3 step 8).
func New(store interface {
	equipmentStore
	statusStore
}, baseline baselineSource, alerts alerter, excludeDevices []string) *Handler {
	exclude := make(map[string]struct{}, len(excludeDevices))
	for _, d := range excludeDevices {
		exclude[d] = struct{}{}
	}
	return &Handler{
		equipment: store,
		status:    store,
		baseline:  baseline,
		alerts:    alerts,
		exclude:   exclude,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger used to report parse and persistence
// failures.
func (h *Handler) SetLogger(logger Logger) {
	h.logger = logger
}

// Handle matches router.Handler. It parses the topic and payload
// synchronously — both cheap — then detaches classification and
// persistence onto their own goroutine (§5).
func (h *Handler) Handle(topic string, payload []byte) error {
	canonicalID := mqtt.DeviceIDFromTopic(topic)

	equipmentType, id := equipment.DecomposeID(canonicalID)
	if equipmentType == "" {
		return nil // invalid decomposition: ignore message (§4.2)
	}

	f, ok := parsePayload(payload)
	if !ok {
		return nil // field count != 19: dropped silently (§4.3)
	}

	go h.process(context.Background(), canonicalID, equipmentType, id, f)
	return nil
}

// process runs the full classification algorithm (§4.3 steps 1-9).
func (h *Handler) process(ctx context.Context, canonicalID, equipmentType string, id int, f fields) {
	eq, err := h.equipment.GetEquipment(ctx, equipmentType, id)
	if err != nil {
		if !errors.Is(err, equipment.ErrNotFound) {
			h.logger.Error("controller status: equipment lookup failed", "device", canonicalID, "error", err)
		}
		return // step 1: not found -> drop
	}

	var queued []queuedAlert

	if eq.DeviceState == equipment.StateFault {
		queued = append(queued, queuedAlert{alert.KindLTEResumed, alert.Data{Place: eq.LocationName, Type: equipmentType, ID: id}})
	}

	if f.Abnormal {
		queued = append(queued, queuedAlert{alert.KindMalformedPayload, alert.Data{Type: equipmentType, ID: id}})
		h.finish(ctx, canonicalID, equipmentType, id, f, equipment.StateAbnormal, queued)
		return
	}

	redPerUnit := perUnit(f.AmpereRed, eq.Units)
	greenPerUnit := perUnit(f.AmpereGreen, eq.Units)

	var hasBaseline bool
	var baselineRed, baselineGreen map[string]float64
	if h.baseline != nil {
		baselineRed, baselineGreen, hasBaseline = h.baseline.Get(canonicalID)
	}

	redResult := classifyChannel(redPerUnit, f.DutyRed, f.commOK(), hasBaseline, baselineRed, strconv.Itoa(f.DutyRed))
	greenResult := classifyChannel(greenPerUnit, f.DutyGreen, f.commOK(), hasBaseline, baselineGreen, strconv.Itoa(f.DutyGreen))

	metricNormal := redResult.normal && greenResult.normal

	if redResult.commError {
		queued = append(queued, queuedAlert{alert.KindRS485CommError, alert.Data{Place: eq.LocationName, Type: equipmentType, ID: id}})
	} else if redResult.abnormalMeasure {
		queued = append(queued, queuedAlert{alert.KindRedAbnormalCurrent, alert.Data{Place: eq.LocationName, Type: equipmentType, ID: id, Ampere: f.AmpereRed}})
	}

	if greenResult.commError {
		queued = append(queued, queuedAlert{alert.KindRS485CommError, alert.Data{Place: eq.LocationName, Type: equipmentType, ID: id}})
	} else if greenResult.abnormalMeasure {
		queued = append(queued, queuedAlert{alert.KindGreenAbnormalCurrent, alert.Data{Place: eq.LocationName, Type: equipmentType, ID: id, Ampere: f.AmpereGreen}})
	}

	state := equipment.StateNormal
	if !metricNormal {
		state = equipment.StateAbnormal
	}

	h.finish(ctx, canonicalID, equipmentType, id, f, state, queued)
}

// finish persists the status record, mirrors the classification onto the
// Equipment row, and fires any queued alerts unless the device is
// excluded (§4.3 steps 8-9).
func (h *Handler) finish(ctx context.Context, canonicalID, equipmentType string, id int, f fields, state equipment.EquipmentStatusState, queued []queuedAlert) {
	equipmentState := equipment.StateNormal
	if state != equipment.StateNormal {
		equipmentState = equipment.StateETC
	}

	record := equipment.EquipmentStatus{
		EquipmentType: equipmentType,
		EquipmentID:   id,
		RawData:       f.rawData(),
		State:         state,
		Abnormal:      f.Abnormal,
		ReceiveDate:   time.Now(),
		AmpereRed:     f.AmpereRed,
		DutyRed:       f.DutyRed,
		AmpereGreen:   f.AmpereGreen,
		DutyGreen:     f.DutyGreen,
	}

	if err := h.status.InsertEquipmentStatus(ctx, record); err != nil {
		h.logger.Error("controller status: persisting record failed", "device", canonicalID, "error", err)
	}

	if err := h.equipment.UpdateDeviceState(ctx, equipmentType, id, equipmentState); err != nil {
		h.logger.Error("controller status: updating device state failed", "device", canonicalID, "error", err)
	}

	if _, excluded := h.exclude[canonicalID]; excluded {
		return
	}

	for _, q := range queued {
		h.alerts.Queue(canonicalID, q.kind, q.data)
	}
}

type queuedAlert struct {
	kind alert.Kind
	data alert.Data
}

func perUnit(ampere float64, units int) float64 {
	if units == 0 {
		return 0
	}
	return ampere / float64(units)
}
