package dispdevice

import (
	"context"

	"github.com/wacker23/dolphin-core/internal/equipment"
	"github.com/wacker23/dolphin-core/internal/infrastructure/mqtt"
)

// Logger is the minimal logging surface the Handler needs.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// rdbSink persists one display-device dataset to the relational store.
type rdbSink interface {
	InsertDisplayDeviceInfo(ctx context.Context, d equipment.DisplayDeviceInfo) error
}

// docSink mirrors one display-device dataset into the document store.
type docSink interface {
	PutDataset(ctx context.Context, info equipment.DisplayDeviceInfo) (equipment.Firedisplayinfo, error)
}

// Handler implements the Display-device tokenise/transform/persist
// pipeline.
type Handler struct {
	rdb    rdbSink
	doc    docSink
	logger Logger
}

// New constructs a Handler over the RDB and document-store sinks.
func New(rdb rdbSink, doc docSink) *Handler {
	return &Handler{rdb: rdb, doc: doc, logger: noopLogger{}}
}

// SetLogger sets the logger used to report per-sink write failures.
func (h *Handler) SetLogger(logger Logger) {
	h.logger = logger
}

// Handle matches router.Handler. Tokenising is cheap and runs
// synchronously; persistence of the datasets suspends on I/O and is
// detached onto one goroutine per message, which writes them in order (§5).
func (h *Handler) Handle(topic string, payload []byte) error {
	canonicalID := mqtt.DeviceIDFromTopic(topic)
	equipmentType, id := equipment.DecomposeID(canonicalID)
	if equipmentType == "" {
		return nil // invalid decomposition: ignore message (§4.2)
	}

	datasets := parseChunks(tokenize(payload))
	if len(datasets) == 0 {
		return nil
	}

	go h.persist(context.Background(), canonicalID, equipmentType, id, datasets)
	return nil
}

func (h *Handler) persist(ctx context.Context, canonicalID, equipmentType string, id int, datasets []indexedDataset) {
	for _, d := range datasets {
		info := equipment.DisplayDeviceInfo{
			ID:              d.index,
			EquipmentType:   equipmentType,
			EquipmentID:     id,
			VoltageRed:      d.dataset.LEDRed,
			VoltageGreen:    d.dataset.LEDGreen,
			CurrentRed:      d.dataset.CurrentRed,
			CurrentGreen:    d.dataset.CurrentGreen,
			OffCurrentRed:   d.dataset.OffCurrentRed,
			OffCurrentGreen: d.dataset.OffCurrentGreen,
			Temperature:     d.dataset.Temperature,
		}

		if err := h.rdb.InsertDisplayDeviceInfo(ctx, info); err != nil {
			h.logger.Error("dispdevice: rdb write failed", "device", canonicalID, "dataset", d.index, "error", err)
		}
		if _, err := h.doc.PutDataset(ctx, info); err != nil {
			h.logger.Error("dispdevice: docstore write failed", "device", canonicalID, "dataset", d.index, "error", err)
		}
	}
}
