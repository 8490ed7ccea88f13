// Package equipment defines the data model shared by every handler and
// gateway: the identified device, its telemetry records, and the
// identifier-decomposition rules used to recognise a canonical device id.
package equipment

import (
	"fmt"
	"time"
)

// EquipmentStatusState is the classification a controller or liveness
// sweep assigns to a device.
type EquipmentStatusState int

const (
	StateNormal EquipmentStatusState = iota
	StateAbnormal
	StateFault
	// StateETC is the Equipment device_state written for any non-normal
	// controller-status result (malformed payload or failed measurement
	// check); the EquipmentStatus record itself is stored as StateAbnormal.
	StateETC
)

func (s EquipmentStatusState) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateAbnormal:
		return "ABNORMAL"
	case StateFault:
		return "FAULT"
	case StateETC:
		return "ETC"
	default:
		return "NORMAL"
	}
}

// ParseEquipmentStatusState parses a stored state string, defaulting to
// StateNormal for anything unrecognised (mirrors the original's lenient
// FromStr behaviour).
func ParseEquipmentStatusState(s string) EquipmentStatusState {
	switch s {
	case "ABNORMAL":
		return StateAbnormal
	case "FAULT":
		return StateFault
	case "ETC":
		return StateETC
	default:
		return StateNormal
	}
}

// AllowedTypes is the set of three-letter equipment-type prefixes
// recognised by DecomposeID.
var AllowedTypes = map[string]struct{}{
	"AGL": {},
	"DGL": {},
	"VGL": {},
	"BGL": {},
	"LGL": {},
}

// Equipment is an identified traffic-signal controller or display device.
// The pair (Type, ID) is its external identity; CanonicalID returns the
// string form used on the wire and in alert templates (e.g. "AGL12").
type Equipment struct {
	ID          int
	Type        string
	DeviceState EquipmentStatusState
	Interval    int // expected telemetry period, seconds
	Units       int // current-normalisation multiplier; may be zero
	LocationName string
	IsActive    bool

	// Recovered from original_source/src/lib.rs; not incremented by the
	// telemetry pipeline itself (parity with the original, which defines
	// but never calls these outside test fixtures). Exposed for the RDB
	// Gateway's typed accessors.
	ErrorCount           int
	RedCorrectionCount   int
	GreenCorrectionCount int
}

// CanonicalID returns the external identity string, e.g. "AGL12".
func (e Equipment) CanonicalID() string {
	return fmt.Sprintf("%s%d", e.Type, e.ID)
}

// EquipmentLocation carries the coordinates and install date recovered
// from original_source/src/schema.rs. No spec.md operation reads these;
// they round-trip through the Equipment Gateway for completeness of the
// join the original performs.
type EquipmentLocation struct {
	EquipmentType string
	EquipmentID   int
	Latitude      float64
	Longitude     float64
	InstallDate   time.Time
}

// EquipmentStatus is one append-only record of received controller
// telemetry.
type EquipmentStatus struct {
	ID            int64
	EquipmentType string
	EquipmentID   int
	RawData       string
	State         EquipmentStatusState
	Abnormal      bool
	ReceiveDate   time.Time // naive local time, interpreted as KST on read

	// Columnar fast-path fields added at write time (REDESIGN FLAGS: the
	// substring-indexed rawData query is brittle to payload reshape).
	// Populated alongside RawData for every controller-status insert;
	// the legacy substring extraction remains available as a fallback
	// for rows written before this field existed.
	AmpereRed  float64
	DutyRed    int
	AmpereGreen float64
	DutyGreen  int
}

// DisplayDeviceInfo is one append-only record extracted from a
// display-device payload.
type DisplayDeviceInfo struct {
	ID            int // dataset index, assigned by parseChunks in internal/dispdevice
	EquipmentType string
	EquipmentID   int
	VoltageRed    int
	VoltageGreen  int
	CurrentRed    int
	CurrentGreen  int
	OffCurrentRed   int
	OffCurrentGreen int
	Temperature   int
}

// Firedisplayinfo mirrors DisplayDeviceInfo in the document store, keyed
// by a generated UUID rather than the dataset index.
type Firedisplayinfo struct {
	ID              string
	DeviceID        int // equal to DisplayDeviceInfo.ID (dataset index)
	EquipmentType   string
	EquipmentID     int
	VoltageRed      int
	VoltageGreen    int
	CurrentRed      int
	CurrentGreen    int
	OffCurrentRed   int
	OffCurrentGreen int
	Temperature     int
	UpdatedAt       time.Time // UTC
}
