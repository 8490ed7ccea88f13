package controllerstatus

import (
	"fmt"
	"strconv"
	"strings"
)

const fieldCount = 19

// fields holds the 19 parsed controller-telemetry values (§4.3). Abnormal
// is set whenever any numeric field failed to parse; the offending value
// is substituted with 0 rather than rejecting the message.
type fields struct {
	VolRed          int
	VolGreen        int
	AmpereRed       float64
	AmpereGreen     float64
	AmpereOff       float64
	DutyRed         int
	DutyGreen       int
	OutputStatus    int
	Temperature     int
	PowerLimit      int
	Direction       int
	Operation       int
	RS485           int
	PublishCount    int
	ResetCount      int
	UnitCommStatus  int
	StatusForUnit   string
	ControllerVer   int
	ControllerTime  int
	Abnormal        bool
}

// parsePayload splits payload into exactly 19 newline-separated fields
// and parses each according to its type. A field count other than 19
// yields ok=false, meaning the caller drops the message silently.
func parsePayload(payload []byte) (fields, bool) {
	lines := strings.Split(string(payload), "\n")
	if len(lines) != fieldCount {
		return fields{}, false
	}

	var f fields
	f.VolRed = parseInt(lines[0], &f.Abnormal)
	f.VolGreen = parseInt(lines[1], &f.Abnormal)
	f.AmpereRed = parseFloat(lines[2], &f.Abnormal)
	f.AmpereGreen = parseFloat(lines[3], &f.Abnormal)
	f.AmpereOff = parseFloat(lines[4], &f.Abnormal)
	f.DutyRed = parseInt(lines[5], &f.Abnormal)
	f.DutyGreen = parseInt(lines[6], &f.Abnormal)
	f.OutputStatus = parseInt(lines[7], &f.Abnormal)
	f.Temperature = parseInt(lines[8], &f.Abnormal)
	f.PowerLimit = parseInt(lines[9], &f.Abnormal)
	f.Direction = parseInt(lines[10], &f.Abnormal)
	f.Operation = parseInt(lines[11], &f.Abnormal)
	f.RS485 = parseInt(lines[12], &f.Abnormal)
	f.PublishCount = parseInt(lines[13], &f.Abnormal)
	f.ResetCount = parseInt(lines[14], &f.Abnormal)
	f.UnitCommStatus = parseInt(lines[15], &f.Abnormal)
	f.StatusForUnit = strings.TrimSpace(lines[16])
	f.ControllerVer = parseInt(lines[17], &f.Abnormal)
	f.ControllerTime = parseInt(lines[18], &f.Abnormal)

	return f, true
}

// rawData reconstructs the persisted 19-line payload, zero-padding
// controller_ver (field 17) to width 2 and controller_time (field 18)
// to width 8.
func (f fields) rawData() string {
	lines := []string{
		strconv.Itoa(f.VolRed),
		strconv.Itoa(f.VolGreen),
		formatFloat(f.AmpereRed),
		formatFloat(f.AmpereGreen),
		formatFloat(f.AmpereOff),
		strconv.Itoa(f.DutyRed),
		strconv.Itoa(f.DutyGreen),
		strconv.Itoa(f.OutputStatus),
		strconv.Itoa(f.Temperature),
		strconv.Itoa(f.PowerLimit),
		strconv.Itoa(f.Direction),
		strconv.Itoa(f.Operation),
		strconv.Itoa(f.RS485),
		strconv.Itoa(f.PublishCount),
		strconv.Itoa(f.ResetCount),
		strconv.Itoa(f.UnitCommStatus),
		f.StatusForUnit,
		fmt.Sprintf("%02d", f.ControllerVer),
		fmt.Sprintf("%08d", f.ControllerTime),
	}
	return strings.Join(lines, "\n")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseInt(raw string, abnormal *bool) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*abnormal = true
		return 0
	}
	return v
}

func parseFloat(raw string, abnormal *bool) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		*abnormal = true
		return 0
	}
	return v
}

// commOK reports whether the rs485 field indicates healthy comm: value
// must be 0 or 1.
// TODO: confirm with the controller firmware team whether a future
// revision adds a third "degraded" state between 0 and 1.
func (f fields) commOK() bool {
	return f.RS485 == 0 || f.RS485 == 1
}
