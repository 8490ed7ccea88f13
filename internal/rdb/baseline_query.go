package rdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AmpereDutyPair is one contributing (ampere, duty_rate) sample pulled
// from EquipmentStatus history, grouped and averaged by the Baseline
// Refresher (§4.6).
type AmpereDutyPair struct {
	Duty   string
	Ampere float64
}

// line numbers (1-based, per spec §4.6) within the reconstructed rawData
// payload for each channel's ampere/duty fields.
const (
	rawDataAmpereRedLine   = 3
	rawDataDutyRedLine     = 6
	rawDataAmpereGreenLine = 4
	rawDataDutyGreenLine   = 7
)

// HistoryAmpereDuty returns the (ampere, duty) samples that contribute to
// the baseline for one device and channel ("red" or "green").
//
// Columnar fields (ampere_red/duty_red/ampere_green/duty_green) are
// preferred when present — they were added at write time per REDESIGN
// FLAGS to replace the brittle substring-indexed query. Rows written
// before those columns existed (ampere_red/duty_red NULL) fall back to
// the legacy SUBSTRING_INDEX extraction out of rawData, matching the
// original implementation's query shape.
func (g *Gateway) HistoryAmpereDuty(ctx context.Context, equipmentType string, id int, channel string) ([]AmpereDutyPair, error) {
	ampereCol, dutyCol, ampereLine, dutyLine, err := channelColumns(channel)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(%s, CAST(SUBSTRING_INDEX(SUBSTRING_INDEX(rawData, '\n', %d), '\n', -1) AS DECIMAL(10,2))) AS ampere,
			COALESCE(%s, SUBSTRING_INDEX(SUBSTRING_INDEX(rawData, '\n', %d), '\n', -1)) AS duty
		FROM equipment_status
		WHERE equipment_type = ? AND equipment_id = ? AND abnormal = false
	`, ampereCol, ampereLine, dutyCol, dutyLine)

	rows, err := g.db.QueryContext(ctx, query, equipmentType, id)
	if err != nil {
		return nil, fmt.Errorf("querying %s history for %s%d: %w", channel, equipmentType, id, err)
	}
	defer rows.Close()

	var out []AmpereDutyPair
	for rows.Next() {
		var p AmpereDutyPair
		if err := rows.Scan(&p.Ampere, &p.Duty); err != nil {
			return nil, fmt.Errorf("scanning %s history row: %w", channel, err)
		}
		if p.Ampere == 0 {
			continue // "ampere ≠ 0" per §4.6
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetAmpValue returns the average ampere for a single duty bucket,
// recovered from original_source/src/lib.rs's get_amp_value. It is an
// additional Gateway query; the Baseline Refresher does not call it.
func (g *Gateway) GetAmpValue(ctx context.Context, equipmentType string, id int, channel string, duty string) (float64, error) {
	ampereCol, dutyCol, ampereLine, dutyLine, err := channelColumns(channel)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		SELECT AVG(COALESCE(%s, CAST(SUBSTRING_INDEX(SUBSTRING_INDEX(rawData, '\n', %d), '\n', -1) AS DECIMAL(10,2))))
		FROM equipment_status
		WHERE equipment_type = ? AND equipment_id = ? AND abnormal = false
		  AND COALESCE(%s, SUBSTRING_INDEX(SUBSTRING_INDEX(rawData, '\n', %d), '\n', -1)) = ?
	`, ampereCol, ampereLine, dutyCol, dutyLine)

	var avg sql.NullFloat64
	row := g.db.QueryRowContext(ctx, query, equipmentType, id, duty)
	if err := row.Scan(&avg); err != nil {
		if errors.Is(err, sql.ErrNoRows) || !avg.Valid {
			return 0, ErrNoBaseline
		}
		return 0, fmt.Errorf("querying amp value for %s%d duty %s: %w", equipmentType, id, duty, err)
	}
	if !avg.Valid {
		return 0, ErrNoBaseline
	}
	return avg.Float64, nil
}

func channelColumns(channel string) (ampereCol, dutyCol string, ampereLine, dutyLine int, err error) {
	switch channel {
	case "red":
		return "ampere_red", "duty_red", rawDataAmpereRedLine, rawDataDutyRedLine, nil
	case "green":
		return "ampere_green", "duty_green", rawDataAmpereGreenLine, rawDataDutyGreenLine, nil
	default:
		return "", "", 0, 0, fmt.Errorf("rdb: unknown channel %q", channel)
	}
}
