package rdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wacker23/dolphin-core/internal/equipment"
)

// GetEquipment loads an Equipment row by its external identity. Returns
// equipment.ErrNotFound if no row matches — callers drop the message
// per spec §4.3 step 1.
func (g *Gateway) GetEquipment(ctx context.Context, equipmentType string, id int) (*equipment.Equipment, error) {
	const query = `
		SELECT id, equipment_type, device_state, interval, units,
		       location_name, is_active, error_cnt, red_correction_cnt, green_correction_cnt
		FROM equipment
		WHERE equipment_type = ? AND id = ?`

	row := g.db.QueryRowxContext(ctx, query, equipmentType, id)

	var e equipment.Equipment
	var state string
	if err := row.Scan(&e.ID, &e.Type, &state, &e.Interval, &e.Units,
		&e.LocationName, &e.IsActive, &e.ErrorCount, &e.RedCorrectionCount, &e.GreenCorrectionCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, equipment.ErrNotFound
		}
		return nil, fmt.Errorf("querying equipment %s%d: %w", equipmentType, id, err)
	}
	e.DeviceState = equipment.ParseEquipmentStatusState(state)

	return &e, nil
}

// GetEquipmentLocation loads the coordinates and install date for an
// equipment row, joined separately from GetEquipment for callers that
// need the full original join (recovered from original_source/src/lib.rs;
// no spec.md operation reads these fields).
func (g *Gateway) GetEquipmentLocation(ctx context.Context, equipmentType string, id int) (*equipment.EquipmentLocation, error) {
	const query = `
		SELECT equipment_type, equipment_id, latitude, longitude, install_date
		FROM equipment_location
		WHERE equipment_type = ? AND equipment_id = ?`

	row := g.db.QueryRowxContext(ctx, query, equipmentType, id)

	var loc equipment.EquipmentLocation
	if err := row.Scan(&loc.EquipmentType, &loc.EquipmentID, &loc.Latitude, &loc.Longitude, &loc.InstallDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, equipment.ErrNotFound
		}
		return nil, fmt.Errorf("querying equipment location %s%d: %w", equipmentType, id, err)
	}

	return &loc, nil
}

// ListActiveEquipment returns every Equipment row with is_active=true, for
// the Liveness Monitor and Baseline Refresher sweeps.
func (g *Gateway) ListActiveEquipment(ctx context.Context) ([]equipment.Equipment, error) {
	const query = `
		SELECT id, equipment_type, device_state, interval, units,
		       location_name, is_active, error_cnt, red_correction_cnt, green_correction_cnt
		FROM equipment
		WHERE is_active = true`

	rows, err := g.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active equipment: %w", err)
	}
	defer rows.Close()

	var out []equipment.Equipment
	for rows.Next() {
		var e equipment.Equipment
		var state string
		if err := rows.Scan(&e.ID, &e.Type, &state, &e.Interval, &e.Units,
			&e.LocationName, &e.IsActive, &e.ErrorCount, &e.RedCorrectionCount, &e.GreenCorrectionCount); err != nil {
			return nil, fmt.Errorf("scanning equipment row: %w", err)
		}
		e.DeviceState = equipment.ParseEquipmentStatusState(state)
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateDeviceState sets the Equipment device_state column, used by the
// controller-status classifier and the liveness monitor.
func (g *Gateway) UpdateDeviceState(ctx context.Context, equipmentType string, id int, state equipment.EquipmentStatusState) error {
	const query = `UPDATE equipment SET device_state = ? WHERE equipment_type = ? AND id = ?`
	if _, err := g.db.ExecContext(ctx, query, state.String(), equipmentType, id); err != nil {
		return fmt.Errorf("updating device state for %s%d: %w", equipmentType, id, err)
	}
	return nil
}

// UpdateErrorCount increments the Equipment.error_cnt counter.
//
// Recovered from original_source/src/lib.rs's update_error_count; the
// telemetry pipeline does not currently call this (parity with the
// original, which defines but never calls it outside test fixtures).
func (g *Gateway) UpdateErrorCount(ctx context.Context, equipmentType string, id int) error {
	const query = `UPDATE equipment SET error_cnt = error_cnt + 1 WHERE equipment_type = ? AND id = ?`
	if _, err := g.db.ExecContext(ctx, query, equipmentType, id); err != nil {
		return fmt.Errorf("updating error count for %s%d: %w", equipmentType, id, err)
	}
	return nil
}

// UpdateRedCorrectionCount increments Equipment.red_correction_cnt.
func (g *Gateway) UpdateRedCorrectionCount(ctx context.Context, equipmentType string, id int) error {
	const query = `UPDATE equipment SET red_correction_cnt = red_correction_cnt + 1 WHERE equipment_type = ? AND id = ?`
	if _, err := g.db.ExecContext(ctx, query, equipmentType, id); err != nil {
		return fmt.Errorf("updating red correction count for %s%d: %w", equipmentType, id, err)
	}
	return nil
}

// UpdateGreenCorrectionCount increments Equipment.green_correction_cnt.
func (g *Gateway) UpdateGreenCorrectionCount(ctx context.Context, equipmentType string, id int) error {
	const query = `UPDATE equipment SET green_correction_cnt = green_correction_cnt + 1 WHERE equipment_type = ? AND id = ?`
	if _, err := g.db.ExecContext(ctx, query, equipmentType, id); err != nil {
		return fmt.Errorf("updating green correction count for %s%d: %w", equipmentType, id, err)
	}
	return nil
}
