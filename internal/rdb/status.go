package rdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wacker23/dolphin-core/internal/equipment"
)

// InsertEquipmentStatus appends one controller-telemetry record. Both the
// reconstructed rawData string and the columnar ampere/duty fast-path
// fields are written so the Baseline Refresher can prefer the columnar
// read (REDESIGN FLAGS).
func (g *Gateway) InsertEquipmentStatus(ctx context.Context, s equipment.EquipmentStatus) error {
	const query = `
		INSERT INTO equipment_status
			(equipment_type, equipment_id, rawData, state, abnormal, receive_date,
			 ampere_red, duty_red, ampere_green, duty_green)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := g.db.ExecContext(ctx, query,
		s.EquipmentType, s.EquipmentID, s.RawData, s.State.String(), s.Abnormal, s.ReceiveDate,
		s.AmpereRed, s.DutyRed, s.AmpereGreen, s.DutyGreen)
	if err != nil {
		return fmt.Errorf("inserting equipment status for %s%d: %w", s.EquipmentType, s.EquipmentID, err)
	}
	return nil
}

// LatestEquipmentStatus returns the newest status record for a device,
// ordered by id desc per spec §3 ("receive_date is not strictly
// monotonic; consumers... sort by id desc for 'latest'").
func (g *Gateway) LatestEquipmentStatus(ctx context.Context, equipmentType string, id int) (*equipment.EquipmentStatus, error) {
	const query = `
		SELECT id, equipment_type, equipment_id, rawData, state, abnormal, receive_date,
		       ampere_red, duty_red, ampere_green, duty_green
		FROM equipment_status
		WHERE equipment_type = ? AND equipment_id = ?
		ORDER BY id DESC
		LIMIT 1`

	row := g.db.QueryRowContext(ctx, query, equipmentType, id)

	var s equipment.EquipmentStatus
	var state string
	if err := row.Scan(&s.ID, &s.EquipmentType, &s.EquipmentID, &s.RawData, &state, &s.Abnormal, &s.ReceiveDate,
		&s.AmpereRed, &s.DutyRed, &s.AmpereGreen, &s.DutyGreen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // "no action if there are no status records for the device" (§4.5)
		}
		return nil, fmt.Errorf("querying latest status for %s%d: %w", equipmentType, id, err)
	}
	s.State = equipment.ParseEquipmentStatusState(state)

	return &s, nil
}
