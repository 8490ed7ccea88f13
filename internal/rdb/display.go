package rdb

import (
	"context"
	"fmt"

	"github.com/wacker23/dolphin-core/internal/equipment"
)

// InsertDisplayDeviceInfo appends one display-device dataset record. This
// is one of two independent writes per dataset (§4.4); the caller is
// responsible for persisting the DocStore mirror separately and for not
// aborting one sink's write because the other failed.
func (g *Gateway) InsertDisplayDeviceInfo(ctx context.Context, d equipment.DisplayDeviceInfo) error {
	const query = `
		INSERT INTO display_device_info
			(id, equipment_type, equipment_id, voltage_red, voltage_green,
			 current_red, current_green, off_current_red, off_current_green, temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := g.db.ExecContext(ctx, query,
		d.ID, d.EquipmentType, d.EquipmentID, d.VoltageRed, d.VoltageGreen,
		d.CurrentRed, d.CurrentGreen, d.OffCurrentRed, d.OffCurrentGreen, d.Temperature)
	if err != nil {
		return fmt.Errorf("inserting display device info for %s%d dataset %d: %w",
			d.EquipmentType, d.EquipmentID, d.ID, err)
	}
	return nil
}
