package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/wacker23/dolphin-core/internal/equipment"
	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

// Client is the DocStore Gateway. It inserts/updates Firedisplayinfo
// documents over HTTP, one request per dataset, independent of the RDB
// write for the same dataset (§4.4 — failure of either sink is logged
// and does not abort the other).
type Client struct {
	http    *resty.Client
	baseURL string
}

// New constructs a DocStore client from configuration.
func New(cfg config.DocStoreConfig) *Client {
	return &Client{
		http:    resty.New().SetTimeout(cfg.Timeout),
		baseURL: cfg.BaseURL,
	}
}

// PutDataset generates a fresh document id and UTC timestamp, then
// inserts the document-store mirror of one display-device dataset.
func (c *Client) PutDataset(ctx context.Context, info equipment.DisplayDeviceInfo) (equipment.Firedisplayinfo, error) {
	doc := equipment.Firedisplayinfo{
		ID:              uuid.NewString(),
		DeviceID:        info.ID,
		EquipmentType:   info.EquipmentType,
		EquipmentID:     info.EquipmentID,
		VoltageRed:      info.VoltageRed,
		VoltageGreen:    info.VoltageGreen,
		CurrentRed:      info.CurrentRed,
		CurrentGreen:    info.CurrentGreen,
		OffCurrentRed:   info.OffCurrentRed,
		OffCurrentGreen: info.OffCurrentGreen,
		Temperature:     info.Temperature,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := c.put(ctx, doc); err != nil {
		return equipment.Firedisplayinfo{}, err
	}
	return doc, nil
}

func (c *Client) put(ctx context.Context, doc equipment.Firedisplayinfo) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(doc).
		Put(fmt.Sprintf("%s/documents/%s", c.baseURL, doc.ID))
	if err != nil {
		return fmt.Errorf("putting document %s: %w", doc.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("document store returned %s for %s", resp.Status(), doc.ID)
	}
	return nil
}
