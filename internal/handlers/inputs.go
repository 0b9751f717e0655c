package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/01moynul/inventario-golang/internal/inventory"
	"github.com/01moynul/inventario-golang/internal/models"
)

// quantity accepts a JSON number or string. Anything non-numeric or negative
// is coerced to 0 rather than rejected.
type quantity int

func (q *quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = 0
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	*q = quantity(models.CoerceQuantity(s))
	return nil
}

// ItemInput defines the JSON for creating an inventory item.
type ItemInput struct {
	SimilarID   string   `json:"similarId" binding:"max=255"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,max=2048"`
	Description string   `json:"description" binding:"max=512"`
	Unit        string   `json:"unit" binding:"max=64"`
	Quantity    quantity `json:"quantity"`
	Location    string   `json:"location" binding:"max=255"`
}

func (in ItemInput) candidate() inventory.Candidate {
	return inventory.Candidate{
		SimilarID:   in.SimilarID,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Unit:        in.Unit,
		Quantity:    int(in.Quantity),
		Location:    in.Location,
	}
}

// RecordInput is one row of an edited table view.
type RecordInput struct {
	ID string `json:"id" binding:"required"`
	ItemInput
}

func (in RecordInput) record() models.Record {
	return models.Record{
		ID:          in.ID,
		SimilarID:   in.SimilarID,
		ImageURL:    in.ImageURL,
		Description: in.Description,
		Unit:        in.Unit,
		Quantity:    int(in.Quantity),
		Location:    in.Location,
	}
}

func toRecords(in []RecordInput) []models.Record {
	if in == nil {
		return nil
	}
	out := make([]models.Record, len(in))
	for i, r := range in {
		out[i] = r.record()
	}
	return out
}

// EditItemsInput is a whole edited view plus the filter that produced it.
// Original is the view as it was served; when it is equal to Edited nothing
// is saved.
type EditItemsInput struct {
	Filter   inventory.Filter `json:"filter"`
	Original []RecordInput    `json:"original" binding:"omitempty,dive"`
	Edited   []RecordInput    `json:"edited" binding:"required,dive"`
}

// SettingsInput defines the JSON for a partial settings update.
type SettingsInput struct {
	Case                *string `json:"case"`
	Trim                *bool   `json:"trim"`
	AllowDeleteFiltered *bool   `json:"allowDeleteFiltered"`
	RefreshSeconds      *int    `json:"refreshSeconds" binding:"omitempty,gte=0,lte=3600"`
	BaseURL             *string `json:"baseUrl" binding:"omitempty,max=2048"`
}
