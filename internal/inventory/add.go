package inventory

import (
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
	"github.com/google/uuid"
)

// Candidate holds the user-supplied fields of a new record.
type Candidate struct {
	SimilarID   string `json:"similarId"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

// Add appends a new record built from c to full.
//
// The candidate is first probed against the existing records under a
// throwaway id; a (description, location) collision returns a
// *DuplicateError and full is not modified. On success the record gets the
// next sequential id, a normalized similar id and trimmed text fields.
func Add(full []models.Record, c Candidate, norm NormalizeOptions) ([]models.Record, models.Record, error) {
	// 1. --- Duplicate probe ---
	probe := make([]models.Record, len(full), len(full)+1)
	copy(probe, full)
	placeholder := models.Record{
		ID:          "tmp-" + uuid.NewString(),
		Description: c.Description,
		Location:    c.Location,
	}
	probe = append(probe, placeholder)

	if dups := FindDuplicates(probe); len(dups) > 0 {
		for _, g := range dups {
			for i, id := range g {
				if id == placeholder.ID {
					g[i] = ""
				}
			}
		}
		return full, models.Record{}, &DuplicateError{Groups: dups}
	}

	// 2. --- Build the record ---
	rec := models.Record{
		ID:          NextID(full),
		SimilarID:   norm.Key(c.SimilarID),
		ImageURL:    strings.TrimSpace(c.ImageURL),
		Description: strings.TrimSpace(c.Description),
		Unit:        strings.TrimSpace(c.Unit),
		Quantity:    models.ClampQuantity(c.Quantity),
		Location:    strings.TrimSpace(c.Location),
	}

	out := make([]models.Record, len(full), len(full)+1)
	copy(out, full)
	return append(out, rec), rec, nil
}
