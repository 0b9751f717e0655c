package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Column names as they appear in the spreadsheet and the CSV file.
const (
	ColID          = "ID"
	ColSimilarID   = "ID Similar"
	ColImage       = "Imagen"
	ColDescription = "Descripción"
	ColUnit        = "Unidad"
	ColQuantity    = "Cantidad"
	ColLocation    = "Ubicación Física"
)

// Columns is the persisted column order. Both storage backends write
// exactly this header.
var Columns = []string{
	ColID,
	ColSimilarID,
	ColImage,
	ColDescription,
	ColUnit,
	ColQuantity,
	ColLocation,
}

// Record is one inventory entry.
type Record struct {
	ID          string `json:"id"`
	SimilarID   string `json:"similarId"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

// Field returns the value of a column as text. Unknown columns yield "".
func (r Record) Field(col string) string {
	switch col {
	case ColID:
		return r.ID
	case ColSimilarID:
		return r.SimilarID
	case ColImage:
		return r.ImageURL
	case ColDescription:
		return r.Description
	case ColUnit:
		return r.Unit
	case ColQuantity:
		return strconv.Itoa(r.Quantity)
	case ColLocation:
		return r.Location
	}
	return ""
}

// Row renders the record in Columns order.
func (r Record) Row() []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = r.Field(col)
	}
	return row
}

// RecordFromRow builds a Record from a tabular row, matching cells by header
// name. Columns absent from the header (or short rows) are left empty and
// the quantity is coerced with CoerceQuantity.
func RecordFromRow(header, row []string) Record {
	cell := func(col string) string {
		for i, h := range header {
			if strings.TrimSpace(h) == col && i < len(row) {
				return row[i]
			}
		}
		return ""
	}

	return Record{
		ID:          strings.TrimSpace(cell(ColID)),
		SimilarID:   cell(ColSimilarID),
		ImageURL:    cell(ColImage),
		Description: cell(ColDescription),
		Unit:        cell(ColUnit),
		Quantity:    CoerceQuantity(cell(ColQuantity)),
		Location:    cell(ColLocation),
	}
}

// MaxQuantity is the largest storable quantity (a signed 32-bit INT column).
const MaxQuantity = math.MaxInt32

// CoerceQuantity turns free text into an integer in [0, MaxQuantity].
// Decimal values are truncated toward zero; anything non-numeric or negative
// becomes 0 and anything larger saturates at MaxQuantity.
func CoerceQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt64(n)
	} else if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
		return MaxQuantity
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	switch {
	case f < 0:
		return 0
	case f > MaxQuantity:
		return MaxQuantity
	}
	return int(f)
}

// ClampQuantity bounds a quantity to [0, MaxQuantity].
func ClampQuantity(n int) int {
	return clampInt64(int64(n))
}

func clampInt64(n int64) int {
	switch {
	case n < 0:
		return 0
	case n > MaxQuantity:
		return MaxQuantity
	}
	return int(n)
}

// IsColumn reports whether name is one of the persisted columns.
func IsColumn(name string) bool {
	for _, col := range Columns {
		if col == name {
			return true
		}
	}
	return false
}
