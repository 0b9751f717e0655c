package inventory

import (
	"sort"

	"github.com/01moynul/inventario-golang/internal/models"
)

// UngroupedKey is the group name for records without a similar id.
const UngroupedKey = "(sin ID)"

// GroupSummary is one row of the report by similar id.
type GroupSummary struct {
	Key           string `json:"similarId"`
	TotalQuantity int    `json:"totalQuantity"`
	ItemCount     int    `json:"itemCount"`
}

// GroupKey returns the report group a record belongs to under norm.
func GroupKey(r models.Record, norm NormalizeOptions) string {
	k := norm.Key(r.SimilarID)
	if k == "" {
		return UngroupedKey
	}
	return k
}

// Summarize groups records by normalized similar id and totals the
// quantities. Groups are ordered by key, byte-wise ascending.
func Summarize(records []models.Record, norm NormalizeOptions) []GroupSummary {
	byKey := make(map[string]*GroupSummary)
	for _, r := range records {
		k := GroupKey(r, norm)
		g, ok := byKey[k]
		if !ok {
			g = &GroupSummary{Key: k}
			byKey[k] = g
		}
		g.TotalQuantity += r.Quantity
		g.ItemCount++
	}

	out := make([]GroupSummary, 0, len(byKey))
	for _, g := range byKey {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// GroupDetail returns the members of one report group, in record order.
func GroupDetail(records []models.Record, key string, norm NormalizeOptions) []models.Record {
	out := []models.Record{}
	for _, r := range records {
		if GroupKey(r, norm) == key {
			out = append(out, r)
		}
	}
	return out
}

// TopGroups returns the n groups with the highest total quantity. Ties keep
// key order. n <= 0 returns every group.
func TopGroups(summary []GroupSummary, n int) []GroupSummary {
	out := make([]GroupSummary, len(summary))
	copy(out, summary)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalQuantity > out[j].TotalQuantity })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
