package inventory

import (
	"sort"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
)

// Filter is a transient display filter over the record set.
type Filter struct {
	Query     string   `json:"q"`
	Locations []string `json:"locations"`
}

// Active reports whether the filter hides any rows.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || len(f.Locations) > 0
}

// Match reports whether r is visible under the filter. The text query is a
// case-insensitive substring match on description, location, id and similar id.
func (f Filter) Match(r models.Record) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hit := false
		for _, v := range []string{r.Description, r.Location, r.ID, r.SimilarID} {
			if strings.Contains(strings.ToLower(v), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if len(f.Locations) > 0 {
		for _, loc := range f.Locations {
			if r.Location == loc {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the visible records in their original order.
func (f Filter) Apply(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// DeleteAllowed is the delete-safety policy: rows missing from an edited
// view may only be removed when no filter was hiding them, unless the
// operator opted into deleting while filtered.
func DeleteAllowed(f Filter, allowWhileFiltered bool) bool {
	return !f.Active() || allowWhileFiltered
}

// Locations lists the distinct non-empty locations, sorted.
func Locations(records []models.Record) []string {
	return distinct(records, func(r models.Record) string { return r.Location })
}

// SimilarIDs lists the distinct non-blank similar ids, sorted.
func SimilarIDs(records []models.Record) []string {
	return distinct(records, func(r models.Record) string { return r.SimilarID })
}

func distinct(records []models.Record, get func(models.Record) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := get(r)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
