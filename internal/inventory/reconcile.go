package inventory

import (
	"slices"

	"github.com/01moynul/inventario-golang/internal/models"
)

// ReconcileOptions configures a merge of an edited view into the full set.
type ReconcileOptions struct {
	// DeleteAllowed permits removing records whose id is absent from the
	// edited view. See DeleteAllowed for the policy that computes it.
	DeleteAllowed bool
	Normalize     NormalizeOptions
}

// ReconcileResult is the outcome of a successful merge.
type ReconcileResult struct {
	Records []models.Record
	Removed []string
	Changed bool
}

// Reconcile merges an edited (possibly filtered) view back into the full
// record set by id.
//
// Records present in both have their mutable fields overwritten from the
// edited view. Records missing from the edited view are removed only when
// opts.DeleteAllowed is set. Ids in the edited view that the full set does
// not know are ignored; new rows go through Add.
//
// The merged set must pass the duplicate check, otherwise a *DuplicateError
// is returned and full is left untouched. When edited equals original the
// view was not touched and full is returned as is.
func Reconcile(full, edited, original []models.Record, opts ReconcileOptions) (ReconcileResult, error) {
	if original != nil && slices.Equal(edited, original) {
		return ReconcileResult{Records: full, Removed: []string{}}, nil
	}

	// 1. --- Index the edited view ---
	byID := make(map[string]models.Record, len(edited))
	for _, r := range edited {
		if r.ID == "" {
			continue
		}
		byID[r.ID] = r
	}

	// 2. --- Merge field updates and collect removals ---
	merged := make([]models.Record, 0, len(full))
	removed := []string{}
	changed := false
	for _, cur := range full {
		ed, ok := byID[cur.ID]
		if !ok {
			if opts.DeleteAllowed {
				removed = append(removed, cur.ID)
				changed = true
				continue
			}
			ed = cur
		}

		next := models.Record{
			ID:          cur.ID,
			SimilarID:   opts.Normalize.Key(ed.SimilarID),
			ImageURL:    ed.ImageURL,
			Description: ed.Description,
			Unit:        ed.Unit,
			Quantity:    models.ClampQuantity(ed.Quantity),
			Location:    ed.Location,
		}
		if next != cur {
			changed = true
		}
		merged = append(merged, next)
	}

	// 3. --- Global duplicate check ---
	if dups := FindDuplicates(merged); len(dups) > 0 {
		return ReconcileResult{}, &DuplicateError{Groups: dups}
	}

	return ReconcileResult{Records: merged, Removed: removed, Changed: changed}, nil
}
