package inventory

import (
	"strconv"
	"strings"

	"github.com/01moynul/inventario-golang/internal/models"
)

// CaseMode controls how the similar-item key is cased before storage.
type CaseMode string

const (
	CaseUnchanged CaseMode = "unchanged"
	CaseUpper     CaseMode = "upper"
	CaseLower     CaseMode = "lower"
)

// ParseCaseMode accepts the English mode names and the labels the
// spreadsheet users know ("Sin cambio", "Mayúsculas", "Minúsculas").
func ParseCaseMode(s string) (CaseMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unchanged", "sin cambio":
		return CaseUnchanged, true
	case "upper", "mayúsculas", "mayusculas":
		return CaseUpper, true
	case "lower", "minúsculas", "minusculas":
		return CaseLower, true
	}
	return CaseUnchanged, false
}

// NormalizeOptions is the active text-normalization policy for SimilarID.
type NormalizeOptions struct {
	Case CaseMode `json:"case"`
	Trim bool     `json:"trim"`
}

// NormalizeKey trims (when asked) and then applies the case mode.
func NormalizeKey(value string, mode CaseMode, trim bool) string {
	s := value
	if trim {
		s = strings.TrimSpace(s)
	}
	switch mode {
	case CaseUpper:
		s = strings.ToUpper(s)
	case CaseLower:
		s = strings.ToLower(s)
	}
	return s
}

// Key normalizes value with these options.
func (o NormalizeOptions) Key(value string) string {
	return NormalizeKey(value, o.Case, o.Trim)
}

// KeyField extracts one component of a duplicate-detection tuple.
type KeyField func(models.Record) string

// DuplicateKey is the tuple that must be unique across the record set.
var DuplicateKey = []KeyField{
	func(r models.Record) string { return r.Description },
	func(r models.Record) string { return r.Location },
}

func normText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tupleKey length-prefixes every part so no cell content can make two
// different tuples produce the same key.
func tupleKey(r models.Record, fields []KeyField) string {
	var b strings.Builder
	for _, f := range fields {
		part := normText(f(r))
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}

// HasDuplicate reports whether any two records share the same normalized
// tuple of fields. Comparison ignores case and surrounding whitespace.
func HasDuplicate(records []models.Record, fields ...KeyField) bool {
	if len(fields) == 0 {
		fields = DuplicateKey
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		k := tupleKey(r, fields)
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// FindDuplicates groups the ids of records whose normalized tuple collides.
// Only groups with more than one member are returned, in first-seen order.
func FindDuplicates(records []models.Record, fields ...KeyField) [][]string {
	if len(fields) == 0 {
		fields = DuplicateKey
	}
	index := make(map[string]int)
	var groups [][]string
	for _, r := range records {
		k := tupleKey(r, fields)
		if i, ok := index[k]; ok {
			groups[i] = append(groups[i], r.ID)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, []string{r.ID})
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}
