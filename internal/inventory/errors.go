package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation names an id that is not in the
// record set.
var ErrNotFound = errors.New("inventory item not found")

// DuplicateError reports a (description, location) collision. The record set
// the operation started from is left unchanged.
type DuplicateError struct {
	// Groups holds the ids that share a normalized key. The placeholder id
	// of a candidate that was never stored is reported as "".
	Groups [][]string
}

func (e *DuplicateError) Error() string {
	if len(e.Groups) == 0 {
		return "duplicate description and location"
	}
	parts := make([]string, 0, len(e.Groups))
	for _, g := range e.Groups {
		parts = append(parts, strings.Join(g, ", "))
	}
	return fmt.Sprintf("duplicate description and location: %s", strings.Join(parts, "; "))
}

// IsDuplicate reports whether err is (or wraps) a *DuplicateError.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}
