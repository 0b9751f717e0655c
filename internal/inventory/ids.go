package inventory

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/01moynul/inventario-golang/internal/models"
)

var idPattern = regexp.MustCompile(`^I-(\d+)$`)

// NextID returns "I-" followed by the highest existing sequence number plus
// one, zero-padded to 4 digits. Ids that do not match I-<digits> are ignored.
//
// Uniqueness only holds for a single writer: two sessions adding against the
// same remote sheet can compute the same id from the same snapshot.
func NextID(records []models.Record) string {
	highest := 0
	for _, r := range records {
		m := idPattern.FindStringSubmatch(r.ID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("I-%04d", highest+1)
}
