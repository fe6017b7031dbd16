package compare

import (
	"strings"

	"github.com/yurifrl/tally/pkg/models"
)

// Equal compares a planned transaction with one read from the backing file
// using the fields a spreadsheet round trip keeps: kind, amount (by value,
// so 5 and 5.00 match) and the text fields, trimmed and case-folded.
func Equal(local, existing *models.Transaction) bool {
	if local == nil || existing == nil {
		return false
	}
	if local.Kind() != existing.Kind() {
		return false
	}
	if !local.Amount().Equal(existing.Amount()) {
		return false
	}
	return sameText(local.Category(), existing.Category()) &&
		sameText(local.Description(), existing.Description()) &&
		sameText(local.Detail(), existing.Detail())
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
