package summary

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/tally/pkg/models"
)

// Totals maps a category label to the net amount recorded under it.
type Totals map[string]decimal.Decimal

// CategoryAmount is one entry of Totals, used where a stable order matters.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ByCategory groups transactions by category and sums their amounts. Mixed
// signs net out; a category whose amounts cancel is kept with a zero total.
func ByCategory(transactions []*models.Transaction) Totals {
	totals := make(Totals)
	for _, t := range transactions {
		if t == nil {
			continue
		}
		totals[t.Category()] = totals[t.Category()].Add(t.Amount())
	}
	return totals
}

// Sorted returns the totals ordered by category name.
func (t Totals) Sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(t))
	for name, amount := range t {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range t {
		sum = sum.Add(amount)
	}
	return sum
}
