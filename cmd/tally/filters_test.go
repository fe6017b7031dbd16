package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/tally/pkg/models"
)

func TestFilters(t *testing.T) {
	salary, _ := models.NewIncome(2000, "Salary", "March pay", "Work")
	coffee, _ := models.NewExpense(-5, "Food", "Coffee", "Cash")
	rent, _ := models.NewExpense(-1200, "Rent", "March rent", "Transfer")
	txs := []*models.Transaction{salary, coffee, rent}

	tests := []struct {
		name      string
		f         filters
		positions []int
	}{
		{name: "none", f: filters{}, positions: []int{1, 2, 3}},
		{name: "category", f: filters{category: "food"}, positions: []int{2}},
		{name: "kind", f: filters{kind: "EXPENSE"}, positions: []int{2, 3}},
		{name: "min", f: filters{minAmount: "-10"}, positions: []int{1, 2}},
		{name: "max", f: filters{maxAmount: "0"}, positions: []int{2, 3}},
		{name: "contains", f: filters{contains: "march"}, positions: []int{1, 3}},
		{name: "combined", f: filters{kind: "expense", contains: "march"}, positions: []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.f.apply(txs)
			require.NoError(t, err)
			var positions []int
			for _, n := range got {
				positions = append(positions, n.position)
			}
			assert.Equal(t, tt.positions, positions)
		})
	}
}

func TestFiltersInvalid(t *testing.T) {
	_, err := (&filters{kind: "loan"}).toFilterFunc()
	assert.Error(t, err)

	_, err = (&filters{minAmount: "abc"}).toFilterFunc()
	assert.ErrorContains(t, err, "invalid --min")
}
