package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/tally/pkg/models"
)

func mustNew(t *testing.T, amount any, category string) *models.Transaction {
	t.Helper()
	tx, err := models.New(amount, category, "")
	require.NoError(t, err)
	return tx
}

func TestByCategoryEmpty(t *testing.T) {
	totals := ByCategory(nil)
	assert.Empty(t, totals)
	assert.Empty(t, totals.Sorted())
	assert.True(t, totals.Sum().IsZero())
}

func TestByCategory(t *testing.T) {
	totals := ByCategory([]*models.Transaction{
		mustNew(t, 100, "Food"),
		mustNew(t, -30, "Food"),
		mustNew(t, 50, "Rent"),
	})

	require.Len(t, totals, 2)
	assert.True(t, totals["Food"].Equal(decimal.NewFromInt(70)), totals["Food"].String())
	assert.True(t, totals["Rent"].Equal(decimal.NewFromInt(50)), totals["Rent"].String())
	assert.True(t, totals.Sum().Equal(decimal.NewFromInt(120)))
}

func TestByCategoryNetZero(t *testing.T) {
	totals := ByCategory([]*models.Transaction{
		mustNew(t, 19.99, "Refunds"),
		mustNew(t, -19.99, "Refunds"),
	})

	require.Contains(t, totals, "Refunds")
	assert.True(t, totals["Refunds"].IsZero())
}

func TestSorted(t *testing.T) {
	totals := Totals{
		"Rent":   decimal.NewFromInt(50),
		"Food":   decimal.NewFromInt(70),
		"Salary": decimal.NewFromInt(2000),
	}

	sorted := totals.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "Food", sorted[0].Name)
	assert.Equal(t, "Rent", sorted[1].Name)
	assert.Equal(t, "Salary", sorted[2].Name)
}
