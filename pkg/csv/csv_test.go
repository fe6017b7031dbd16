package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/tally/pkg/models"
)

func sample(t *testing.T) []*models.Transaction {
	t.Helper()
	income, err := models.NewIncome(2000.12, "Salary", "40 hour week", "Work")
	require.NoError(t, err)
	expense, err := models.NewExpense(-100.24, "Groceries", "Whole Foods, downtown", "Credit Card")
	require.NoError(t, err)
	plain, err := models.New(5, "Misc", "found")
	require.NoError(t, err)
	return []*models.Transaction{income, expense, plain}
}

func TestCreate(t *testing.T) {
	out, err := Create(sample(t), nil)
	require.NoError(t, err)

	want := "Amount,Type,Category,Description,Source/Payment Method\n" +
		"2000.12,Income,Salary,40 hour week,Work\n" +
		"-100.24,Expense,Groceries,\"Whole Foods, downtown\",Credit Card\n" +
		"5,,Misc,found,\n"
	assert.Equal(t, want, string(out))
}

func TestCreateWithFilter(t *testing.T) {
	out, err := Create(sample(t), ByKind[*models.Transaction](models.KindExpense))
	require.NoError(t, err)
	assert.Equal(t,
		"Amount,Type,Category,Description,Source/Payment Method\n"+
			"-100.24,Expense,Groceries,\"Whole Foods, downtown\",Credit Card\n",
		string(out))

	out, err = Create(sample(t), ByCategory[*models.Transaction]("Nothing"))
	require.NoError(t, err)
	assert.Equal(t, "Amount,Type,Category,Description,Source/Payment Method\n", string(out))
}
