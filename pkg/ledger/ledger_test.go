package ledger

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/tally/pkg/models"
)

func sample(t *testing.T) []*models.Transaction {
	t.Helper()
	income, err := models.NewIncome(2000.12, "Salary", "40 hour week", "Work")
	require.NoError(t, err)
	groceries, err := models.NewExpense(-100.24, "Groceries", "WholeFoods", "Credit Card")
	require.NoError(t, err)
	robbery, err := models.New(1000, "Bank Robbery", "Robbed a bank")
	require.NoError(t, err)
	fine, err := models.New(-10500.32, "Felony Charges", "Pleaded guilty")
	require.NoError(t, err)
	return []*models.Transaction{income, groceries, robbery, fine}
}

func TestNewLedgerIsEmpty(t *testing.T) {
	l := New()
	assert.True(t, l.Balance().IsZero())
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Transactions())
	assert.Empty(t, l.CategoryTotals())
	assert.False(t, l.IsNegative())
}

func TestAddKeepsPrefixSum(t *testing.T) {
	l := New()
	sum := decimal.Zero
	for _, tx := range sample(t) {
		l.Add(tx)
		sum = sum.Add(tx.Amount())
		assert.True(t, sum.Equal(l.Balance()), "expected %s, got %s", sum, l.Balance())
	}
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, "-7600.44", l.Balance().String())
	assert.True(t, l.IsNegative())
}

func TestAddNilIsIgnored(t *testing.T) {
	l := New()
	l.Add(nil)
	assert.Zero(t, l.Len())
}

func TestRemove(t *testing.T) {
	l := New()
	txs := sample(t)
	for _, tx := range txs {
		l.Add(tx)
	}
	before := l.Balance()

	removed, err := l.Remove(2)
	require.NoError(t, err)
	assert.Same(t, txs[1], removed)
	assert.True(t, l.Balance().Equal(before.Sub(removed.Amount())))

	remaining := l.Transactions()
	require.Len(t, remaining, 3)
	assert.Same(t, txs[0], remaining[0])
	assert.Same(t, txs[2], remaining[1])
	assert.Same(t, txs[3], remaining[2])

	// positions shift after a removal
	removed, err = l.Remove(3)
	require.NoError(t, err)
	assert.Same(t, txs[3], removed)
	assert.Equal(t, "3000.12", l.Balance().String())
	assert.False(t, l.IsNegative())
}

func TestRemoveOutOfRange(t *testing.T) {
	l := New()
	for _, tx := range sample(t) {
		l.Add(tx)
	}
	balance := l.Balance()
	snapshot := l.Transactions()

	for _, position := range []int{0, -1, 5, 100} {
		removed, err := l.Remove(position)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "position %d", position)
		assert.Nil(t, removed)
		assert.True(t, balance.Equal(l.Balance()))
		assert.Equal(t, snapshot, l.Transactions())
	}

	_, err := New().Remove(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestTransactionsIsACopy(t *testing.T) {
	l := New()
	txs := sample(t)
	l.Add(txs[0])

	snapshot := l.Transactions()
	snapshot[0] = txs[1]

	assert.Equal(t, 1, l.Len())
	assert.Same(t, txs[0], l.Transactions()[0])
}

func TestCategoryTotals(t *testing.T) {
	l := New()
	for _, amount := range []int{100, -30} {
		tx, err := models.New(amount, "Food", "")
		require.NoError(t, err)
		l.Add(tx)
	}
	rent, err := models.New(50, "Rent", "")
	require.NoError(t, err)
	l.Add(rent)

	totals := l.CategoryTotals()
	require.Len(t, totals, 2)
	assert.Equal(t, "70", totals["Food"].String())
	assert.Equal(t, "50", totals["Rent"].String())
}

func TestConcurrentAddRemove(t *testing.T) {
	l := New()
	one, err := models.NewIncome(1, "Tips", "", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Add(one)
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Remove(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, l.Len())
	assert.Equal(t, "30", l.Balance().String())
}
