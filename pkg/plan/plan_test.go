package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

const sample = `
file: ledger.xlsx
transactions:
  - kind: income
    amount: 2000.12
    category: Salary
    description: 40 hour week
    source: Work
  - kind: Expense
    amount: -100
    category: Groceries
    description: WholeFoods
    payment_method: Credit Card
  - kind: income
    amount: 5
    category: Misc
    description: found on the street
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ledger.xlsx", p.File)
	require.Len(t, p.Transactions, 3)

	txs, err := p.Build()
	require.NoError(t, err)
	assert.Equal(t, "Amount: $2000.12, Type: Income, Category: Salary, Description: 40 hour week, Source: Work", txs[0].Render())
	assert.Equal(t, "Amount: $-100, Type: Expense, Category: Groceries, Description: WholeFoods, Payment Method: Credit Card", txs[1].Render())
	assert.Equal(t, "Amount: $5, Type: Income, Category: Misc, Description: found on the street, Source: ", txs[2].Render())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("file: ledger.csv\n"))
	assert.EqualError(t, err, "plan has no transactions")

	_, err = Parse([]byte("transactions: [\n"))
	assert.Error(t, err)
}

func TestEntryValidation(t *testing.T) {
	p, err := Parse([]byte(`
transactions:
  - kind: income
    amount: -5
    category: Salary
  - kind: loan
    amount: 5
  - kind: expense
    amount: "12"
  - amount: 5
    category: Misc
  - kind: expense
    amount: .nan
`))
	require.NoError(t, err)

	_, err = p.Transactions[0].Build()
	assert.ErrorIs(t, err, models.ErrSignValidation)

	_, err = p.Transactions[1].Build()
	assert.Error(t, err)

	_, err = p.Transactions[2].Build()
	assert.ErrorIs(t, err, models.ErrTypeValidation)

	_, err = p.Transactions[3].Build()
	assert.ErrorIs(t, err, parser.ErrKindRequired)

	_, err = p.Transactions[4].Build()
	assert.ErrorIs(t, err, models.ErrTypeValidation)

	_, err = p.Build()
	assert.ErrorContains(t, err, "plan entry 1")
}

func TestPrint(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	p.Print(&buf)
	assert.Contains(t, buf.String(), "Backing file: ledger.xlsx")
	assert.Contains(t, buf.String(), "[2] kind=Expense amount=-100 category=Groceries description=WholeFoods")
}
