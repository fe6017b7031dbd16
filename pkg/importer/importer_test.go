package importer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/parser"
)

func newImporter() *Importer {
	logger := log.New(io.Discard)
	return New(parser.New(logger), logger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportSingleIncome(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ledger.csv", "2000.12,Income,Salary,40 hour week,Work\n")

	l := ledger.New()
	report, err := newImporter().Import(l, path)
	require.NoError(t, err)

	require.Len(t, report.Imported, 1)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, "2000.12", l.Balance().String())
	assert.Equal(t, "2000.12", report.Balance.String())
	assert.Equal(t,
		"Amount: $2000.12, Type: Income, Category: Salary, Description: 40 hour week, Source: Work",
		l.Transactions()[0].Render())
}

func TestImportSkipsUnknownKind(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ledger.csv",
		"Amount,Type,Category,Description,Source/Payment Method\n"+
			"500,Loan,Bank,Car loan,Bank\n"+
			"2000,Income,Salary,March,Work\n"+
			"-150.50,Expense,Food,Groceries,Card\n")

	l := ledger.New()
	report, err := newImporter().Import(l, path)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 2)
	require.Len(t, report.Skipped, 1)
	assert.ErrorIs(t, report.Skipped[0], parser.ErrUnrecognizedKind)
	assert.Equal(t, 2, report.Skipped[0].Line)
	assert.Equal(t, "1849.5", l.Balance().String())
	assert.Equal(t, 2, l.Len())
}

func TestImportMissingFileLeavesLedger(t *testing.T) {
	l := ledger.New()
	_, err := newImporter().Import(l, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, parser.ErrSourceNotFound)
	assert.Zero(t, l.Len())
	assert.True(t, l.Balance().IsZero())
}

func TestImportRows(t *testing.T) {
	l := ledger.New()
	report := newImporter().ImportRows(l, []parser.Row{
		{"10", "Income", "Gift", "Birthday", "Grandma"},
		{"-4", "Expense", "Food", "Coffee", "Cash"},
	}, "upload.csv")

	assert.Equal(t, "upload.csv", report.Source)
	assert.Len(t, report.Imported, 2)
	assert.Equal(t, "6", l.Balance().String())
}

func TestImportFilesKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.csv", "100,Income,Salary,a,Work\n")
	second := writeFile(t, dir, "b.csv", "-30,Expense,Food,b,Cash\n-20,Expense,Food,c,Cash\n")

	l := ledger.New()
	reports, err := newImporter().ImportFiles(context.Background(), l, first, second)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	txs := l.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, "a", txs[0].Description())
	assert.Equal(t, "b", txs[1].Description())
	assert.Equal(t, "c", txs[2].Description())
	assert.Equal(t, "50", l.Balance().String())
	assert.Equal(t, "100", reports[0].Balance.String())
}

func TestImportFilesAbortsBeforeAdding(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.csv", "100,Income,Salary,a,Work\n")

	l := ledger.New()
	_, err := newImporter().ImportFiles(context.Background(), l, good, filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, parser.ErrSourceNotFound)
	assert.Zero(t, l.Len())
}
