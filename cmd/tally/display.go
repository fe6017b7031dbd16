package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp/v3"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/importer"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/summary"
)

type numbered struct {
	position int
	tx       *models.Transaction
}

func number(txs []*models.Transaction) []numbered {
	out := make([]numbered, len(txs))
	for i, t := range txs {
		out[i] = numbered{position: i + 1, tx: t}
	}
	return out
}

func printTransactions(w io.Writer, txs []numbered) {
	fmt.Fprintln(w, "Transactions:")
	for _, n := range txs {
		fmt.Fprintf(w, "%d. %s\n", n.position, n.tx.Render())
	}
}

func printBalance(w io.Writer, balance decimal.Decimal, negative bool) {
	fmt.Fprintf(w, "Current Balance: $%s\n", balance)
	if negative {
		warn := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		fmt.Fprintln(w, warn.Render("Warning: your balance is negative"))
	}
}

func printTotals(w io.Writer, totals summary.Totals) {
	r := lipgloss.NewRenderer(w)
	name := r.NewStyle().Width(20)
	amount := r.NewStyle().Width(14).Align(lipgloss.Right)

	fmt.Fprintln(w, "Category totals:")
	for _, c := range totals.Sorted() {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, name.Render(c.Name), amount.Render("$"+c.Amount.String())))
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, name.Render("Total"), amount.Render("$"+totals.Sum().String())))
}

func printReport(w io.Writer, report *importer.Report) {
	fmt.Fprintf(w, "Data from '%s' has been successfully imported: %d transaction(s)\n", report.Source, len(report.Imported))
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  skipped %s\n", s.Error())
	}
}

// rawTransaction is what --raw dumps for each transaction.
type rawTransaction struct {
	Position    int
	ID          string
	Amount      string
	Kind        models.Kind
	Category    string
	Description string
	Detail      string
}

func dumpRaw(w io.Writer, txs []numbered) {
	raw := make([]rawTransaction, len(txs))
	for i, n := range txs {
		raw[i] = rawTransaction{
			Position:    n.position,
			ID:          n.tx.ID(),
			Amount:      n.tx.Amount().String(),
			Kind:        n.tx.Kind(),
			Category:    n.tx.Category(),
			Description: n.tx.Description(),
			Detail:      n.tx.Detail(),
		}
	}
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(false)
	printer.Println(raw)
}
