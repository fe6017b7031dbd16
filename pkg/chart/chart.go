// Package chart draws category totals as a horizontal bar chart in the
// terminal.
package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/summary"
)

const (
	Title        = "Total Transaction Amounts by Category"
	DefaultWidth = 40
	barRune      = "█"
)

// Render writes the chart for totals to w. Bars are scaled so the largest
// absolute total spans width cells; positive totals are green, the rest red.
// Each bar is annotated with its dollar value.
func Render(w io.Writer, totals summary.Totals, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}

	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true)
	labelStyle := r.NewStyle().Foreground(lipgloss.Color("8"))
	positive := r.NewStyle().Foreground(lipgloss.Color("10"))
	negative := r.NewStyle().Foreground(lipgloss.Color("9"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	rows := totals.Sorted()
	if len(rows) == 0 {
		b.WriteString(labelStyle.Render("no transactions"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	labelWidth := 0
	largest := decimal.Zero
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Name))
		if row.Amount.Abs().GreaterThan(largest) {
			largest = row.Amount.Abs()
		}
	}

	for _, row := range rows {
		style := negative
		if row.Amount.IsPositive() {
			style = positive
		}
		label := row.Name + strings.Repeat(" ", labelWidth-lipgloss.Width(row.Name))
		bar := strings.Repeat(barRune, barLength(row.Amount, largest, width))
		fmt.Fprintf(&b, "%s │ %s $%s\n", labelStyle.Render(label), style.Render(bar), row.Amount)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func barLength(amount, largest decimal.Decimal, width int) int {
	if amount.IsZero() || largest.IsZero() {
		return 0
	}
	n := int(amount.Abs().Div(largest).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	return max(n, 1)
}
