package executors

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/plan"
	"github.com/yurifrl/tally/pkg/reconcile"
)

var (
	syncedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	addedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
)

// Plan prints a preview of what Apply would do with p. Nothing is written.
func (e *Executor) Plan(p *plan.Plan, w io.Writer) (*reconcile.Report, error) {
	report, file, exists, err := e.reconcile(p)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "Plan for %s\n", file)
	if !exists {
		fmt.Fprintf(w, "%s will be created\n", file)
	}

	for _, m := range report.Items {
		if m.Status == reconcile.Synced {
			fmt.Fprintln(w, syncedStyle.Render("= "+planLine(m.Local)))
			continue
		}
		fmt.Fprintln(w, addedStyle.Render("+ "+planLine(m.Local)))
	}

	if report.MissingCount() == 0 {
		fmt.Fprintf(w, "\nPlan: All %d transaction(s) are in sync\n", report.InSyncCount())
	} else {
		fmt.Fprintf(w, "\nPlan: %d transaction(s) will be added, %d already in sync\n", report.MissingCount(), report.InSyncCount())
	}
	return report, nil
}

func planLine(tx *models.Transaction) string {
	return fmt.Sprintf("%s | %-7s | %-15s | %-30s | $%s", tx.ID(), tx.Kind(), tx.Category(), tx.Description(), tx.Amount())
}
