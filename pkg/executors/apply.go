package executors

import (
	"fmt"

	"github.com/yurifrl/tally/pkg/plan"
)

// Apply records every plan entry missing from the target file through the
// session, so each one is appended to the file and added to the ledger. The
// target becomes the session's backing file.
func (e *Executor) Apply(p *plan.Plan) (int, error) {
	e.logger.Debug("applying plan", "entries", len(p.Transactions))

	report, file, exists, err := e.reconcile(p)
	if err != nil {
		return 0, err
	}

	toSync := report.TransactionsToSync()
	e.logger.Info("transactions to append", "count", len(toSync), "file", file)
	if len(toSync) == 0 {
		return 0, nil
	}

	if !exists {
		if err := e.session.Parser().Create(file); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", file, err)
		}
		e.logger.Info("created backing file", "file", file)
	}
	if e.session.BackingFile() != file {
		if err := e.session.SetBackingFile(file); err != nil {
			return 0, err
		}
	}

	for i, tx := range toSync {
		if err := e.session.Record(tx); err != nil {
			return i, err
		}
	}

	e.logger.Info("appended transactions", "count", len(toSync), "file", file)
	return len(toSync), nil
}
