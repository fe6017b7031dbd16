package importer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

// Report summarises one import.
type Report struct {
	Source   string
	Imported []*models.Transaction
	Skipped  []parser.RowError
	Balance  decimal.Decimal
}

// Importer brings rows from backing files into a ledger. It knows nothing
// about the CLI or HTTP layers so both can use it.
type Importer struct {
	parser *parser.Parser
	logger *log.Logger
}

func New(p *parser.Parser, logger *log.Logger) *Importer {
	return &Importer{parser: p, logger: logger}
}

// Import reads every row of the file at path and adds the decodable ones to
// l in file order. Nothing is added when the file cannot be read.
func (i *Importer) Import(l *ledger.Ledger, path string) (*Report, error) {
	rows, err := i.parser.ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return i.ImportRows(l, rows, path), nil
}

// ImportRows decodes rows that were already read, for example from an
// upload, and adds them to l.
func (i *Importer) ImportRows(l *ledger.Ledger, rows []parser.Row, source string) *Report {
	txs, skipped := i.parser.DecodeAll(rows)
	return i.add(l, source, txs, skipped)
}

// ImportFiles reads and decodes the files concurrently, then adds them in
// argument order. A read failure in any file aborts before l is touched.
func (i *Importer) ImportFiles(ctx context.Context, l *ledger.Ledger, paths ...string) ([]*Report, error) {
	type decoded struct {
		txs     []*models.Transaction
		skipped []parser.RowError
	}
	results := make([]decoded, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for idx, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			txs, skipped, err := i.parser.Transactions(path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			results[idx] = decoded{txs: txs, skipped: skipped}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]*Report, len(paths))
	for idx, path := range paths {
		reports[idx] = i.add(l, path, results[idx].txs, results[idx].skipped)
	}
	return reports, nil
}

func (i *Importer) add(l *ledger.Ledger, source string, txs []*models.Transaction, skipped []parser.RowError) *Report {
	for _, tx := range txs {
		l.Add(tx)
	}
	for _, s := range skipped {
		i.logger.Warn("skipped row", "source", source, "line", s.Line, "row", s.Row, "error", s.Err)
	}

	report := &Report{
		Source:   source,
		Imported: txs,
		Skipped:  skipped,
		Balance:  l.Balance(),
	}
	i.logger.Info("imported transactions", "source", source, "imported", len(txs), "skipped", len(skipped), "balance", report.Balance)
	return report
}
