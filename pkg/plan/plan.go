package plan

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

// Plan is a batch of transactions to record into a backing file.
type Plan struct {
	File         string  `yaml:"file"`
	Transactions []Entry `yaml:"transactions"`
}

type Entry struct {
	Kind          string `yaml:"kind"`
	Amount        any    `yaml:"amount"`
	Category      string `yaml:"category"`
	Description   string `yaml:"description"`
	Source        string `yaml:"source"`
	PaymentMethod string `yaml:"payment_method"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Transactions) == 0 {
		return nil, fmt.Errorf("plan has no transactions")
	}
	return &p, nil
}

// Build validates the entry and turns it into a transaction. Entries are
// written to a file, so they must be income or expense.
func (e Entry) Build() (*models.Transaction, error) {
	kind, err := models.ParseKind(e.Kind)
	if err != nil {
		return nil, err
	}
	if kind == models.KindNone {
		return nil, parser.ErrKindRequired
	}

	b := models.NewTransaction(e.Category, e.Description).SetAmount(e.Amount)
	switch kind {
	case models.KindIncome:
		b.AsIncome(e.Source)
	case models.KindExpense:
		b.AsExpense(e.PaymentMethod)
	}
	return b.Build()
}

// Build builds every entry, failing on the first invalid one.
func (p *Plan) Build() ([]*models.Transaction, error) {
	txs := make([]*models.Transaction, 0, len(p.Transactions))
	for i, e := range p.Transactions {
		tx, err := e.Build()
		if err != nil {
			return nil, fmt.Errorf("plan entry %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "Backing file: %s\n", p.File)
	for i, e := range p.Transactions {
		fmt.Fprintf(w, "[%d] kind=%s amount=%v category=%s description=%s\n", i+1, e.Kind, e.Amount, e.Category, e.Description)
	}
}
