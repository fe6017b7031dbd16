package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/tally/pkg/models"
)

// Row is one line of a backing file. Bulk import reads it in the fixed order
// amount, kind, category, description, source or payment method.
type Row []string

const (
	colAmount = iota
	colKind
	colCategory
	colDescription
	colDetail
)

// DefaultHeader names the fixed import columns. It is written to files that
// have no header yet.
var DefaultHeader = []string{"Amount", "Type", "Category", "Description", "Source/Payment Method"}

// RowError describes a row that was skipped during decoding.
type RowError struct {
	Line int
	Row  Row
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

func (r Row) cell(i int) string {
	if i < len(r) {
		return strings.TrimSpace(r[i])
	}
	return ""
}

func (r Row) blank() bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Decode builds a typed transaction from a row. Rows whose kind is neither
// Income nor Expense fail with ErrUnrecognizedKind.
func Decode(row Row) (*models.Transaction, error) {
	kind := models.Kind(row.cell(colKind))
	if kind != models.KindIncome && kind != models.KindExpense {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedKind, row.cell(colKind))
	}

	amount, err := parseAmount(row.cell(colAmount))
	if err != nil {
		return nil, err
	}

	b := models.NewTransaction(row.cell(colCategory), row.cell(colDescription)).SetAmount(amount)
	if kind == models.KindIncome {
		b.AsIncome(row.cell(colDetail))
	} else {
		b.AsExpense(row.cell(colDetail))
	}
	return b.Build()
}

// DecodeAll decodes rows in order. A leading header row and blank rows are
// dropped silently; every other row that fails to decode is returned as a
// RowError and decoding carries on.
func (p *Parser) DecodeAll(rows []Row) ([]*models.Transaction, []RowError) {
	txs := make([]*models.Transaction, 0, len(rows))
	var skipped []RowError

	for i, row := range rows {
		line := i + 1
		if row.blank() {
			continue
		}
		if i == 0 && isHeader(row) {
			p.logger.Debug("skipping header row", "row", row)
			continue
		}

		tx, err := Decode(row)
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Row: row, Err: err})
			continue
		}
		txs = append(txs, tx)
	}

	return txs, skipped
}

func isHeader(row Row) bool {
	if _, err := parseAmount(row.cell(colAmount)); err == nil {
		return false
	}
	return fieldFor(row.cell(colKind)) == fieldKind
}

// thousands matches amounts that use commas only to group digits.
var thousands = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// parseAmount reads a cell such as "$-1,100.24". A comma is only accepted
// as a thousands separator, so "1,5" is an error rather than 15.
func parseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, "$", ""))
	if strings.Contains(s, ",") {
		if !thousands.MatchString(s) {
			return decimal.Zero, fmt.Errorf("%w: cell %q", models.ErrTypeValidation, cell)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cell %q", models.ErrTypeValidation, cell)
	}
	return amount, nil
}
