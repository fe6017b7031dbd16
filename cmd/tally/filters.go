package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/models"
)

type filters struct {
	category  string
	kind      string
	minAmount string
	maxAmount string
	contains  string
}

// toFilterFunc compiles the flags. Empty flags do not filter.
func (f *filters) toFilterFunc() (csv.FilterFunc[*models.Transaction], error) {
	var (
		kind   models.Kind
		lo, hi *decimal.Decimal
	)
	if f.kind != "" {
		k, err := models.ParseKind(f.kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if f.minAmount != "" {
		d, err := decimal.NewFromString(f.minAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid --min %q: %w", f.minAmount, err)
		}
		lo = &d
	}
	if f.maxAmount != "" {
		d, err := decimal.NewFromString(f.maxAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid --max %q: %w", f.maxAmount, err)
		}
		hi = &d
	}

	return func(t *models.Transaction) bool {
		if f.category != "" && !strings.EqualFold(t.Category(), f.category) {
			return false
		}
		if kind != models.KindNone && t.Kind() != kind {
			return false
		}
		if lo != nil && t.Amount().LessThan(*lo) {
			return false
		}
		if hi != nil && t.Amount().GreaterThan(*hi) {
			return false
		}
		if f.contains != "" && !strings.Contains(strings.ToLower(t.Description()), strings.ToLower(f.contains)) {
			return false
		}
		return true
	}, nil
}

// apply keeps the transactions that pass, with their 1-based positions.
func (f *filters) apply(txs []*models.Transaction) ([]numbered, error) {
	keep, err := f.toFilterFunc()
	if err != nil {
		return nil, err
	}
	out := make([]numbered, 0, len(txs))
	for i, t := range txs {
		if keep(t) {
			out = append(out, numbered{position: i + 1, tx: t})
		}
	}
	return out, nil
}
