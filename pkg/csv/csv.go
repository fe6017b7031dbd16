package csv

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

// Header is the column order of exported files. It matches the import order
// so an export can be imported again.
var Header = parser.DefaultHeader

type Record interface {
	Amount() decimal.Decimal
	Kind() models.Kind
	Category() string
	Description() string
	Detail() string
}

type FilterFunc[T Record] func(T) bool

// Create writes the records that pass filter as csv, header first. A nil
// filter keeps everything.
func Create[T Record](records []T, filter FilterFunc[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		err := w.Write([]string{
			r.Amount().String(),
			string(r.Kind()),
			r.Category(),
			r.Description(),
			r.Detail(),
		})
		if err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ByKind keeps records of the given kind.
func ByKind[T Record](kind models.Kind) FilterFunc[T] {
	return func(r T) bool {
		return r.Kind() == kind
	}
}

// ByCategory keeps records of the given category.
func ByCategory[T Record](category string) FilterFunc[T] {
	return func(r T) bool {
		return r.Category() == category
	}
}
