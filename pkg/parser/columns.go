package parser

import (
	"strings"

	"github.com/yurifrl/tally/pkg/models"
)

type field int

const (
	fieldUnknown field = iota
	fieldAmount
	fieldKind
	fieldCategory
	fieldDescription
	fieldSource
	fieldPaymentMethod
	fieldDetail
)

var headerFields = map[string]field{
	"amount":                   fieldAmount,
	"value":                    fieldAmount,
	"type":                     fieldKind,
	"kind":                     fieldKind,
	"category":                 fieldCategory,
	"description":              fieldDescription,
	"source":                   fieldSource,
	"payment method":           fieldPaymentMethod,
	"method":                   fieldPaymentMethod,
	"source/payment method":    fieldDetail,
	"source or payment method": fieldDetail,
	"source/payment":           fieldDetail,
	"detail":                   fieldDetail,
}

func fieldFor(header string) field {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")
	return headerFields[key]
}

// Encode lays out a transaction following the given header, column by column.
// Columns the ledger does not know stay empty. A nil header means
// DefaultHeader.
func Encode(tx *models.Transaction, header []string) Row {
	if len(header) == 0 {
		header = DefaultHeader
	}
	row := make(Row, len(header))
	for i, name := range header {
		row[i] = fieldValue(tx, fieldFor(name))
	}
	return row
}

func fieldValue(tx *models.Transaction, f field) string {
	switch f {
	case fieldAmount:
		return tx.Amount().String()
	case fieldKind:
		return string(tx.Kind())
	case fieldCategory:
		return tx.Category()
	case fieldDescription:
		return tx.Description()
	case fieldSource:
		return tx.Source()
	case fieldPaymentMethod:
		return tx.PaymentMethod()
	case fieldDetail:
		return tx.Detail()
	default:
		return ""
	}
}

// headerOf returns the first row of a file when it names known columns.
func headerOf(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	for _, cell := range rows[0] {
		if fieldFor(cell) != fieldUnknown {
			return rows[0]
		}
	}
	return nil
}
