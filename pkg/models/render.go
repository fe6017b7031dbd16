package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedRender = errors.New("malformed transaction line")

const (
	amountLabel      = "Amount: $"
	typeLabel        = ", Type: "
	categoryLabel    = ", Category: "
	descriptionLabel = ", Description: "
	sourceLabel      = ", Source: "
	methodLabel      = ", Payment Method: "
)

// ParseRendered reads back a line produced by Render.
func ParseRendered(line string) (*Transaction, error) {
	rest, ok := strings.CutPrefix(line, amountLabel)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedRender, amountLabel)
	}

	head, rest, ok := strings.Cut(rest, categoryLabel)
	if !ok {
		return nil, fmt.Errorf("%w: missing category", ErrMalformedRender)
	}
	amountText, kindText, hasKind := strings.Cut(head, typeLabel)
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTypeValidation, err)
	}

	category, rest, ok := strings.Cut(rest, descriptionLabel)
	if !ok {
		return nil, fmt.Errorf("%w: missing description", ErrMalformedRender)
	}

	b := NewTransaction(category, rest).SetAmount(amount)
	if !hasKind {
		return b.Build()
	}

	switch Kind(kindText) {
	case KindIncome:
		i := strings.LastIndex(rest, sourceLabel)
		if i < 0 {
			return nil, fmt.Errorf("%w: income without source", ErrMalformedRender)
		}
		b.tx.description = rest[:i]
		return b.AsIncome(rest[i+len(sourceLabel):]).Build()
	case KindExpense:
		i := strings.LastIndex(rest, methodLabel)
		if i < 0 {
			return nil, fmt.Errorf("%w: expense without payment method", ErrMalformedRender)
		}
		b.tx.description = rest[:i]
		return b.AsExpense(rest[i+len(methodLabel):]).Build()
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedRender, kindText)
	}
}
