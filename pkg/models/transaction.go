package models

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates income from expense transactions. The zero value is a
// plain transaction with no kind.
type Kind string

const (
	KindNone    Kind = ""
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"
)

var (
	ErrTypeValidation = errors.New("amount must be an integer, float or decimal")
	ErrSignValidation = errors.New("amount has the wrong sign for the transaction kind")
)

var kindCaser = cases.Title(language.English)

// ParseKind reads a kind typed by a user ("income", "EXPENSE", ...). Row
// decoding does not use it: rows must carry the exact tag.
func ParseKind(s string) (Kind, error) {
	k := Kind(kindCaser.String(strings.ToLower(strings.TrimSpace(s))))
	switch k {
	case KindNone, KindIncome, KindExpense:
		return k, nil
	default:
		return KindNone, fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction is a single recorded money movement. It is immutable once
// built; use the constructors or the Builder.
type Transaction struct {
	amount        decimal.Decimal
	kind          Kind
	category      string
	description   string
	source        string
	paymentMethod string
}

// Builder accumulates the fields of a Transaction and validates them in Build.
type Builder struct {
	tx  Transaction
	err error
}

// NewTransaction starts a builder for a transaction in the given category.
func NewTransaction(category, description string) *Builder {
	return &Builder{tx: Transaction{category: category, description: description}}
}

// SetAmount accepts any Go number or a decimal. Other values make Build fail
// with ErrTypeValidation.
func (b *Builder) SetAmount(v any) *Builder {
	amount, err := ToAmount(v)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.amount = amount
	return b
}

func (b *Builder) AsIncome(source string) *Builder {
	b.tx.kind = KindIncome
	b.tx.source = source
	b.tx.paymentMethod = ""
	return b
}

func (b *Builder) AsExpense(paymentMethod string) *Builder {
	b.tx.kind = KindExpense
	b.tx.paymentMethod = paymentMethod
	b.tx.source = ""
	return b
}

func (b *Builder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch b.tx.kind {
	case KindIncome:
		if b.tx.amount.IsNegative() {
			return nil, fmt.Errorf("%w: income amount %s is negative", ErrSignValidation, b.tx.amount)
		}
	case KindExpense:
		if b.tx.amount.IsPositive() {
			return nil, fmt.Errorf("%w: expense amount %s is positive", ErrSignValidation, b.tx.amount)
		}
	}
	tx := b.tx
	return &tx, nil
}

// New builds a transaction without a kind.
func New(amount any, category, description string) (*Transaction, error) {
	return NewTransaction(category, description).SetAmount(amount).Build()
}

// NewIncome builds an income transaction. Negative amounts are rejected.
func NewIncome(amount any, category, description, source string) (*Transaction, error) {
	return NewTransaction(category, description).SetAmount(amount).AsIncome(source).Build()
}

// NewExpense builds an expense transaction. Expenses are stored as negative
// magnitudes, so positive amounts are rejected.
func NewExpense(amount any, category, description, paymentMethod string) (*Transaction, error) {
	return NewTransaction(category, description).SetAmount(amount).AsExpense(paymentMethod).Build()
}

// ToAmount converts a numeric value to a decimal amount.
func ToAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, fmt.Errorf("%w: got nil", ErrTypeValidation)
		}
		return *n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return fromUint64(uint64(n)), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return fromUint64(n), nil
	case float32:
		if err := checkFloat(float64(n)); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat32(n), nil
	case float64:
		if err := checkFloat(n); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: got %T", ErrTypeValidation, v)
	}
}

func fromUint64(n uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0)
}

// checkFloat rejects values decimal cannot represent.
func checkFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: got %v", ErrTypeValidation, f)
	}
	return nil
}

func (t *Transaction) Amount() decimal.Decimal { return t.amount }
func (t *Transaction) Kind() Kind              { return t.kind }
func (t *Transaction) Category() string        { return t.category }
func (t *Transaction) Description() string     { return t.description }
func (t *Transaction) Source() string          { return t.source }
func (t *Transaction) PaymentMethod() string   { return t.paymentMethod }

// Detail returns the kind specific field: the source of an income or the
// payment method of an expense.
func (t *Transaction) Detail() string {
	switch t.kind {
	case KindIncome:
		return t.source
	case KindExpense:
		return t.paymentMethod
	default:
		return ""
	}
}

// Render returns the display line for the transaction. The field order is
// stable and ParseRendered reverses it.
func (t *Transaction) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Amount: $%s", t.amount.String())
	if t.kind != KindNone {
		fmt.Fprintf(&b, ", Type: %s", t.kind)
	}
	fmt.Fprintf(&b, ", Category: %s, Description: %s", t.category, t.description)
	switch t.kind {
	case KindIncome:
		fmt.Fprintf(&b, ", Source: %s", t.source)
	case KindExpense:
		fmt.Fprintf(&b, ", Payment Method: %s", t.paymentMethod)
	}
	return b.String()
}

func (t *Transaction) String() string {
	return t.Render()
}

// ID is a short fingerprint of every field, used to recognise a transaction
// that is already present in a backing file.
func (t *Transaction) ID() string {
	input := strings.Join([]string{
		string(t.kind),
		t.amount.String(),
		strings.TrimSpace(t.category),
		strings.TrimSpace(t.description),
		strings.TrimSpace(t.Detail()),
	}, "|")
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)[:8]
}

type transactionJSON struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          Kind            `json:"kind,omitempty"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Source        string          `json:"source,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:            t.ID(),
		Amount:        t.amount,
		Kind:          t.kind,
		Category:      t.category,
		Description:   t.description,
		Source:        t.source,
		PaymentMethod: t.paymentMethod,
	})
}
