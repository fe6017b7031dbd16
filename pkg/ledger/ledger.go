// Package ledger keeps the ordered list of recorded transactions together
// with the running balance derived from them.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/summary"
)

var ErrIndexOutOfRange = errors.New("transaction position out of range")

// Ledger owns its transactions. Balance always equals the sum of their
// amounts; both change under the same lock.
type Ledger struct {
	mu           sync.RWMutex
	balance      decimal.Decimal
	transactions []*models.Transaction
}

func New() *Ledger {
	return &Ledger{balance: decimal.Zero}
}

// Add appends a validated transaction and moves the balance by its amount.
func (l *Ledger) Add(tx *models.Transaction) {
	if tx == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append(l.transactions, tx)
	l.balance = l.balance.Add(tx.Amount())
}

// Remove deletes the transaction at the 1-based display position and returns
// it. Later positions shift down by one.
func (l *Ledger) Remove(position int) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if position < 1 || position > len(l.transactions) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrIndexOutOfRange, position, len(l.transactions))
	}

	i := position - 1
	removed := l.transactions[i]
	l.balance = l.balance.Sub(removed.Amount())
	l.transactions = append(l.transactions[:i:i], l.transactions[i+1:]...)
	return removed, nil
}

func (l *Ledger) Balance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// IsNegative reports whether the balance is below zero.
func (l *Ledger) IsNegative() bool {
	return l.Balance().IsNegative()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// Transactions returns a copy of the transactions in insertion order.
func (l *Ledger) Transactions() []*models.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*models.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

func (l *Ledger) CategoryTotals() summary.Totals {
	return summary.ByCategory(l.Transactions())
}
