// Package bankroll tracks the cash balance implied by a run's executions.
package bankroll

import (
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// Transaction is the balance after one execution.
type Transaction struct {
	Date      time.Time
	Execution execution.ID
	Symbol    string
	Side      execution.Side
	Capital   decimal.Decimal
}

// Bankroll debits buys and covers and credits sells and shorts.
// It implements execution.Observer.
//
// A balance below zero is recorded, not rejected: the first such
// transaction is kept as the overdraft. An execution without a valid price
// leaves the balance untouched and is reported by Err.
type Bankroll struct {
	mu           sync.RWMutex
	err          error
	initial      decimal.Decimal
	cash         decimal.Decimal
	low          decimal.Decimal
	transactions []Transaction
	overdraft    optional.Option[Transaction]
}

func NewBankroll(initial float64) (*Bankroll, error) {
	if initial < 0 {
		return nil, errors.Newf(errors.ErrCodeNegativeCapital, "negative initial capital: %.2f", initial)
	}

	d := decimal.NewFromFloat(initial)

	return &Bankroll{initial: d, cash: d, low: d, overdraft: optional.None[Transaction]()}, nil
}

func (b *Bankroll) OnExecution(e *execution.Execution) {
	price, err := e.Price().Value()
	if err != nil {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.err == nil {
			b.err = errors.Wrapf(errors.ErrCodeInvalidPrice, err, "can't book execution %d", e.ID())
		}

		return
	}

	amount := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(e.Size())))

	b.mu.Lock()
	defer b.mu.Unlock()

	switch e.Side() {
	case execution.SideBuy, execution.SideCover:
		b.cash = b.cash.Sub(amount)
	case execution.SideSell, execution.SideShort:
		b.cash = b.cash.Add(amount)
	}

	tx := Transaction{
		Date:      e.Date(),
		Execution: e.ID(),
		Symbol:    e.Symbol(),
		Side:      e.Side(),
		Capital:   b.cash,
	}
	b.transactions = append(b.transactions, tx)

	if b.cash.LessThan(b.low) {
		b.low = b.cash
	}

	if b.cash.IsNegative() && b.overdraft.IsNone() {
		b.overdraft = optional.Some(tx)
	}
}

func (b *Bankroll) Initial() decimal.Decimal {
	return b.initial
}

// Cash is the current balance.
func (b *Bankroll) Cash() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.cash
}

// Low is the lowest balance reached.
func (b *Bankroll) Low() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.low
}

// Change is the balance change since the start.
func (b *Bankroll) Change() decimal.Decimal {
	return b.Cash().Sub(b.initial)
}

// Transactions returns the balance history in execution order.
func (b *Bankroll) Transactions() []Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]Transaction(nil), b.transactions...)
}

// Err returns the first execution that could not be booked, if any.
func (b *Bankroll) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.err
}

// Overdraft returns the first transaction that left the balance negative.
func (b *Bankroll) Overdraft() optional.Option[Transaction] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.overdraft
}
