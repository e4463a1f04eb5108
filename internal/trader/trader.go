// Package trader opens, adjusts and closes positions on behalf of a strategy
// and keeps every position it creates in a registry.
package trader

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Trader simulates buy, sell, short and cover transactions.
// It is not safe for concurrent use.
type Trader struct {
	db        series.Database
	positions *position.Registry
	posSeq    *types.Sequence
	execSeq   *types.Sequence
	observers []execution.Observer
}

type Option func(*Trader)

// WithPositionSequence sets the generator for new position ids.
func WithPositionSequence(seq *types.Sequence) Option {
	return func(t *Trader) {
		t.posSeq = seq
	}
}

// WithExecutionSequence sets the generator for new execution ids.
func WithExecutionSequence(seq *types.Sequence) Option {
	return func(t *Trader) {
		t.execSeq = seq
	}
}

// WithObserver registers o on the ledger of every position the trader opens.
func WithObserver(o execution.Observer) Option {
	return func(t *Trader) {
		t.observers = append(t.observers, o)
	}
}

func NewTrader(db series.Database, opts ...Option) *Trader {
	t := &Trader{
		db:        db,
		positions: position.NewRegistry(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.posSeq == nil {
		t.posSeq = types.NewSequence(0)
	}

	if t.execSeq == nil {
		t.execSeq = types.NewSequence(0)
	}

	return t
}

func (t *Trader) ledger() *execution.Ledger {
	return execution.NewLedger(t.execSeq, t.observers...)
}

func (t *Trader) nextID() position.ID {
	return position.ID(t.posSeq.Next())
}

func (t *Trader) register(p position.Position) (position.ID, error) {
	if !t.positions.Insert(p) {
		return position.NullID, errors.Newf(errors.ErrCodeRegistryInsertFailed, "can't add new %s position %d", p.Type(), p.ID())
	}

	return p.ID(), nil
}

// Buy opens a new long position at price.
func (t *Trader) Buy(symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	p, err := position.NewLong(t.nextID(), symbol, date, price, size, t.db, t.ledger())
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't buy %d %s", size, symbol)
	}

	return t.register(p)
}

// BuyAt opens a new long position at the series price of type pt on date.
func (t *Trader) BuyAt(symbol string, date time.Time, pt types.PriceType, size int) (position.ID, error) {
	p, err := position.NewLongAt(t.nextID(), symbol, date, pt, size, t.db, t.ledger())
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't buy %d %s at %s", size, symbol, pt)
	}

	return t.register(p)
}

// BuyPosition adds to an existing long position.
func (t *Trader) BuyPosition(id position.ID, date time.Time, price types.Price, size int) error {
	return t.apply(id, "buy", func(p position.Position) error { return p.Buy(date, price, size) })
}

// Sell reduces or closes an existing long position.
func (t *Trader) Sell(id position.ID, date time.Time, price types.Price, size int) error {
	return t.apply(id, "sell", func(p position.Position) error { return p.Sell(date, price, size) })
}

// SellShort opens a new short position at price.
func (t *Trader) SellShort(symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	p, err := position.NewShort(t.nextID(), symbol, date, price, size, t.db, t.ledger())
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't sell short %d %s", size, symbol)
	}

	return t.register(p)
}

// SellShortAt opens a new short position at the series price of type pt on date.
func (t *Trader) SellShortAt(symbol string, date time.Time, pt types.PriceType, size int) (position.ID, error) {
	p, err := position.NewShortAt(t.nextID(), symbol, date, pt, size, t.db, t.ledger())
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't sell short %d %s at %s", size, symbol, pt)
	}

	return t.register(p)
}

// SellShortPosition adds to an existing short position.
func (t *Trader) SellShortPosition(id position.ID, date time.Time, price types.Price, size int) error {
	return t.apply(id, "sell short", func(p position.Position) error { return p.SellShort(date, price, size) })
}

// Cover reduces or closes an existing short position.
func (t *Trader) Cover(id position.ID, date time.Time, price types.Price, size int) error {
	return t.apply(id, "cover", func(p position.Position) error { return p.Cover(date, price, size) })
}

// Close exits the whole open size of a natural position at price.
func (t *Trader) Close(id position.ID, date time.Time, price types.Price) error {
	return t.apply(id, "close", func(p position.Position) error { return p.Close(date, price) })
}

// CloseAt exits the whole open size at the series price of type pt on date.
func (t *Trader) CloseAt(id position.ID, date time.Time, pt types.PriceType) error {
	return t.apply(id, "close", func(p position.Position) error { return p.CloseAt(date, pt) })
}

func (t *Trader) apply(id position.ID, op string, fn func(position.Position) error) error {
	p, err := t.positions.Get(id)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't %s position %d", op, id)
	}

	if err := fn(p); err != nil {
		return errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't %s position %d", op, id)
	}

	return nil
}

// Position returns the position with the given id.
func (t *Trader) Position(id position.ID) (position.Position, error) {
	return t.positions.Get(id)
}

// Positions returns every open and closed position.
func (t *Trader) Positions() *position.Registry {
	return t.positions
}

// PositionsFor returns the open and closed positions on symbol.
func (t *Trader) PositionsFor(symbol string) *position.Registry {
	return t.positions.Symbol(symbol)
}
