// Package execution records fills and keeps them in per-position ledgers.
package execution

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// ID identifies an execution. IDs are issued by a types.Sequence and never reused.
type ID uint64

// NullID is returned when an execution could not be recorded.
const NullID ID = 0

type Side string

const (
	SideBuy   Side = "BUY"
	SideSell  Side = "SELL"
	SideShort Side = "SHORT"
	SideCover Side = "COVER"
)

// Action is the past-tense verb used when printing an execution.
func (s Side) Action() string {
	switch s {
	case SideBuy:
		return "Bought"
	case SideSell:
		return "Sold"
	case SideShort:
		return "Shorted"
	case SideCover:
		return "Covered"
	default:
		return "Unknown"
	}
}

// Execution is one immutable fill.
type Execution struct {
	id     ID
	symbol string
	date   time.Time
	price  types.Price
	size   int
	side   Side
}

func newExecution(side Side, symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return &Execution{
		id:     id,
		symbol: symbol,
		date:   types.Day(date),
		price:  price,
		size:   size,
		side:   side,
	}
}

// NewBuy creates a buy execution.
func NewBuy(symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return newExecution(SideBuy, symbol, id, date, price, size)
}

// NewSell creates a sell execution.
func NewSell(symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return newExecution(SideSell, symbol, id, date, price, size)
}

// NewShort creates a sell short execution.
func NewShort(symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return newExecution(SideShort, symbol, id, date, price, size)
}

// NewCover creates a cover execution.
func NewCover(symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return newExecution(SideCover, symbol, id, date, price, size)
}

// New creates an execution for side.
func New(side Side, symbol string, id ID, date time.Time, price types.Price, size int) *Execution {
	return newExecution(side, symbol, id, date, price, size)
}

func (e *Execution) ID() ID             { return e.id }
func (e *Execution) Symbol() string     { return e.symbol }
func (e *Execution) Date() time.Time    { return e.date }
func (e *Execution) Price() types.Price { return e.price }
func (e *Execution) Size() int          { return e.size }
func (e *Execution) Side() Side         { return e.side }

func (e *Execution) String() string {
	return fmt.Sprintf("%d %s %s %s %d @ %s", e.id, e.symbol, e.side.Action(), types.FormatDate(e.date), e.size, e.price)
}

// Before orders executions by date, then by id.
func (e *Execution) Before(o *Execution) bool {
	if !e.date.Equal(o.date) {
		return e.date.Before(o.date)
	}

	return e.id < o.id
}
