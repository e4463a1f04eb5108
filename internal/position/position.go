// Package position models tradable positions and the registry that indexes them.
//
// Long and Short positions own an execution ledger and keep running average
// entry and exit prices. Strategy positions aggregate other positions and
// compute everything from their legs on demand.
package position

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/factor"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// ID identifies a position. IDs come from a types.Sequence owned by the trader.
type ID uint64

// NullID is never assigned to a position.
const NullID ID = 0

type Type string

const (
	TypeLong     Type = "LONG"
	TypeShort    Type = "SHORT"
	TypeStrategy Type = "STRATEGY"
)

// Position is the capability set shared by every position variant.
// A variant returns an InvalidOperation error for the operations it does not support.
type Position interface {
	ID() ID
	Symbol() string
	Type() Type
	// Size is the currently open size.
	Size() int
	Open() bool
	Closed() bool
	// IsValid reports whether the average entry price is valid and, once closed, the average exit price too.
	IsValid() bool

	// Executions returns a read-only view of the position's executions.
	Executions() *execution.Ledger
	FirstExecution() (*execution.Execution, error)
	LastExecution() (*execution.Execution, error)
	// HoldPeriod spans the first execution to the last one when closed,
	// or to the end of the price series while open.
	HoldPeriod() (types.Period, error)

	AvgEntryPrice() (types.Price, error)
	AvgExitPrice() (types.Price, error)

	// Add aggregates p into a composite position.
	Add(p Position) (bool, error)
	Attach(o execution.Observer) error
	Detach(o execution.Observer) error

	// Factor is the position return, using the last market price while open.
	Factor(pt types.PriceType) (float64, error)
	// FactorAt is the return from the average entry price to the price on date.
	FactorAt(date time.Time, pt types.PriceType) (float64, error)
	// FactorIn is the market return across period, which must lie within the hold period.
	FactorIn(period types.Period, pt types.PriceType) (float64, error)
	// FactorMonth is the return earned during one calendar month.
	FactorMonth(year int, month time.Month, pt types.PriceType) (float64, error)

	// Factors returns the daily factors across the hold period.
	Factors(pt types.PriceType) (*factor.SeriesFactorSet, error)
	// FactorsUntil returns the daily factors from the first execution to date.
	FactorsUntil(date time.Time, pt types.PriceType) (*factor.SeriesFactorSet, error)
	// FactorsIn returns the daily factors across period.
	FactorsIn(period types.Period, pt types.PriceType) (*factor.SeriesFactorSet, error)

	Buy(date time.Time, price types.Price, size int) error
	BuyAt(date time.Time, pt types.PriceType, size int) error
	Sell(date time.Time, price types.Price, size int) error
	SellAt(date time.Time, pt types.PriceType, size int) error
	SellShort(date time.Time, price types.Price, size int) error
	SellShortAt(date time.Time, pt types.PriceType, size int) error
	Cover(date time.Time, price types.Price, size int) error
	CoverAt(date time.Time, pt types.PriceType, size int) error
	// Close exits the whole remaining size.
	Close(date time.Time, price types.Price) error
	CloseAt(date time.Time, pt types.PriceType) error
}
