// Package series holds end-of-day price series and the symbol database the
// accounting engine reads prices from.
package series

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// DayPrice is one end-of-day record.
type DayPrice struct {
	Date     time.Time `yaml:"date" json:"date"`
	Open     float64   `yaml:"open" json:"open"`
	High     float64   `yaml:"high" json:"high"`
	Low      float64   `yaml:"low" json:"low"`
	Close    float64   `yaml:"close" json:"close"`
	AdjClose float64   `yaml:"adj_close" json:"adj_close"`
	Volume   int64     `yaml:"volume" json:"volume"`
}

// Price returns the field selected by pt.
func (d DayPrice) Price(pt types.PriceType) (types.Price, error) {
	switch pt {
	case types.PriceTypeOpen:
		return types.NewPrice(d.Open), nil
	case types.PriceTypeHigh:
		return types.NewPrice(d.High), nil
	case types.PriceTypeLow:
		return types.NewPrice(d.Low), nil
	case types.PriceTypeClose:
		return types.NewPrice(d.Close), nil
	case types.PriceTypeAdjClose:
		return types.NewPrice(d.AdjClose), nil
	default:
		return types.Price{}, errors.Newf(errors.ErrCodeInvalidPriceType, "invalid price type: %s", pt)
	}
}

// Series is a date-ordered collection of daily records for one symbol.
// Lookups that find no record fail with a NotFound error.
type Series interface {
	// Symbol returns the symbol the series belongs to.
	Symbol() string
	// Len returns the number of records.
	Len() int
	// Period returns the first and last record dates.
	Period() (types.Period, error)
	// First returns the earliest record.
	First() (DayPrice, error)
	// Last returns the latest record.
	Last() (DayPrice, error)
	// At returns the record on date.
	At(date time.Time) (DayPrice, error)
	// AtOrBefore returns the record on date or the closest one before it.
	AtOrBefore(date time.Time) (DayPrice, error)
	// AtOrAfter returns the record on date or the closest one after it.
	AtOrAfter(date time.Time) (DayPrice, error)
	// Before returns the record recs positions before date.
	Before(date time.Time, recs int) (DayPrice, error)
	// After returns the record recs positions after date.
	After(date time.Time, recs int) (DayPrice, error)
	// FirstInMonth returns the first trading day of the month.
	FirstInMonth(year int, month time.Month) (DayPrice, error)
	// LastInMonth returns the last trading day of the month.
	LastInMonth(year int, month time.Month) (DayPrice, error)
	// Range returns the records whose dates fall inside period.
	Range(period types.Period) []DayPrice
	// Records returns every record in date order.
	Records() []DayPrice
}

// Database resolves series by symbol.
type Database interface {
	// Get returns the series of symbol.
	Get(symbol string) (Series, error)
	// Symbols returns every symbol in the database, sorted.
	Symbols() []string
}
