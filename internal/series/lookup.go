package series

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// PriceAt returns the pt price of symbol on date.
// It fails with a NotFound error when the symbol or the date is unknown.
func PriceAt(db Database, symbol string, date time.Time, pt types.PriceType) (types.Price, error) {
	s, err := db.Get(symbol)
	if err != nil {
		return types.Price{}, err
	}

	rec, err := s.At(date)
	if err != nil {
		return types.Price{}, err
	}

	return rec.Price(pt)
}

// LastPrice returns the pt price of the latest record of symbol.
func LastPrice(db Database, symbol string, pt types.PriceType) (types.Price, error) {
	s, err := db.Get(symbol)
	if err != nil {
		return types.Price{}, err
	}

	rec, err := s.Last()
	if err != nil {
		return types.Price{}, errors.Wrapf(errors.ErrCodeEmptySeries, err, "no last price for %s", symbol)
	}

	return rec.Price(pt)
}
