package trader

import (
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// BnHTrader buys one unit at the open of the first bar and sells it at the
// adjusted close of the last bar. It is the benchmark for a symbol.
type BnHTrader struct {
	*Trader
	symbol string
}

func NewBnHTrader(db series.Database, symbol string, opts ...Option) *BnHTrader {
	return &BnHTrader{Trader: NewTrader(db, opts...), symbol: symbol}
}

// Run executes the two benchmark trades and returns the position id.
func (t *BnHTrader) Run() (position.ID, error) {
	return t.BuyAndHold(t.symbol)
}

// BuyAndHold buys one unit of symbol at the open of its first bar and closes
// it at the adjusted close of its last bar.
func (t *Trader) BuyAndHold(symbol string) (position.ID, error) {
	s, err := t.db.Get(symbol)
	if err != nil {
		return position.NullID, err
	}

	first, err := s.First()
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't get first %s bar", symbol)
	}

	last, err := s.Last()
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't get last %s bar", symbol)
	}

	id, err := t.Buy(symbol, first.Date, types.NewPrice(first.Open), 1)
	if err != nil {
		return position.NullID, err
	}

	if err := t.Close(id, last.Date, types.NewPrice(last.AdjClose)); err != nil {
		return position.NullID, err
	}

	return id, nil
}
