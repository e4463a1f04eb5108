package trader

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// StrategyTrader extends Trader with composite strategy positions.
// Legs are registered as positions of their own as well.
type StrategyTrader struct {
	*Trader
}

func NewStrategyTrader(db series.Database, opts ...Option) *StrategyTrader {
	return &StrategyTrader{Trader: NewTrader(db, opts...)}
}

// Strategy creates a new strategy position named name around an existing position.
func (t *StrategyTrader) Strategy(name string, first position.Position) (position.ID, error) {
	s, err := position.NewStrategy(t.nextID(), name, first)
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't create strategy %s", name)
	}

	return t.register(s)
}

// StrategyBuy opens a long leg on symbol and a new strategy around it. It returns the strategy id.
func (t *StrategyTrader) StrategyBuy(name, symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	return t.open(name, func() (position.ID, error) { return t.Buy(symbol, date, price, size) })
}

// StrategyBuyInto opens a long leg on symbol inside an existing strategy. It returns the leg id.
func (t *StrategyTrader) StrategyBuyInto(id position.ID, symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	return t.extend(id, func() (position.ID, error) { return t.Buy(symbol, date, price, size) })
}

// StrategySellShort opens a short leg on symbol and a new strategy around it. It returns the strategy id.
func (t *StrategyTrader) StrategySellShort(name, symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	return t.open(name, func() (position.ID, error) { return t.SellShort(symbol, date, price, size) })
}

// StrategySellShortInto opens a short leg on symbol inside an existing strategy. It returns the leg id.
func (t *StrategyTrader) StrategySellShortInto(id position.ID, symbol string, date time.Time, price types.Price, size int) (position.ID, error) {
	return t.extend(id, func() (position.ID, error) { return t.SellShort(symbol, date, price, size) })
}

// StrategyClose closes every open leg of a strategy at the series price of type pt on date.
func (t *StrategyTrader) StrategyClose(id position.ID, date time.Time, pt types.PriceType) error {
	s, err := t.strategy(id)
	if err != nil {
		return err
	}

	if err := s.CloseAt(date, pt); err != nil {
		return errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't close strategy %d", id)
	}

	return t.positions.Replace(s)
}

func (t *StrategyTrader) open(name string, leg func() (position.ID, error)) (position.ID, error) {
	legID, err := leg()
	if err != nil {
		return position.NullID, err
	}

	p, err := t.positions.Get(legID)
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't find new leg %d of strategy %s", legID, name)
	}

	return t.Strategy(name, p)
}

func (t *StrategyTrader) extend(id position.ID, leg func() (position.ID, error)) (position.ID, error) {
	s, err := t.strategy(id)
	if err != nil {
		return position.NullID, err
	}

	legID, err := leg()
	if err != nil {
		return position.NullID, err
	}

	p, err := t.positions.Get(legID)
	if err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't find new leg %d of strategy %d", legID, id)
	}

	if _, err := s.Add(p); err != nil {
		return position.NullID, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't add leg %d to strategy %d", legID, id)
	}

	return legID, nil
}

func (t *StrategyTrader) strategy(id position.ID) (*position.Strategy, error) {
	p, err := t.positions.Get(id)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeTraderFailed, err, "can't find strategy %d", id)
	}

	s, ok := p.(*position.Strategy)
	if !ok {
		return nil, errors.Wrapf(errors.ErrCodeTraderFailed,
			errors.Newf(errors.ErrCodeWrongPositionType, "position %d is %s", id, p.Type()),
			"position %d is not a strategy", id)
	}

	return s, nil
}
