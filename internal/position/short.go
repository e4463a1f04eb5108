package position

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// Short is opened by a short sale, grows with further shorts and shrinks with covers.
// Its factors are inverted: a short gains when the price falls.
type Short struct {
	*natural
}

// NewShort opens a short position with an initial short sale recorded in ledger.
func NewShort(id ID, symbol string, date time.Time, price types.Price, size int, db series.Database, ledger *execution.Ledger) (*Short, error) {
	p := &Short{natural: newNatural(TypeShort, id, symbol, db, ledger)}
	if err := p.enter(date, price, size); err != nil {
		return nil, err
	}

	return p, nil
}

// NewShortAt opens a short position at the pt price of date.
func NewShortAt(id ID, symbol string, date time.Time, pt types.PriceType, size int, db series.Database, ledger *execution.Ledger) (*Short, error) {
	price, err := series.PriceAt(db, symbol, date, pt)
	if err != nil {
		return nil, err
	}

	return NewShort(id, symbol, date, price, size, db, ledger)
}

// AvgShortPrice is the size-weighted average of all short sales.
func (p *Short) AvgShortPrice() types.Price {
	return types.NewPrice(p.avgEntry)
}

// AvgCoverPrice is the size-weighted average of all covers.
func (p *Short) AvgCoverPrice() types.Price {
	return types.NewPrice(p.avgExit)
}

func (p *Short) Buy(time.Time, types.Price, int) error {
	return p.wrongType("buy")
}

func (p *Short) BuyAt(time.Time, types.PriceType, int) error {
	return p.wrongType("buy")
}

func (p *Short) Sell(time.Time, types.Price, int) error {
	return p.wrongType("sell")
}

func (p *Short) SellAt(time.Time, types.PriceType, int) error {
	return p.wrongType("sell")
}

func (p *Short) SellShort(date time.Time, price types.Price, size int) error {
	return p.enter(date, price, size)
}

func (p *Short) SellShortAt(date time.Time, pt types.PriceType, size int) error {
	if p.Closed() {
		return p.closedError()
	}

	price, err := p.priceAt(date, pt)
	if err != nil {
		return err
	}

	return p.enter(date, price, size)
}

func (p *Short) Cover(date time.Time, price types.Price, size int) error {
	return p.exit(date, price, size)
}

func (p *Short) CoverAt(date time.Time, pt types.PriceType, size int) error {
	if p.Closed() {
		return p.closedError()
	}

	price, err := p.priceAt(date, pt)
	if err != nil {
		return err
	}

	return p.exit(date, price, size)
}

var _ Position = (*Short)(nil)
