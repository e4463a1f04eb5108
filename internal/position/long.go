package position

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// Long is opened by a buy, grows with buys and shrinks with sells.
type Long struct {
	*natural
}

// NewLong opens a long position with an initial buy recorded in ledger.
func NewLong(id ID, symbol string, date time.Time, price types.Price, size int, db series.Database, ledger *execution.Ledger) (*Long, error) {
	p := &Long{natural: newNatural(TypeLong, id, symbol, db, ledger)}
	if err := p.enter(date, price, size); err != nil {
		return nil, err
	}

	return p, nil
}

// NewLongAt opens a long position at the pt price of date.
func NewLongAt(id ID, symbol string, date time.Time, pt types.PriceType, size int, db series.Database, ledger *execution.Ledger) (*Long, error) {
	price, err := series.PriceAt(db, symbol, date, pt)
	if err != nil {
		return nil, err
	}

	return NewLong(id, symbol, date, price, size, db, ledger)
}

// AvgBuyPrice is the size-weighted average of all buys.
func (p *Long) AvgBuyPrice() types.Price {
	return types.NewPrice(p.avgEntry)
}

// AvgSellPrice is the size-weighted average of all sells.
func (p *Long) AvgSellPrice() types.Price {
	return types.NewPrice(p.avgExit)
}

func (p *Long) Buy(date time.Time, price types.Price, size int) error {
	return p.enter(date, price, size)
}

func (p *Long) BuyAt(date time.Time, pt types.PriceType, size int) error {
	if p.Closed() {
		return p.closedError()
	}

	price, err := p.priceAt(date, pt)
	if err != nil {
		return err
	}

	return p.enter(date, price, size)
}

func (p *Long) Sell(date time.Time, price types.Price, size int) error {
	return p.exit(date, price, size)
}

func (p *Long) SellAt(date time.Time, pt types.PriceType, size int) error {
	if p.Closed() {
		return p.closedError()
	}

	price, err := p.priceAt(date, pt)
	if err != nil {
		return err
	}

	return p.exit(date, price, size)
}

func (p *Long) SellShort(time.Time, types.Price, int) error {
	return p.wrongType("sell short")
}

func (p *Long) SellShortAt(time.Time, types.PriceType, int) error {
	return p.wrongType("sell short")
}

func (p *Long) Cover(time.Time, types.Price, int) error {
	return p.wrongType("cover")
}

func (p *Long) CoverAt(time.Time, types.PriceType, int) error {
	return p.wrongType("cover")
}

var _ Position = (*Long)(nil)
