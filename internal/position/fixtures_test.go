package position

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

func bar(y int, m time.Month, d int, px float64) series.DayPrice {
	return series.DayPrice{
		Date:     types.Date(y, m, d),
		Open:     px - 0.5,
		High:     px + 1,
		Low:      px - 1,
		Close:    px,
		AdjClose: px,
		Volume:   100,
	}
}

// fixtureDB holds two symbols trading on the same days and a three-row
// series used for month boundary checks.
func fixtureDB() *series.DB {
	spy := series.NewEODSeries("SPY", []series.DayPrice{
		bar(2020, 1, 2, 100),
		bar(2020, 1, 3, 102),
		bar(2020, 1, 6, 101),
		bar(2020, 1, 7, 105),
		bar(2020, 1, 8, 110),
		bar(2020, 1, 31, 108),
		bar(2020, 2, 3, 112),
		bar(2020, 2, 28, 115),
		bar(2020, 3, 2, 120),
	})

	qqq := series.NewEODSeries("QQQ", []series.DayPrice{
		bar(2020, 1, 2, 50),
		bar(2020, 1, 3, 49),
		bar(2020, 1, 6, 48),
		bar(2020, 1, 7, 50),
		bar(2020, 1, 8, 52),
		bar(2020, 1, 31, 51),
		bar(2020, 2, 3, 50),
		bar(2020, 2, 28, 40),
		bar(2020, 3, 2, 45),
	})

	mb := series.NewEODSeries("MB", []series.DayPrice{
		bar(2020, 1, 31, 100),
		bar(2020, 2, 14, 104),
		bar(2020, 2, 28, 110),
	})

	return series.NewDB(spy, qqq, mb)
}

type fixture struct {
	db     *series.DB
	execs  *types.Sequence
	nextID ID
}

func newFixture() *fixture {
	return &fixture{db: fixtureDB(), execs: types.NewSequence(0)}
}

func (f *fixture) ledger() *execution.Ledger {
	return execution.NewLedger(f.execs)
}

func (f *fixture) id() ID {
	f.nextID++

	return f.nextID
}

func (f *fixture) long(symbol string, date time.Time, price float64, size int) (*Long, error) {
	return NewLong(f.id(), symbol, date, types.NewPrice(price), size, f.db, f.ledger())
}

func (f *fixture) short(symbol string, date time.Time, price float64, size int) (*Short, error) {
	return NewShort(f.id(), symbol, date, types.NewPrice(price), size, f.db, f.ledger())
}

func d(m time.Month, day int) time.Time {
	return types.Date(2020, m, day)
}

func px(v float64) types.Price {
	return types.NewPrice(v)
}
