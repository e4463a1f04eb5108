package analytics

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

func bar(m time.Month, d int, px float64) series.DayPrice {
	return series.DayPrice{
		Date:     types.Date(2020, m, d),
		Open:     px,
		High:     px,
		Low:      px,
		Close:    px,
		AdjClose: px,
		Volume:   1000,
	}
}

func fixtureDB() *series.DB {
	spy := series.NewEODSeries("SPY", []series.DayPrice{
		bar(1, 2, 100),
		bar(1, 3, 102),
		bar(1, 6, 101),
		bar(1, 7, 105),
		bar(1, 8, 110),
		bar(1, 31, 108),
		bar(2, 3, 112),
		bar(2, 28, 115),
		bar(3, 2, 120),
	})

	qqq := series.NewEODSeries("QQQ", []series.DayPrice{
		bar(1, 2, 50),
		bar(1, 3, 49),
		bar(1, 6, 48),
		bar(1, 7, 50),
		bar(1, 8, 52),
		bar(1, 31, 51),
	})

	return series.NewDB(spy, qqq)
}

type fixture struct {
	db    *series.DB
	execs *types.Sequence
	ids   *types.Sequence
}

func newFixture() *fixture {
	return &fixture{db: fixtureDB(), execs: types.NewSequence(0), ids: types.NewSequence(0)}
}

func (f *fixture) nextID() position.ID {
	return position.ID(f.ids.Next())
}

// long opens a long position and closes it when exit is not zero.
func (f *fixture) long(symbol string, entry time.Time, entryPx float64, exit time.Time, exitPx float64) *position.Long {
	p, err := position.NewLong(f.nextID(), symbol, entry, types.NewPrice(entryPx), 10, f.db, execution.NewLedger(f.execs))
	if err != nil {
		panic(err)
	}

	if !exit.IsZero() {
		if err := p.Close(exit, types.NewPrice(exitPx)); err != nil {
			panic(err)
		}
	}

	return p
}

func (f *fixture) short(symbol string, entry time.Time, entryPx float64, exit time.Time, exitPx float64) *position.Short {
	p, err := position.NewShort(f.nextID(), symbol, entry, types.NewPrice(entryPx), 10, f.db, execution.NewLedger(f.execs))
	if err != nil {
		panic(err)
	}

	if !exit.IsZero() {
		if err := p.Close(exit, types.NewPrice(exitPx)); err != nil {
			panic(err)
		}
	}

	return p
}

func d(m time.Month, day int) time.Time {
	return types.Date(2020, m, day)
}
