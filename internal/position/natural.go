package position

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/factor"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// natural holds the state shared by Long and Short. A Long enters with buys
// and exits with sells, a Short enters with shorts and exits with covers.
type natural struct {
	id        ID
	symbol    string
	typ       Type
	db        series.Database
	ledger    *execution.Ledger
	entrySide execution.Side
	exitSide  execution.Side

	size     int
	entered  int
	exited   int
	avgEntry float64
	avgExit  float64
}

func newNatural(typ Type, id ID, symbol string, db series.Database, ledger *execution.Ledger) *natural {
	n := &natural{
		id:     id,
		symbol: symbol,
		typ:    typ,
		db:     db,
		ledger: ledger,
	}

	if typ == TypeLong {
		n.entrySide, n.exitSide = execution.SideBuy, execution.SideSell
	} else {
		n.entrySide, n.exitSide = execution.SideShort, execution.SideCover
	}

	return n
}

func (n *natural) ID() ID         { return n.id }
func (n *natural) Symbol() string { return n.symbol }
func (n *natural) Type() Type     { return n.typ }
func (n *natural) Size() int      { return n.size }
func (n *natural) Open() bool     { return n.size != 0 }
func (n *natural) Closed() bool   { return !n.ledger.Empty() && !n.Open() }

func (n *natural) IsValid() bool {
	if !types.NewPrice(n.avgEntry).IsValid() {
		return false
	}

	return n.Open() || (n.Closed() && types.NewPrice(n.avgExit).IsValid())
}

func (n *natural) Executions() *execution.Ledger {
	return execution.NewView(n.ledger.All()...)
}

func (n *natural) FirstExecution() (*execution.Execution, error) {
	return n.ledger.FirstByDate()
}

func (n *natural) LastExecution() (*execution.Execution, error) {
	return n.ledger.LastByDate()
}

func (n *natural) HoldPeriod() (types.Period, error) {
	first, err := n.ledger.FirstByDate()
	if err != nil {
		return types.Period{}, err
	}

	if n.Closed() {
		last, err := n.ledger.LastByDate()
		if err != nil {
			return types.Period{}, err
		}

		return types.NewPeriod(first.Date(), last.Date())
	}

	s, err := n.db.Get(n.symbol)
	if err != nil {
		return types.Period{}, err
	}

	rec, err := s.Last()
	if err != nil {
		return types.Period{}, err
	}

	return types.NewPeriod(first.Date(), rec.Date)
}

func (n *natural) AvgEntryPrice() (types.Price, error) {
	return types.NewPrice(n.avgEntry), nil
}

func (n *natural) AvgExitPrice() (types.Price, error) {
	return types.NewPrice(n.avgExit), nil
}

func (n *natural) Add(Position) (bool, error) {
	return false, errors.Newf(errors.ErrCodeNotComposite, "can't add positions to %s position %d", n.typ, n.id)
}

func (n *natural) Attach(o execution.Observer) error {
	n.ledger.Attach(o)

	return nil
}

func (n *natural) Detach(o execution.Observer) error {
	n.ledger.Detach(o)

	return nil
}

// enter records an execution that increases the open size.
// The first entry is recorded while the ledger is still empty, so it is not a closed position.
func (n *natural) enter(date time.Time, price types.Price, size int) error {
	if n.Closed() {
		return n.closedError()
	}

	if size <= 0 {
		return errors.Newf(errors.ErrCodeInvalidSize, "invalid size %d", size)
	}

	if err := types.ValidateDate(date); err != nil {
		return err
	}

	px, err := price.Value()
	if err != nil {
		return err
	}

	if _, err := n.ledger.Record(n.entrySide, n.symbol, date, price, size); err != nil {
		return err
	}

	n.avgEntry = (n.avgEntry*float64(n.entered) + px*float64(size)) / float64(n.entered+size)
	n.size += size
	n.entered += size

	return nil
}

// exit records an execution that reduces the open size.
func (n *natural) exit(date time.Time, price types.Price, size int) error {
	if n.Closed() {
		return n.closedError()
	}

	if size <= 0 || size > n.size {
		return errors.Newf(errors.ErrCodeInvalidSize, "invalid size %d, open size is %d", size, n.size)
	}

	if err := types.ValidateDate(date); err != nil {
		return err
	}

	px, err := price.Value()
	if err != nil {
		return err
	}

	if _, err := n.ledger.Record(n.exitSide, n.symbol, date, price, size); err != nil {
		return err
	}

	n.avgExit = (n.avgExit*float64(n.exited) + px*float64(size)) / float64(n.exited+size)
	n.size -= size
	n.exited += size

	return nil
}

func (n *natural) priceAt(date time.Time, pt types.PriceType) (types.Price, error) {
	return series.PriceAt(n.db, n.symbol, date, pt)
}

func (n *natural) Close(date time.Time, price types.Price) error {
	if n.Closed() {
		return n.closedError()
	}

	return n.exit(date, price, n.size)
}

func (n *natural) CloseAt(date time.Time, pt types.PriceType) error {
	if n.Closed() {
		return n.closedError()
	}

	price, err := n.priceAt(date, pt)
	if err != nil {
		return err
	}

	return n.exit(date, price, n.size)
}

// ratio turns a begin and end price into a return factor for the position direction.
func (n *natural) ratio(begin, end float64) float64 {
	if n.typ == TypeShort {
		return begin / end
	}

	return end / begin
}

func (n *natural) Factor(pt types.PriceType) (float64, error) {
	if !n.IsValid() {
		return 0, n.invalidStateError()
	}

	if n.Closed() {
		return n.ratio(n.avgEntry, n.avgExit), nil
	}

	last, err := series.LastPrice(n.db, n.symbol, pt)
	if err != nil {
		return 0, err
	}

	px, err := last.Value()
	if err != nil {
		return 0, err
	}

	return n.ratio(n.avgEntry, px), nil
}

func (n *natural) FactorAt(date time.Time, pt types.PriceType) (float64, error) {
	if !types.NewPrice(n.avgEntry).IsValid() {
		return 0, n.invalidStateError()
	}

	if err := types.ValidateDate(date); err != nil {
		return 0, err
	}

	first, err := n.ledger.FirstByDate()
	if err != nil {
		return 0, err
	}

	if types.Day(date).Before(first.Date()) {
		return 0, errors.Newf(errors.ErrCodeDateBeforeEntry, "date %s is before position %d first execution %s",
			types.FormatDate(date), n.id, types.FormatDate(first.Date()))
	}

	price, err := n.priceAt(date, pt)
	if err != nil {
		return 0, err
	}

	px, err := price.Value()
	if err != nil {
		return 0, err
	}

	return n.ratio(n.avgEntry, px), nil
}

func (n *natural) FactorIn(period types.Period, pt types.PriceType) (float64, error) {
	hold, err := n.HoldPeriod()
	if err != nil {
		return 0, err
	}

	if !hold.Contains(period) {
		return 0, n.periodError(period, hold)
	}

	return n.periodFactor(period.Begin, period.End, pt)
}

func (n *natural) periodFactor(begin, end time.Time, pt types.PriceType) (float64, error) {
	beginPrice, err := n.priceAt(begin, pt)
	if err != nil {
		return 0, err
	}

	endPrice, err := n.priceAt(end, pt)
	if err != nil {
		return 0, err
	}

	b, err := beginPrice.Value()
	if err != nil {
		return 0, err
	}

	e, err := endPrice.Value()
	if err != nil {
		return 0, err
	}

	return n.ratio(b, e), nil
}

func (n *natural) FactorMonth(year int, month time.Month, pt types.PriceType) (float64, error) {
	beginMark := types.FirstOfMonth(year, month).AddDate(0, 0, -1)
	endMark := types.EndOfMonth(year, month)

	first, err := n.ledger.FirstByDate()
	if err != nil {
		return 0, err
	}

	last, err := n.ledger.LastByDate()
	if err != nil {
		return 0, err
	}

	if first.Date().After(endMark) || (n.Closed() && last.Date().Before(beginMark)) {
		return 0, errors.Newf(errors.ErrCodeMonthOutOfRange, "month %d-%02d out of position %d bounds", year, month, n.id)
	}

	s, err := n.db.Get(n.symbol)
	if err != nil {
		return 0, err
	}

	var beginPrice, endPrice types.Price

	// Opened before the month: start from the market. Opened inside it: start from the entry.
	if !first.Date().After(beginMark) {
		rec, err := s.AtOrBefore(beginMark)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeDateNotFound, "can't get begin-period price", err)
		}

		if beginPrice, err = rec.Price(pt); err != nil {
			return 0, err
		}
	} else {
		beginPrice = types.NewPrice(n.avgEntry)
	}

	if n.Open() || last.Date().After(endMark) {
		rec, err := s.AtOrBefore(endMark)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeDateNotFound, "can't get end-period price", err)
		}

		if endPrice, err = rec.Price(pt); err != nil {
			return 0, err
		}
	} else {
		endPrice = types.NewPrice(n.avgExit)
	}

	b, err := beginPrice.Value()
	if err != nil {
		return 0, err
	}

	e, err := endPrice.Value()
	if err != nil {
		return 0, err
	}

	return n.ratio(b, e), nil
}

func (n *natural) Factors(pt types.PriceType) (*factor.SeriesFactorSet, error) {
	hold, err := n.HoldPeriod()
	if err != nil {
		return nil, err
	}

	return n.FactorsIn(hold, pt)
}

func (n *natural) FactorsUntil(date time.Time, pt types.PriceType) (*factor.SeriesFactorSet, error) {
	first, err := n.ledger.FirstByDate()
	if err != nil {
		return nil, err
	}

	period, err := types.NewPeriod(first.Date(), date)
	if err != nil {
		return nil, err
	}

	return n.FactorsIn(period, pt)
}

func (n *natural) FactorsIn(period types.Period, pt types.PriceType) (*factor.SeriesFactorSet, error) {
	hold, err := n.HoldPeriod()
	if err != nil {
		return nil, err
	}

	if !hold.Contains(period) {
		return nil, n.periodError(period, hold)
	}

	s, err := n.db.Get(n.symbol)
	if err != nil {
		return nil, err
	}

	prev, err := s.AtOrAfter(period.Begin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDateNotFound, "can't find begin of period in series", err)
	}

	closed := n.Closed()
	sfs := factor.NewSeriesFactorSet()

	for _, rec := range s.Range(types.Period{Begin: prev.Date, End: period.End}) {
		if !rec.Date.After(prev.Date) {
			continue
		}

		if closed && rec.Date.After(hold.End) {
			break
		}

		f, err := n.periodFactor(prev.Date, rec.Date, pt)
		if err != nil {
			return nil, err
		}

		sfs.Insert(factor.NewSeriesFactor(prev.Date, rec.Date, f))
		prev = rec
	}

	return sfs, nil
}

func (n *natural) closedError() error {
	return errors.Newf(errors.ErrCodePositionClosed, "position %d is closed", n.id)
}

func (n *natural) invalidStateError() error {
	return errors.Newf(errors.ErrCodeInvalidPositionState, "invalid position %d state", n.id)
}

func (n *natural) periodError(period, hold types.Period) error {
	return errors.Newf(errors.ErrCodePeriodOutOfRange, "period %s is out of position %d range %s", period, n.id, hold)
}

func (n *natural) wrongType(op string) error {
	return errors.Newf(errors.ErrCodeWrongPositionType, "can't %s %s position %d", op, n.typ, n.id)
}
