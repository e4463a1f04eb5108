package position

import (
	"sort"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/factor"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Strategy is a composite of equally weighted legs. It holds no executions of
// its own: executions, state and factors are read from the legs when asked.
//
// The combined factor of N legs is the sum of their factors minus N-1, so the
// composite return is the sum of the leg returns.
type Strategy struct {
	id   ID
	name string
	legs []Position
}

// NewStrategy creates a composite named name around its first leg.
func NewStrategy(id ID, name string, first Position) (*Strategy, error) {
	s := &Strategy{id: id, name: name}
	if _, err := s.Add(first); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Strategy) ID() ID         { return s.id }
func (s *Strategy) Symbol() string { return s.name }
func (s *Strategy) Type() Type     { return TypeStrategy }

// Legs returns the aggregated positions ordered by id.
func (s *Strategy) Legs() []Position {
	out := make([]Position, len(s.legs))
	copy(out, s.legs)

	return out
}

// Size is the total open size of the legs.
func (s *Strategy) Size() int {
	size := 0
	for _, leg := range s.legs {
		size += leg.Size()
	}

	return size
}

// Open reports whether any leg is open.
func (s *Strategy) Open() bool {
	for _, leg := range s.legs {
		if leg.Open() {
			return true
		}
	}

	return false
}

func (s *Strategy) Closed() bool {
	return !s.Open()
}

func (s *Strategy) IsValid() bool {
	if len(s.legs) == 0 {
		return false
	}

	for _, leg := range s.legs {
		if !leg.IsValid() {
			return false
		}
	}

	return true
}

// Add aggregates p. It returns false when p is already a leg.
func (s *Strategy) Add(p Position) (bool, error) {
	if p == nil {
		return false, errors.New(errors.ErrCodeInvalidArgument, "nil position")
	}

	if p.ID() == s.id || contains(p, s.id) {
		return false, errors.Newf(errors.ErrCodeInvalidOperation, "strategy position %d can't contain itself", s.id)
	}

	pos := sort.Search(len(s.legs), func(i int) bool { return s.legs[i].ID() >= p.ID() })
	if pos < len(s.legs) && s.legs[pos].ID() == p.ID() {
		return false, nil
	}

	s.legs = append(s.legs, nil)
	copy(s.legs[pos+1:], s.legs[pos:])
	s.legs[pos] = p

	return true, nil
}

// contains reports whether id is a leg of p at any depth.
func contains(p Position, id ID) bool {
	s, ok := p.(*Strategy)
	if !ok {
		return false
	}

	for _, leg := range s.legs {
		if leg.ID() == id || contains(leg, id) {
			return true
		}
	}

	return false
}

func (s *Strategy) Executions() *execution.Ledger {
	view := execution.NewView()
	for _, leg := range s.legs {
		for _, e := range leg.Executions().All() {
			view.Insert(e)
		}
	}

	return view
}

func (s *Strategy) FirstExecution() (*execution.Execution, error) {
	return s.Executions().FirstByDate()
}

func (s *Strategy) LastExecution() (*execution.Execution, error) {
	return s.Executions().LastByDate()
}

// HoldPeriod spans the earliest leg execution to the last execution when
// every leg is closed, or to the latest leg hold period end otherwise.
func (s *Strategy) HoldPeriod() (types.Period, error) {
	first, err := s.FirstExecution()
	if err != nil {
		return types.Period{}, err
	}

	if s.Closed() {
		last, err := s.LastExecution()
		if err != nil {
			return types.Period{}, err
		}

		return types.NewPeriod(first.Date(), last.Date())
	}

	var end time.Time
	for _, leg := range s.legs {
		hold, err := leg.HoldPeriod()
		if err != nil {
			return types.Period{}, err
		}

		if hold.End.After(end) {
			end = hold.End
		}
	}

	return types.NewPeriod(first.Date(), end)
}

func (s *Strategy) AvgEntryPrice() (types.Price, error) {
	return types.Price{}, errors.Newf(errors.ErrCodeNoSingleEntryPrice, "strategy position %d does not have a single average entry price", s.id)
}

func (s *Strategy) AvgExitPrice() (types.Price, error) {
	return types.Price{}, errors.Newf(errors.ErrCodeNoSingleEntryPrice, "strategy position %d does not have a single average exit price", s.id)
}

func (s *Strategy) Attach(execution.Observer) error {
	return s.unsupported("observe")
}

func (s *Strategy) Detach(execution.Observer) error {
	return s.unsupported("observe")
}

func (s *Strategy) Factor(pt types.PriceType) (float64, error) {
	return s.combine(func(leg Position) (float64, error) { return leg.Factor(pt) })
}

func (s *Strategy) FactorAt(date time.Time, pt types.PriceType) (float64, error) {
	return s.combine(func(leg Position) (float64, error) { return leg.FactorAt(date, pt) })
}

func (s *Strategy) FactorIn(period types.Period, pt types.PriceType) (float64, error) {
	return s.combine(func(leg Position) (float64, error) { return leg.FactorIn(period, pt) })
}

func (s *Strategy) FactorMonth(year int, month time.Month, pt types.PriceType) (float64, error) {
	return s.combine(func(leg Position) (float64, error) { return leg.FactorMonth(year, month, pt) })
}

func (s *Strategy) combine(legFactor func(leg Position) (float64, error)) (float64, error) {
	if len(s.legs) == 0 {
		return 0, errors.Newf(errors.ErrCodeEmptyPositionSet, "strategy position %d has no legs", s.id)
	}

	acc := 0.0
	for _, leg := range s.legs {
		f, err := legFactor(leg)
		if err != nil {
			return 0, err
		}

		acc += f
	}

	return acc - float64(len(s.legs)) + 1, nil
}

func (s *Strategy) Factors(pt types.PriceType) (*factor.SeriesFactorSet, error) {
	hold, err := s.HoldPeriod()
	if err != nil {
		return nil, err
	}

	return s.FactorsIn(hold, pt)
}

func (s *Strategy) FactorsUntil(date time.Time, pt types.PriceType) (*factor.SeriesFactorSet, error) {
	first, err := s.FirstExecution()
	if err != nil {
		return nil, err
	}

	period, err := types.NewPeriod(first.Date(), date)
	if err != nil {
		return nil, err
	}

	return s.FactorsIn(period, pt)
}

// FactorsIn merges the legs' daily factors inside period. Factors of
// different legs covering the same window are multiplied into one.
// Each leg contributes only the part of period it was held.
func (s *Strategy) FactorsIn(period types.Period, pt types.PriceType) (*factor.SeriesFactorSet, error) {
	var all []factor.SeriesFactor

	for _, leg := range s.legs {
		hold, err := leg.HoldPeriod()
		if err != nil {
			return nil, err
		}

		window, ok := hold.Intersection(period)
		if !ok {
			continue
		}

		sfs, err := leg.FactorsIn(window, pt)
		if err != nil {
			return nil, err
		}

		all = append(all, sfs.ByFrom()...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].From.Equal(all[j].From) {
			return all[i].From.Before(all[j].From)
		}

		return all[i].To.Before(all[j].To)
	})

	merged := factor.NewSeriesFactorSet()
	for i := 0; i < len(all); {
		current := all[i]
		acc := current.Factor

		j := i + 1
		for ; j < len(all) && all[j].Matches(current); j++ {
			acc *= all[j].Factor
		}

		merged.Insert(factor.NewSeriesFactor(current.From, current.To, acc))
		i = j
	}

	return merged, nil
}

func (s *Strategy) Buy(time.Time, types.Price, int) error        { return s.unsupported("buy") }
func (s *Strategy) BuyAt(time.Time, types.PriceType, int) error  { return s.unsupported("buy") }
func (s *Strategy) Sell(time.Time, types.Price, int) error       { return s.unsupported("sell") }
func (s *Strategy) SellAt(time.Time, types.PriceType, int) error { return s.unsupported("sell") }

func (s *Strategy) SellShort(time.Time, types.Price, int) error {
	return s.unsupported("sell short")
}

func (s *Strategy) SellShortAt(time.Time, types.PriceType, int) error {
	return s.unsupported("sell short")
}

func (s *Strategy) Cover(time.Time, types.Price, int) error       { return s.unsupported("cover") }
func (s *Strategy) CoverAt(time.Time, types.PriceType, int) error { return s.unsupported("cover") }

// Close always fails: legs can't share a single closing price.
func (s *Strategy) Close(time.Time, types.Price) error {
	return s.unsupported("close at a single price")
}

// CloseAt closes every open leg at the pt price of date.
func (s *Strategy) CloseAt(date time.Time, pt types.PriceType) error {
	if s.Closed() {
		return errors.Newf(errors.ErrCodePositionClosed, "strategy position %d is closed", s.id)
	}

	for _, leg := range s.legs {
		if !leg.Open() {
			continue
		}

		if err := leg.CloseAt(date, pt); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidOperation, err, "can't close strategy position %d leg %d", s.id, leg.ID())
		}
	}

	return nil
}

func (s *Strategy) unsupported(op string) error {
	return errors.Newf(errors.ErrCodeInvalidOperation, "strategy position %d can't %s", s.id, op)
}

var _ Position = (*Strategy)(nil)
