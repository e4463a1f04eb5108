package analytics

import (
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// ReturnFactors holds aggregate statistics over the factors of a position set.
// Positions are taken in the order of their last execution.
type ReturnFactors struct {
	positions *position.Registry
	ordered   []position.Position
	factors   []float64
	byID      map[position.ID]float64
	fvalue    float64
	mean      float64
	stddev    float64
}

// Drawdown is the worst losing stretch of consecutive positions.
type Drawdown struct {
	Positions *position.Registry
	// Factor is the compounded factor of Positions, 1 when empty.
	Factor float64
}

func NewReturnFactors(positions *position.Registry, pt types.PriceType) (*ReturnFactors, error) {
	rf := &ReturnFactors{
		positions: positions,
		ordered:   positions.ByLastExecution(),
		byID:      make(map[position.ID]float64, positions.Len()),
	}

	rf.factors = make([]float64, 0, len(rf.ordered))
	for _, p := range rf.ordered {
		f, err := p.Factor(pt)
		if err != nil {
			return nil, errors.Annotatef(err, "can't get position %d factor", p.ID())
		}

		rf.factors = append(rf.factors, f)
		rf.byID[p.ID()] = f
	}

	rf.fvalue = product(rf.factors)
	rf.mean = mean(rf.factors)
	rf.stddev = sampleStdDev(rf.factors, rf.mean)

	return rf, nil
}

func (rf *ReturnFactors) Positions() *position.Registry {
	return rf.positions
}

func (rf *ReturnFactors) Num() int {
	return len(rf.factors)
}

// Factors returns the position factors in last-execution order.
func (rf *ReturnFactors) Factors() []float64 {
	return append([]float64(nil), rf.factors...)
}

// FutureValue is the compounded factor of all positions, 1 when empty.
func (rf *ReturnFactors) FutureValue() float64 {
	return rf.fvalue
}

func (rf *ReturnFactors) ROI() float64 {
	if len(rf.factors) == 0 {
		return 0
	}

	return rf.fvalue - 1
}

func (rf *ReturnFactors) Avg() float64 {
	if len(rf.factors) == 0 {
		return 0
	}

	return rf.mean - 1
}

func (rf *ReturnFactors) Mean() float64 {
	return rf.mean
}

func (rf *ReturnFactors) StdDev() float64 {
	return rf.stddev
}

func (rf *ReturnFactors) Skew() float64 {
	return skewness(rf.factors, rf.mean, rf.stddev)
}

// Best returns the position with the highest factor. Ties keep the lowest id.
func (rf *ReturnFactors) Best() (position.Position, error) {
	return rf.extreme("best", func(a, b float64) bool { return a > b })
}

// Worst returns the position with the lowest factor. Ties keep the lowest id.
func (rf *ReturnFactors) Worst() (position.Position, error) {
	return rf.extreme("worst", func(a, b float64) bool { return a < b })
}

func (rf *ReturnFactors) extreme(name string, better func(a, b float64) bool) (position.Position, error) {
	if rf.positions.Empty() {
		return nil, errors.Newf(errors.ErrCodeEmptyPositionSet, "can't get %s position of an empty set", name)
	}

	var out position.Position
	for _, p := range rf.positions.All() {
		if out == nil || better(rf.byID[p.ID()], rf.byID[out.ID()]) {
			out = p
		}
	}

	return out, nil
}

// Pos returns the winning positions.
func (rf *ReturnFactors) Pos() *position.Registry {
	return rf.where(func(f float64) bool { return f > 1 })
}

// Neg returns the losing positions.
func (rf *ReturnFactors) Neg() *position.Registry {
	return rf.where(func(f float64) bool { return f < 1 })
}

func (rf *ReturnFactors) where(keep func(float64) bool) *position.Registry {
	out := position.NewRegistry()
	for _, p := range rf.positions.All() {
		if keep(rf.byID[p.ID()]) {
			out.Insert(p)
		}
	}

	return out
}

// MaxConsPos returns the longest run of consecutive winners. Ties keep the earliest run.
func (rf *ReturnFactors) MaxConsPos() (*position.Registry, error) {
	return rf.longestRun("winning", func(f float64) bool { return f > 1 })
}

// MaxConsNeg returns the longest run of consecutive losers. Ties keep the earliest run.
func (rf *ReturnFactors) MaxConsNeg() (*position.Registry, error) {
	return rf.longestRun("losing", func(f float64) bool { return f < 1 })
}

func (rf *ReturnFactors) longestRun(name string, match func(float64) bool) (*position.Registry, error) {
	if rf.positions.Empty() {
		return nil, errors.Newf(errors.ErrCodeEmptyPositionSet, "can't get consecutive %s positions of an empty set", name)
	}

	best := position.NewRegistry()
	for i := 0; i < len(rf.ordered); {
		if !match(rf.factors[i]) {
			i++

			continue
		}

		run := position.NewRegistry()
		for ; i < len(rf.ordered) && match(rf.factors[i]); i++ {
			run.Insert(rf.ordered[i])
		}

		if run.Len() > best.Len() {
			best = run
		}
	}

	return best, nil
}

// DD returns the maximum drawdown: the stretch of consecutive positions
// whose compounded factor is the lowest.
func (rf *ReturnFactors) DD() (Drawdown, error) {
	if rf.positions.Empty() {
		return Drawdown{}, errors.New(errors.ErrCodeEmptyPositionSet, "can't get drawdown of an empty set")
	}

	var (
		worst    Drawdown
		neverSet = true
	)

	for start := range rf.ordered {
		dd := rf.drawdownFrom(start)
		if neverSet || dd.Factor < worst.Factor {
			worst = dd
			neverSet = false
		}
	}

	return worst, nil
}

func (rf *ReturnFactors) drawdownFrom(start int) Drawdown {
	acc, lowest, end := 1.0, 1.0, start

	for i := start; i < len(rf.ordered); i++ {
		acc *= rf.factors[i]
		if acc < lowest {
			lowest = acc
			end = i + 1
		}
	}

	return Drawdown{Positions: position.NewRegistry(rf.ordered[start:end]...), Factor: lowest}
}
