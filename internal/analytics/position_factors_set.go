package analytics

import (
	"github.com/rxtech-lab/eod-backtest/internal/factor"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// ExcursionResults summarises the excursions of a set of positions.
type ExcursionResults struct {
	// Avg is the mean excursion factor minus one.
	Avg float64
	// High is the most extreme single-position excursion.
	High *factor.SeriesFactorSet
	// Consecutive is the longest run of same-direction daily factors.
	Consecutive *factor.SeriesFactorSet
}

// PositionFactorsSet aggregates PositionFactors across positions.
type PositionFactorsSet struct {
	positions *position.Registry
	pt        types.PriceType
}

func NewPositionFactorsSet(positions *position.Registry, pt types.PriceType) *PositionFactorsSet {
	return &PositionFactorsSet{positions: positions, pt: pt}
}

// Favorable aggregates the best favorable excursions and the longest gaining runs.
func (s *PositionFactorsSet) Favorable() (ExcursionResults, error) {
	return s.collect(
		(*PositionFactors).BFE,
		(*PositionFactors).MaxConsPos,
		func(a, b float64) bool { return a > b },
	)
}

// Adverse aggregates the worst adverse excursions and the longest losing runs.
func (s *PositionFactorsSet) Adverse() (ExcursionResults, error) {
	return s.collect(
		(*PositionFactors).WAE,
		(*PositionFactors).MaxConsNeg,
		func(a, b float64) bool { return a < b },
	)
}

func (s *PositionFactorsSet) collect(
	extreme func(*PositionFactors) (*factor.SeriesFactorSet, error),
	run func(*PositionFactors) *factor.SeriesFactorSet,
	better func(a, b float64) bool,
) (ExcursionResults, error) {
	if s.positions.Empty() {
		return ExcursionResults{}, errors.New(errors.ErrCodeEmptyPositionSet, "empty position set")
	}

	var (
		res     ExcursionResults
		acc     float64
		highF   float64
		highSet bool
	)

	for _, p := range s.positions.All() {
		pf, err := NewPositionFactors(p, s.pt)
		if err != nil {
			return ExcursionResults{}, err
		}

		sfs, err := extreme(pf)
		if err != nil {
			return ExcursionResults{}, err
		}

		f, err := sfs.Factor()
		if err != nil {
			return ExcursionResults{}, err
		}

		acc += f
		if !highSet || better(f, highF) {
			res.High, highF, highSet = sfs, f, true
		}

		if cons := run(pf); res.Consecutive == nil || cons.Len() > res.Consecutive.Len() {
			res.Consecutive = cons
		}
	}

	if acc != 0 {
		res.Avg = acc/float64(s.positions.Len()) - 1
	}

	return res, nil
}
