// Package analytics computes return statistics over positions: excursions,
// aggregate returns, month-over-month compounding and weighted portfolios.
package analytics

import (
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/factor"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// PositionFactors analyses the daily factors of one position.
type PositionFactors struct {
	pos    position.Position
	byTo   []factor.SeriesFactor
	byFrom []factor.SeriesFactor
}

func NewPositionFactors(p position.Position, pt types.PriceType) (*PositionFactors, error) {
	sfs, err := p.Factors(pt)
	if err != nil {
		return nil, err
	}

	return &PositionFactors{
		pos:    p,
		byTo:   uniqueBy(sfs.ByTo(), func(sf factor.SeriesFactor) time.Time { return sf.To }),
		byFrom: uniqueBy(sfs.ByFrom(), func(sf factor.SeriesFactor) time.Time { return sf.From }),
	}, nil
}

// uniqueBy keeps the first factor for each date returned by key. sorted must be ordered by that date.
func uniqueBy(sorted []factor.SeriesFactor, key func(factor.SeriesFactor) time.Time) []factor.SeriesFactor {
	out := make([]factor.SeriesFactor, 0, len(sorted))
	for _, sf := range sorted {
		if len(out) > 0 && key(out[len(out)-1]).Equal(key(sf)) {
			continue
		}

		out = append(out, sf)
	}

	return out
}

// Position returns the analysed position.
func (pf *PositionFactors) Position() position.Position {
	return pf.pos
}

// MaxConsPos returns the longest run of consecutive daily gains. Ties keep the earliest run.
func (pf *PositionFactors) MaxConsPos() *factor.SeriesFactorSet {
	return pf.longestRun(func(f float64) bool { return f > 1 })
}

// MaxConsNeg returns the longest run of consecutive daily losses. Ties keep the earliest run.
func (pf *PositionFactors) MaxConsNeg() *factor.SeriesFactorSet {
	return pf.longestRun(func(f float64) bool { return f < 1 })
}

func (pf *PositionFactors) longestRun(match func(float64) bool) *factor.SeriesFactorSet {
	best := factor.NewSeriesFactorSet()

	for i := 0; i < len(pf.byTo); {
		if !match(pf.byTo[i].Factor) {
			i++

			continue
		}

		run := factor.NewSeriesFactorSet()
		for ; i < len(pf.byTo) && match(pf.byTo[i].Factor); i++ {
			run.Insert(pf.byTo[i])
		}

		if run.Len() > best.Len() {
			best = run
		}
	}

	return best
}

// BFE returns the best favorable excursion: the window with the highest compounded factor.
func (pf *PositionFactors) BFE() (*factor.SeriesFactorSet, error) {
	return pf.excursion("best favorable", func(a, b float64) bool { return a > b })
}

// WAE returns the worst adverse excursion: the window with the lowest compounded factor.
func (pf *PositionFactors) WAE() (*factor.SeriesFactorSet, error) {
	return pf.excursion("worst adverse", func(a, b float64) bool { return a < b })
}

type periodFactor struct {
	factor float64
	from   time.Time
	to     time.Time
}

func (p periodFactor) isValid() bool {
	return !p.from.IsZero() && !p.to.IsZero()
}

// excursion scans every start bar forward to every end bar, keeping the
// window whose running product is strictly better than any seen before.
func (pf *PositionFactors) excursion(name string, better func(a, b float64) bool) (*factor.SeriesFactorSet, error) {
	best := periodFactor{factor: 1}
	neverSet := true

	for start := range pf.byTo {
		candidate := pf.excursionFrom(start, better)
		if neverSet || better(candidate.factor, best.factor) {
			best = candidate
			neverSet = false
		}
	}

	if !best.isValid() {
		return nil, errors.Newf(errors.ErrCodeNoExcursionPeriod, "can't get position %d %s excursion period", pf.pos.ID(), name)
	}

	begin := -1
	for i, sf := range pf.byFrom {
		if sf.From.Equal(best.from) {
			begin = i

			break
		}
	}

	if begin < 0 {
		return nil, errors.Newf(errors.ErrCodeNoExcursionPeriod, "can't get position %d beginning of %s excursion period", pf.pos.ID(), name)
	}

	sfs := factor.NewSeriesFactorSet()
	for i := begin; i < len(pf.byFrom) && !pf.byFrom[i].To.After(best.to); i++ {
		sfs.Insert(pf.byFrom[i])
	}

	return sfs, nil
}

func (pf *PositionFactors) excursionFrom(start int, better func(a, b float64) bool) periodFactor {
	result := periodFactor{factor: 1, from: pf.byTo[start].From}
	acc := 1.0
	neverSet := true

	for i := start; i < len(pf.byTo); i++ {
		acc *= pf.byTo[i].Factor
		if neverSet || better(acc, result.factor) {
			result.factor = acc
			result.to = pf.byTo[i].To
			neverSet = false
		}
	}

	return result
}
