package analytics

import "github.com/rxtech-lab/eod-backtest/pkg/errors"

// Metrics is the set of annualized statistics a portfolio averages.
type Metrics interface {
	ROI() float64
	CAGR() float64
	GSD() float64
	Sharpe() float64
}

type weighted struct {
	metrics Metrics
	weight  float64
}

// PortfolioReturns averages the metrics of several return sets.
// When every weight is zero the sets are weighted equally.
type PortfolioReturns struct {
	items       []weighted
	totalWeight float64
}

func NewPortfolioReturns() *PortfolioReturns {
	return &PortfolioReturns{}
}

// Add includes m with the given weight. Weights must be non-negative and sum to at most 1.
func (pr *PortfolioReturns) Add(m Metrics, weight float64) error {
	if weight < 0 {
		return errors.Newf(errors.ErrCodeInvalidWeight, "weight %g must not be negative", weight)
	}

	if pr.totalWeight+weight > 1 {
		return errors.Newf(errors.ErrCodeInvalidWeight, "accumulated weight %g exceeds 1", pr.totalWeight+weight)
	}

	pr.items = append(pr.items, weighted{metrics: m, weight: weight})
	pr.totalWeight += weight

	return nil
}

func (pr *PortfolioReturns) Len() int {
	return len(pr.items)
}

func (pr *PortfolioReturns) ROI() float64 {
	return pr.average(Metrics.ROI)
}

func (pr *PortfolioReturns) CAGR() float64 {
	return pr.average(Metrics.CAGR)
}

func (pr *PortfolioReturns) GSD() float64 {
	return pr.average(Metrics.GSD)
}

func (pr *PortfolioReturns) Sharpe() float64 {
	return pr.average(Metrics.Sharpe)
}

func (pr *PortfolioReturns) average(metric func(Metrics) float64) float64 {
	if len(pr.items) == 0 {
		return 0
	}

	useWeights := pr.totalWeight > 0
	acc := 0.0
	for _, it := range pr.items {
		w := 1.0
		if useWeights {
			w = it.weight
		}

		acc += metric(it.metrics) * w
	}

	if useWeights {
		return acc
	}

	return acc / float64(len(pr.items))
}
