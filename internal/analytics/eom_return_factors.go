package analytics

import (
	"math"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// DefaultRiskFreeRate is the yearly risk-free rate, in percent.
const DefaultRiskFreeRate = 3.0

// MonthlyFactor is the compounded factor of one calendar month.
type MonthlyFactor struct {
	// Month is the last calendar day of the month.
	Month  time.Time `yaml:"month" json:"month"`
	Factor float64   `yaml:"factor" json:"factor"`
	// Cash is set when no position was held and the risk-free rate was used.
	Cash bool `yaml:"cash" json:"cash"`
}

// EOMReturnFactors compounds position returns month over month across a
// calendar window to derive annualized statistics.
type EOMReturnFactors struct {
	*ReturnFactors

	begin    time.Time
	end      time.Time
	riskFree float64
	years    float64
	monthly  []MonthlyFactor
	mmean    float64
	mstddev  float64
	gsd      float64
}

func NewEOMReturnFactors(
	positions *position.Registry,
	begin, end time.Time,
	pt types.PriceType,
	riskFreeRate float64,
) (*EOMReturnFactors, error) {
	if err := types.ValidateDate(begin); err != nil {
		return nil, err
	}

	if err := types.ValidateDate(end); err != nil {
		return nil, err
	}

	begin, end = types.Day(begin), types.Day(end)
	if !end.After(begin) {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "return window end %s must be after begin %s",
			types.FormatDate(end), types.FormatDate(begin))
	}

	rf, err := NewReturnFactors(positions, pt)
	if err != nil {
		return nil, err
	}

	eom := &EOMReturnFactors{
		ReturnFactors: rf,
		begin:         begin,
		end:           end,
		riskFree:      riskFreeRate,
		years:         end.Sub(begin).Hours() / 24 / 365,
	}

	if err := eom.compound(pt); err != nil {
		return nil, err
	}

	factors := make([]float64, len(eom.monthly))
	logs := make([]float64, len(eom.monthly))
	for i, m := range eom.monthly {
		factors[i] = m.Factor
		logs[i] = math.Log10(m.Factor)
	}

	eom.mmean = mean(factors)
	eom.mstddev = sampleStdDev(factors, eom.mmean)

	if len(logs) > 0 {
		eom.gsd = math.Pow(10, sampleStdDev(logs, mean(logs))*math.Sqrt(12)) - 1
	}

	return eom, nil
}

func (eom *EOMReturnFactors) compound(pt types.PriceType) error {
	cash := 1 + eom.riskFree/100/12
	prevEnd := eom.begin

	for month := types.FirstOfMonth(eom.begin.Year(), eom.begin.Month()); !month.After(eom.end); month = month.AddDate(0, 1, 0) {
		monthEnd := types.EndOfMonth(month.Year(), month.Month())
		mf := MonthlyFactor{Month: monthEnd, Factor: 1}
		held := false

		for _, p := range eom.positions.All() {
			hold, err := p.HoldPeriod()
			if err != nil {
				return err
			}

			// Month window is [prevEnd, monthEnd); the hold period counts up to its last day.
			if !hold.Begin.Before(monthEnd) || !prevEnd.Before(hold.End) {
				continue
			}

			f, err := p.FactorMonth(month.Year(), month.Month(), pt)
			if err != nil {
				return errors.Annotatef(err,
					"can't get position %d factor for %d-%02d", p.ID(), month.Year(), month.Month())
			}

			mf.Factor *= f
			held = true
		}

		if !held {
			mf.Factor = cash
			mf.Cash = true
		}

		eom.monthly = append(eom.monthly, mf)
		prevEnd = monthEnd
	}

	return nil
}

func (eom *EOMReturnFactors) Begin() time.Time {
	return eom.begin
}

func (eom *EOMReturnFactors) End() time.Time {
	return eom.end
}

func (eom *EOMReturnFactors) RiskFreeRate() float64 {
	return eom.riskFree
}

func (eom *EOMReturnFactors) Years() float64 {
	return eom.years
}

// MonthlyFactors returns one entry per calendar month of the window.
func (eom *EOMReturnFactors) MonthlyFactors() []MonthlyFactor {
	return append([]MonthlyFactor(nil), eom.monthly...)
}

func (eom *EOMReturnFactors) MonthlyMean() float64 {
	return eom.mmean
}

func (eom *EOMReturnFactors) MonthlyStdDev() float64 {
	return eom.mstddev
}

// CAGR is the compound annual growth rate of the position set, 0 when empty.
func (eom *EOMReturnFactors) CAGR() float64 {
	if eom.Num() == 0 {
		return 0
	}

	return math.Pow(eom.FutureValue(), 1/eom.years) - 1
}

// GSD is the annualized geometric standard deviation of the monthly factors.
func (eom *EOMReturnFactors) GSD() float64 {
	if eom.Num() == 0 {
		return 0
	}

	return eom.gsd
}

// Sharpe is the annualized excess monthly return over its volatility, 0 when the volatility is 0.
func (eom *EOMReturnFactors) Sharpe() float64 {
	if eom.mstddev == 0 {
		return 0
	}

	return ((eom.mmean-1)*12 - eom.riskFree/100) / (eom.mstddev * math.Sqrt(12))
}
