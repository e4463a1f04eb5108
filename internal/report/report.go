// Package report renders the statistics of one backtest run.
package report

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/eod-backtest/internal/analytics"
	"github.com/rxtech-lab/eod-backtest/internal/bankroll"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StatisticsFileName is the file Write creates inside the results folder.
const StatisticsFileName = "stats.yaml"

type Returns struct {
	// Number of positions.
	Num int `yaml:"num" json:"num"`
	// Compounded factor of all positions.
	FutureValue float64 `yaml:"future_value" json:"future_value"`
	ROI         float64 `yaml:"roi" json:"roi"`
	Avg         float64 `yaml:"avg" json:"avg"`
	StdDev      float64 `yaml:"stddev" json:"stddev"`
	Skew        float64 `yaml:"skew" json:"skew"`
	// Annualized figures over the calendar window.
	CAGR   float64 `yaml:"cagr" json:"cagr"`
	GSD    float64 `yaml:"gsd" json:"gsd"`
	Sharpe float64 `yaml:"sharpe" json:"sharpe"`
}

type PositionSummary struct {
	ID     position.ID `yaml:"id" json:"id"`
	Symbol string      `yaml:"symbol" json:"symbol"`
	Begin  string      `yaml:"begin" json:"begin"`
	End    string      `yaml:"end" json:"end"`
	Factor float64     `yaml:"factor" json:"factor"`
}

type Drawdown struct {
	Factor    float64 `yaml:"factor" json:"factor"`
	Positions int     `yaml:"positions" json:"positions"`
	Begin     string  `yaml:"begin,omitempty" json:"begin,omitempty"`
	End       string  `yaml:"end,omitempty" json:"end,omitempty"`
}

// Excursion mirrors analytics.ExcursionResults with flattened factor sets.
type Excursion struct {
	Avg              float64 `yaml:"avg" json:"avg"`
	High             float64 `yaml:"high" json:"high"`
	HighBegin        string  `yaml:"high_begin" json:"high_begin"`
	HighEnd          string  `yaml:"high_end" json:"high_end"`
	ConsecutiveDays  int     `yaml:"consecutive_days" json:"consecutive_days"`
	ConsecutiveBegin string  `yaml:"consecutive_begin,omitempty" json:"consecutive_begin,omitempty"`
	ConsecutiveEnd   string  `yaml:"consecutive_end,omitempty" json:"consecutive_end,omitempty"`
}

type Month struct {
	Month  string  `yaml:"month" json:"month"`
	Factor float64 `yaml:"factor" json:"factor"`
	Cash   bool    `yaml:"cash" json:"cash"`
}

type Benchmark struct {
	Symbol string  `yaml:"symbol" json:"symbol"`
	ROI    float64 `yaml:"roi" json:"roi"`
	CAGR   float64 `yaml:"cagr" json:"cagr"`
	GSD    float64 `yaml:"gsd" json:"gsd"`
	Sharpe float64 `yaml:"sharpe" json:"sharpe"`
}

type Bankroll struct {
	Initial      string     `yaml:"initial" json:"initial"`
	Cash         string     `yaml:"cash" json:"cash"`
	Low          string     `yaml:"low" json:"low"`
	Change       string     `yaml:"change" json:"change"`
	Transactions int        `yaml:"transactions" json:"transactions"`
	Overdraft    *Overdraft `yaml:"overdraft,omitempty" json:"overdraft,omitempty"`
}

// Overdraft is the first execution that left the bankroll negative.
type Overdraft struct {
	Date      string `yaml:"date" json:"date"`
	Execution uint64 `yaml:"execution" json:"execution"`
	Symbol    string `yaml:"symbol" json:"symbol"`
	Capital   string `yaml:"capital" json:"capital"`
}

// Statistics is the summary of one backtest run.
type Statistics struct {
	// ID is the unique identifier for this backtest run.
	ID        string    `yaml:"id" json:"id"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	PriceType string    `yaml:"price_type" json:"price_type"`
	Begin     string    `yaml:"begin" json:"begin"`
	End       string    `yaml:"end" json:"end"`

	Returns             Returns          `yaml:"returns" json:"returns"`
	Winners             int              `yaml:"winners" json:"winners"`
	Losers              int              `yaml:"losers" json:"losers"`
	Best                *PositionSummary `yaml:"best,omitempty" json:"best,omitempty"`
	Worst               *PositionSummary `yaml:"worst,omitempty" json:"worst,omitempty"`
	ConsecutiveWinners  int              `yaml:"consecutive_winners" json:"consecutive_winners"`
	ConsecutiveLosers   int              `yaml:"consecutive_losers" json:"consecutive_losers"`
	Drawdown            *Drawdown        `yaml:"drawdown,omitempty" json:"drawdown,omitempty"`
	Favorable           *Excursion       `yaml:"favorable,omitempty" json:"favorable,omitempty"`
	Adverse             *Excursion       `yaml:"adverse,omitempty" json:"adverse,omitempty"`
	Monthly             []Month          `yaml:"monthly" json:"monthly"`
	Benchmark           *Benchmark       `yaml:"benchmark,omitempty" json:"benchmark,omitempty"`
	Legs                []Benchmark      `yaml:"legs,omitempty" json:"legs,omitempty"`
	Portfolio           *Benchmark       `yaml:"portfolio,omitempty" json:"portfolio,omitempty"`
	Bankroll            *Bankroll        `yaml:"bankroll,omitempty" json:"bankroll,omitempty"`
	Executions          int              `yaml:"executions" json:"executions"`
	ExecutionsFilePath  string           `yaml:"executions_file_path,omitempty" json:"executions_file_path,omitempty"`
	Skipped             int              `yaml:"skipped" json:"skipped"`
}

// Input collects what Build summarises. Benchmark, Bankroll and Legs are optional.
// Legs holds the returns of each traded symbol; they are averaged with equal
// weights into the portfolio section.
type Input struct {
	RunID     string
	Symbol    string
	Strategy  string
	PriceType types.PriceType
	Returns   *analytics.EOMReturnFactors
	Benchmark *analytics.EOMReturnFactors
	Bankroll  *bankroll.Bankroll
	Legs      map[string]*analytics.EOMReturnFactors
}

// Build computes the statistics of a run. Sections that need at least one
// position, or one multi-day position, are left out when the data can't
// provide them.
func Build(in Input) (*Statistics, error) {
	if in.Returns == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "missing return factors")
	}

	id := in.RunID
	if id == "" {
		id = uuid.New().String()
	}

	rf := in.Returns
	stats := &Statistics{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Symbol:    in.Symbol,
		Strategy:  in.Strategy,
		PriceType: string(in.PriceType),
		Begin:     types.FormatDate(rf.Begin()),
		End:       types.FormatDate(rf.End()),
		Returns: Returns{
			Num:         rf.Num(),
			FutureValue: rf.FutureValue(),
			ROI:         rf.ROI(),
			Avg:         rf.Avg(),
			StdDev:      rf.StdDev(),
			Skew:        rf.Skew(),
			CAGR:        rf.CAGR(),
			GSD:         rf.GSD(),
			Sharpe:      rf.Sharpe(),
		},
		Winners: rf.Pos().Len(),
		Losers:  rf.Neg().Len(),
	}

	for _, m := range rf.MonthlyFactors() {
		stats.Monthly = append(stats.Monthly, Month{
			Month:  m.Month.Format("2006-01"),
			Factor: m.Factor,
			Cash:   m.Cash,
		})
	}

	for _, p := range rf.Positions().All() {
		stats.Executions += p.Executions().Len()
	}

	if err := stats.addPositions(rf, in.PriceType); err != nil {
		return nil, err
	}

	if err := stats.addExcursions(rf.Positions(), in.PriceType); err != nil {
		return nil, err
	}

	if in.Benchmark != nil {
		stats.Benchmark = &Benchmark{
			Symbol: in.Symbol,
			ROI:    in.Benchmark.ROI(),
			CAGR:   in.Benchmark.CAGR(),
			GSD:    in.Benchmark.GSD(),
			Sharpe: in.Benchmark.Sharpe(),
		}
	}

	if err := stats.addLegs(in.Legs); err != nil {
		return nil, err
	}

	if in.Bankroll != nil {
		stats.Bankroll = &Bankroll{
			Initial: in.Bankroll.Initial().StringFixed(2),
			Cash:    in.Bankroll.Cash().StringFixed(2),
			Low:     in.Bankroll.Low().StringFixed(2),
			Change:  in.Bankroll.Change().StringFixed(2),

			Transactions: len(in.Bankroll.Transactions()),
		}

		if od := in.Bankroll.Overdraft(); od.IsSome() {
			tx := od.Unwrap()
			stats.Bankroll.Overdraft = &Overdraft{
				Date:      types.FormatDate(tx.Date),
				Execution: uint64(tx.Execution),
				Symbol:    tx.Symbol,
				Capital:   tx.Capital.StringFixed(2),
			}
		}
	}

	return stats, nil
}

func (s *Statistics) addPositions(rf *analytics.EOMReturnFactors, pt types.PriceType) error {
	if rf.Num() == 0 {
		return nil
	}

	best, err := rf.Best()
	if err != nil {
		return err
	}

	if s.Best, err = summarize(best, pt); err != nil {
		return err
	}

	worst, err := rf.Worst()
	if err != nil {
		return err
	}

	if s.Worst, err = summarize(worst, pt); err != nil {
		return err
	}

	winners, err := rf.MaxConsPos()
	if err != nil {
		return err
	}

	losers, err := rf.MaxConsNeg()
	if err != nil {
		return err
	}

	s.ConsecutiveWinners = winners.Len()
	s.ConsecutiveLosers = losers.Len()

	dd, err := rf.DD()
	if err != nil {
		return err
	}

	s.Drawdown = &Drawdown{Factor: dd.Factor, Positions: dd.Positions.Len()}
	if ordered := dd.Positions.ByLastExecution(); len(ordered) > 0 {
		first, err := ordered[0].HoldPeriod()
		if err != nil {
			return err
		}

		last, err := ordered[len(ordered)-1].HoldPeriod()
		if err != nil {
			return err
		}

		s.Drawdown.Begin = types.FormatDate(first.Begin)
		s.Drawdown.End = types.FormatDate(last.End)
	}

	return nil
}

func (s *Statistics) addExcursions(positions *position.Registry, pt types.PriceType) error {
	set := analytics.NewPositionFactorsSet(positions, pt)

	favorable, err := set.Favorable()
	if err != nil {
		if errors.HasKind(err, errors.KindEmptyCollection) {
			return nil
		}

		return err
	}

	adverse, err := set.Adverse()
	if err != nil {
		return err
	}

	if s.Favorable, err = excursion(favorable); err != nil {
		return err
	}

	s.Adverse, err = excursion(adverse)

	return err
}

func summarize(p position.Position, pt types.PriceType) (*PositionSummary, error) {
	hold, err := p.HoldPeriod()
	if err != nil {
		return nil, err
	}

	f, err := p.Factor(pt)
	if err != nil {
		return nil, err
	}

	return &PositionSummary{
		ID:     p.ID(),
		Symbol: p.Symbol(),
		Begin:  types.FormatDate(hold.Begin),
		End:    types.FormatDate(hold.End),
		Factor: f,
	}, nil
}

func excursion(res analytics.ExcursionResults) (*Excursion, error) {
	high, err := res.High.Factor()
	if err != nil {
		return nil, err
	}

	hp, err := res.High.Period()
	if err != nil {
		return nil, err
	}

	ex := &Excursion{
		Avg:       res.Avg,
		High:      high,
		HighBegin: types.FormatDate(hp.Begin),
		HighEnd:   types.FormatDate(hp.End),
	}

	if res.Consecutive != nil && !res.Consecutive.Empty() {
		cp, err := res.Consecutive.Period()
		if err != nil {
			return nil, err
		}

		ex.ConsecutiveDays = res.Consecutive.Len()
		ex.ConsecutiveBegin = types.FormatDate(cp.Begin)
		ex.ConsecutiveEnd = types.FormatDate(cp.End)
	}

	return ex, nil
}

// Write stores the statistics as YAML under dir and returns the file path.
func (s *Statistics) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeStatisticsWriteFailed, err, "failed to create results folder %s", dir)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStatisticsWriteFailed, "failed to marshal statistics", err)
	}

	path := filepath.Join(dir, StatisticsFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(errors.ErrCodeStatisticsWriteFailed, err, "failed to write statistics to %s", path)
	}

	return path, nil
}

// ReadStatistics loads a statistics file written by Write.
func ReadStatistics(path string) (*Statistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStatisticsWriteFailed, err, "failed to read statistics %s", path)
	}

	var s Statistics
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeStatisticsWriteFailed, err, "failed to parse statistics %s", path)
	}

	return &s, nil
}

func (s *Statistics) addLegs(legs map[string]*analytics.EOMReturnFactors) error {
	if len(legs) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(legs))
	for symbol := range legs {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	portfolio := analytics.NewPortfolioReturns()
	for _, symbol := range symbols {
		leg := legs[symbol]
		s.Legs = append(s.Legs, Benchmark{
			Symbol: symbol,
			ROI:    leg.ROI(),
			CAGR:   leg.CAGR(),
			GSD:    leg.GSD(),
			Sharpe: leg.Sharpe(),
		})

		if err := portfolio.Add(leg, 0); err != nil {
			return err
		}
	}

	s.Portfolio = &Benchmark{
		Symbol: "portfolio",
		ROI:    portfolio.ROI(),
		CAGR:   portfolio.CAGR(),
		GSD:    portfolio.GSD(),
		Sharpe: portfolio.Sharpe(),
	}

	return nil
}
