// Package backtest runs one configured end-of-day backtest from series loading
// to the statistics file.
package backtest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/analytics"
	"github.com/rxtech-lab/eod-backtest/internal/bankroll"
	"github.com/rxtech-lab/eod-backtest/internal/config"
	"github.com/rxtech-lab/eod-backtest/internal/journal"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/report"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/series/datasource"
	"github.com/rxtech-lab/eod-backtest/internal/strategy"
	"github.com/rxtech-lab/eod-backtest/internal/trader"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

// Result points at the artifacts of a finished run.
type Result struct {
	RunID          string
	ResultFolder   string
	StatisticsPath string
	ExecutionsPath string
	Statistics     *report.Statistics
	Strategy       strategy.Result
}

type Runner struct {
	config *config.BacktestConfig
	loader datasource.Loader
	log    *logger.Logger
}

type Option func(*Runner)

// WithLoader replaces the loader selected by the config.
func WithLoader(loader datasource.Loader) Option {
	return func(r *Runner) {
		r.loader = loader
	}
}

func NewRunner(cfg *config.BacktestConfig, log *logger.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "config is nil")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	r := &Runner{config: cfg, log: log}
	for _, opt := range opts {
		opt(r)
	}

	if r.loader == nil {
		loader, err := datasource.NewLoader(cfg.Loader, log)
		if err != nil {
			return nil, err
		}

		r.loader = loader
	}

	return r, nil
}

// Run loads the series, drives the strategy through a trader, computes the
// statistics and writes them with the execution journal to the results folder.
func (r *Runner) Run(ctx context.Context, callbacks LifecycleCallbacks) (res Result, err error) {
	defer func() {
		if callbacks.OnBacktestEnd != nil {
			(*callbacks.OnBacktestEnd)(err)
		}
	}()

	cfg := r.config

	eod, err := r.loader.Load(cfg.Symbol, cfg.SeriesPath, cfg.Begin, cfg.End)
	if err != nil {
		r.log.Error("Failed to load series", zap.String("symbol", cfg.Symbol), zap.String("path", cfg.SeriesPath), zap.Error(err))

		return res, err
	}

	db := series.NewDB(eod)

	if cfg.Strategy.HedgeSeriesPath != "" {
		hedge, err := r.loader.Load(cfg.Strategy.HedgeSymbol, cfg.Strategy.HedgeSeriesPath, cfg.Begin, cfg.End)
		if err != nil {
			r.log.Error("Failed to load hedge series", zap.String("symbol", cfg.Strategy.HedgeSymbol), zap.String("path", cfg.Strategy.HedgeSeriesPath), zap.Error(err))

			return res, err
		}

		db.Add(hedge)
	}

	period, err := eod.Period()
	if err != nil {
		return res, err
	}

	jrnl, err := journal.NewJournal(r.log)
	if err != nil {
		return res, err
	}
	defer jrnl.Close()

	cash, err := bankroll.NewBankroll(cfg.InitialCapital)
	if err != nil {
		return res, err
	}

	t := trader.NewStrategyTrader(db, trader.WithObserver(jrnl), trader.WithObserver(cash))

	strat, err := strategy.New(cfg.Strategy.Name, t, db, strategy.Params{
		Symbol:      cfg.Symbol,
		EntryDays:   cfg.Strategy.EntryDays,
		ExitDays:    cfg.Strategy.ExitDays,
		HedgeSymbol: cfg.Strategy.HedgeSymbol,
		EntryOffset: cfg.Strategy.EntryOffset,
		ExitOffset:  cfg.Strategy.ExitOffset,
	}, r.log)
	if err != nil {
		return res, err
	}

	steps, err := strat.Steps()
	if err != nil {
		return res, err
	}

	res.RunID = jrnl.RunID()
	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(res.RunID, cfg.Symbol, strat.Name(), steps); err != nil {
			return res, err
		}
	}

	r.log.Info("Running backtest",
		zap.String("run_id", res.RunID),
		zap.String("symbol", cfg.Symbol),
		zap.String("strategy", strat.Name()),
		zap.String("period", period.String()),
		zap.Int("steps", steps),
	)

	res.Strategy, err = strat.Run(ctx, &stepCounter{total: steps, callback: callbacks.OnProcessData})
	if err != nil {
		return res, err
	}

	if err := jrnl.Err(); err != nil {
		return res, err
	}

	if err := cash.Err(); err != nil {
		return res, err
	}

	returns, err := analytics.NewEOMReturnFactors(traded(t.Positions()), period.Begin, period.End, cfg.PriceType, cfg.RiskFreeRate)
	if err != nil {
		return res, err
	}

	legs, err := r.legs(t.Positions(), period.Begin, period.End)
	if err != nil {
		return res, err
	}

	stats, err := report.Build(report.Input{
		RunID:     res.RunID,
		Symbol:    cfg.Symbol,
		Strategy:  strat.Name(),
		PriceType: cfg.PriceType,
		Returns:   returns,
		Benchmark: r.benchmark(db, period.Begin, period.End),
		Bankroll:  cash,
		Legs:      legs,
	})
	if err != nil {
		return res, err
	}

	stats.Skipped = res.Strategy.Skipped

	res.ResultFolder = filepath.Join(cfg.ResultsFolder, fmt.Sprintf("%s_%d_%s", cfg.Symbol, period.Begin.Year(), strat.Name()))

	if res.ExecutionsPath, err = jrnl.Write(res.ResultFolder); err != nil {
		return res, err
	}

	stats.ExecutionsFilePath = res.ExecutionsPath

	if res.StatisticsPath, err = stats.Write(res.ResultFolder); err != nil {
		return res, err
	}

	res.Statistics = stats

	r.log.Info("Backtest finished",
		zap.String("run_id", res.RunID),
		zap.Int("positions", stats.Returns.Num),
		zap.Float64("roi", stats.Returns.ROI),
		zap.Float64("cagr", stats.Returns.CAGR),
		zap.String("statistics", res.StatisticsPath),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(res)
	}

	return res, nil
}

// benchmark returns the buy-and-hold returns of the symbol, or nil when they
// can't be computed.
func (r *Runner) benchmark(db series.Database, begin, end time.Time) *analytics.EOMReturnFactors {
	bnh := trader.NewBnHTrader(db, r.config.Symbol)
	if _, err := bnh.Run(); err != nil {
		r.log.Warn("Failed to run buy-and-hold benchmark", zap.Error(err))

		return nil
	}

	returns, err := analytics.NewEOMReturnFactors(bnh.Positions(), begin, end, r.config.PriceType, r.config.RiskFreeRate)
	if err != nil {
		r.log.Warn("Failed to compute buy-and-hold returns", zap.Error(err))

		return nil
	}

	return returns
}

// traded returns the positions a run is measured on: its strategy positions
// when it opened any, its natural positions otherwise.
func traded(positions *position.Registry) *position.Registry {
	if strategies := positions.Strategies(); !strategies.Empty() {
		return strategies
	}

	return positions.Natural()
}

// legs returns the returns of the natural positions per symbol when a run
// traded more than one symbol.
func (r *Runner) legs(positions *position.Registry, begin, end time.Time) (map[string]*analytics.EOMReturnFactors, error) {
	natural := positions.Natural()

	symbols := natural.Symbols()
	if len(symbols) < 2 {
		return nil, nil
	}

	out := make(map[string]*analytics.EOMReturnFactors, len(symbols))
	for _, symbol := range symbols {
		returns, err := analytics.NewEOMReturnFactors(natural.Symbol(symbol), begin, end, r.config.PriceType, r.config.RiskFreeRate)
		if err != nil {
			return nil, err
		}

		out[symbol] = returns
	}

	return out, nil
}
