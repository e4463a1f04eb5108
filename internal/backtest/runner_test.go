package backtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/config"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/series/datasource"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RunnerTestSuite struct {
	suite.Suite
	dir     string
	csvPath string
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

// writeCSV writes weekday bars of symbol in [begin, end) starting at px and moving by step a day.
func (suite *RunnerTestSuite) writeCSV(symbol string, begin, end time.Time, px, step float64) string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Adj Close,Volume\n")

	for d := begin; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%.2f,1000\n", types.FormatDate(d), px, px+1, px-1, px+0.25, px+0.25)
		px += step
	}

	path := filepath.Join(suite.dir, symbol+".csv")
	suite.Require().NoError(os.WriteFile(path, []byte(b.String()), 0o644))

	return path
}

// writeSeries writes weekday bars from January through April 2021 rising by 0.5 a day.
func (suite *RunnerTestSuite) writeSeries() string {
	return suite.writeCSV("SPY", types.Date(2021, 1, 4), types.Date(2021, 5, 1), 100, 0.5)
}

func (suite *RunnerTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.csvPath = suite.writeSeries()
}

func (suite *RunnerTestSuite) config(strategyName string) *config.BacktestConfig {
	cfg := config.Default()
	cfg.Symbol = "SPY"
	cfg.SeriesPath = suite.csvPath
	cfg.InitialCapital = 10000
	cfg.Strategy.Name = strategyName
	cfg.ResultsFolder = filepath.Join(suite.dir, "results")

	return &cfg
}

func (suite *RunnerTestSuite) TestRunEOM() {
	runner, err := NewRunner(suite.config("eom"), logger.NewNopLogger())
	suite.Require().NoError(err)

	var (
		started   bool
		total     int
		processed []int
		ended     *Result
		endErr    error
	)

	onStart := OnRunStartCallback(func(runID, symbol, strategyName string, totalSteps int) error {
		started = true
		total = totalSteps
		suite.NotEmpty(runID)
		suite.Equal("SPY", symbol)
		suite.Equal("eom", strategyName)

		return nil
	})
	onData := OnProcessDataCallback(func(current, _ int) error {
		processed = append(processed, current)

		return nil
	})
	onEnd := OnRunEndCallback(func(result Result) { ended = &result })
	onBacktestEnd := OnBacktestEndCallback(func(err error) { endErr = err })

	res, err := runner.Run(context.Background(), LifecycleCallbacks{
		OnRunStart:    &onStart,
		OnProcessData: &onData,
		OnRunEnd:      &onEnd,
		OnBacktestEnd: &onBacktestEnd,
	})
	suite.Require().NoError(err)
	suite.NoError(endErr)

	suite.True(started)
	suite.Equal(3, total)
	suite.Equal([]int{1, 2, 3}, processed)
	suite.Require().NotNil(ended)
	suite.Equal(res.RunID, ended.RunID)

	suite.Equal(3, res.Strategy.Trades)
	suite.Equal(0, res.Strategy.Skipped)
	suite.Require().NotNil(res.Statistics)
	suite.Equal(0, res.Statistics.Skipped)
	suite.Equal(3, res.Statistics.Returns.Num)
	suite.Equal(6, res.Statistics.Executions)
	suite.Greater(res.Statistics.Returns.ROI, 0.0)
	suite.NotNil(res.Statistics.Benchmark)
	suite.NotNil(res.Statistics.Bankroll)

	suite.FileExists(res.StatisticsPath)
	suite.FileExists(res.ExecutionsPath)
	suite.Equal(filepath.Join(suite.dir, "results", "SPY_2021_eom"), res.ResultFolder)
}

func (suite *RunnerTestSuite) TestRunBuyAndHold() {
	runner, err := NewRunner(suite.config("bnh"), logger.NewNopLogger())
	suite.Require().NoError(err)

	res, err := runner.Run(context.Background(), LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal(1, res.Statistics.Returns.Num)
	suite.Require().NotNil(res.Statistics.Benchmark)
	suite.InDelta(res.Statistics.Returns.ROI, res.Statistics.Benchmark.ROI, 1e-9)
}

func (suite *RunnerTestSuite) TestRunJanSpread() {
	cfg := suite.config("jan")
	cfg.Symbol = "IWM"
	cfg.SeriesPath = suite.writeCSV("IWM", types.Date(2020, 12, 1), types.Date(2021, 3, 1), 50, 0.5)
	cfg.Strategy.HedgeSymbol = "QQQ"
	cfg.Strategy.HedgeSeriesPath = suite.writeCSV("QQQ", types.Date(2020, 12, 1), types.Date(2021, 3, 1), 200, 0.25)
	suite.Require().NoError(cfg.Validate())

	runner, err := NewRunner(cfg, logger.NewNopLogger())
	suite.Require().NoError(err)

	res, err := runner.Run(context.Background(), LifecycleCallbacks{})
	suite.Require().NoError(err)

	suite.Equal(1, res.Strategy.Trades)
	suite.Equal(types.Date(2020, 12, 21), res.Strategy.FirstEntry)
	suite.Equal(types.Date(2021, 1, 8), res.Strategy.LastExit)

	stats := res.Statistics
	suite.Require().NotNil(stats)
	suite.Equal(1, stats.Returns.Num)
	suite.Equal(4, stats.Executions)
	suite.Equal(res.Strategy.Skipped, stats.Skipped)
	suite.Require().Len(stats.Legs, 2)
	suite.Equal("IWM", stats.Legs[0].Symbol)
	suite.Greater(stats.Legs[0].ROI, 0.0)
	suite.Equal("QQQ", stats.Legs[1].Symbol)
	suite.Less(stats.Legs[1].ROI, 0.0)
	suite.NotNil(stats.Portfolio)
	suite.Require().NotNil(stats.Bankroll)
	suite.Equal(4, stats.Bankroll.Transactions)
	suite.Equal(filepath.Join(suite.dir, "results", "IWM_2020_jan"), res.ResultFolder)
}

func (suite *RunnerTestSuite) TestRunWithDateWindow() {
	cfg := suite.config("eom")
	cfg.Loader = datasource.KindDuckDB
	cfg.Begin = optional.Some(types.Date(2021, 2, 1))
	cfg.End = optional.Some(types.Date(2021, 3, 31))

	runner, err := NewRunner(cfg, logger.NewNopLogger())
	suite.Require().NoError(err)

	res, err := runner.Run(context.Background(), LifecycleCallbacks{})
	suite.Require().NoError(err)
	suite.Equal("2021-02-01", res.Statistics.Begin)
	suite.Equal("2021-03-31", res.Statistics.End)
	suite.Equal(1, res.Strategy.Trades)
}

func (suite *RunnerTestSuite) TestProgressCallbackAborts() {
	runner, err := NewRunner(suite.config("eom"), logger.NewNopLogger())
	suite.Require().NoError(err)

	onData := OnProcessDataCallback(func(int, int) error {
		return errors.New(errors.ErrCodeInvalidOperation, "stop")
	})

	_, err = runner.Run(context.Background(), LifecycleCallbacks{OnProcessData: &onData})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOperation))
}

func (suite *RunnerTestSuite) TestCancelledContext() {
	runner, err := NewRunner(suite.config("eom"), logger.NewNopLogger())
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx, LifecycleCallbacks{})
	suite.ErrorIs(err, context.Canceled)
}

type failingLoader struct{}

func (failingLoader) Load(string, string, optional.Option[time.Time], optional.Option[time.Time]) (*series.EODSeries, error) {
	return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "no data")
}

func (suite *RunnerTestSuite) TestLoaderFailure() {
	runner, err := NewRunner(suite.config("eom"), logger.NewNopLogger(), WithLoader(failingLoader{}))
	suite.Require().NoError(err)

	var endErr error
	onBacktestEnd := OnBacktestEndCallback(func(err error) { endErr = err })

	_, err = runner.Run(context.Background(), LifecycleCallbacks{OnBacktestEnd: &onBacktestEnd})
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
	suite.Equal(err, endErr)
}

func (suite *RunnerTestSuite) TestUnsupportedStrategy() {
	runner, err := NewRunner(suite.config("momentum"), logger.NewNopLogger())
	suite.Require().NoError(err)

	_, err = runner.Run(context.Background(), LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedStrategy))
}

func (suite *RunnerTestSuite) TestNilConfig() {
	_, err := NewRunner(nil, logger.NewNopLogger())
	suite.Error(err)
}
