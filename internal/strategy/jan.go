package strategy

import (
	"context"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/trader"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

const (
	JanName = "jan"
	// JanSpreadName names the strategy positions the jan strategy opens.
	JanSpreadName = "JanSpread"

	janEntryDay = 20
	janExitDay  = 9
)

// JanStrategy trades the January effect as a spread: every year it buys the
// symbol and shorts the hedge on the first trading day at or after December 20,
// then closes both legs on the last trading day at or before January 9.
// The offsets move both calendar dates. The last year of the series is never
// traded since its January exit is unknown.
type JanStrategy struct {
	trader      *trader.StrategyTrader
	db          series.Database
	logger      *logger.Logger
	symbol      string
	hedge       string
	entryOffset int
	exitOffset  int
}

func NewJanStrategy(t *trader.StrategyTrader, db series.Database, params Params, log *logger.Logger) (*JanStrategy, error) {
	if params.HedgeSymbol == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "jan strategy needs a hedge symbol")
	}

	if day := janEntryDay + params.EntryOffset; day < 1 || day > 31 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "entry offset %d moves the entry out of December", params.EntryOffset)
	}

	if day := janExitDay + params.ExitOffset; day < 1 || day > 31 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "exit offset %d moves the exit out of January", params.ExitOffset)
	}

	return &JanStrategy{
		trader:      t,
		db:          db,
		logger:      log,
		symbol:      params.Symbol,
		hedge:       params.HedgeSymbol,
		entryOffset: params.EntryOffset,
		exitOffset:  params.ExitOffset,
	}, nil
}

func (s *JanStrategy) Name() string {
	return JanName
}

// years returns every tradable year of the long series with both series.
func (s *JanStrategy) years() ([]int, series.Series, series.Series, error) {
	long, err := s.db.Get(s.symbol)
	if err != nil {
		return nil, nil, nil, err
	}

	hedge, err := s.db.Get(s.hedge)
	if err != nil {
		return nil, nil, nil, err
	}

	period, err := long.Period()
	if err != nil {
		return nil, nil, nil, err
	}

	var years []int
	for y := period.Begin.Year(); y < period.End.Year(); y++ {
		years = append(years, y)
	}

	return years, long, hedge, nil
}

func (s *JanStrategy) Steps() (int, error) {
	years, _, _, err := s.years()
	if err != nil {
		return 0, err
	}

	return len(years), nil
}

func (s *JanStrategy) Run(ctx context.Context, progress Progress) (Result, error) {
	var res Result

	years, long, hedge, err := s.years()
	if err != nil {
		return res, err
	}

	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := s.trade(long, hedge, year, &res); err != nil {
			res.Skipped++
			s.logger.Warn("Skipping year",
				zap.String("symbol", s.symbol),
				zap.String("hedge", s.hedge),
				zap.Int("year", year),
				zap.Error(err),
			)
		}

		if progress != nil {
			if err := progress.Add(1); err != nil {
				return res, err
			}
		}
	}

	s.logger.Info("Jan strategy finished",
		zap.String("symbol", s.symbol),
		zap.String("hedge", s.hedge),
		zap.Int("trades", res.Trades),
		zap.Int("skipped", res.Skipped),
	)

	return res, nil
}

func (s *JanStrategy) trade(long, hedge series.Series, year int, res *Result) error {
	entry := types.Date(year, time.December, janEntryDay+s.entryOffset)
	exit := types.Date(year+1, time.January, janExitDay+s.exitOffset)

	longEntry, err := long.AtOrAfter(entry)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't locate %s entry around %s", s.symbol, types.FormatDate(entry))
	}

	hedgeEntry, err := hedge.AtOrAfter(entry)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't locate %s entry around %s", s.hedge, types.FormatDate(entry))
	}

	longExit, err := long.AtOrBefore(exit)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't locate %s exit around %s", s.symbol, types.FormatDate(exit))
	}

	// Both legs close on the long exit date.
	if _, err := hedge.At(longExit.Date); err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't locate %s exit on %s", s.hedge, types.FormatDate(longExit.Date))
	}

	if !longExit.Date.After(longEntry.Date) || !longExit.Date.After(hedgeEntry.Date) {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "exit %s is not after entry %s",
			types.FormatDate(longExit.Date), types.FormatDate(longEntry.Date))
	}

	id, err := s.trader.StrategyBuy(JanSpreadName, s.symbol, longEntry.Date, types.NewPrice(longEntry.AdjClose), 1)
	if err != nil {
		return err
	}

	if _, err := s.trader.StrategySellShortInto(id, s.hedge, hedgeEntry.Date, types.NewPrice(hedgeEntry.AdjClose), 1); err != nil {
		return s.abandon(id, longExit.Date, err)
	}

	if err := s.trader.StrategyClose(id, longExit.Date, types.PriceTypeAdjClose); err != nil {
		return err
	}

	res.Trades++
	res.InvestedDays += int(longExit.Date.Sub(longEntry.Date).Hours() / 24)

	if res.FirstEntry.IsZero() {
		res.FirstEntry = longEntry.Date
	}

	res.LastExit = longExit.Date

	return nil
}

// abandon closes the legs already opened for strategy id and returns cause.
func (s *JanStrategy) abandon(id position.ID, date time.Time, cause error) error {
	if err := s.trader.StrategyClose(id, date, types.PriceTypeAdjClose); err != nil {
		s.logger.Error("Failed to close abandoned strategy", zap.Uint64("id", uint64(id)), zap.Error(err))
	}

	return cause
}
