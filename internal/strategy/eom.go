package strategy

import (
	"context"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/trader"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

const (
	EOMName = "eom"

	DefaultEntryDays = 2
	DefaultExitDays  = 2
)

// EOMStrategy buys EntryDays trading days before the last trading day of each
// month, counting the last day itself, and sells ExitDays trading days after it.
// The last month of the series is never traded since its exit is unknown.
type EOMStrategy struct {
	trader    *trader.Trader
	db        series.Database
	logger    *logger.Logger
	symbol    string
	entryDays int
	exitDays  int
}

func NewEOMStrategy(t *trader.Trader, db series.Database, params Params, log *logger.Logger) (*EOMStrategy, error) {
	if params.EntryDays < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "entry days must be at least 1, got %d", params.EntryDays)
	}

	if params.ExitDays < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "exit days must be at least 1, got %d", params.ExitDays)
	}

	return &EOMStrategy{
		trader:    t,
		db:        db,
		logger:    log,
		symbol:    params.Symbol,
		entryDays: params.EntryDays,
		exitDays:  params.ExitDays,
	}, nil
}

func (s *EOMStrategy) Name() string {
	return EOMName
}

// months returns the first day of every tradable month.
func (s *EOMStrategy) months() ([]time.Time, series.Series, error) {
	ser, err := s.db.Get(s.symbol)
	if err != nil {
		return nil, nil, err
	}

	period, err := ser.Period()
	if err != nil {
		return nil, nil, err
	}

	last := types.FirstOfMonth(period.End.Year(), period.End.Month())

	var months []time.Time
	for m := types.FirstOfMonth(period.Begin.Year(), period.Begin.Month()); m.Before(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}

	return months, ser, nil
}

func (s *EOMStrategy) Steps() (int, error) {
	months, _, err := s.months()
	if err != nil {
		return 0, err
	}

	return len(months), nil
}

func (s *EOMStrategy) Run(ctx context.Context, progress Progress) (Result, error) {
	var res Result

	months, ser, err := s.months()
	if err != nil {
		return res, err
	}

	for _, month := range months {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := s.trade(ser, month, &res); err != nil {
			res.Skipped++
			s.logger.Warn("Skipping month",
				zap.String("symbol", s.symbol),
				zap.String("month", month.Format("2006-01")),
				zap.Error(err),
			)
		}

		if progress != nil {
			if err := progress.Add(1); err != nil {
				return res, err
			}
		}
	}

	s.logger.Info("EOM strategy finished",
		zap.String("symbol", s.symbol),
		zap.Int("trades", res.Trades),
		zap.Int("skipped", res.Skipped),
		zap.Int("invested_days", res.InvestedDays),
	)

	return res, nil
}

func (s *EOMStrategy) trade(ser series.Series, month time.Time, res *Result) error {
	ltd, err := ser.LastInMonth(month.Year(), month.Month())
	if err != nil {
		return errors.Wrap(errors.ErrCodeDateNotFound, "can't find last trade day", err)
	}

	entry, err := ser.Before(ltd.Date, s.entryDays-1)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't find entry date before %s", types.FormatDate(ltd.Date))
	}

	exit, err := ser.After(ltd.Date, s.exitDays)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDateNotFound, err, "can't find exit date after %s", types.FormatDate(ltd.Date))
	}

	id, err := s.trader.Buy(s.symbol, entry.Date, types.NewPrice(entry.Close), 1)
	if err != nil {
		return err
	}

	if err := s.trader.Close(id, exit.Date, types.NewPrice(exit.Close)); err != nil {
		return err
	}

	res.Trades++
	res.InvestedDays += int(exit.Date.Sub(entry.Date).Hours() / 24)

	if res.FirstEntry.IsZero() {
		res.FirstEntry = entry.Date
	}

	res.LastExit = exit.Date

	return nil
}
