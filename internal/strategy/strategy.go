// Package strategy holds the trading strategies the backtest runner can drive.
package strategy

import (
	"context"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/trader"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Progress receives one step per processed unit of work.
type Progress interface {
	Add(num int) error
}

// Result summarises a strategy run.
type Result struct {
	FirstEntry   time.Time `yaml:"first_entry" json:"first_entry"`
	LastExit     time.Time `yaml:"last_exit" json:"last_exit"`
	InvestedDays int       `yaml:"invested_days" json:"invested_days"`
	Trades       int       `yaml:"trades" json:"trades"`
	Skipped      int       `yaml:"skipped" json:"skipped"`
}

// Strategy trades through a Trader.
type Strategy interface {
	Name() string
	// Steps returns the number of progress steps Run reports.
	Steps() (int, error)
	Run(ctx context.Context, progress Progress) (Result, error)
}

// Params configures a strategy.
type Params struct {
	Symbol      string
	EntryDays   int
	ExitDays    int
	// HedgeSymbol is shorted against Symbol by the jan strategy.
	HedgeSymbol string
	// EntryOffset and ExitOffset move the jan strategy's calendar dates.
	EntryOffset int
	ExitOffset  int
}

// New returns the strategy registered under name.
func New(name string, t *trader.StrategyTrader, db series.Database, params Params, log *logger.Logger) (Strategy, error) {
	switch name {
	case EOMName:
		return NewEOMStrategy(t.Trader, db, params, log)
	case BnHName:
		return NewBnHStrategy(t.Trader, params, log), nil
	case JanName:
		return NewJanStrategy(t, db, params, log)
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy: %s", name)
	}
}
