package strategy

import (
	"context"

	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/trader"
	"go.uber.org/zap"
)

const BnHName = "bnh"

// BnHStrategy holds one unit of the symbol across the whole series.
type BnHStrategy struct {
	trader *trader.Trader
	logger *logger.Logger
	symbol string
}

func NewBnHStrategy(t *trader.Trader, params Params, log *logger.Logger) *BnHStrategy {
	return &BnHStrategy{trader: t, logger: log, symbol: params.Symbol}
}

func (s *BnHStrategy) Name() string {
	return BnHName
}

func (s *BnHStrategy) Steps() (int, error) {
	return 1, nil
}

func (s *BnHStrategy) Run(ctx context.Context, progress Progress) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	id, err := s.trader.BuyAndHold(s.symbol)
	if err != nil {
		return Result{}, err
	}

	p, err := s.trader.Position(id)
	if err != nil {
		return Result{}, err
	}

	hold, err := p.HoldPeriod()
	if err != nil {
		return Result{}, err
	}

	if progress != nil {
		if err := progress.Add(1); err != nil {
			return Result{}, err
		}
	}

	s.logger.Info("Buy and hold finished", zap.String("symbol", s.symbol), zap.String("period", hold.String()))

	return Result{
		FirstEntry:   hold.Begin,
		LastExit:     hold.End,
		InvestedDays: int(hold.End.Sub(hold.Begin).Hours() / 24),
		Trades:       1,
	}, nil
}

