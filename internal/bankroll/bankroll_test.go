package bankroll

import (
	"fmt"
	"testing"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BankrollTestSuite struct {
	suite.Suite
}

func TestBankrollSuite(t *testing.T) {
	suite.Run(t, new(BankrollTestSuite))
}

func (suite *BankrollTestSuite) TestLedgerFlows() {
	b, err := NewBankroll(10000)
	suite.Require().NoError(err)
	ledger := execution.NewLedger(types.NewSequence(0), b)
	date := types.Date(2021, 3, 1)

	_, err = ledger.Buy("SPY", date, types.NewPrice(100.1), 30)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("6997").Equal(b.Cash()), b.Cash().String())

	_, err = ledger.SellShort("QQQ", date, types.NewPrice(50), 10)
	suite.Require().NoError(err)
	_, err = ledger.Cover("QQQ", date.AddDate(0, 0, 1), types.NewPrice(45), 10)
	suite.Require().NoError(err)
	_, err = ledger.Sell("SPY", date.AddDate(0, 0, 2), types.NewPrice(110.2), 30)
	suite.Require().NoError(err)

	// 30 * 10.1 on the long leg and 10 * 5 on the short leg.
	suite.True(decimal.RequireFromString("353").Equal(b.Change()), b.Change().String())
	suite.True(decimal.RequireFromString("6997").Equal(b.Low()))
	suite.True(decimal.NewFromInt(10000).Equal(b.Initial()))

	txs := b.Transactions()
	suite.Require().Len(txs, 4)
	suite.Equal(execution.SideShort, txs[1].Side)
	suite.Equal("QQQ", txs[1].Symbol)
	suite.True(decimal.RequireFromString("7497").Equal(txs[1].Capital), txs[1].Capital.String())
	suite.Equal(date.AddDate(0, 0, 2), txs[3].Date)
	suite.True(b.Overdraft().IsNone())
}

func (suite *BankrollTestSuite) TestMultipleRunsShareBankroll() {
	b, err := NewBankroll(0)
	suite.Require().NoError(err)
	first := execution.NewLedger(types.NewSequence(0), b)
	second := execution.NewLedger(types.NewSequence(100), b)

	_, err = first.Buy("SPY", types.Date(2021, 3, 1), types.NewPrice(10), 1)
	suite.Require().NoError(err)
	_, err = second.Buy("QQQ", types.Date(2021, 3, 1), types.NewPrice(5), 2)
	suite.Require().NoError(err)

	suite.True(decimal.NewFromInt(-20).Equal(b.Cash()))
	suite.Len(b.Transactions(), 2)
}

func (suite *BankrollTestSuite) TestOverdraftKeepsFirstNegativeBalance() {
	b, err := NewBankroll(100)
	suite.Require().NoError(err)
	ledger := execution.NewLedger(types.NewSequence(0), b)

	_, err = ledger.Buy("SPY", types.Date(2021, 3, 1), types.NewPrice(60), 1)
	suite.Require().NoError(err)
	suite.True(b.Overdraft().IsNone())

	second, err := ledger.Buy("SPY", types.Date(2021, 3, 2), types.NewPrice(60), 1)
	suite.Require().NoError(err)
	_, err = ledger.Buy("SPY", types.Date(2021, 3, 3), types.NewPrice(60), 1)
	suite.Require().NoError(err)

	suite.Require().True(b.Overdraft().IsSome())
	tx := b.Overdraft().Unwrap()
	suite.Equal(second, tx.Execution)
	suite.Equal(types.Date(2021, 3, 2), tx.Date)
	suite.True(decimal.NewFromInt(-20).Equal(tx.Capital))
	suite.True(decimal.NewFromInt(-80).Equal(b.Low()))
}

func (suite *BankrollTestSuite) TestNegativeInitialCapital() {
	b, err := NewBankroll(-1)
	suite.Nil(b)
	suite.True(errors.HasCode(err, errors.ErrCodeNegativeCapital))
	suite.True(errors.HasKind(err, errors.KindInvalidArgument))
}

func (suite *BankrollTestSuite) TestInvalidPriceIsReported() {
	b, err := NewBankroll(100)
	suite.Require().NoError(err)
	ledger := execution.NewLedger(types.NewSequence(0), b)
	suite.NoError(b.Err())

	_, err = ledger.Buy("SPY", types.Date(2021, 3, 1), types.NewPrice(10), 1)
	suite.Require().NoError(err)

	bad, err := ledger.Buy("SPY", types.Date(2021, 3, 2), types.NewPrice(0), 1)
	suite.Require().NoError(err)
	_, err = ledger.Sell("SPY", types.Date(2021, 3, 3), types.NewPrice(-1), 1)
	suite.Require().NoError(err)

	suite.Require().Error(b.Err())
	suite.True(errors.HasCode(b.Err(), errors.ErrCodeInvalidPrice))
	suite.Contains(b.Err().Error(), fmt.Sprintf("execution %d", bad))

	suite.Len(b.Transactions(), 1)
	suite.True(decimal.NewFromInt(90).Equal(b.Cash()), b.Cash().String())
}
