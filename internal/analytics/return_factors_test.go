package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/position"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ReturnFactorsTestSuite struct {
	suite.Suite
	fx        *fixture
	positions []position.Position
}

func TestReturnFactorsSuite(t *testing.T) {
	suite.Run(t, new(ReturnFactorsTestSuite))
}

// SetupTest builds four back-to-back trades with factors 1.1, 0.9, 0.8 and 1.25.
func (suite *ReturnFactorsTestSuite) SetupTest() {
	suite.fx = newFixture()
	suite.positions = []position.Position{
		suite.fx.long("SPY", d(1, 2), 100, d(1, 3), 110),
		suite.fx.long("SPY", d(1, 3), 100, d(1, 6), 90),
		suite.fx.long("SPY", d(1, 6), 100, d(1, 7), 80),
		suite.fx.long("SPY", d(1, 7), 100, d(1, 8), 125),
	}
}

func (suite *ReturnFactorsTestSuite) returns() *ReturnFactors {
	rf, err := NewReturnFactors(position.NewRegistry(suite.positions...), types.PriceTypeClose)
	suite.Require().NoError(err)

	return rf
}

func ids(r *position.Registry) []position.ID {
	out := make([]position.ID, 0, r.Len())
	for _, p := range r.All() {
		out = append(out, p.ID())
	}

	return out
}

func (suite *ReturnFactorsTestSuite) TestMoments() {
	rf := suite.returns()

	suite.Equal(4, rf.Num())
	suite.InDelta(0.99, rf.FutureValue(), 1e-12)
	suite.InDelta(-0.01, rf.ROI(), 1e-12)
	suite.InDelta(0.0125, rf.Avg(), 1e-12)
	suite.InDelta(math.Sqrt(0.121875/3), rf.StdDev(), 1e-12)

	sd := rf.StdDev()
	want := 0.0
	for _, f := range []float64{1.1, 0.9, 0.8, 1.25} {
		want += math.Pow((f-1.0125)/sd, 3)
	}
	suite.InDelta(want/4, rf.Skew(), 1e-12)
}

func (suite *ReturnFactorsTestSuite) TestBestAndWorst() {
	rf := suite.returns()

	best, err := rf.Best()
	suite.Require().NoError(err)
	suite.Equal(suite.positions[3].ID(), best.ID())

	worst, err := rf.Worst()
	suite.Require().NoError(err)
	suite.Equal(suite.positions[2].ID(), worst.ID())
}

func (suite *ReturnFactorsTestSuite) TestWinnersAndLosers() {
	rf := suite.returns()

	suite.Equal([]position.ID{1, 4}, ids(rf.Pos()))
	suite.Equal([]position.ID{2, 3}, ids(rf.Neg()))

	neg, err := rf.MaxConsNeg()
	suite.Require().NoError(err)
	suite.Equal([]position.ID{2, 3}, ids(neg))

	// Two single-trade winning runs; the earliest is kept.
	pos, err := rf.MaxConsPos()
	suite.Require().NoError(err)
	suite.Equal([]position.ID{1}, ids(pos))
}

func (suite *ReturnFactorsTestSuite) TestDrawdown() {
	dd, err := suite.returns().DD()
	suite.Require().NoError(err)

	suite.InDelta(0.72, dd.Factor, 1e-12)
	suite.Equal([]position.ID{2, 3}, ids(dd.Positions))

	realized, err := dd.Positions.Realized(types.PriceTypeClose)
	suite.NoError(err)
	suite.InDelta(dd.Factor, realized, 1e-12)
}

func (suite *ReturnFactorsTestSuite) TestDrawdownIsLowestContiguousRun() {
	rf := suite.returns()
	dd, err := rf.DD()
	suite.Require().NoError(err)

	factors := rf.Factors()
	for i := range factors {
		for j := i + 1; j <= len(factors); j++ {
			suite.LessOrEqual(dd.Factor, product(factors[i:j])+1e-12)
		}
	}
}

func (suite *ReturnFactorsTestSuite) TestOnlyWinnersHaveEmptyDrawdown() {
	rf, err := NewReturnFactors(position.NewRegistry(suite.positions[0], suite.positions[3]), types.PriceTypeClose)
	suite.Require().NoError(err)

	dd, err := rf.DD()
	suite.Require().NoError(err)
	suite.True(dd.Positions.Empty())
	suite.Equal(1.0, dd.Factor)

	neg, err := rf.MaxConsNeg()
	suite.Require().NoError(err)
	suite.True(neg.Empty())
}

func (suite *ReturnFactorsTestSuite) TestOpenPositionUsesLastPrice() {
	open := suite.fx.long("QQQ", d(1, 2), 50, time.Time{}, 0)
	rf, err := NewReturnFactors(position.NewRegistry(open), types.PriceTypeClose)
	suite.Require().NoError(err)
	suite.InDelta(51.0/50.0-1, rf.ROI(), 1e-12)
}

func (suite *ReturnFactorsTestSuite) TestEmptyRegistry() {
	rf, err := NewReturnFactors(position.NewRegistry(), types.PriceTypeClose)
	suite.Require().NoError(err)

	suite.Equal(0, rf.Num())
	suite.Equal(0.0, rf.ROI())
	suite.Equal(0.0, rf.Avg())
	suite.Equal(0.0, rf.StdDev())
	suite.Equal(0.0, rf.Skew())

	_, err = rf.Best()
	suite.True(errors.HasKind(err, errors.KindEmptyCollection))

	_, err = rf.Worst()
	suite.True(errors.HasKind(err, errors.KindEmptyCollection))

	_, err = rf.DD()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyPositionSet))

	_, err = rf.MaxConsPos()
	suite.Error(err)
}

func (suite *ReturnFactorsTestSuite) TestStrategyAggregation() {
	leg1 := suite.fx.long("SPY", d(1, 2), 100, d(1, 8), 110)
	leg2 := suite.fx.short("QQQ", d(1, 2), 52.5, d(1, 8), 50)

	s, err := position.NewStrategy(suite.fx.nextID(), "pair", leg1)
	suite.Require().NoError(err)
	ok, err := s.Add(leg2)
	suite.Require().NoError(err)
	suite.True(ok)

	rf, err := NewReturnFactors(position.NewRegistry(s), types.PriceTypeClose)
	suite.Require().NoError(err)
	suite.InDelta(0.15, rf.ROI(), 1e-12)
}

func (suite *ReturnFactorsTestSuite) TestLegFailureKeepsCallerKind() {
	open := suite.fx.long("IWM", d(1, 2), 100, time.Time{}, 0)

	_, err := NewReturnFactors(position.NewRegistry(open), types.PriceTypeClose)
	suite.Require().Error(err)
	suite.True(errors.HasKind(err, errors.KindNotFound))
	suite.False(errors.HasKind(err, errors.KindInconsistentState))
}
