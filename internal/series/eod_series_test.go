package series

import (
	"testing"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EODSeriesTestSuite struct {
	suite.Suite
	series *EODSeries
}

func TestEODSeriesSuite(t *testing.T) {
	suite.Run(t, new(EODSeriesTestSuite))
}

func day(y int, m time.Month, d int, px float64) DayPrice {
	return DayPrice{
		Date:     types.Date(y, m, d),
		Open:     px - 1,
		High:     px + 1,
		Low:      px - 2,
		Close:    px,
		AdjClose: px,
		Volume:   1000,
	}
}

func (suite *EODSeriesTestSuite) SetupTest() {
	// Deliberately unsorted with a duplicate date.
	suite.series = NewEODSeries("SPY", []DayPrice{
		day(2020, 2, 3, 103),
		day(2020, 1, 30, 100),
		day(2020, 1, 31, 101),
		day(2020, 2, 4, 104),
		day(2020, 1, 31, 999),
		day(2020, 2, 28, 110),
		day(2020, 3, 2, 111),
	})
}

func (suite *EODSeriesTestSuite) TestSortedAndDeduplicated() {
	suite.Equal(6, suite.series.Len())

	records := suite.series.Records()
	for i := 1; i < len(records); i++ {
		suite.True(records[i-1].Date.Before(records[i].Date))
	}

	rec, err := suite.series.At(types.Date(2020, 1, 31))
	suite.NoError(err)
	suite.Equal(101.0, rec.Close)
}

func (suite *EODSeriesTestSuite) TestInsertRejectsZeroDate() {
	suite.False(suite.series.Insert(DayPrice{Close: 1}))
}

func (suite *EODSeriesTestSuite) TestPeriodFirstLast() {
	p, err := suite.series.Period()
	suite.NoError(err)
	suite.Equal(types.Date(2020, 1, 30), p.Begin)
	suite.Equal(types.Date(2020, 3, 2), p.End)

	first, err := suite.series.First()
	suite.NoError(err)
	suite.Equal(100.0, first.Close)

	last, err := suite.series.Last()
	suite.NoError(err)
	suite.Equal(111.0, last.Close)
}

func (suite *EODSeriesTestSuite) TestEmptySeries() {
	empty := NewEODSeries("NONE", nil)

	_, err := empty.Period()
	suite.True(errors.HasKind(err, errors.KindNotFound))

	_, err = empty.Last()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *EODSeriesTestSuite) TestAt() {
	_, err := suite.series.At(types.Date(2020, 2, 1))
	suite.True(errors.HasCode(err, errors.ErrCodeDateNotFound))

	_, err = suite.series.At(time.Time{})
	suite.Error(err)
}

func (suite *EODSeriesTestSuite) TestAtOrBefore() {
	tests := []struct {
		name     string
		date     time.Time
		expected float64
		wantErr  bool
	}{
		{"exact", types.Date(2020, 2, 3), 103, false},
		{"weekend", types.Date(2020, 2, 1), 101, false},
		{"first record", types.Date(2020, 1, 30), 100, false},
		{"before series", types.Date(2020, 1, 1), 0, true},
		{"after series", types.Date(2021, 1, 1), 111, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			rec, err := suite.series.AtOrBefore(tc.date)
			if tc.wantErr {
				suite.True(errors.HasKind(err, errors.KindNotFound))

				return
			}

			suite.NoError(err)
			suite.Equal(tc.expected, rec.Close)
		})
	}
}

func (suite *EODSeriesTestSuite) TestAtOrAfter() {
	rec, err := suite.series.AtOrAfter(types.Date(2020, 2, 1))
	suite.NoError(err)
	suite.Equal(103.0, rec.Close)

	_, err = suite.series.AtOrAfter(types.Date(2020, 3, 3))
	suite.Error(err)
}

func (suite *EODSeriesTestSuite) TestBeforeAndAfter() {
	rec, err := suite.series.Before(types.Date(2020, 2, 28), 1)
	suite.NoError(err)
	suite.Equal(104.0, rec.Close)

	rec, err = suite.series.Before(types.Date(2020, 2, 28), 0)
	suite.NoError(err)
	suite.Equal(110.0, rec.Close)

	_, err = suite.series.Before(types.Date(2020, 1, 31), 2)
	suite.Error(err)

	rec, err = suite.series.After(types.Date(2020, 1, 31), 2)
	suite.NoError(err)
	suite.Equal(104.0, rec.Close)

	// Feb 1st has no record, so the first later record counts as one step.
	rec, err = suite.series.After(types.Date(2020, 2, 1), 1)
	suite.NoError(err)
	suite.Equal(103.0, rec.Close)

	_, err = suite.series.After(types.Date(2020, 2, 28), 2)
	suite.Error(err)
}

func (suite *EODSeriesTestSuite) TestMonthBoundaries() {
	first, err := suite.series.FirstInMonth(2020, time.February)
	suite.NoError(err)
	suite.Equal(types.Date(2020, 2, 3), first.Date)

	last, err := suite.series.LastInMonth(2020, time.February)
	suite.NoError(err)
	suite.Equal(types.Date(2020, 2, 28), last.Date)

	last, err = suite.series.LastInMonth(2020, time.January)
	suite.NoError(err)
	suite.Equal(types.Date(2020, 1, 31), last.Date)

	_, err = suite.series.LastInMonth(2020, time.April)
	suite.Error(err)

	_, err = suite.series.FirstInMonth(2019, time.December)
	suite.Error(err)
}

func (suite *EODSeriesTestSuite) TestRange() {
	p, _ := types.NewPeriod(types.Date(2020, 1, 31), types.Date(2020, 2, 4))
	recs := suite.series.Range(p)
	suite.Len(recs, 3)
	suite.Equal(101.0, recs[0].Close)
	suite.Equal(104.0, recs[2].Close)

	empty, _ := types.NewPeriod(types.Date(2020, 2, 5), types.Date(2020, 2, 27))
	suite.Empty(suite.series.Range(empty))
	suite.Empty(suite.series.Range(types.Period{}))
}

func (suite *EODSeriesTestSuite) TestDayPricePrice() {
	rec := day(2020, 1, 30, 100)

	p, err := rec.Price(types.PriceTypeOpen)
	suite.NoError(err)
	suite.Equal(types.NewPrice(99), p)

	p, err = rec.Price(types.PriceTypeAdjClose)
	suite.NoError(err)
	suite.Equal(types.NewPrice(100), p)

	_, err = rec.Price(types.PriceType("vwap"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPriceType))
}
