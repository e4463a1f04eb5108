package datasource

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

// yahooRow is one line of a Yahoo Finance daily history export.
type yahooRow struct {
	Date     string  `csv:"Date"`
	Open     float64 `csv:"Open"`
	High     float64 `csv:"High"`
	Low      float64 `csv:"Low"`
	Close    float64 `csv:"Close"`
	AdjClose float64 `csv:"Adj Close"`
	Volume   int64   `csv:"Volume"`
}

// CSVLoader reads Yahoo Finance formatted CSV files.
type CSVLoader struct {
	logger *logger.Logger
}

func NewCSVLoader(log *logger.Logger) *CSVLoader {
	return &CSVLoader{logger: log}
}

// Load skips rows with an unparsable date or a date already loaded.
func (l *CSVLoader) Load(symbol, path string, begin, end optional.Option[time.Time]) (*series.EODSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}
	defer f.Close()

	var rows []*yahooRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSeriesParseFailed, err, "failed to parse %s", path)
	}

	s := series.NewEODSeries(symbol, nil)
	skipped := 0

	for _, row := range rows {
		date, err := types.ParseDate(row.Date)
		if err != nil {
			skipped++

			continue
		}

		if !inRange(date, begin, end) {
			continue
		}

		rec := series.DayPrice{
			Date:     date,
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			AdjClose: row.AdjClose,
			Volume:   row.Volume,
		}

		if !s.Insert(rec) {
			skipped++
		}
	}

	l.logger.Debug("Loaded CSV series",
		zap.String("symbol", symbol),
		zap.String("path", path),
		zap.Int("records", s.Len()),
		zap.Int("skipped", skipped),
	)

	return s, nil
}
