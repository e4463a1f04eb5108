// Package datasource loads end-of-day series from files.
package datasource

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Loader reads the records of one symbol from path, keeping only the
// records within the optional begin and end dates.
type Loader interface {
	Load(symbol, path string, begin, end optional.Option[time.Time]) (*series.EODSeries, error)
}

type Kind string

const (
	KindCSV    Kind = "csv"
	KindDuckDB Kind = "duckdb"
)

// NewLoader returns the loader for kind.
func NewLoader(kind Kind, log *logger.Logger) (Loader, error) {
	switch kind {
	case KindCSV:
		return NewCSVLoader(log), nil
	case KindDuckDB:
		return NewDuckDBLoader(log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedLoader, "unsupported loader: %s", kind)
	}
}

func inRange(date time.Time, begin, end optional.Option[time.Time]) bool {
	if begin.IsSome() && date.Before(begin.Unwrap()) {
		return false
	}

	if end.IsSome() && date.After(end.Unwrap()) {
		return false
	}

	return true
}

func isParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}
