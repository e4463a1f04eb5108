package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBLoader reads Yahoo formatted CSV files or Parquet files through DuckDB.
// Parquet files must have the columns date, open, high, low, close, adj_close and volume.
type DuckDBLoader struct {
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewDuckDBLoader(log *logger.Logger) *DuckDBLoader {
	return &DuckDBLoader{
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (l *DuckDBLoader) Load(symbol, path string, begin, end optional.Option[time.Time]) (*series.EODSeries, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}
	defer db.Close()

	// squirrel doesn't support CREATE VIEW
	if _, err := db.Exec(viewQuery(path)); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read %s", path)
	}

	query := l.sq.
		Select("date", "open", "high", "low", "close", "adj_close", "volume").
		From("eod").
		OrderBy("date ASC")

	if begin.IsSome() {
		query = query.Where(squirrel.GtOrEq{"date": types.Day(begin.Unwrap())})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"date": types.Day(end.Unwrap())})
	}

	rows, err := query.RunWith(db).Query()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", path)
	}
	defer rows.Close()

	s := series.NewEODSeries(symbol, nil)
	for rows.Next() {
		var rec series.DayPrice
		if err := rows.Scan(&rec.Date, &rec.Open, &rec.High, &rec.Low, &rec.Close, &rec.AdjClose, &rec.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeSeriesParseFailed, err, "failed to scan %s", path)
		}

		rec.Date = types.Day(rec.Date)
		s.Insert(rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "error iterating %s", path)
	}

	l.logger.Debug("Loaded DuckDB series", zap.String("symbol", symbol), zap.String("path", path), zap.Int("records", s.Len()))

	return s, nil
}

func viewQuery(path string) string {
	quoted := strings.ReplaceAll(path, "'", "''")

	if isParquet(path) {
		return fmt.Sprintf(`
			CREATE VIEW eod AS
			SELECT CAST(date AS DATE) AS date, open, high, low, close, adj_close, CAST(volume AS BIGINT) AS volume
			FROM read_parquet('%s');
		`, quoted)
	}

	return fmt.Sprintf(`
		CREATE VIEW eod AS
		SELECT CAST("Date" AS DATE) AS date, "Open" AS open, "High" AS high, "Low" AS low,
			"Close" AS close, "Adj Close" AS adj_close, CAST("Volume" AS BIGINT) AS volume
		FROM read_csv_auto('%s', header = true);
	`, quoted)
}
