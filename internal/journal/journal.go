// Package journal persists every execution of a backtest run into DuckDB so
// runs can be queried and exported after the fact.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/logger"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
	"go.uber.org/zap"
)

// Record is one journaled execution.
type Record struct {
	RunID       string         `yaml:"run_id" json:"run_id"`
	ExecutionID execution.ID   `yaml:"execution_id" json:"execution_id"`
	Symbol      string         `yaml:"symbol" json:"symbol"`
	Side        execution.Side `yaml:"side" json:"side"`
	Date        time.Time      `yaml:"date" json:"date"`
	Price       float64        `yaml:"price" json:"price"`
	Size        int            `yaml:"size" json:"size"`
}

var columns = []string{"run_id", "execution_id", "symbol", "side", "date", "price", "size"}

// Journal is an execution.Observer backed by an in-memory DuckDB table.
type Journal struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
	runID  string

	mu  sync.Mutex
	err error
}

func NewJournal(log *logger.Logger) (*Journal, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open journal database", err)
	}

	j := &Journal{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log,
		runID:  uuid.New().String(),
	}

	if err := j.Initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return j, nil
}

// Initialize creates the executions table.
func (j *Journal) Initialize() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS executions (
			run_id TEXT,
			execution_id UBIGINT,
			symbol TEXT,
			side TEXT,
			date DATE,
			price DOUBLE,
			size INTEGER,
			PRIMARY KEY (run_id, execution_id)
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create executions table", err)
	}

	return nil
}

// RunID identifies the executions written by this journal.
func (j *Journal) RunID() string {
	return j.runID
}

// OnExecution stores e. The first failure is kept and returned by Err.
func (j *Journal) OnExecution(e *execution.Execution) {
	price, err := e.Price().Value()
	if err == nil {
		_, err = j.sq.
			Insert("executions").
			Columns(columns...).
			Values(j.runID, uint64(e.ID()), e.Symbol(), string(e.Side()), e.Date(), price, e.Size()).
			RunWith(j.db).
			Exec()
	}

	if err == nil {
		return
	}

	j.logger.Error("Failed to journal execution", zap.Uint64("execution_id", uint64(e.ID())), zap.Error(err))

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err == nil {
		j.err = errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to journal execution %d", e.ID())
	}
}

// Err returns the first write failure, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.err
}

// All returns the executions of this run ordered by date, then id.
func (j *Journal) All() ([]Record, error) {
	return j.query(squirrel.Eq{"run_id": j.runID})
}

// BySymbol returns the executions of this run on symbol.
func (j *Journal) BySymbol(symbol string) ([]Record, error) {
	return j.query(squirrel.Eq{"run_id": j.runID, "symbol": symbol})
}

// Count returns the number of executions of this run.
func (j *Journal) Count() (int, error) {
	var n int

	err := j.sq.
		Select("COUNT(*)").
		From("executions").
		Where(squirrel.Eq{"run_id": j.runID}).
		RunWith(j.db).
		QueryRow().
		Scan(&n)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count executions", err)
	}

	return n, nil
}

func (j *Journal) query(where squirrel.Eq) ([]Record, error) {
	rows, err := j.sq.
		Select(columns...).
		From("executions").
		Where(where).
		OrderBy("date ASC", "execution_id ASC").
		RunWith(j.db).
		Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query executions", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r    Record
			id   uint64
			side string
		)

		if err := rows.Scan(&r.RunID, &id, &r.Symbol, &side, &r.Date, &r.Price, &r.Size); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan execution", err)
		}

		r.ExecutionID = execution.ID(id)
		r.Side = execution.Side(side)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating executions", err)
	}

	return records, nil
}

// Write exports the executions table to executions.parquet in dir.
func (j *Journal) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create directory", err)
	}

	path := filepath.Join(dir, "executions.parquet")

	// squirrel has no COPY support
	if _, err := j.db.Exec(fmt.Sprintf(`COPY executions TO '%s' (FORMAT PARQUET)`, path)); err != nil {
		return "", errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to export executions to Parquet", err)
	}

	j.logger.Info("Exported executions", zap.String("path", path))

	return path, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
