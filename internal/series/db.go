package series

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// DB is an in-memory Database keyed by symbol.
// It is passed explicitly to the components that need prices.
type DB struct {
	mu     sync.RWMutex
	series map[string]Series
}

// NewDB creates a database holding the given series.
func NewDB(series ...Series) *DB {
	db := &DB{series: make(map[string]Series, len(series))}
	for _, s := range series {
		db.Add(s)
	}

	return db
}

// Add registers s under its symbol, replacing any previous series.
func (db *DB) Add(s Series) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.series[s.Symbol()] = s
}

func (db *DB) Get(symbol string) (Series, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.series[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeSymbolNotFound, "no series found for symbol: %s", symbol)
	}

	return s, nil
}

func (db *DB) Symbols() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	symbols := make([]string, 0, len(db.series))
	for symbol := range db.series {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols
}
