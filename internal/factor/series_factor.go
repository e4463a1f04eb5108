// Package factor holds single-period return factors and sets of them.
package factor

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// SeriesFactor is the return multiplier between two dates, e.g. 1.02 for +2%.
type SeriesFactor struct {
	From   time.Time
	To     time.Time
	Factor float64
}

func NewSeriesFactor(from, to time.Time, f float64) SeriesFactor {
	return SeriesFactor{From: types.Day(from), To: types.Day(to), Factor: f}
}

// Matches reports whether sf and o cover the same window.
func (sf SeriesFactor) Matches(o SeriesFactor) bool {
	return sf.From.Equal(o.From) && sf.To.Equal(o.To)
}

// Less orders factors by value, then by window.
func (sf SeriesFactor) Less(o SeriesFactor) bool {
	if sf.Factor != o.Factor {
		return sf.Factor < o.Factor
	}

	if !sf.From.Equal(o.From) {
		return sf.From.Before(o.From)
	}

	return sf.To.Before(o.To)
}

func (sf SeriesFactor) String() string {
	return fmt.Sprintf("%s/%s %.6f", types.FormatDate(sf.From), types.FormatDate(sf.To), sf.Factor)
}
