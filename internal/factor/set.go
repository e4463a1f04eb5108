package factor

import (
	"sort"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

type key struct {
	from int64
	to   int64
	f    float64
}

func keyOf(sf SeriesFactor) key {
	return key{from: sf.From.Unix(), to: sf.To.Unix(), f: sf.Factor}
}

// SeriesFactorSet is a set of factors unique by (from, to, factor).
// It caches the product of every inserted factor.
type SeriesFactorSet struct {
	keys    map[key]struct{}
	items   []SeriesFactor
	product float64
}

func NewSeriesFactorSet(factors ...SeriesFactor) *SeriesFactorSet {
	s := &SeriesFactorSet{
		keys:    make(map[key]struct{}, len(factors)),
		product: 1,
	}

	for _, sf := range factors {
		s.Insert(sf)
	}

	return s
}

// Insert adds sf and reports whether it was new. Duplicates leave the product unchanged.
func (s *SeriesFactorSet) Insert(sf SeriesFactor) bool {
	k := keyOf(sf)
	if _, ok := s.keys[k]; ok {
		return false
	}

	s.keys[k] = struct{}{}
	s.items = append(s.items, sf)
	s.product *= sf.Factor

	return true
}

func (s *SeriesFactorSet) Len() int {
	return len(s.items)
}

func (s *SeriesFactorSet) Empty() bool {
	return len(s.items) == 0
}

// Factor returns the product of all factors.
func (s *SeriesFactorSet) Factor() (float64, error) {
	if s.Empty() {
		return 0, errors.New(errors.ErrCodeEmptyFactorSet, "invalid factor for empty set")
	}

	return s.product, nil
}

// Items returns the factors ordered by value.
func (s *SeriesFactorSet) Items() []SeriesFactor {
	out := s.copyItems()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}

// ByFrom returns the factors ordered by begin date.
func (s *SeriesFactorSet) ByFrom() []SeriesFactor {
	out := s.copyItems()
	sort.SliceStable(out, func(i, j int) bool { return out[i].From.Before(out[j].From) })

	return out
}

// ByTo returns the factors ordered by end date.
func (s *SeriesFactorSet) ByTo() []SeriesFactor {
	out := s.copyItems()
	sort.SliceStable(out, func(i, j int) bool { return out[i].To.Before(out[j].To) })

	return out
}

// Period returns the earliest begin and the latest end date of the set.
func (s *SeriesFactorSet) Period() (types.Period, error) {
	if s.Empty() {
		return types.Period{}, errors.New(errors.ErrCodeEmptyFactorSet, "no period for empty set")
	}

	var from, to time.Time
	for i, sf := range s.items {
		if i == 0 || sf.From.Before(from) {
			from = sf.From
		}

		if i == 0 || sf.To.After(to) {
			to = sf.To
		}
	}

	return types.Period{Begin: from, End: to}, nil
}

func (s *SeriesFactorSet) copyItems() []SeriesFactor {
	out := make([]SeriesFactor, len(s.items))
	copy(out, s.items)

	return out
}
