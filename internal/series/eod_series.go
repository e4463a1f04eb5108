package series

import (
	"sort"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// EODSeries is an in-memory Series kept sorted by date with a date index.
type EODSeries struct {
	symbol  string
	records []DayPrice
	index   map[int64]int
}

// NewEODSeries builds a series from records in any order.
// Records are truncated to their calendar day and later duplicates of a date are dropped.
func NewEODSeries(symbol string, records []DayPrice) *EODSeries {
	s := &EODSeries{
		symbol:  symbol,
		records: make([]DayPrice, 0, len(records)),
		index:   make(map[int64]int, len(records)),
	}

	for _, rec := range records {
		s.Insert(rec)
	}

	return s
}

// Insert adds rec and reports whether it was added.
// A record without a date or with an already present date is rejected.
func (s *EODSeries) Insert(rec DayPrice) bool {
	if rec.Date.IsZero() {
		return false
	}

	rec.Date = types.Day(rec.Date)
	if _, ok := s.index[dayKey(rec.Date)]; ok {
		return false
	}

	pos := s.lowerBound(rec.Date)
	s.records = append(s.records, DayPrice{})
	copy(s.records[pos+1:], s.records[pos:])
	s.records[pos] = rec

	for i := pos; i < len(s.records); i++ {
		s.index[dayKey(s.records[i].Date)] = i
	}

	return true
}

func (s *EODSeries) Symbol() string {
	return s.symbol
}

func (s *EODSeries) Len() int {
	return len(s.records)
}

func (s *EODSeries) Period() (types.Period, error) {
	if len(s.records) == 0 {
		return types.Period{}, s.emptyError()
	}

	return types.Period{Begin: s.records[0].Date, End: s.records[len(s.records)-1].Date}, nil
}

func (s *EODSeries) First() (DayPrice, error) {
	if len(s.records) == 0 {
		return DayPrice{}, s.emptyError()
	}

	return s.records[0], nil
}

func (s *EODSeries) Last() (DayPrice, error) {
	if len(s.records) == 0 {
		return DayPrice{}, s.emptyError()
	}

	return s.records[len(s.records)-1], nil
}

func (s *EODSeries) At(date time.Time) (DayPrice, error) {
	idx, ok := s.index[dayKey(date)]
	if !ok || date.IsZero() {
		return DayPrice{}, s.dateError(date)
	}

	return s.records[idx], nil
}

func (s *EODSeries) AtOrBefore(date time.Time) (DayPrice, error) {
	if date.IsZero() {
		return DayPrice{}, s.dateError(date)
	}

	// first record strictly after date, then step back
	idx := s.upperBound(types.Day(date)) - 1

	return s.recordAt(idx, date)
}

func (s *EODSeries) AtOrAfter(date time.Time) (DayPrice, error) {
	if date.IsZero() {
		return DayPrice{}, s.dateError(date)
	}

	return s.recordAt(s.lowerBound(types.Day(date)), date)
}

// Before counts back from the first record on or after date; Before(date, 0)
// is that record itself.
func (s *EODSeries) Before(date time.Time, recs int) (DayPrice, error) {
	if date.IsZero() || recs < 0 {
		return DayPrice{}, s.dateError(date)
	}

	idx := s.lowerBound(types.Day(date))
	if recs == 0 && idx == len(s.records) {
		return DayPrice{}, s.dateError(date)
	}

	return s.recordAt(idx-recs, date)
}

// After counts forward from date. When date has no record the first later
// record counts as the first step.
func (s *EODSeries) After(date time.Time, recs int) (DayPrice, error) {
	if date.IsZero() || recs < 0 {
		return DayPrice{}, s.dateError(date)
	}

	day := types.Day(date)
	idx, ok := s.index[dayKey(day)]
	if !ok {
		idx = s.upperBound(day)
		if idx == len(s.records) {
			return DayPrice{}, s.dateError(date)
		}

		if recs > 0 {
			recs--
		}
	}

	return s.recordAt(idx+recs, date)
}

func (s *EODSeries) FirstInMonth(year int, month time.Month) (DayPrice, error) {
	first := types.FirstOfMonth(year, month)
	idx := s.lowerBound(first)
	if idx == len(s.records) || s.records[idx].Date.After(types.EndOfMonth(year, month)) {
		return DayPrice{}, s.dateError(first)
	}

	return s.records[idx], nil
}

func (s *EODSeries) LastInMonth(year int, month time.Month) (DayPrice, error) {
	end := types.EndOfMonth(year, month)
	idx := s.upperBound(end) - 1
	if idx < 0 || s.records[idx].Date.Before(types.FirstOfMonth(year, month)) {
		return DayPrice{}, s.dateError(end)
	}

	return s.records[idx], nil
}

func (s *EODSeries) Range(period types.Period) []DayPrice {
	if period.IsNull() {
		return nil
	}

	from := s.lowerBound(period.Begin)
	to := s.upperBound(period.End)
	if from >= to {
		return nil
	}

	out := make([]DayPrice, to-from)
	copy(out, s.records[from:to])

	return out
}

func (s *EODSeries) Records() []DayPrice {
	out := make([]DayPrice, len(s.records))
	copy(out, s.records)

	return out
}

// lowerBound returns the index of the first record not before date.
func (s *EODSeries) lowerBound(date time.Time) int {
	return sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Date.Before(date)
	})
}

// upperBound returns the index of the first record after date.
func (s *EODSeries) upperBound(date time.Time) int {
	return sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Date.After(date)
	})
}

func (s *EODSeries) recordAt(idx int, date time.Time) (DayPrice, error) {
	if idx < 0 || idx >= len(s.records) {
		return DayPrice{}, s.dateError(date)
	}

	return s.records[idx], nil
}

func (s *EODSeries) emptyError() error {
	return errors.Newf(errors.ErrCodeEmptySeries, "empty series for symbol: %s", s.symbol)
}

func (s *EODSeries) dateError(date time.Time) error {
	return errors.Newf(errors.ErrCodeDateNotFound, "can't find %s price record in %s series", types.FormatDate(date), s.symbol)
}

func dayKey(t time.Time) int64 {
	return types.Day(t).Unix()
}
