package types

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// DateLayout is the layout used for dates in files and logs.
const DateLayout = "2006-01-02"

// Date builds a UTC midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to UTC midnight of its calendar day.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidDate, err, "invalid date %q", s)
	}

	return t, nil
}

// FormatDate formats t as YYYY-MM-DD, or "not-a-date" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "not-a-date"
	}

	return t.Format(DateLayout)
}

// ValidateDate fails with ErrCodeInvalidDate for the zero time.
func ValidateDate(t time.Time) error {
	if t.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "invalid date")
	}

	return nil
}

// FirstOfMonth returns the first calendar day of the month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last calendar day of the month.
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 1).AddDate(0, 0, -1)
}

// Period is a date range, inclusive on both ends.
type Period struct {
	Begin time.Time
	End   time.Time
}

// NewPeriod creates a period. Both dates must be set and end must not precede begin.
func NewPeriod(begin, end time.Time) (Period, error) {
	if begin.IsZero() || end.IsZero() {
		return Period{}, errors.New(errors.ErrCodeInvalidDate, "invalid period date")
	}

	begin, end = Day(begin), Day(end)
	if end.Before(begin) {
		return Period{}, errors.Newf(errors.ErrCodeInvalidPeriod, "invalid period %s/%s", FormatDate(begin), FormatDate(end))
	}

	return Period{Begin: begin, End: end}, nil
}

// IsNull reports whether the period was never set.
func (p Period) IsNull() bool {
	return p.Begin.IsZero() || p.End.IsZero()
}

// Contains reports whether o lies entirely within p.
func (p Period) Contains(o Period) bool {
	if p.IsNull() || o.IsNull() {
		return false
	}

	return !o.Begin.Before(p.Begin) && !o.End.After(p.End)
}

// ContainsDate reports whether t lies within p.
func (p Period) ContainsDate(t time.Time) bool {
	if p.IsNull() || t.IsZero() {
		return false
	}

	return !t.Before(p.Begin) && !t.After(p.End)
}

// Intersects reports whether p and o share at least one day.
func (p Period) Intersects(o Period) bool {
	if p.IsNull() || o.IsNull() {
		return false
	}

	return !o.End.Before(p.Begin) && !p.End.Before(o.Begin)
}

// Intersection returns the days shared by p and o.
func (p Period) Intersection(o Period) (Period, bool) {
	if !p.Intersects(o) {
		return Period{}, false
	}

	begin, end := p.Begin, p.End
	if o.Begin.After(begin) {
		begin = o.Begin
	}

	if o.End.Before(end) {
		end = o.End
	}

	return Period{Begin: begin, End: end}, true
}

// Days returns the number of calendar days between begin and end.
func (p Period) Days() int {
	if p.IsNull() {
		return 0
	}

	return int(p.End.Sub(p.Begin).Hours() / 24)
}

func (p Period) String() string {
	return fmt.Sprintf("[%s/%s]", FormatDate(p.Begin), FormatDate(p.End))
}
