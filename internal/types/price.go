package types

import (
	"strconv"

	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Price is a monetary value. A price is valid only when strictly positive.
// Invalid prices may be constructed but fail when their value is read, so an
// invalid price never silently flows through arithmetic.
type Price struct {
	value float64
}

// NewPrice wraps v without validating it.
func NewPrice(v float64) Price {
	return Price{value: v}
}

// IsValid reports whether the price is strictly positive.
func (p Price) IsValid() bool {
	return p.value > 0
}

// Value returns the raw price or ErrCodeInvalidPrice when the price is not valid.
func (p Price) Value() (float64, error) {
	if !p.IsValid() {
		return 0, errors.Newf(errors.ErrCodeInvalidPrice, "invalid price %s", p.String())
	}

	return p.value, nil
}

func (p Price) String() string {
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// Add returns p + o as a raw number.
func (p Price) Add(o Price) (float64, error) {
	return p.combine(o, func(a, b float64) float64 { return a + b })
}

// Sub returns p - o as a raw number.
func (p Price) Sub(o Price) (float64, error) {
	return p.combine(o, func(a, b float64) float64 { return a - b })
}

// Mul returns p * o as a raw number.
func (p Price) Mul(o Price) (float64, error) {
	return p.combine(o, func(a, b float64) float64 { return a * b })
}

// Div returns p / o as a raw number. o is always non-zero once validated.
func (p Price) Div(o Price) (float64, error) {
	return p.combine(o, func(a, b float64) float64 { return a / b })
}

// AddScalar returns p + v.
func (p Price) AddScalar(v float64) (float64, error) {
	a, err := p.Value()
	if err != nil {
		return 0, err
	}

	return a + v, nil
}

// SubScalar returns p - v.
func (p Price) SubScalar(v float64) (float64, error) {
	a, err := p.Value()
	if err != nil {
		return 0, err
	}

	return a - v, nil
}

// MulScalar returns p * v.
func (p Price) MulScalar(v float64) (float64, error) {
	a, err := p.Value()
	if err != nil {
		return 0, err
	}

	return a * v, nil
}

// DivScalar returns p / v. Dividing by zero is an invalid argument.
func (p Price) DivScalar(v float64) (float64, error) {
	a, err := p.Value()
	if err != nil {
		return 0, err
	}

	if v == 0 {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "division by zero")
	}

	return a / v, nil
}

func (p Price) combine(o Price, op func(a, b float64) float64) (float64, error) {
	a, err := p.Value()
	if err != nil {
		return 0, err
	}

	b, err := o.Value()
	if err != nil {
		return 0, err
	}

	return op(a, b), nil
}
