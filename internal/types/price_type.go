package types

import (
	"strings"

	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// PriceType selects which field of a daily price record is used.
type PriceType string

const (
	PriceTypeOpen     PriceType = "open"
	PriceTypeHigh     PriceType = "high"
	PriceTypeLow      PriceType = "low"
	PriceTypeClose    PriceType = "close"
	PriceTypeAdjClose PriceType = "adjclose"
)

// ParsePriceType converts a configuration string into a PriceType.
// Matching is case-insensitive and accepts "adj_close" as an alias.
func ParsePriceType(s string) (PriceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return PriceTypeOpen, nil
	case "high":
		return PriceTypeHigh, nil
	case "low":
		return PriceTypeLow, nil
	case "close":
		return PriceTypeClose, nil
	case "adjclose", "adj_close":
		return PriceTypeAdjClose, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidPriceType, "invalid price type: %s", s)
	}
}

// IsValid reports whether pt is one of the known price types.
func (pt PriceType) IsValid() bool {
	_, err := ParsePriceType(string(pt))

	return err == nil
}
