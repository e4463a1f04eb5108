package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/series"
	"github.com/rxtech-lab/eod-backtest/internal/types"
)

// DataGenerator generates daily bars for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how daily bars are generated.
type GeneratorConfig struct {
	Symbol string
	// StartDate is the first calendar day considered; weekends are skipped.
	StartDate time.Time
	// Days is the number of trading days to generate.
	Days         int
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend          float64
	VolumeBase     int64
	VolumeVariance float64
}

func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartDate:      types.Date(2020, time.January, 1),
		Days:           504,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates weekday bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []series.DayPrice {
	data := make([]series.DayPrice, 0, config.Days)
	currentPrice := config.InitialPrice
	date := types.Day(config.StartDate)

	for len(data) < config.Days {
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)

			continue
		}

		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Days)

		px := open * (1 + config.Volatility*z + drift)
		if px <= 0 {
			px = open * 0.99
		}

		high := math.Max(open, px) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, px) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		if low <= 0 {
			low = math.Min(open, px) * 0.99
		}

		volume := float64(config.VolumeBase) * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = float64(config.VolumeBase) * 0.1
		}

		data = append(data, series.DayPrice{
			Date:     date,
			Open:     roundToDecimals(open, 4),
			High:     roundToDecimals(high, 4),
			Low:      roundToDecimals(low, 4),
			Close:    roundToDecimals(px, 4),
			AdjClose: roundToDecimals(px, 4),
			Volume:   int64(volume),
		})

		currentPrice = px
		date = date.AddDate(0, 0, 1)
	}

	return data
}

// GenerateSeries wraps Generate into an EODSeries.
func (g *DataGenerator) GenerateSeries(config GeneratorConfig) *series.EODSeries {
	return series.NewEODSeries(config.Symbol, g.Generate(config))
}

// GenerateDB generates one series per symbol, varying price and volatility per symbol.
func (g *DataGenerator) GenerateDB(symbols []string, baseConfig GeneratorConfig) *series.DB {
	db := series.NewDB()

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		db.Add(g.GenerateSeries(config))
	}

	return db
}

// GenerateYears is a convenience function for a reproducible series of
// roughly the given number of trading years.
func GenerateYears(symbol string, years int) *series.EODSeries {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Days = years * 252

	return gen.GenerateSeries(config)
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
