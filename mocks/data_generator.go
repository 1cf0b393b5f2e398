package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/deltrader-lab/deltrader/internal/types"
)

// DataGenerator produces synthetic OHLCV series for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a generator. Use a fixed seed for
// reproducible series.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig controls the shape of a generated series.
type GeneratorConfig struct {
	// StartTime is the timestamp of the first bar.
	StartTime time.Time
	// Interval is the duration between bars.
	Interval time.Duration
	// Count is the number of bars to generate.
	Count int
	// InitialPrice is the open of the first bar.
	InitialPrice float64
	// Volatility controls per-bar price movement (0.002 = 0.2% per bar).
	Volatility float64
	// Trend is the total drift spread across the series.
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the relative variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultConfig returns a neutral hourly series configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Hour,
		Count:          1000,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion walk, so
// the series has realistic wicks and volume noise.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	price := config.InitialPrice
	stamp := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := price

		// Box-Muller draw for a normally distributed step.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Time:   stamp,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 2),
		}

		price = closePrice
		stamp = stamp.Add(config.Interval)
	}

	return bars
}

// GenerateMultiSymbol generates one series per symbol, keyed by symbol,
// with the initial price and volatility jittered per symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.Bar {
	series := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		series[symbol] = g.Generate(config)
	}

	return series
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
