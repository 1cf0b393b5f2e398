// Package indicator derives technical indicator values from bar history.
//
// All calculations are pure functions over the input slice: they never read
// past the slice end, so a value at index i only depends on bars [0, i].
// Positions in the output that lack the required lookback are NaN.
package indicator

import (
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Engine enriches a bar history with indicator values. Implementations must
// be deterministic and side-effect free.
type Engine interface {
	// Enrich returns one EnrichedBar per input bar, in the same order.
	Enrich(bars []types.Bar) ([]types.EnrichedBar, error)
}

// Config holds the periods used by the Manager. The defaults mirror the
// standard retail parameter set.
type Config struct {
	EMAFastPeriod  int
	EMASlowPeriod  int
	RSIPeriod      int
	MACDFast       int
	MACDSlow       int
	MACDSignal     int
	BollingerN     int
	BollingerK     float64
	ATRPeriod      int
	DonchianPeriod int
	ADXPeriod      int
}

// DefaultConfig returns the default indicator parameter set.
func DefaultConfig() Config {
	return Config{
		EMAFastPeriod:  9,
		EMASlowPeriod:  21,
		RSIPeriod:      14,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		BollingerN:     20,
		BollingerK:     2.0,
		ATRPeriod:      14,
		DonchianPeriod: 20,
		ADXPeriod:      14,
	}
}

// Validate checks that every period is positive.
func (c Config) Validate() error {
	periods := []int{
		c.EMAFastPeriod, c.EMASlowPeriod, c.RSIPeriod,
		c.MACDFast, c.MACDSlow, c.MACDSignal,
		c.BollingerN, c.ATRPeriod, c.DonchianPeriod, c.ADXPeriod,
	}
	for _, p := range periods {
		if p <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", p)
		}
	}

	if c.BollingerK <= 0 {
		return errors.Newf(errors.ErrCodeInvalidMultiplier, "bollinger multiplier must be positive, got %f", c.BollingerK)
	}

	return nil
}

// Manager computes the full indicator set for a bar history.
type Manager struct {
	config Config
}

// NewManager creates an Engine with the given configuration.
func NewManager(config Config) (Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Manager{config: config}, nil
}

// Enrich implements Engine. The whole series is re-derived from the slice
// on every call; there is no incremental caching, so values are always
// consistent with exactly the bars passed in.
func (m *Manager) Enrich(bars []types.Bar) ([]types.EnrichedBar, error) {
	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "cannot enrich an empty bar series")
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	emaFast := EMA(closes, m.config.EMAFastPeriod)
	emaSlow := EMA(closes, m.config.EMASlowPeriod)
	rsi := RSI(closes, m.config.RSIPeriod)
	macd, macdSignal, macdHist := MACD(closes, m.config.MACDFast, m.config.MACDSlow, m.config.MACDSignal)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, m.config.BollingerN, m.config.BollingerK)
	atr := ATR(bars, m.config.ATRPeriod)
	dcUpper, dcMiddle, dcLower := Donchian(bars, m.config.DonchianPeriod)
	adx := ADX(bars, m.config.ADXPeriod)

	enriched := make([]types.EnrichedBar, len(bars))
	for i, bar := range bars {
		enriched[i] = types.EnrichedBar{
			Bar: bar,
			Indicators: types.IndicatorSet{
				EMA9:           emaFast[i],
				EMA21:          emaSlow[i],
				RSI14:          rsi[i],
				MACD:           macd[i],
				MACDSignal:     macdSignal[i],
				MACDHist:       macdHist[i],
				BBUpper:        bbUpper[i],
				BBMiddle:       bbMiddle[i],
				BBLower:        bbLower[i],
				ATR14:          atr[i],
				DonchianUpper:  dcUpper[i],
				DonchianMiddle: dcMiddle[i],
				DonchianLower:  dcLower[i],
				ADX14:          adx[i],
			},
		}
	}

	return enriched, nil
}
