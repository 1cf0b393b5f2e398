package types

import (
	"math"
	"time"
)

// Bar is one OHLCV record for one symbol at one timestamp.
type Bar struct {
	Time   time.Time `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

// IndicatorSet holds the indicator values derived for one bar. A value is
// NaN when the trailing window is too short to compute it.
type IndicatorSet struct {
	EMA9           float64
	EMA21          float64
	RSI14          float64
	MACD           float64
	MACDSignal     float64
	MACDHist       float64
	BBUpper        float64
	BBMiddle       float64
	BBLower        float64
	ATR14          float64
	DonchianUpper  float64
	DonchianMiddle float64
	DonchianLower  float64
	ADX14          float64
}

// EmptyIndicatorSet returns an IndicatorSet with every value set to NaN.
func EmptyIndicatorSet() IndicatorSet {
	nan := math.NaN()

	return IndicatorSet{
		EMA9:           nan,
		EMA21:          nan,
		RSI14:          nan,
		MACD:           nan,
		MACDSignal:     nan,
		MACDHist:       nan,
		BBUpper:        nan,
		BBMiddle:       nan,
		BBLower:        nan,
		ATR14:          nan,
		DonchianUpper:  nan,
		DonchianMiddle: nan,
		DonchianLower:  nan,
		ADX14:          nan,
	}
}

// EnrichedBar is a Bar plus the indicator values visible at that bar's close.
type EnrichedBar struct {
	Bar
	Indicators IndicatorSet
}

// HasATR reports whether the bar carries a usable ATR value.
func (e EnrichedBar) HasATR() bool {
	return !math.IsNaN(e.Indicators.ATR14) && e.Indicators.ATR14 > 0
}
