package strategy

import (
	"math"

	"github.com/deltrader-lab/deltrader/internal/types"
)

// Basic combines an RSI extreme with a MACD histogram zero cross. It is the
// simplest momentum-confirmation entry in the set.
type Basic struct {
	rsiOversold   float64
	rsiOverbought float64
}

// NewBasic creates a Basic strategy with the given RSI thresholds.
func NewBasic(rsiOversold, rsiOverbought float64) *Basic {
	return &Basic{
		rsiOversold:   rsiOversold,
		rsiOverbought: rsiOverbought,
	}
}

// Name implements Strategy.
func (s *Basic) Name() string {
	return "basic"
}

// Decide implements Strategy. A cross needs two consecutive bars, so fewer
// than two bars always holds.
func (s *Basic) Decide(history []types.EnrichedBar) (types.Signal, error) {
	if len(history) < 2 {
		return types.SignalHold, nil
	}

	latest := history[len(history)-1]
	previous := history[len(history)-2]

	rsi := latest.Indicators.RSI14
	histNow := latest.Indicators.MACDHist
	histPrev := previous.Indicators.MACDHist

	if math.IsNaN(rsi) || math.IsNaN(histNow) || math.IsNaN(histPrev) {
		return types.SignalHold, nil
	}

	if rsi < s.rsiOversold && histNow > 0 && histPrev < 0 {
		return types.SignalBuy, nil
	}

	if rsi > s.rsiOverbought && histNow < 0 && histPrev > 0 {
		return types.SignalSell, nil
	}

	return types.SignalHold, nil
}
