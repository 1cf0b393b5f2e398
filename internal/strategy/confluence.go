package strategy

import (
	"math"

	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Confluence demands three independent conditions before entering: price at
// a Donchian structural level, price beyond the matching Bollinger band,
// and an RSI extreme. It trades rarely but against well-defined levels.
type Confluence struct {
	rsiOversold   float64
	rsiOverbought float64
	// proximityPct is how close (as a fraction of the level) the close
	// must sit to the Donchian support or resistance.
	proximityPct float64
}

// NewConfluence creates a Confluence strategy.
func NewConfluence(rsiOversold, rsiOverbought, proximityPct float64) *Confluence {
	return &Confluence{
		rsiOversold:   rsiOversold,
		rsiOverbought: rsiOverbought,
		proximityPct:  proximityPct,
	}
}

// Name implements Strategy.
func (s *Confluence) Name() string {
	return "confluence"
}

// Decide implements Strategy.
func (s *Confluence) Decide(history []types.EnrichedBar) (types.Signal, error) {
	if len(history) == 0 {
		return types.SignalHold, nil
	}

	latest := history[len(history)-1]
	ind := latest.Indicators

	if math.IsNaN(ind.DonchianUpper) || math.IsNaN(ind.DonchianLower) ||
		math.IsNaN(ind.BBUpper) || math.IsNaN(ind.BBLower) || math.IsNaN(ind.RSI14) {
		return types.SignalHold, nil
	}

	isAtSupport := ind.DonchianLower > 0 &&
		math.Abs(latest.Close-ind.DonchianLower)/ind.DonchianLower < s.proximityPct
	isBBOversold := latest.Close <= ind.BBLower
	isRSIOversold := ind.RSI14 < s.rsiOversold

	if isAtSupport && isBBOversold && isRSIOversold {
		return types.SignalBuy, nil
	}

	isAtResistance := ind.DonchianUpper > 0 &&
		math.Abs(latest.Close-ind.DonchianUpper)/ind.DonchianUpper < s.proximityPct
	isBBOverbought := latest.Close >= ind.BBUpper
	isRSIOverbought := ind.RSI14 > s.rsiOverbought

	if isAtResistance && isBBOverbought && isRSIOverbought {
		return types.SignalSell, nil
	}

	return types.SignalHold, nil
}

// TakeProfit implements TakeProfitAdvisor: like the mean-reversion entry,
// the confluence trade targets the middle band.
func (s *Confluence) TakeProfit(latest types.EnrichedBar, direction types.Direction) (float64, error) {
	middle := latest.Indicators.BBMiddle
	if math.IsNaN(middle) {
		return 0, errors.New(errors.ErrCodeIndicatorUnavailable, "middle band not available for take-profit")
	}

	return middle, nil
}
