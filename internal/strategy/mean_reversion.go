package strategy

import (
	"math"

	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// MeanReversion enters against a stretch beyond the Bollinger bands when
// the RSI confirms the extreme, targeting a reversion to the middle band.
type MeanReversion struct {
	rsiOversold   float64
	rsiOverbought float64
}

// NewMeanReversion creates a MeanReversion strategy with the given RSI
// thresholds.
func NewMeanReversion(rsiOversold, rsiOverbought float64) *MeanReversion {
	return &MeanReversion{
		rsiOversold:   rsiOversold,
		rsiOverbought: rsiOverbought,
	}
}

// Name implements Strategy.
func (s *MeanReversion) Name() string {
	return "mean_reversion"
}

// Decide implements Strategy.
func (s *MeanReversion) Decide(history []types.EnrichedBar) (types.Signal, error) {
	if len(history) == 0 {
		return types.SignalHold, nil
	}

	latest := history[len(history)-1]
	ind := latest.Indicators

	if math.IsNaN(ind.BBUpper) || math.IsNaN(ind.BBLower) || math.IsNaN(ind.RSI14) {
		return types.SignalHold, nil
	}

	if latest.Close <= ind.BBLower && ind.RSI14 < s.rsiOversold {
		return types.SignalBuy, nil
	}

	if latest.Close >= ind.BBUpper && ind.RSI14 > s.rsiOverbought {
		return types.SignalSell, nil
	}

	return types.SignalHold, nil
}

// TakeProfit implements TakeProfitAdvisor: a reversion trade targets the
// middle band regardless of direction.
func (s *MeanReversion) TakeProfit(latest types.EnrichedBar, direction types.Direction) (float64, error) {
	middle := latest.Indicators.BBMiddle
	if math.IsNaN(middle) {
		return 0, errors.New(errors.ErrCodeIndicatorUnavailable, "middle band not available for take-profit")
	}

	return middle, nil
}
