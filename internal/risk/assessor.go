// Package risk sizes trades and places initial protective stops.
package risk

import (
	"math"

	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Assessor computes the initial stop-loss price and the position size for a
// prospective trade. It is stateless after construction.
type Assessor struct {
	atrMultiplierSL float64
	log             *logger.Logger
}

// NewAssessor creates an Assessor placing the initial stop at
// atrMultiplierSL times the ATR away from the entry price.
func NewAssessor(atrMultiplierSL float64, log *logger.Logger) (*Assessor, error) {
	if atrMultiplierSL <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidMultiplier,
			"stop-loss ATR multiplier must be positive, got %f", atrMultiplierSL)
	}

	log.Debug("Risk assessor initialized",
		zap.Float64("atr_multiplier_sl", atrMultiplierSL),
	)

	return &Assessor{
		atrMultiplierSL: atrMultiplierSL,
		log:             log,
	}, nil
}

// DetermineInitialStop returns the initial stop-loss price for a trade
// entered at the latest bar's close. The stop sits on the adverse side of
// the entry: below for LONG, above for SHORT. For any other direction the
// entry price itself is returned, a non-executable stop that downstream
// sizing resolves to "no trade".
func (a *Assessor) DetermineInitialStop(latest types.EnrichedBar, direction types.Direction) float64 {
	entryPrice := latest.Close
	atrValue := latest.Indicators.ATR14

	switch direction {
	case types.DirectionLong:
		return entryPrice - atrValue*a.atrMultiplierSL
	case types.DirectionShort:
		return entryPrice + atrValue*a.atrMultiplierSL
	default:
		return entryPrice
	}
}

// PositionSize returns the quantity that puts capital*riskFraction at risk
// between the entry and the stop. A degenerate stop distance (zero,
// negative, or NaN from a missing ATR) yields size 0, which callers must
// treat as "do not open this trade".
func (a *Assessor) PositionSize(capital, riskFraction, entryPrice, stopLossPrice float64) float64 {
	riskPerUnit := math.Abs(entryPrice - stopLossPrice)
	if !(riskPerUnit > 0) {
		return 0
	}

	capitalAtRisk := capital * riskFraction

	return capitalAtRisk / riskPerUnit
}
