package strategy

import (
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

const swingProjectionMinBars = 30

// swing marks one alternating extreme of the close series.
type swing struct {
	index int
	price float64
	high  bool
}

// SwingProjection labels the close series with alternating swing extremes
// (a zigzag with a percentage reversal threshold) and trades continuation
// breaks of the latest swing in the direction of the swing structure. The
// take-profit is a range projection from the entry bar.
//
// The full swing labeling is recomputed from the history slice on every
// call. Caching the analysis keyed on slice length is not safe here: two
// different histories of equal length would collide.
type SwingProjection struct {
	// reversalPct is the fractional move against the current leg that
	// confirms a new swing.
	reversalPct float64
	// projectionMult scales the entry bar's range into the take-profit
	// distance.
	projectionMult float64
}

// NewSwingProjection creates a SwingProjection strategy.
func NewSwingProjection(reversalPct, projectionMult float64) *SwingProjection {
	return &SwingProjection{
		reversalPct:    reversalPct,
		projectionMult: projectionMult,
	}
}

// Name implements Strategy.
func (s *SwingProjection) Name() string {
	return "swing_projection"
}

// Decide implements Strategy.
func (s *SwingProjection) Decide(history []types.EnrichedBar) (types.Signal, error) {
	if len(history) < swingProjectionMinBars {
		return types.SignalHold, nil
	}

	swings := s.labelSwings(history)
	if len(swings) < 4 {
		return types.SignalHold, nil
	}

	latest := history[len(history)-1]
	last := swings[len(swings)-1]
	prev := swings[len(swings)-2]
	beforePrev := swings[len(swings)-3]

	// Continuation: the pullback made a higher low and price closed back
	// through the swing high it pulled back from. Mirror for the down
	// structure.
	if !last.high && prev.high && !beforePrev.high {
		higherLow := last.price > beforePrev.price
		if higherLow && latest.Close > prev.price {
			return types.SignalBuy, nil
		}
	}

	if last.high && !prev.high && beforePrev.high {
		lowerHigh := last.price < beforePrev.price
		if lowerHigh && latest.Close < prev.price {
			return types.SignalSell, nil
		}
	}

	return types.SignalHold, nil
}

// TakeProfit implements TakeProfitAdvisor: project the entry bar's range
// beyond the entry price.
func (s *SwingProjection) TakeProfit(latest types.EnrichedBar, direction types.Direction) (float64, error) {
	recentRange := latest.High - latest.Low
	if !(recentRange > 0) {
		return 0, errors.New(errors.ErrCodeIndicatorUnavailable, "entry bar has no range for projection")
	}

	switch direction {
	case types.DirectionLong:
		return latest.Close + recentRange*s.projectionMult, nil
	case types.DirectionShort:
		return latest.Close - recentRange*s.projectionMult, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidDirection, "unknown direction %q", direction)
	}
}

// labelSwings walks the close series and records a swing every time price
// retraces more than reversalPct against the running extreme. The walk
// only ever looks backwards, so labeling a prefix yields a prefix of the
// labels.
func (s *SwingProjection) labelSwings(history []types.EnrichedBar) []swing {
	var swings []swing

	extremeIdx := 0
	extreme := history[0].Close
	rising := true

	for i := 1; i < len(history); i++ {
		price := history[i].Close

		if rising {
			if price > extreme {
				extreme = price
				extremeIdx = i

				continue
			}

			if extreme > 0 && (extreme-price)/extreme >= s.reversalPct {
				swings = append(swings, swing{index: extremeIdx, price: extreme, high: true})
				rising = false
				extreme = price
				extremeIdx = i
			}

			continue
		}

		if price < extreme {
			extreme = price
			extremeIdx = i

			continue
		}

		if extreme > 0 && (price-extreme)/extreme >= s.reversalPct {
			swings = append(swings, swing{index: extremeIdx, price: extreme, high: false})
			rising = true
			extreme = price
			extremeIdx = i
		}
	}

	return swings
}
