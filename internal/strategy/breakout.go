package strategy

import (
	"math"

	"github.com/deltrader-lab/deltrader/internal/types"
)

// Breakout trades closes beyond the previous bar's Donchian channel in
// either direction. Comparing against the previous bar's channel matters:
// the current bar's own high or low is part of the current channel, which
// would make every new extreme look like a break.
type Breakout struct {
	period int
}

// NewBreakout creates a Breakout strategy. The period is the channel
// lookback and only gates the minimum history length; the channel itself
// comes enriched on the bars.
func NewBreakout(period int) *Breakout {
	return &Breakout{period: period}
}

// Name implements Strategy.
func (s *Breakout) Name() string {
	return "breakout"
}

// Decide implements Strategy.
func (s *Breakout) Decide(history []types.EnrichedBar) (types.Signal, error) {
	if len(history) < s.period+1 {
		return types.SignalHold, nil
	}

	latest := history[len(history)-1]
	previous := history[len(history)-2]

	upperChannel := previous.Indicators.DonchianUpper
	lowerChannel := previous.Indicators.DonchianLower

	if math.IsNaN(upperChannel) || math.IsNaN(lowerChannel) {
		return types.SignalHold, nil
	}

	if latest.Close > upperChannel {
		return types.SignalBuy, nil
	}

	if latest.Close < lowerChannel {
		return types.SignalSell, nil
	}

	return types.SignalHold, nil
}
