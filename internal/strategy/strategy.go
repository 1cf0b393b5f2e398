// Package strategy contains the signal sources that drive trade entries.
//
// A strategy sees a trailing window of enriched bars for one symbol and
// answers with BUY, SELL or HOLD for the most recent bar. Strategies are
// stateless between calls: every decision is derived from the slice passed
// in, never from cached prior analysis.
package strategy

import (
	"sort"

	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Strategy decides a directional signal from a symbol's enriched history.
// Implementations must return SignalHold, not an error, when the history is
// too short for their lookback.
type Strategy interface {
	// Name identifies the strategy in config files and reports.
	Name() string
	// Decide returns the signal for the last bar of history.
	Decide(history []types.EnrichedBar) (types.Signal, error)
}

// TakeProfitAdvisor is an optional capability a Strategy may implement to
// choose its own take-profit level. Callers check for it with a type
// assertion and fall back to a generic projection when it is absent.
type TakeProfitAdvisor interface {
	// TakeProfit returns the target price for a trade opened at the
	// latest bar's close in the given direction.
	TakeProfit(latest types.EnrichedBar, direction types.Direction) (float64, error)
}

// constructors maps strategy names to their default-parameter factories.
var constructors = map[string]func() Strategy{
	"basic":            func() Strategy { return NewBasic(30, 70) },
	"mean_reversion":   func() Strategy { return NewMeanReversion(30, 70) },
	"breakout":         func() Strategy { return NewBreakout(20) },
	"confluence":       func() Strategy { return NewConfluence(30, 70, 0.001) },
	"swing_projection": func() Strategy { return NewSwingProjection(0.015, 1.5) },
}

// New returns a strategy by name with its default parameters.
func New(name string) (Strategy, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound,
			"unknown strategy %q, available: %v", name, Names())
	}

	return constructor(), nil
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
