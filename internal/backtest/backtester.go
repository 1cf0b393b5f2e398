// Package backtest owns the master simulation clock: it merges every
// symbol's timestamps into one ordered timeline and replays it through the
// portfolio manager, handing each symbol a strictly point-in-time view of
// its history.
package backtest

import (
	"context"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/portfolio"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// ProgressCallback receives the current and total timeline step counts.
type ProgressCallback func(current int, total int)

// Reporter consumes the finished run's ledger. The ledger may be empty; a
// zero-trade run is a valid, reportable outcome.
type Reporter interface {
	Report(ledger []types.ClosedTrade, initialCapital float64, label string) error
}

// RunResult summarizes one completed simulation.
type RunResult struct {
	Label          string
	InitialCapital float64
	FinalCapital   float64
	Ledger         []types.ClosedTrade
	TimelineSteps  int
	TradedSteps    int
}

// Backtester replays historical data through a portfolio manager.
type Backtester struct {
	config    Config
	portfolio portfolio.Manager
	reporter  Reporter
	log       *logger.Logger
}

// NewBacktester creates a backtester. The reporter may be nil when the
// caller only wants the in-memory result.
func NewBacktester(config Config, manager portfolio.Manager, reporter Reporter, log *logger.Logger) (*Backtester, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if manager == nil || log == nil {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "backtester requires a portfolio manager and a logger")
	}

	return &Backtester{
		config:    config,
		portfolio: manager,
		reporter:  reporter,
		log:       log,
	}, nil
}

// Run replays the historical data map through the portfolio manager. The
// context is polled once per timeline step. Symbols are processed in
// lexicographic order within each step so that runs over the same input
// are reproducible even though map iteration order is not.
func (b *Backtester) Run(ctx context.Context, historical map[string][]types.Bar, label string, onProgress optional.Option[ProgressCallback]) (*RunResult, error) {
	if label == "" {
		label = b.config.Strategy
	}

	symbols, err := b.checkInput(historical)
	if err != nil {
		return nil, err
	}

	windowed := b.applyWindow(historical, symbols)

	timeline := buildTimeline(windowed, symbols)
	if len(timeline) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoData, "no bars inside the configured time window")
	}

	b.log.Info("Backtest starting",
		zap.String("label", label),
		zap.Int("symbols", len(symbols)),
		zap.Int("timeline_steps", len(timeline)),
		zap.Int("warmup_steps", b.config.MinDataPoints),
	)

	// cursors[i] counts how many of symbol i's bars have time <= the
	// current step, so windowed[symbol][:cursors[i]] is exactly the
	// point-in-time view.
	cursors := make([]int, len(symbols))
	tradedSteps := 0

	for step, stamp := range timeline {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled", ctx.Err())
		default:
		}

		// Warm-up steps still advance the cursors so later slices
		// carry the full history.
		active := step >= b.config.MinDataPoints

		for i, symbol := range symbols {
			bars := windowed[symbol]
			if cursors[i] >= len(bars) || !bars[cursors[i]].Time.Equal(stamp) {
				continue
			}

			cursors[i]++

			if !active {
				continue
			}

			if err := b.portfolio.Advance(symbol, bars[:cursors[i]]); err != nil {
				return nil, err
			}
		}

		if active {
			tradedSteps++
		}

		if onProgress.IsSome() {
			onProgress.Unwrap()(step+1, len(timeline))
		}
	}

	result := &RunResult{
		Label:          label,
		InitialCapital: b.config.InitialCapital,
		FinalCapital:   b.portfolio.Capital(),
		Ledger:         b.portfolio.Ledger(),
		TimelineSteps:  len(timeline),
		TradedSteps:    tradedSteps,
	}

	b.log.Info("Backtest finished",
		zap.String("label", label),
		zap.Int("closed_trades", len(result.Ledger)),
		zap.Int("open_positions", b.portfolio.OpenPositionCount()),
		zap.Float64("final_capital", result.FinalCapital),
	)

	if b.reporter != nil {
		if err := b.reporter.Report(result.Ledger, result.InitialCapital, label); err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to report results", err)
		}
	}

	return result, nil
}

// checkInput enforces the fatal startup conditions: a run with no data, an
// unnamed symbol, a symbol without bars, or an unordered series refuses to
// start instead of silently producing an empty report. Returns the symbols
// in lexicographic order.
func (b *Backtester) checkInput(historical map[string][]types.Bar) ([]string, error) {
	if len(historical) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoData, "no historical data provided")
	}

	symbols := make([]string, 0, len(historical))

	for symbol, bars := range historical {
		if symbol == "" {
			return nil, errors.New(errors.ErrCodeBacktestEmptySymbol, "historical data contains an empty symbol key")
		}

		if len(bars) == 0 {
			return nil, errors.Newf(errors.ErrCodeBacktestNoData, "symbol %q has no bars", symbol)
		}

		for i := 1; i < len(bars); i++ {
			if !bars[i].Time.After(bars[i-1].Time) {
				return nil, errors.Newf(errors.ErrCodeUnorderedSeries,
					"symbol %q bars are not strictly increasing at index %d", symbol, i)
			}
		}

		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// applyWindow restricts every series to the configured start/end window.
func (b *Backtester) applyWindow(historical map[string][]types.Bar, symbols []string) map[string][]types.Bar {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return historical
	}

	windowed := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		bars := historical[symbol]

		start := 0
		if b.config.StartTime.IsSome() {
			from := b.config.StartTime.Unwrap()
			start = sort.Search(len(bars), func(i int) bool {
				return !bars[i].Time.Before(from)
			})
		}

		end := len(bars)
		if b.config.EndTime.IsSome() {
			until := b.config.EndTime.Unwrap()
			end = sort.Search(len(bars), func(i int) bool {
				return bars[i].Time.After(until)
			})
		}

		if start > end {
			start = end
		}

		windowed[symbol] = bars[start:end]
	}

	return windowed
}

// buildTimeline merges every symbol's timestamps into one ascending,
// deduplicated timeline. The union matters: assets with gaps or shorter
// listing histories still get visited at every timestamp where any asset
// trades.
func buildTimeline(historical map[string][]types.Bar, symbols []string) []time.Time {
	total := 0
	for _, symbol := range symbols {
		total += len(historical[symbol])
	}

	stamps := make([]time.Time, 0, total)
	for _, symbol := range symbols {
		for _, bar := range historical[symbol] {
			stamps = append(stamps, bar.Time)
		}
	}

	sort.Slice(stamps, func(i, j int) bool {
		return stamps[i].Before(stamps[j])
	})

	timeline := stamps[:0]

	for _, stamp := range stamps {
		if len(timeline) == 0 || !timeline[len(timeline)-1].Equal(stamp) {
			timeline = append(timeline, stamp)
		}
	}

	return timeline
}
