package livefeed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/portfolio"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// DefaultMaxHistory caps the trailing per-symbol history handed to the
// portfolio on each live bar.
const DefaultMaxHistory = 500

// Consumer is the single writer into the portfolio: it appends each
// incoming bar to its symbol's trailing history and advances the
// portfolio one step. It must only be run on one goroutine; History
// may be read from others.
type Consumer struct {
	manager    portfolio.Manager
	maxHistory int
	log        *logger.Logger

	mu        sync.RWMutex
	histories map[string][]types.Bar
}

// NewConsumer creates a consumer for the given portfolio.
func NewConsumer(manager portfolio.Manager, maxHistory int, log *logger.Logger) (*Consumer, error) {
	if manager == nil || log == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "consumer requires a portfolio manager and a logger")
	}

	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	return &Consumer{
		manager:    manager,
		maxHistory: maxHistory,
		histories:  make(map[string][]types.Bar),
		log:        log,
	}, nil
}

// Run drains the event channel until it closes or the context is
// cancelled. Bars that do not advance their symbol's clock are dropped:
// the history handed to the portfolio must stay strictly increasing.
func (c *Consumer) Run(ctx context.Context, events <-chan SymbolBar) error {
	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodeFeedClosed, "live consumer cancelled", ctx.Err())
		case event, ok := <-events:
			if !ok {
				return nil
			}

			c.process(event)
		}
	}
}

func (c *Consumer) process(event SymbolBar) {
	c.mu.RLock()
	history := c.histories[event.Symbol]
	c.mu.RUnlock()

	if len(history) > 0 && !event.Bar.Time.After(history[len(history)-1].Time) {
		c.log.Warn("Dropping stale bar",
			zap.String("symbol", event.Symbol),
			zap.Time("bar_time", event.Bar.Time),
			zap.Time("last_time", history[len(history)-1].Time),
		)

		return
	}

	history = append(history, event.Bar)

	if len(history) > c.maxHistory {
		trimmed := make([]types.Bar, c.maxHistory)
		copy(trimmed, history[len(history)-c.maxHistory:])
		history = trimmed
	}

	c.mu.Lock()
	c.histories[event.Symbol] = history
	c.mu.Unlock()

	if err := c.manager.Advance(event.Symbol, history); err != nil {
		c.log.Error("Live step failed",
			zap.String("symbol", event.Symbol),
			zap.Error(err),
		)
	}
}

// History returns a copy of the trailing history tracked for a symbol.
func (c *Consumer) History(symbol string) []types.Bar {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := c.histories[symbol]
	out := make([]types.Bar, len(history))
	copy(out, history)

	return out
}
