// Package portfolio holds the capital, the open-position book and the
// closed-trade ledger, and applies the per-symbol trading state machine:
// a symbol is either FLAT or IN_POSITION, and transitions only inside one
// Advance call.
package portfolio

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/indicator"
	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/risk"
	"github.com/deltrader-lab/deltrader/internal/strategy"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

const (
	// DefaultTakeProfitATRMultiplier projects the target this many ATRs
	// beyond the entry when the strategy does not supply its own.
	DefaultTakeProfitATRMultiplier = 3.0
	// DefaultTakeProfitFallbackPct bounds the trade when not even an ATR
	// is available at entry time.
	DefaultTakeProfitFallbackPct = 0.02
)

// Config are the sizing and exit parameters for a Manager.
type Config struct {
	InitialCapital   float64 `yaml:"initial_capital" validate:"required,gt=0"`
	RiskFraction     float64 `yaml:"risk_fraction" validate:"required,gt=0,lte=1"`
	MaxOpenPositions int     `yaml:"max_open_positions" validate:"required,gt=0"`
	// TakeProfitATRMultiplier and TakeProfitFallbackPct parameterize the
	// second and third tier of the take-profit fallback chain. Zero means
	// use the default.
	TakeProfitATRMultiplier float64 `yaml:"tp_atr_multiplier" validate:"gte=0"`
	TakeProfitFallbackPct   float64 `yaml:"tp_fallback_pct" validate:"gte=0"`
}

// Manager owns the shared portfolio state. All mutation happens through
// Advance on a single goroutine; the type is not safe for concurrent use.
type Manager interface {
	// Advance processes one point-in-time history slice for one symbol.
	// The slice must contain every bar for the symbol up to and
	// including the current simulation timestamp, and nothing beyond it.
	Advance(symbol string, history []types.Bar) error
	// Capital returns the current account capital. It only changes when
	// a trade closes.
	Capital() float64
	// OpenPositionCount returns the number of live positions.
	OpenPositionCount() int
	// Position returns the live position for symbol, if any.
	Position(symbol string) (types.Position, bool)
	// Ledger returns the closed trades in close order.
	Ledger() []types.ClosedTrade
}

type manager struct {
	config        Config
	capital       float64
	openPositions map[string]types.Position
	ledger        []types.ClosedTrade
	engine        indicator.Engine
	strategy      strategy.Strategy
	assessor      *risk.Assessor
	validate      *validator.Validate
	log           *logger.Logger
}

// NewManager creates a portfolio manager with the given collaborators.
func NewManager(config Config, engine indicator.Engine, strat strategy.Strategy, assessor *risk.Assessor, log *logger.Logger) (Manager, error) {
	if config.TakeProfitATRMultiplier == 0 {
		config.TakeProfitATRMultiplier = DefaultTakeProfitATRMultiplier
	}

	if config.TakeProfitFallbackPct == 0 {
		config.TakeProfitFallbackPct = DefaultTakeProfitFallbackPct
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid portfolio config", err)
	}

	if engine == nil || strat == nil || assessor == nil || log == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "portfolio manager requires engine, strategy, assessor and logger")
	}

	return &manager{
		config:        config,
		capital:       config.InitialCapital,
		openPositions: make(map[string]types.Position),
		ledger:        nil,
		engine:        engine,
		strategy:      strat,
		assessor:      assessor,
		validate:      validator.New(),
		log:           log,
	}, nil
}

// Advance implements Manager. Collaborator failures are recovered to a
// no-op for this symbol and step: one bad symbol must not take down the
// rest of the run.
func (m *manager) Advance(symbol string, history []types.Bar) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeBacktestEmptySymbol, "advance called with empty symbol")
	}

	if len(history) == 0 {
		return nil
	}

	enriched, err := m.engine.Enrich(history)
	if err != nil {
		m.log.Warn("Indicator enrichment failed, skipping step",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return nil
	}

	latest := enriched[len(enriched)-1]

	if position, ok := m.openPositions[symbol]; ok {
		m.manageOpenPosition(symbol, position, latest.Bar)

		return nil
	}

	m.considerEntry(symbol, enriched)

	return nil
}

// manageOpenPosition checks the exit levels against the current bar. The
// stop is always checked first: when one bar's range covers both levels
// the worst case is assumed, since OHLC bars do not order intrabar moves.
func (m *manager) manageOpenPosition(symbol string, position types.Position, bar types.Bar) {
	var (
		exitPrice float64
		reason    types.ExitReason
		hit       bool
	)

	switch position.Direction {
	case types.DirectionLong:
		if bar.Low <= position.StopLoss {
			exitPrice, reason, hit = position.StopLoss, types.ExitReasonStopLoss, true
		} else if bar.High >= position.TakeProfit {
			exitPrice, reason, hit = position.TakeProfit, types.ExitReasonTakeProfit, true
		}
	case types.DirectionShort:
		if bar.High >= position.StopLoss {
			exitPrice, reason, hit = position.StopLoss, types.ExitReasonStopLoss, true
		} else if bar.Low <= position.TakeProfit {
			exitPrice, reason, hit = position.TakeProfit, types.ExitReasonTakeProfit, true
		}
	}

	if !hit {
		return
	}

	trade := position.Close(symbol, exitPrice, bar.Time, reason)

	delete(m.openPositions, symbol)

	m.capital += trade.PnL
	m.ledger = append(m.ledger, trade)

	m.log.Info("Position closed",
		zap.String("symbol", symbol),
		zap.String("direction", string(position.Direction)),
		zap.String("reason", string(reason)),
		zap.Float64("entry_price", position.EntryPrice),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", trade.PnL),
		zap.Float64("capital", m.capital),
	)
}

// considerEntry solicits a signal and opens a position when the signal is
// actionable and the sizing is sane.
func (m *manager) considerEntry(symbol string, enriched []types.EnrichedBar) {
	if len(m.openPositions) >= m.config.MaxOpenPositions {
		return
	}

	signal, err := m.strategy.Decide(enriched)
	if err != nil {
		m.log.Warn("Strategy decision failed, holding",
			zap.String("symbol", symbol),
			zap.String("strategy", m.strategy.Name()),
			zap.Error(err),
		)

		return
	}

	direction, actionable := signal.Direction()
	if !actionable {
		return
	}

	latest := enriched[len(enriched)-1]
	entryPrice := latest.Close

	stopLoss := m.assessor.DetermineInitialStop(latest, direction)

	size := m.assessor.PositionSize(m.capital, m.config.RiskFraction, entryPrice, stopLoss)
	if size <= 0 {
		m.log.Debug("Entry skipped on degenerate position size",
			zap.String("symbol", symbol),
			zap.Float64("entry_price", entryPrice),
			zap.Float64("stop_loss", stopLoss),
		)

		return
	}

	position := types.Position{
		ID:         uuid.NewString(),
		EntryTime:  latest.Time,
		EntryPrice: entryPrice,
		Size:       size,
		StopLoss:   stopLoss,
		TakeProfit: m.takeProfit(symbol, latest, direction, entryPrice),
		Direction:  direction,
	}

	if err := m.validate.Struct(&position); err != nil {
		m.log.Warn("Entry skipped on invalid position",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return
	}

	m.openPositions[symbol] = position

	m.log.Info("Position opened",
		zap.String("symbol", symbol),
		zap.String("id", position.ID),
		zap.String("direction", string(direction)),
		zap.Float64("entry_price", entryPrice),
		zap.Float64("size", size),
		zap.Float64("stop_loss", stopLoss),
		zap.Float64("take_profit", position.TakeProfit),
	)
}

// takeProfit resolves the target through a three-tier fallback: the
// strategy's own advisor, then an ATR projection, then a fixed percentage
// of the entry price. Every trade gets a bounded target even under a
// strategy with no exit opinion and a series with no usable ATR.
func (m *manager) takeProfit(symbol string, latest types.EnrichedBar, direction types.Direction, entryPrice float64) float64 {
	if advisor, ok := m.strategy.(strategy.TakeProfitAdvisor); ok {
		target, err := advisor.TakeProfit(latest, direction)
		if err == nil && target > 0 {
			return target
		}

		if err != nil {
			m.log.Debug("Strategy take-profit unavailable, falling back",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
	}

	if latest.HasATR() {
		offset := latest.Indicators.ATR14 * m.config.TakeProfitATRMultiplier
		if direction == types.DirectionShort {
			return entryPrice - offset
		}

		return entryPrice + offset
	}

	if direction == types.DirectionShort {
		return entryPrice * (1 - m.config.TakeProfitFallbackPct)
	}

	return entryPrice * (1 + m.config.TakeProfitFallbackPct)
}

// Capital implements Manager.
func (m *manager) Capital() float64 {
	return m.capital
}

// OpenPositionCount implements Manager.
func (m *manager) OpenPositionCount() int {
	return len(m.openPositions)
}

// Position implements Manager.
func (m *manager) Position(symbol string) (types.Position, bool) {
	position, ok := m.openPositions[symbol]

	return position, ok
}

// Ledger implements Manager. The returned slice is a copy.
func (m *manager) Ledger() []types.ClosedTrade {
	ledger := make([]types.ClosedTrade, len(m.ledger))
	copy(ledger, m.ledger)

	return ledger
}
