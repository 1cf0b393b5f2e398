package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// Position represents one open trade for one symbol. The stop and target
// levels are fixed at entry and never revised afterwards.
type Position struct {
	ID         string    `yaml:"id" csv:"id" validate:"required,uuid"`
	EntryTime  time.Time `yaml:"entry_time" csv:"entry_time" validate:"required"`
	EntryPrice float64   `yaml:"entry_price" csv:"entry_price" validate:"required,gt=0"`
	// Size is the quantity of the underlying asset, always > 0.
	Size       float64   `yaml:"size" csv:"size" validate:"required,gt=0"`
	StopLoss   float64   `yaml:"stop_loss" csv:"stop_loss" validate:"gte=0"`
	TakeProfit float64   `yaml:"take_profit" csv:"take_profit" validate:"gte=0"`
	Direction  Direction `yaml:"direction" csv:"direction" validate:"required,oneof=LONG SHORT"`
}

// Validate validates the Position struct.
func (p *Position) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPosition, "invalid position", err)
	}

	return nil
}

// ClosedTrade is a terminated Position plus exit details and realized P&L.
type ClosedTrade struct {
	Position   `yaml:",inline" csv:"-"`
	Symbol     string     `yaml:"symbol" csv:"symbol"`
	ExitTime   time.Time  `yaml:"exit_time" csv:"exit_time"`
	ExitPrice  float64    `yaml:"exit_price" csv:"exit_price"`
	ExitReason ExitReason `yaml:"exit_reason" csv:"exit_reason"`
	PnL        float64    `yaml:"pnl" csv:"pnl"`
}

// ComputePnL calculates the realized profit of a closed trade using decimal
// arithmetic so that repeated closes sum exactly against the capital delta.
// For SHORT positions the sign of the price move is inverted.
func ComputePnL(entryPrice, exitPrice, size float64, direction Direction) float64 {
	moveDec := decimal.NewFromFloat(exitPrice).Sub(decimal.NewFromFloat(entryPrice))
	pnlDec := moveDec.Mul(decimal.NewFromFloat(size))

	if direction == DirectionShort {
		pnlDec = pnlDec.Neg()
	}

	pnl, _ := pnlDec.Float64()

	return pnl
}

// Close converts the position into a ClosedTrade record.
func (p *Position) Close(symbol string, exitPrice float64, exitTime time.Time, reason ExitReason) ClosedTrade {
	return ClosedTrade{
		Position:   *p,
		Symbol:     symbol,
		ExitTime:   exitTime,
		ExitPrice:  exitPrice,
		ExitReason: reason,
		PnL:        ComputePnL(p.EntryPrice, exitPrice, p.Size, p.Direction),
	}
}
