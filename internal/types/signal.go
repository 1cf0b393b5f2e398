package types

// Signal is the directional decision emitted by a strategy for the most
// recent bar of a history slice.
type Signal string

const (
	// SignalBuy requests a new LONG entry.
	SignalBuy Signal = "BUY"
	// SignalSell requests a new SHORT entry.
	SignalSell Signal = "SELL"
	// SignalHold requests no action. It is also the neutral result a
	// strategy must return on insufficient data.
	SignalHold Signal = "HOLD"
)

// Direction is the side of an open position.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Direction maps an actionable signal to a position direction. The second
// return value is false for HOLD or any unknown signal value.
func (s Signal) Direction() (Direction, bool) {
	switch s {
	case SignalBuy:
		return DirectionLong, true
	case SignalSell:
		return DirectionShort, true
	default:
		return "", false
	}
}

// ExitReason records which exit level terminated a position.
type ExitReason string

const (
	ExitReasonStopLoss   ExitReason = "STOP_LOSS"
	ExitReasonTakeProfit ExitReason = "TAKE_PROFIT"
)
