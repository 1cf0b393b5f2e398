package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PositionTestSuite struct {
	suite.Suite
}

func TestPositionSuite(t *testing.T) {
	suite.Run(t, new(PositionTestSuite))
}

func (suite *PositionTestSuite) validPosition() Position {
	return Position{
		ID:         uuid.New().String(),
		EntryTime:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		EntryPrice: 100.0,
		Size:       50.0,
		StopLoss:   98.0,
		TakeProfit: 106.0,
		Direction:  DirectionLong,
	}
}

func (suite *PositionTestSuite) TestValidate() {
	position := suite.validPosition()
	suite.NoError(position.Validate())
}

func (suite *PositionTestSuite) TestValidateRejectsZeroSize() {
	position := suite.validPosition()
	position.Size = 0
	suite.Error(position.Validate())
}

func (suite *PositionTestSuite) TestValidateRejectsUnknownDirection() {
	position := suite.validPosition()
	position.Direction = "SIDEWAYS"
	suite.Error(position.Validate())
}

func (suite *PositionTestSuite) TestComputePnLLong() {
	// (110 - 100) * 50 = 500
	suite.Equal(500.0, ComputePnL(100.0, 110.0, 50.0, DirectionLong))
	// (90 - 100) * 50 = -500
	suite.Equal(-500.0, ComputePnL(100.0, 90.0, 50.0, DirectionLong))
}

func (suite *PositionTestSuite) TestComputePnLShort() {
	// Short profits when price falls.
	suite.Equal(500.0, ComputePnL(100.0, 90.0, 50.0, DirectionShort))
	suite.Equal(-500.0, ComputePnL(100.0, 110.0, 50.0, DirectionShort))
}

func (suite *PositionTestSuite) TestComputePnLExactness() {
	// Values that lose precision under naive float accumulation.
	pnl := ComputePnL(0.1, 0.3, 3.0, DirectionLong)
	suite.InDelta(0.6, pnl, 1e-12)
}

func (suite *PositionTestSuite) TestClose() {
	position := suite.validPosition()
	exitTime := position.EntryTime.Add(4 * time.Hour)

	trade := position.Close("BTCUSDT", 98.0, exitTime, ExitReasonStopLoss)

	suite.Equal("BTCUSDT", trade.Symbol)
	suite.Equal(98.0, trade.ExitPrice)
	suite.Equal(exitTime, trade.ExitTime)
	suite.Equal(ExitReasonStopLoss, trade.ExitReason)
	suite.Equal(position.ID, trade.ID)
	suite.Equal(-100.0, trade.PnL)
}

func (suite *PositionTestSuite) TestSignalDirection() {
	direction, ok := SignalBuy.Direction()
	suite.True(ok)
	suite.Equal(DirectionLong, direction)

	direction, ok = SignalSell.Direction()
	suite.True(ok)
	suite.Equal(DirectionShort, direction)

	_, ok = SignalHold.Direction()
	suite.False(ok)

	_, ok = Signal("GARBAGE").Direction()
	suite.False(ok)
}
