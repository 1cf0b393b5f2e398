package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
)

type AssessorTestSuite struct {
	suite.Suite
	assessor *Assessor
}

func TestAssessorSuite(t *testing.T) {
	suite.Run(t, new(AssessorTestSuite))
}

func (suite *AssessorTestSuite) SetupTest() {
	assessor, err := NewAssessor(2.0, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.assessor = assessor
}

func barWithATR(closePrice, atr float64) types.EnrichedBar {
	bar := types.EnrichedBar{Indicators: types.EmptyIndicatorSet()}
	bar.Close = closePrice
	bar.Indicators.ATR14 = atr

	return bar
}

func (suite *AssessorTestSuite) TestNewAssessorRejectsNonPositiveMultiplier() {
	_, err := NewAssessor(0, logger.NewNopLogger())
	suite.Error(err)

	_, err = NewAssessor(-1.5, logger.NewNopLogger())
	suite.Error(err)
}

func (suite *AssessorTestSuite) TestStopBelowEntryForLong() {
	stop := suite.assessor.DetermineInitialStop(barWithATR(100.0, 1.0), types.DirectionLong)
	suite.Equal(98.0, stop)
}

func (suite *AssessorTestSuite) TestStopAboveEntryForShort() {
	stop := suite.assessor.DetermineInitialStop(barWithATR(100.0, 1.0), types.DirectionShort)
	suite.Equal(102.0, stop)
}

func (suite *AssessorTestSuite) TestUnknownDirectionReturnsEntryPrice() {
	stop := suite.assessor.DetermineInitialStop(barWithATR(100.0, 1.0), types.Direction("SIDEWAYS"))
	suite.Equal(100.0, stop)
}

func (suite *AssessorTestSuite) TestPositionSize() {
	// 10000 * 0.01 = 100 at risk; 2.0 per unit => 50 units.
	size := suite.assessor.PositionSize(10000, 0.01, 100.0, 98.0)
	suite.Equal(50.0, size)
}

func (suite *AssessorTestSuite) TestPositionSizeZeroDistance() {
	size := suite.assessor.PositionSize(10000, 0.01, 100.0, 100.0)
	suite.Equal(0.0, size)
}

func (suite *AssessorTestSuite) TestPositionSizeNaNStop() {
	// A NaN stop comes from a missing ATR; sizing must resolve to zero,
	// not NaN.
	size := suite.assessor.PositionSize(10000, 0.01, 100.0, math.NaN())
	suite.Equal(0.0, size)
}

func (suite *AssessorTestSuite) TestNaNATRPropagatesToNonExecutableSize() {
	bar := types.EnrichedBar{Indicators: types.EmptyIndicatorSet()}
	bar.Close = 100.0

	stop := suite.assessor.DetermineInitialStop(bar, types.DirectionLong)
	suite.True(math.IsNaN(stop))

	size := suite.assessor.PositionSize(10000, 0.01, 100.0, stop)
	suite.Equal(0.0, size)
}
