package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestWriteTradeStats() {
	tmpDir := suite.T().TempDir()
	path := filepath.Join(tmpDir, "stats.yaml")

	stats := []TradeStats{
		{
			ID:        "run-1",
			Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Label:     "mean_reversion",
			Symbol:    "Portfolio",
			TradeResult: TradeResult{
				NumberOfTrades:        4,
				NumberOfWinningTrades: 3,
				NumberOfLosingTrades:  1,
				WinRate:               0.75,
				MaxDrawdown:           0.02,
			},
			TradePnl: TradePnl{
				RealizedPnL:   120.5,
				MaximumLoss:   -40.0,
				MaximumProfit: 80.0,
			},
			InitialCapital: 10000,
			FinalCapital:   10120.5,
		},
	}

	err := WriteTradeStats(path, stats)
	suite.Require().NoError(err)
	suite.Require().FileExists(path)

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var decoded []TradeStats
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))
	suite.Require().Len(decoded, 1)
	suite.Equal("mean_reversion", decoded[0].Label)
	suite.Equal(4, decoded[0].TradeResult.NumberOfTrades)
	suite.Equal(10120.5, decoded[0].FinalCapital)
}

func (suite *StatisticsTestSuite) TestWriteTradeStatsEmpty() {
	// A run with no trades still writes a valid, decodable file.
	tmpDir := suite.T().TempDir()
	path := filepath.Join(tmpDir, "stats.yaml")

	suite.Require().NoError(WriteTradeStats(path, []TradeStats{}))
	suite.Require().FileExists(path)
}
