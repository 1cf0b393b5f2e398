package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
)

type ReportTestSuite struct {
	suite.Suite

	log *logger.Logger
	dir string
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (s *ReportTestSuite) SetupTest() {
	s.log = logger.NewNopLogger()
	s.dir = s.T().TempDir()
}

func closedTrade(symbol string, direction types.Direction, entryPrice, exitPrice, size float64, entryTime time.Time, holding time.Duration) types.ClosedTrade {
	reason := types.ExitReasonTakeProfit
	if types.ComputePnL(entryPrice, exitPrice, size, direction) < 0 {
		reason = types.ExitReasonStopLoss
	}

	position := types.Position{
		ID:         uuid.NewString(),
		EntryTime:  entryTime,
		EntryPrice: entryPrice,
		Size:       size,
		StopLoss:   entryPrice * 0.98,
		TakeProfit: entryPrice * 1.03,
		Direction:  direction,
	}

	return position.Close(symbol, exitPrice, entryTime.Add(holding), reason)
}

func (s *ReportTestSuite) sampleLedger(start time.Time) []types.ClosedTrade {
	return []types.ClosedTrade{
		// +100
		closedTrade("BTCUSDT", types.DirectionLong, 100, 102, 50, start, 2*time.Hour),
		// -150
		closedTrade("BTCUSDT", types.DirectionLong, 100, 97, 50, start.Add(3*time.Hour), 4*time.Hour),
		// +80
		closedTrade("ETHUSDT", types.DirectionShort, 200, 196, 20, start.Add(5*time.Hour), 6*time.Hour),
	}
}

func (s *ReportTestSuite) TestStoreRoundTrip() {
	store, err := NewTradeStore(s.log)
	s.Require().NoError(err)
	defer store.Close()

	s.Require().NoError(store.Initialize())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := s.sampleLedger(start)
	s.Require().NoError(store.InsertTrades(ledger))

	trades, err := store.AllTrades()
	s.Require().NoError(err)
	s.Require().Len(trades, 3)

	// Ordered by exit time.
	s.Equal("BTCUSDT", trades[0].Symbol)
	s.Equal(100.0, trades[0].PnL)
	s.Equal("BTCUSDT", trades[1].Symbol)
	s.Equal(-150.0, trades[1].PnL)
	s.Equal("ETHUSDT", trades[2].Symbol)
	s.Equal(80.0, trades[2].PnL)

	symbols, err := store.Symbols()
	s.Require().NoError(err)
	s.Equal([]string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func (s *ReportTestSuite) TestStoreAggregates() {
	store, err := NewTradeStore(s.log)
	s.Require().NoError(err)
	defer store.Close()

	s.Require().NoError(store.Initialize())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(store.InsertTrades(s.sampleLedger(start)))

	result, err := store.TradeResult("")
	s.Require().NoError(err)
	s.Equal(3, result.NumberOfTrades)
	s.Equal(2, result.NumberOfWinningTrades)
	s.Equal(1, result.NumberOfLosingTrades)
	s.InDelta(2.0/3.0, result.WinRate, 1e-9)

	result, err = store.TradeResult("ETHUSDT")
	s.Require().NoError(err)
	s.Equal(1, result.NumberOfTrades)
	s.InDelta(1.0, result.WinRate, 1e-9)

	pnl, err := store.TradePnl("")
	s.Require().NoError(err)
	s.InDelta(30.0, pnl.RealizedPnL, 1e-9)
	s.InDelta(-150.0, pnl.MaximumLoss, 1e-9)
	s.InDelta(100.0, pnl.MaximumProfit, 1e-9)

	holding, err := store.HoldingTime("BTCUSDT")
	s.Require().NoError(err)
	s.Equal(int((2 * time.Hour).Seconds()), holding.Min)
	s.Equal(int((4 * time.Hour).Seconds()), holding.Max)
	s.Equal(int((3 * time.Hour).Seconds()), holding.Avg)
}

func (s *ReportTestSuite) TestEmptyLedgerStillReports() {
	reporter, err := NewPerformanceReporter(s.dir, s.log)
	s.Require().NoError(err)

	s.Require().NoError(reporter.Report(nil, 10000, "quiet_run"))

	statsPath := filepath.Join(s.dir, "quiet_run", "stats.yaml")
	data, err := os.ReadFile(statsPath)
	s.Require().NoError(err)

	var stats []types.TradeStats
	s.Require().NoError(yaml.Unmarshal(data, &stats))
	s.Require().Len(stats, 1)

	s.Equal(AggregateSymbol, stats[0].Symbol)
	s.Equal(0, stats[0].TradeResult.NumberOfTrades)
	s.Equal(10000.0, stats[0].FinalCapital)
	s.Empty(stats[0].TradesFilePath)

	// No parquet export for a zero-trade run.
	_, err = os.Stat(filepath.Join(s.dir, "quiet_run", "trades.parquet"))
	s.True(os.IsNotExist(err))
}

func (s *ReportTestSuite) TestReportWritesStatsAndParquet() {
	reporter, err := NewPerformanceReporter(s.dir, s.log)
	s.Require().NoError(err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := s.sampleLedger(start)

	s.Require().NoError(reporter.Report(ledger, 10000, "breakout"))

	tradesPath := filepath.Join(s.dir, "breakout", "trades.parquet")
	info, err := os.Stat(tradesPath)
	s.Require().NoError(err)
	s.Positive(info.Size())

	data, err := os.ReadFile(filepath.Join(s.dir, "breakout", "stats.yaml"))
	s.Require().NoError(err)

	var stats []types.TradeStats
	s.Require().NoError(yaml.Unmarshal(data, &stats))
	// Aggregate plus two symbols.
	s.Require().Len(stats, 3)

	aggregate := stats[0]
	s.Equal(AggregateSymbol, aggregate.Symbol)
	s.Equal("breakout", aggregate.Label)
	s.Equal(3, aggregate.TradeResult.NumberOfTrades)
	s.InDelta(10030.0, aggregate.FinalCapital, 1e-9)
	s.Equal(tradesPath, aggregate.TradesFilePath)

	s.Equal("BTCUSDT", stats[1].Symbol)
	s.Equal(2, stats[1].TradeResult.NumberOfTrades)
	s.InDelta(-50.0, stats[1].TradePnl.RealizedPnL, 1e-9)

	s.Equal("ETHUSDT", stats[2].Symbol)
	s.Equal(1, stats[2].TradeResult.NumberOfTrades)
	// A single trade has no dispersion to measure.
	s.Equal(0.0, stats[2].TradePnl.SharpeRatio)

	// All rows share one run identity.
	s.Equal(aggregate.ID, stats[1].ID)
	s.Equal(aggregate.ID, stats[2].ID)
}

func (s *ReportTestSuite) TestSharpeRatio() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := s.sampleLedger(start)

	// Pnls 100, -150, 80: mean 10, sample stddev sqrt(19300).
	s.InDelta(10.0/math.Sqrt(19300.0), sharpeRatio(ledger, ""), 1e-9)

	// BTC only: 100 and -150, mean -25, sample stddev sqrt(31250).
	s.InDelta(-25.0/math.Sqrt(31250.0), sharpeRatio(ledger, "BTCUSDT"), 1e-9)

	// One ETH trade, then no trades at all.
	s.Equal(0.0, sharpeRatio(ledger, "ETHUSDT"))
	s.Equal(0.0, sharpeRatio(nil, ""))
}

func (s *ReportTestSuite) TestMaxDrawdown() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := s.sampleLedger(start)

	// Equity walks 10000 -> 10100 -> 9950 -> 10030; the trough under the
	// 10100 peak is 150/10100.
	s.InDelta(150.0/10100.0, maxDrawdown(ledger, 10000, ""), 1e-9)

	// Per-symbol curves only see that symbol's trades.
	s.InDelta(150.0/10100.0, maxDrawdown(ledger, 10000, "BTCUSDT"), 1e-9)
	s.InDelta(0.0, maxDrawdown(ledger, 10000, "ETHUSDT"), 1e-9)
}

func (s *ReportTestSuite) TestMaxDrawdownEmptyLedger() {
	s.Equal(0.0, maxDrawdown(nil, 10000, ""))
}
