package report

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// AggregateSymbol names the whole-portfolio row in the stats output.
const AggregateSymbol = "Portfolio"

// PerformanceReporter persists a run's results under a results folder:
// <folder>/<label>/trades.parquet and <folder>/<label>/stats.yaml.
type PerformanceReporter struct {
	resultsFolder string
	log           *logger.Logger
}

// NewPerformanceReporter creates a reporter writing under resultsFolder.
func NewPerformanceReporter(resultsFolder string, log *logger.Logger) (*PerformanceReporter, error) {
	if resultsFolder == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "results folder is required")
	}

	if log == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "logger is required")
	}

	return &PerformanceReporter{
		resultsFolder: resultsFolder,
		log:           log,
	}, nil
}

// Report writes the stats summary and the Parquet trade export for one
// run. An empty ledger is a valid outcome and still produces a stats file
// recording zero trades.
func (r *PerformanceReporter) Report(ledger []types.ClosedTrade, initialCapital float64, label string) error {
	runDir := filepath.Join(r.resultsFolder, label)

	stats, err := r.ComputeStats(ledger, initialCapital, label)
	if err != nil {
		return err
	}

	if len(ledger) == 0 {
		r.log.Info("No trades executed",
			zap.String("label", label),
		)
	} else {
		store, err := NewTradeStore(r.log)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Initialize(); err != nil {
			return err
		}

		if err := store.InsertTrades(ledger); err != nil {
			return err
		}

		tradesPath, err := store.Export(runDir)
		if err != nil {
			return err
		}

		for i := range stats {
			stats[i].TradesFilePath = tradesPath
		}
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDataExportFailed, "failed to create results directory", err)
	}

	statsPath := filepath.Join(runDir, "stats.yaml")
	if err := types.WriteTradeStats(statsPath, stats); err != nil {
		return errors.Wrap(errors.ErrCodeDataExportFailed, "failed to write stats file", err)
	}

	r.log.Info("Report written",
		zap.String("label", label),
		zap.String("stats", statsPath),
		zap.Int("closed_trades", len(ledger)),
	)

	return nil
}

// ComputeStats derives the aggregate row plus one row per traded symbol.
// The rows share a run ID and timestamp.
func (r *PerformanceReporter) ComputeStats(ledger []types.ClosedTrade, initialCapital float64, label string) ([]types.TradeStats, error) {
	runID := uuid.NewString()
	now := time.Now().UTC()

	base := types.TradeStats{
		ID:             runID,
		Timestamp:      now,
		Label:          label,
		InitialCapital: initialCapital,
	}

	if len(ledger) == 0 {
		empty := base
		empty.Symbol = AggregateSymbol
		empty.FinalCapital = initialCapital

		return []types.TradeStats{empty}, nil
	}

	store, err := NewTradeStore(r.log)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		return nil, err
	}

	if err := store.InsertTrades(ledger); err != nil {
		return nil, err
	}

	symbols, err := store.Symbols()
	if err != nil {
		return nil, err
	}

	// The aggregate row first, then per symbol. The empty string selects
	// the whole table in the store queries.
	rows := append([]string{""}, symbols...)
	stats := make([]types.TradeStats, 0, len(rows))

	for _, symbol := range rows {
		result, err := store.TradeResult(symbol)
		if err != nil {
			return nil, err
		}

		holdingTime, err := store.HoldingTime(symbol)
		if err != nil {
			return nil, err
		}

		pnl, err := store.TradePnl(symbol)
		if err != nil {
			return nil, err
		}

		row := base
		row.TradeResult = result
		row.TradeHoldingTime = holdingTime
		row.TradePnl = pnl
		row.FinalCapital = initialCapital + pnl.RealizedPnL

		if symbol == "" {
			row.Symbol = AggregateSymbol
		} else {
			row.Symbol = symbol
		}

		row.TradeResult.MaxDrawdown = maxDrawdown(ledger, initialCapital, symbol)
		row.TradePnl.SharpeRatio = sharpeRatio(ledger, symbol)

		stats = append(stats, row)
	}

	return stats, nil
}

// sharpeRatio returns mean per-trade pnl over its sample standard
// deviation. A non-empty symbol restricts the sample to that symbol's
// trades; fewer than two trades or a flat sample yields 0.
func sharpeRatio(ledger []types.ClosedTrade, symbol string) float64 {
	var pnls []float64

	for _, trade := range ledger {
		if symbol != "" && trade.Symbol != symbol {
			continue
		}

		pnls = append(pnls, trade.PnL)
	}

	if len(pnls) < 2 {
		return 0
	}

	mean := 0.0
	for _, pnl := range pnls {
		mean += pnl
	}
	mean /= float64(len(pnls))

	variance := 0.0
	for _, pnl := range pnls {
		variance += (pnl - mean) * (pnl - mean)
	}
	variance /= float64(len(pnls) - 1)

	if variance == 0 {
		return 0
	}

	return mean / math.Sqrt(variance)
}

// maxDrawdown walks the trade-close equity curve and returns the largest
// peak-to-trough fall as a fraction of the peak. A non-empty symbol
// restricts the curve to that symbol's trades.
func maxDrawdown(ledger []types.ClosedTrade, initialCapital float64, symbol string) float64 {
	equity := initialCapital
	peak := initialCapital
	drawdown := 0.0

	for _, trade := range ledger {
		if symbol != "" && trade.Symbol != symbol {
			continue
		}

		equity += trade.PnL

		if equity > peak {
			peak = equity
		}

		if peak > 0 {
			if fall := (peak - equity) / peak; fall > drawdown {
				drawdown = fall
			}
		}
	}

	return drawdown
}
