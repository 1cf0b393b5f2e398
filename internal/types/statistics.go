package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeHoldingTime struct {
	// Minimum holding time of a trade in seconds
	Min int `yaml:"min"`
	// Maximum holding time of a trade in seconds
	Max int `yaml:"max"`
	// Average holding time of a trade in seconds
	Avg int `yaml:"avg"`
}

type TradePnl struct {
	// Realized PnL. Sum of pnl over all closed trades.
	RealizedPnL float64 `yaml:"realized_pnl"`
	// Maximum loss. The minimum single-trade pnl, when negative.
	MaximumLoss float64 `yaml:"maximum_loss"`
	// Maximum profit. The maximum single-trade pnl, when positive.
	MaximumProfit float64 `yaml:"maximum_profit"`
	// Sharpe-style ratio over per-trade pnl: mean divided by sample
	// standard deviation. Zero when fewer than two trades.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
}

type TradeResult struct {
	// Count of all closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of winning trades that have positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of losing trades that have negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate.
	WinRate float64 `yaml:"win_rate"`
	// Maximum drawdown of the trade-close equity curve, as a fraction of
	// the peak equity.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

type TradeStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Label names the run, e.g. the strategy or "Portfolio" for the
	// aggregate across symbols.
	Label string `yaml:"label"`
	// Symbol of the trading pair; "Portfolio" for the aggregate row.
	Symbol string `yaml:"symbol"`
	// Result of all trades.
	TradeResult TradeResult `yaml:"trade_result"`
	// Holding time of all trades.
	TradeHoldingTime TradeHoldingTime `yaml:"trade_holding_time"`
	// PnL of all trades.
	TradePnl TradePnl `yaml:"trade_pnl"`
	// InitialCapital at the start of the run.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalCapital after all closed trades.
	FinalCapital float64 `yaml:"final_capital"`
	// TradesFilePath is the path to the exported trades file, empty when
	// the run produced no trades.
	TradesFilePath string `yaml:"trades_file_path"`
}

func WriteTradeStats(path string, stats []TradeStats) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal trade stats to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trade stats to file: %w", err)
	}

	return nil
}
