// Package report turns a finished run's closed-trade ledger into
// persisted artifacts: a Parquet export of the trades and a YAML stats
// summary. The ledger itself stays in memory inside the portfolio; this
// package owns everything that touches disk.
package report

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// TradeStore holds one run's closed trades in an in-memory DuckDB so the
// stats queries and the Parquet export run against the same table.
type TradeStore struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewTradeStore opens an in-memory store.
func NewTradeStore(log *logger.Logger) (*TradeStore, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to open ledger database", err)
	}

	return &TradeStore{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the closed_trades table.
func (s *TradeStore) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS closed_trades (
			id TEXT PRIMARY KEY,
			symbol TEXT,
			direction TEXT,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			size DOUBLE,
			stop_loss DOUBLE,
			take_profit DOUBLE,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			exit_reason TEXT,
			pnl DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to create closed_trades table", err)
	}

	return nil
}

// InsertTrades writes the ledger into the store in one transaction.
func (s *TradeStore) InsertTrades(trades []types.ClosedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to begin transaction", err)
	}

	insertQuery := s.sq.
		Insert("closed_trades").
		Columns(
			"id", "symbol", "direction", "entry_time", "entry_price", "size",
			"stop_loss", "take_profit", "exit_time", "exit_price", "exit_reason", "pnl",
		)

	for _, trade := range trades {
		insertQuery = insertQuery.Values(
			trade.ID, trade.Symbol, trade.Direction, trade.EntryTime, trade.EntryPrice, trade.Size,
			trade.StopLoss, trade.TakeProfit, trade.ExitTime, trade.ExitPrice, trade.ExitReason, trade.PnL,
		)
	}

	if _, err := insertQuery.RunWith(tx).Exec(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to insert trades", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestLedgerFailed, "failed to commit trades", err)
	}

	return nil
}

// AllTrades returns the stored trades ordered by exit time.
func (s *TradeStore) AllTrades() ([]types.ClosedTrade, error) {
	selectQuery := s.sq.
		Select(
			"id", "symbol", "direction", "entry_time", "entry_price", "size",
			"stop_loss", "take_profit", "exit_time", "exit_price", "exit_reason", "pnl",
		).
		From("closed_trades").
		OrderBy("exit_time ASC").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.ClosedTrade

	for rows.Next() {
		var trade types.ClosedTrade

		err := rows.Scan(
			&trade.ID,
			&trade.Symbol,
			&trade.Direction,
			&trade.EntryTime,
			&trade.EntryPrice,
			&trade.Size,
			&trade.StopLoss,
			&trade.TakeProfit,
			&trade.ExitTime,
			&trade.ExitPrice,
			&trade.ExitReason,
			&trade.PnL,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to scan trade", err)
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "error iterating trades", err)
	}

	return trades, nil
}

// Symbols returns the distinct traded symbols in sorted order.
func (s *TradeStore) Symbols() ([]string, error) {
	selectQuery := s.sq.
		Select("DISTINCT symbol").
		From("closed_trades").
		OrderBy("symbol").
		RunWith(s.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataQueryFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// TradeResult aggregates counts and win rate. An empty symbol aggregates
// over the whole table.
func (s *TradeStore) TradeResult(symbol string) (types.TradeResult, error) {
	// Raw SQL for the CTE, Squirrel does not support them well.
	query := `
		WITH trade_stats AS (
			SELECT
				COUNT(*) as total_trades,
				SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END) as winning_trades,
				SUM(CASE WHEN pnl < 0 THEN 1 ELSE 0 END) as losing_trades
			FROM closed_trades
			WHERE (? = '' OR symbol = ?)
		)
		SELECT
			total_trades,
			COALESCE(winning_trades, 0),
			COALESCE(losing_trades, 0),
			CASE WHEN total_trades > 0 THEN CAST(COALESCE(winning_trades, 0) AS DOUBLE) / total_trades ELSE 0 END as win_rate
		FROM trade_stats
	`

	var result types.TradeResult

	err := s.db.QueryRow(query, symbol, symbol).Scan(
		&result.NumberOfTrades,
		&result.NumberOfWinningTrades,
		&result.NumberOfLosingTrades,
		&result.WinRate,
	)
	if err != nil {
		return types.TradeResult{}, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to calculate trade result", err)
	}

	return result, nil
}

// HoldingTime aggregates entry-to-exit durations in seconds. An empty
// symbol aggregates over the whole table.
func (s *TradeStore) HoldingTime(symbol string) (types.TradeHoldingTime, error) {
	query := `
		WITH durations AS (
			SELECT EXTRACT(EPOCH FROM (exit_time - entry_time)) as duration
			FROM closed_trades
			WHERE (? = '' OR symbol = ?)
		)
		SELECT
			COALESCE(MIN(duration), 0),
			COALESCE(MAX(duration), 0),
			COALESCE(AVG(duration), 0)
		FROM durations
	`

	var minDuration, maxDuration, avgDuration float64

	err := s.db.QueryRow(query, symbol, symbol).Scan(
		&minDuration,
		&maxDuration,
		&avgDuration,
	)
	if err != nil {
		return types.TradeHoldingTime{}, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to calculate holding time", err)
	}

	return types.TradeHoldingTime{
		Min: int(math.Round(minDuration)),
		Max: int(math.Round(maxDuration)),
		Avg: int(math.Round(avgDuration)),
	}, nil
}

// TradePnl aggregates realized PnL and its single-trade extremes. An empty
// symbol aggregates over the whole table.
func (s *TradeStore) TradePnl(symbol string) (types.TradePnl, error) {
	extremes := s.sq.
		Select(
			"COALESCE(SUM(pnl), 0) as realized",
			"CASE WHEN COALESCE(MIN(pnl), 0) < 0 THEN MIN(pnl) ELSE 0 END as max_loss",
			"CASE WHEN COALESCE(MAX(pnl), 0) > 0 THEN MAX(pnl) ELSE 0 END as max_profit",
		).
		From("closed_trades")

	if symbol != "" {
		extremes = extremes.Where(squirrel.Eq{"symbol": symbol})
	}

	var pnl types.TradePnl

	err := extremes.RunWith(s.db).QueryRow().Scan(&pnl.RealizedPnL, &pnl.MaximumLoss, &pnl.MaximumProfit)
	if err != nil {
		return types.TradePnl{}, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to calculate pnl extremes", err)
	}

	return pnl, nil
}

// Export writes the closed trades to a Parquet file and returns its path.
func (s *TradeStore) Export(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDataExportFailed, "failed to create results directory", err)
	}

	// Raw SQL, Squirrel has no COPY syntax.
	tradesPath := filepath.Join(dir, "trades.parquet")
	if _, err := s.db.Exec(fmt.Sprintf(`COPY closed_trades TO '%s' (FORMAT PARQUET)`, tradesPath)); err != nil {
		return "", errors.Wrap(errors.ErrCodeDataExportFailed, "failed to export trades to Parquet", err)
	}

	s.log.Info("Exported closed trades",
		zap.String("path", tradesPath),
	)

	return tradesPath, nil
}

// Close releases the underlying database.
func (s *TradeStore) Close() error {
	return s.db.Close()
}
