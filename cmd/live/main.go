package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/deltrader-lab/deltrader/internal/backtest"
	"github.com/deltrader-lab/deltrader/internal/indicator"
	"github.com/deltrader-lab/deltrader/internal/livefeed"
	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/portfolio"
	"github.com/deltrader-lab/deltrader/internal/risk"
	"github.com/deltrader-lab/deltrader/internal/strategy"
)

func liveAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	streamURL := cmd.String("url")
	maxHistory := cmd.Int("history")

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config, err := backtest.ParseConfig(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	logr, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	engine, err := indicator.NewManager(indicator.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create indicator engine: %w", err)
	}

	strat, err := strategy.New(config.Strategy)
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}

	assessor, err := risk.NewAssessor(config.ATRMultiplierSL, logr)
	if err != nil {
		return fmt.Errorf("failed to create risk assessor: %w", err)
	}

	manager, err := portfolio.NewManager(config.PortfolioConfig(), engine, strat, assessor, logr)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	feed, err := livefeed.NewFeed(streamURL, 0, logr)
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	consumer, err := livefeed.NewConsumer(manager, int(maxHistory), logr)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := feed.Stream(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	fmt.Printf("Streaming %s with %s, Ctrl-C to stop\n", streamURL, config.Strategy)

	if err := consumer.Run(ctx, events); err != nil && ctx.Err() == nil {
		return fmt.Errorf("live run failed: %w", err)
	}

	fmt.Printf("Stopped: capital %.2f, %d open positions, %d closed trades\n",
		manager.Capital(), manager.OpenPositionCount(), len(manager.Ledger()))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "live",
		Usage: "Run a strategy against a live kline websocket stream in paper mode",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML config",
				Value:    "config/backtest.yaml",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"u"},
				Usage:    "Websocket kline stream URL",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "history",
				Usage:    "Trailing bars kept per symbol",
				Value:    livefeed.DefaultMaxHistory,
				Required: false,
			},
		},
		Action: liveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
