package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/deltrader-lab/deltrader/internal/backtest"
	"github.com/deltrader-lab/deltrader/internal/datasource"
	"github.com/deltrader-lab/deltrader/internal/indicator"
	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/portfolio"
	"github.com/deltrader-lab/deltrader/internal/report"
	"github.com/deltrader-lab/deltrader/internal/risk"
	"github.com/deltrader-lab/deltrader/internal/strategy"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataGlob := cmd.String("data")
	resultsFolder := cmd.String("results")
	label := cmd.String("label")

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config, err := backtest.ParseConfig(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if override := cmd.String("strategy"); override != "" {
		config.Strategy = override
	}

	logr, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	historical, err := datasource.LoadCSVGlob(dataGlob, logr)
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
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

	reporter, err := report.NewPerformanceReporter(resultsFolder, logr)
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}

	backtester, err := backtest.NewBacktester(config, manager, reporter, logr)
	if err != nil {
		return fmt.Errorf("failed to create backtester: %w", err)
	}

	var bar *progressbar.ProgressBar

	onProgress := backtest.ProgressCallback(func(current, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total))
			bar.Describe(fmt.Sprintf("Backtesting %d symbols with %s", len(historical), config.Strategy))
		}

		bar.Set(current)
	})

	result, err := backtester.Run(ctx, historical, label, optional.Some(onProgress))
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Printf("\nRun %q finished: %d steps, %d trades, capital %.2f -> %.2f\n",
		result.Label, result.TimelineSteps, len(result.Ledger), result.InitialCapital, result.FinalCapital)
	fmt.Printf("Results written to %s\n", resultsFolder)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Replay historical bars through a strategy and report the results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the backtest YAML config",
				Value:    "config/backtest.yaml",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Glob of CSV bar files, one symbol per file",
				Value:    "data/*.csv",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    fmt.Sprintf("Override the config strategy (available: %v)", strategy.Names()),
				Required: false,
			},
			&cli.StringFlag{
				Name:     "results",
				Aliases:  []string{"r"},
				Usage:    "Directory for stats and trade ledgers",
				Value:    "results",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "label",
				Aliases:  []string{"l"},
				Usage:    "Run label, defaults to the strategy name",
				Required: false,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
