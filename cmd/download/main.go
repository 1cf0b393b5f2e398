package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/deltrader-lab/deltrader/internal/datasource"
	"github.com/deltrader-lab/deltrader/internal/logger"
)

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbols := cmd.StringSlice("symbol")
	interval := cmd.String("interval")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	outputDir := cmd.String("output")

	logr, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	downloader := datasource.NewBinanceDownloader(logr)

	for _, symbol := range symbols {
		bar := progressbar.Default(100)
		bar.Describe(fmt.Sprintf("Downloading %s %s", symbol, interval))

		onProgress := datasource.OnDownloadProgress(func(done, total float64, _ string) {
			if total > 0 {
				bar.Set(int(done / total * 100))
			}
		})

		path, err := downloader.DownloadToCSV(ctx, symbol, interval, start, end, outputDir, onProgress)
		if err != nil {
			return fmt.Errorf("download of %s failed: %w", symbol, err)
		}

		bar.Finish()

		fmt.Printf("Wrote %s\n", path)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical klines from Binance into CSV files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Trading pair symbol (repeatable, e.g. BTCUSDT)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "interval",
				Aliases:  []string{"i"},
				Usage:    "Kline interval (e.g. 1m, 1h, 1d)",
				Value:    "1h",
				Required: false,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "end",
				Aliases:  []string{"e"},
				Usage:    "End date in `YYYY-MM-DD` format. Defaults to now.",
				Value:    time.Now(),
				Required: false,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Directory for the CSV output",
				Value:    "data",
				Required: false,
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
