package datasource

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// binancePageSize is the kline page size Binance serves per request.
const binancePageSize = 500

var validIntervals = map[string]struct{}{
	"1s": {}, "1m": {}, "3m": {}, "5m": {}, "15m": {}, "30m": {},
	"1h": {}, "2h": {}, "4h": {}, "6h": {}, "8h": {}, "12h": {},
	"1d": {}, "3d": {}, "1w": {}, "1M": {},
}

// OnDownloadProgress reports download progress in milliseconds of covered
// time range.
type OnDownloadProgress func(done, total float64, message string)

// BinanceDownloader fetches historical klines from the public Binance
// market data API, which needs no authentication.
type BinanceDownloader struct {
	client *binance.Client
	log    *logger.Logger
}

// NewBinanceDownloader creates a downloader against the public API.
func NewBinanceDownloader(log *logger.Logger) *BinanceDownloader {
	return &BinanceDownloader{
		client: binance.NewClient("", ""),
		log:    log,
	}
}

// Download fetches the klines for one symbol and interval over a closed
// time range, paginating through the API limit.
func (d *BinanceDownloader) Download(ctx context.Context, symbol, interval string, start, end time.Time, onProgress OnDownloadProgress) ([]types.Bar, error) {
	if symbol == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	if _, ok := validIntervals[interval]; !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported interval %q", interval)
	}

	if !end.After(start) {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "end must be after start")
	}

	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()
	currentStart := startMillis

	var bars []types.Bar

	for {
		klines, err := d.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeDataDownloadFailed, err, "failed to fetch %s klines", symbol)
		}

		for _, kline := range klines {
			bar, err := barFromKline(kline)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), "downloading "+symbol)
		}

		// Last page.
		if len(klines) < binancePageSize {
			break
		}

		// Resume just past the last kline's close to avoid duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no klines returned for %s", symbol)
	}

	d.log.Info("Downloaded klines",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("bars", len(bars)),
	)

	return bars, nil
}

// DownloadToCSV downloads one symbol and writes it as <dir>/<symbol>.csv,
// returning the file path.
func (d *BinanceDownloader) DownloadToCSV(ctx context.Context, symbol, interval string, start, end time.Time, dir string, onProgress OnDownloadProgress) (string, error) {
	bars, err := d.Download(ctx, symbol, interval, start, end, onProgress)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, symbol+".csv")
	if err := WriteCSVFile(path, bars); err != nil {
		return "", err
	}

	return path, nil
}

// SetBaseURL points the downloader at a different API endpoint. Tests use
// this to run against a local mock server.
func (d *BinanceDownloader) SetBaseURL(url string) {
	d.client.BaseURL = url
}

func barFromKline(kline *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(kline.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "bad open price", err)
	}

	high, err := strconv.ParseFloat(kline.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "bad high price", err)
	}

	low, err := strconv.ParseFloat(kline.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "bad low price", err)
	}

	closePrice, err := strconv.ParseFloat(kline.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "bad close price", err)
	}

	volume, err := strconv.ParseFloat(kline.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeDataParseFailed, "bad volume", err)
	}

	return types.Bar{
		Time:   time.UnixMilli(kline.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
