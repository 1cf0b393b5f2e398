// Package datasource loads historical bars from per-symbol CSV files and
// downloads them from Binance. Files are named <SYMBOL>.csv (an optional
// suffix after an underscore, e.g. BTCUSDT_1h.csv, is ignored when
// deriving the symbol) with RFC3339 timestamps in the time column.
package datasource

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// LoadCSVFile reads one symbol's bars from a CSV file. The series must be
// non-empty and strictly increasing in time.
func LoadCSVFile(path string) ([]types.Bar, error) {
	csvFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to open %s", path)
	}
	defer csvFile.Close()

	var bars []types.Bar
	if err := gocsv.UnmarshalFile(csvFile, &bars); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse %s", path)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptySeries, "%s contains no bars", path)
	}

	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeUnorderedSeries,
				"%s is not strictly increasing at row %d", path, i+1)
		}
	}

	return bars, nil
}

// LoadCSVGlob loads every file matching the pattern into a symbol-keyed
// map. Two files resolving to the same symbol are an error.
func LoadCSVGlob(pattern string, log *logger.Logger) (map[string][]types.Bar, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "bad glob pattern %q", pattern)
	}

	if len(paths) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no files match %q", pattern)
	}

	historical := make(map[string][]types.Bar, len(paths))

	for _, path := range paths {
		symbol := SymbolFromPath(path)
		if symbol == "" {
			return nil, errors.Newf(errors.ErrCodeDataParseFailed, "cannot derive a symbol from %q", path)
		}

		if _, ok := historical[symbol]; ok {
			return nil, errors.Newf(errors.ErrCodeDataParseFailed, "duplicate data files for symbol %q", symbol)
		}

		bars, err := LoadCSVFile(path)
		if err != nil {
			return nil, err
		}

		historical[symbol] = bars

		log.Debug("Loaded data file",
			zap.String("symbol", symbol),
			zap.String("path", path),
			zap.Int("bars", len(bars)),
		)
	}

	return historical, nil
}

// SymbolFromPath derives the symbol from a data file name: the base name
// up to the first underscore or extension, uppercased.
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if i := strings.Index(base, "_"); i >= 0 {
		base = base[:i]
	}

	return strings.ToUpper(base)
}

// WriteCSVFile writes bars to a CSV file, creating parent directories.
func WriteCSVFile(path string, bars []types.Bar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeDataExportFailed, err, "failed to create directory for %s", path)
	}

	csvFile, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataExportFailed, err, "failed to create %s", path)
	}
	defer csvFile.Close()

	if err := gocsv.MarshalFile(&bars, csvFile); err != nil {
		return errors.Wrapf(errors.ErrCodeDataExportFailed, err, "failed to write %s", path)
	}

	return nil
}
