package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

type DataSourceTestSuite struct {
	suite.Suite

	log *logger.Logger
	dir string
}

func TestDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DataSourceTestSuite))
}

func (s *DataSourceTestSuite) SetupTest() {
	s.log = logger.NewNopLogger()
	s.dir = s.T().TempDir()
}

const sampleCSV = `time,open,high,low,close,volume
2024-01-01T00:00:00Z,100,101,99,100.5,1200
2024-01-01T01:00:00Z,100.5,102,100,101.5,900
2024-01-01T02:00:00Z,101.5,103,101,102.5,1500
`

func (s *DataSourceTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (s *DataSourceTestSuite) TestLoadCSVFile() {
	path := s.writeFile("BTCUSDT.csv", sampleCSV)

	bars, err := LoadCSVFile(path)
	s.Require().NoError(err)
	s.Require().Len(bars, 3)

	s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	s.Equal(100.0, bars[0].Open)
	s.Equal(101.0, bars[0].High)
	s.Equal(99.0, bars[0].Low)
	s.Equal(100.5, bars[0].Close)
	s.Equal(1200.0, bars[0].Volume)
	s.Equal(102.5, bars[2].Close)
}

func (s *DataSourceTestSuite) TestLoadCSVFileMissing() {
	_, err := LoadCSVFile(filepath.Join(s.dir, "nope.csv"))
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (s *DataSourceTestSuite) TestLoadCSVFileEmpty() {
	path := s.writeFile("EMPTY.csv", "time,open,high,low,close,volume\n")

	_, err := LoadCSVFile(path)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (s *DataSourceTestSuite) TestLoadCSVFileUnordered() {
	unordered := `time,open,high,low,close,volume
2024-01-01T02:00:00Z,100,101,99,100.5,1200
2024-01-01T01:00:00Z,100.5,102,100,101.5,900
`
	path := s.writeFile("BAD.csv", unordered)

	_, err := LoadCSVFile(path)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeUnorderedSeries))
}

func (s *DataSourceTestSuite) TestLoadCSVGlob() {
	s.writeFile("BTCUSDT_1h.csv", sampleCSV)
	s.writeFile("ETHUSDT_1h.csv", sampleCSV)

	historical, err := LoadCSVGlob(filepath.Join(s.dir, "*.csv"), s.log)
	s.Require().NoError(err)
	s.Require().Len(historical, 2)
	s.Len(historical["BTCUSDT"], 3)
	s.Len(historical["ETHUSDT"], 3)
}

func (s *DataSourceTestSuite) TestLoadCSVGlobNoMatches() {
	_, err := LoadCSVGlob(filepath.Join(s.dir, "*.csv"), s.log)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (s *DataSourceTestSuite) TestLoadCSVGlobDuplicateSymbol() {
	s.writeFile("BTCUSDT_1h.csv", sampleCSV)
	s.writeFile("BTCUSDT_4h.csv", sampleCSV)

	_, err := LoadCSVGlob(filepath.Join(s.dir, "*.csv"), s.log)
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (s *DataSourceTestSuite) TestSymbolFromPath() {
	s.Equal("BTCUSDT", SymbolFromPath("/data/BTCUSDT.csv"))
	s.Equal("BTCUSDT", SymbolFromPath("/data/btcusdt_1h.csv"))
	s.Equal("ETHUSDT", SymbolFromPath("ETHUSDT_2024_backfill.csv"))
}

func (s *DataSourceTestSuite) TestWriteThenLoadRoundTrip() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := []types.Bar{
		{Time: start, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Time: start.Add(time.Hour), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
	}

	path := filepath.Join(s.dir, "out", "SOLUSDT.csv")
	s.Require().NoError(WriteCSVFile(path, bars))

	loaded, err := LoadCSVFile(path)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(bars[0].Time, loaded[0].Time)
	s.Equal(bars[1].Close, loaded[1].Close)
}

// klineRow renders one kline in the Binance REST response layout.
func klineRow(openTime time.Time, open, high, low, closePrice, volume float64) string {
	openMillis := openTime.UnixMilli()
	closeMillis := openTime.Add(time.Hour).UnixMilli() - 1

	return fmt.Sprintf(`[%d,"%v","%v","%v","%v","%v",%d,"0",0,"0","0","0"]`,
		openMillis, open, high, low, closePrice, volume, closeMillis)
}

func (s *DataSourceTestSuite) TestBinanceDownload() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	router := mux.NewRouter()
	router.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("BTCUSDT", r.URL.Query().Get("symbol"))
		s.Equal("1h", r.URL.Query().Get("interval"))

		rows := []string{
			klineRow(start, 100, 101, 99, 100.5, 1200),
			klineRow(start.Add(time.Hour), 100.5, 102, 100, 101.5, 900),
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
	})

	server := httptest.NewServer(router)
	defer server.Close()

	downloader := NewBinanceDownloader(s.log)
	downloader.SetBaseURL(server.URL)

	var progressCalls int

	bars, err := downloader.Download(context.Background(), "BTCUSDT", "1h",
		start, start.Add(24*time.Hour), func(done, total float64, message string) {
			progressCalls++
		})
	s.Require().NoError(err)
	s.Require().Len(bars, 2)

	s.Equal(start, bars[0].Time)
	s.Equal(100.5, bars[0].Close)
	s.Equal(101.5, bars[1].Close)
	s.Equal(1, progressCalls)
}

func (s *DataSourceTestSuite) TestBinanceDownloadToCSV() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	router := mux.NewRouter()
	router.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", klineRow(start, 100, 101, 99, 100.5, 1200))
	})

	server := httptest.NewServer(router)
	defer server.Close()

	downloader := NewBinanceDownloader(s.log)
	downloader.SetBaseURL(server.URL)

	path, err := downloader.DownloadToCSV(context.Background(), "BTCUSDT", "1h",
		start, start.Add(time.Hour), s.dir, nil)
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.dir, "BTCUSDT.csv"), path)

	bars, err := LoadCSVFile(path)
	s.Require().NoError(err)
	s.Require().Len(bars, 1)
	s.Equal(100.5, bars[0].Close)
}

func (s *DataSourceTestSuite) TestBinanceDownloadRejectsBadArgs() {
	downloader := NewBinanceDownloader(s.log)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := downloader.Download(context.Background(), "", "1h", start, start.Add(time.Hour), nil)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = downloader.Download(context.Background(), "BTCUSDT", "7h", start, start.Add(time.Hour), nil)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = downloader.Download(context.Background(), "BTCUSDT", "1h", start, start, nil)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
