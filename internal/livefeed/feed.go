// Package livefeed streams completed klines from a websocket endpoint
// into the same portfolio state machine the backtester drives. All
// portfolio mutation goes through one consumer goroutine, the same
// single-writer discipline the simulation relies on.
package livefeed

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/deltrader-lab/deltrader/internal/logger"
	"github.com/deltrader-lab/deltrader/internal/types"
	"github.com/deltrader-lab/deltrader/pkg/errors"
)

// DefaultBufferSize is the event channel capacity between the reader and
// the consumer.
const DefaultBufferSize = 64

// SymbolBar is one completed bar for one symbol.
type SymbolBar struct {
	Symbol string
	Bar    types.Bar
}

// klineEvent mirrors the Binance kline stream payload. Only closed
// klines (x = true) become bars.
type klineEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Kline     struct {
		StartTime int64  `json:"t"`
		Interval  string `json:"i"`
		Open      string `json:"o"`
		High      string `json:"h"`
		Low       string `json:"l"`
		Close     string `json:"c"`
		Volume    string `json:"v"`
		Closed    bool   `json:"x"`
	} `json:"k"`
}

func (e *klineEvent) bar() (types.Bar, error) {
	open, err := strconv.ParseFloat(e.Kline.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeFeedParseFailed, "bad open price", err)
	}

	high, err := strconv.ParseFloat(e.Kline.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeFeedParseFailed, "bad high price", err)
	}

	low, err := strconv.ParseFloat(e.Kline.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeFeedParseFailed, "bad low price", err)
	}

	closePrice, err := strconv.ParseFloat(e.Kline.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeFeedParseFailed, "bad close price", err)
	}

	volume, err := strconv.ParseFloat(e.Kline.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeFeedParseFailed, "bad volume", err)
	}

	return types.Bar{
		Time:   time.UnixMilli(e.Kline.StartTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

// Feed subscribes to a kline websocket stream.
type Feed struct {
	url    string
	buffer int
	log    *logger.Logger
}

// NewFeed creates a feed for the given websocket URL.
func NewFeed(url string, buffer int, log *logger.Logger) (*Feed, error) {
	if url == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "feed url is required")
	}

	if buffer <= 0 {
		buffer = DefaultBufferSize
	}

	if log == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "logger is required")
	}

	return &Feed{
		url:    url,
		buffer: buffer,
		log:    log,
	}, nil
}

// Stream connects and returns a channel of completed bars. The channel
// closes when the context is cancelled or the connection drops. Malformed
// messages and unfinished klines are logged and skipped, never fatal.
func (f *Feed) Stream(ctx context.Context) (<-chan SymbolBar, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFeedConnectFailed, err, "failed to connect to %s", f.url)
	}

	events := make(chan SymbolBar, f.buffer)

	// Unblocks the blocking ReadMessage below on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					f.log.Warn("Feed connection closed",
						zap.Error(err),
					)
				}

				return
			}

			var event klineEvent
			if err := json.Unmarshal(message, &event); err != nil {
				f.log.Warn("Skipping malformed feed message",
					zap.Error(err),
				)

				continue
			}

			if event.EventType != "kline" || !event.Kline.Closed {
				continue
			}

			bar, err := event.bar()
			if err != nil {
				f.log.Warn("Skipping unparseable kline",
					zap.String("symbol", event.Symbol),
					zap.Error(err),
				)

				continue
			}

			select {
			case events <- SymbolBar{Symbol: event.Symbol, Bar: bar}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
