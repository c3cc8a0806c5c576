// Package live streams realtime candles over websocket. Order execution is a
// stub; the stream exists so a strategy validated in a backtest can be fed
// live data through the same Chart types.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// DefaultBinanceStreamURL is the Binance spot websocket endpoint.
const DefaultBinanceStreamURL = "wss://stream.binance.com:9443/ws"

// klineEvent is the Binance kline stream payload.
type klineEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Kline     struct {
		StartTime int64  `json:"t"`
		CloseTime int64  `json:"T"`
		Interval  string `json:"i"`
		Open      string `json:"o"`
		Close     string `json:"c"`
		High      string `json:"h"`
		Low       string `json:"l"`
		Volume    string `json:"v"`
		Final     bool   `json:"x"`
	} `json:"k"`
}

// KlineStream subscribes to a Binance kline websocket and yields one candle
// per closed bar.
type KlineStream struct {
	baseURL string
	log     *logger.Logger
}

// KlineStreamOption configures a KlineStream.
type KlineStreamOption func(s *KlineStream)

// WithStreamURL points the stream at a different websocket endpoint, e.g. a
// test server.
func WithStreamURL(url string) KlineStreamOption {
	return func(s *KlineStream) {
		s.baseURL = url
	}
}

// WithStreamLogger replaces the default nop logger.
func WithStreamLogger(log *logger.Logger) KlineStreamOption {
	return func(s *KlineStream) {
		s.log = log
	}
}

// NewKlineStream creates a stream against the public Binance endpoint.
func NewKlineStream(opts ...KlineStreamOption) *KlineStream {
	s := &KlineStream{
		baseURL: DefaultBinanceStreamURL,
		log:     logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Stream yields closed candles for the instrument until the context is
// cancelled or the connection fails. The iterator owns the connection and
// closes it when the consumer stops.
func (s *KlineStream) Stream(ctx context.Context, sym symbol.Symbol, tf timeframe.TimeFrame) iter.Seq2[candlestick.Candle, error] {
	return func(yield func(candlestick.Candle, error) bool) {
		url, err := s.streamURL(sym, tf)
		if err != nil {
			yield(candlestick.Candle{}, err)

			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			yield(candlestick.Candle{}, fmt.Errorf("failed to connect to %s: %w", url, err))

			return
		}
		defer conn.Close()

		// Unblock ReadMessage when the consumer's context ends.
		go func() {
			<-ctx.Done()
			conn.Close()
		}()

		s.log.Info("kline stream connected",
			zap.String("symbol", sym.String()),
			zap.String("timeframe", tf.String()),
		)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				yield(candlestick.Candle{}, fmt.Errorf("websocket read failed: %w", err))

				return
			}

			var event klineEvent
			if err := json.Unmarshal(message, &event); err != nil {
				if !yield(candlestick.Candle{}, fmt.Errorf("failed to decode kline event: %w", err)) {
					return
				}

				continue
			}

			if event.EventType != "kline" || !event.Kline.Final {
				continue
			}

			if !yield(eventToCandle(event), nil) {
				return
			}
		}
	}
}

func (s *KlineStream) streamURL(sym symbol.Symbol, tf timeframe.TimeFrame) (string, error) {
	interval, err := binanceStreamInterval(tf)
	if err != nil {
		return "", err
	}

	ticker := strings.ToLower(sym.Base() + sym.Quote())

	return fmt.Sprintf("%s/%s@kline_%s", s.baseURL, ticker, interval), nil
}

func eventToCandle(event klineEvent) candlestick.Candle {
	open, _ := strconv.ParseFloat(event.Kline.Open, 64)
	high, _ := strconv.ParseFloat(event.Kline.High, 64)
	low, _ := strconv.ParseFloat(event.Kline.Low, 64)
	closePrice, _ := strconv.ParseFloat(event.Kline.Close, 64)
	volume, _ := strconv.ParseFloat(event.Kline.Volume, 64)

	return candlestick.Candle{
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
		Timestamp: time.UnixMilli(event.Kline.StartTime),
	}
}

func binanceStreamInterval(tf timeframe.TimeFrame) (string, error) {
	switch tf.Seconds() {
	case 60:
		return "1m", nil
	case 300:
		return "5m", nil
	case 900:
		return "15m", nil
	case 1800:
		return "30m", nil
	case 3600:
		return "1h", nil
	case 14400:
		return "4h", nil
	case 86400:
		return "1d", nil
	case 604800:
		return "1w", nil
	default:
		return "", fmt.Errorf("unsupported stream timeframe: %s", tf.String())
	}
}
