package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// binancePageSize is the Binance klines API page limit.
const binancePageSize = 500

// BinanceProvider downloads klines from the Binance spot API.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a provider using unauthenticated market data
// endpoints.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{client: binance.NewClient("", "")}
}

// Download implements Provider. Binance pages klines at 500 per request, so
// the range is walked page by page using the last close time as the next
// start.
func (p *BinanceProvider) Download(ctx context.Context, sym symbol.Symbol, tf timeframe.TimeFrame, start, end time.Time, onProgress OnDownloadProgress) ([]candlestick.Candle, error) {
	interval, err := binanceInterval(tf)
	if err != nil {
		return nil, err
	}

	ticker := sym.Base() + sym.Quote()
	startMillis := start.UnixMilli()
	endMillis := end.UnixMilli()

	var candles []candlestick.Candle

	currentStart := startMillis

	for {
		klines, err := p.client.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch klines from binance: %w", err)
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), fmt.Sprintf("downloading %s klines", sym.String()))
		}

		candles = append(candles, klinesToCandles(klines)...)

		if len(klines) < binancePageSize {
			break
		}

		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	return candles, nil
}

func klinesToCandles(klines []*binance.Kline) []candlestick.Candle {
	candles := make([]candlestick.Candle, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		candles = append(candles, candlestick.Candle{
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			Timestamp: time.UnixMilli(k.OpenTime),
		})
	}

	return candles
}

// binanceInterval maps a timeframe to the closed set of intervals the klines
// API accepts.
func binanceInterval(tf timeframe.TimeFrame) (string, error) {
	supported := map[float64]string{
		60:     "1m",
		180:    "3m",
		300:    "5m",
		900:    "15m",
		1800:   "30m",
		3600:   "1h",
		7200:   "2h",
		14400:  "4h",
		21600:  "6h",
		28800:  "8h",
		43200:  "12h",
		86400:  "1d",
		259200: "3d",
		604800: "1w",
	}

	interval, ok := supported[tf.Seconds()]
	if !ok {
		return "", fmt.Errorf("unsupported timeframe for binance: %s", tf.String())
	}

	return interval, nil
}
