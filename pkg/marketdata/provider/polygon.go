package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// PolygonProvider downloads aggregate bars from the Polygon REST API.
type PolygonProvider struct {
	client *polygon.Client
}

// NewPolygonProvider creates a provider authenticated with the given API key.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("polygon api key is required")
	}

	return &PolygonProvider{client: polygon.New(apiKey)}, nil
}

// Download implements Provider using the aggregates iterator.
func (p *PolygonProvider) Download(ctx context.Context, sym symbol.Symbol, tf timeframe.TimeFrame, start, end time.Time, onProgress OnDownloadProgress) ([]candlestick.Candle, error) {
	multiplier, timespan, err := polygonTimespan(tf)
	if err != nil {
		return nil, err
	}

	total := end.Sub(start).Seconds() / tf.Seconds()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     polygonTicker(sym),
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var candles []candlestick.Candle

	for iter.Next() {
		agg := iter.Item()

		candles = append(candles, candlestick.Candle{
			Open:      agg.Open,
			High:      agg.High,
			Low:       agg.Low,
			Close:     agg.Close,
			Volume:    agg.Volume,
			Timestamp: time.Time(agg.Timestamp),
		})

		if onProgress != nil && len(candles)%1000 == 0 {
			onProgress(float64(len(candles)), total, fmt.Sprintf("downloading %s aggregates", sym.String()))
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polygon aggregates: %w", err)
	}

	return candles, nil
}

// polygonTicker renders the symbol in Polygon's crypto ticker format, e.g.
// BTC/USD -> X:BTCUSD.
func polygonTicker(sym symbol.Symbol) string {
	return "X:" + sym.Base() + sym.Quote()
}

func polygonTimespan(tf timeframe.TimeFrame) (int, models.Timespan, error) {
	seconds := int(tf.Seconds())

	switch {
	case seconds >= 604800 && seconds%604800 == 0:
		return seconds / 604800, models.Week, nil
	case seconds >= 86400 && seconds%86400 == 0:
		return seconds / 86400, models.Day, nil
	case seconds >= 3600 && seconds%3600 == 0:
		return seconds / 3600, models.Hour, nil
	case seconds >= 60 && seconds%60 == 0:
		return seconds / 60, models.Minute, nil
	default:
		return 0, "", fmt.Errorf("unsupported timeframe for polygon: %s", tf.String())
	}
}
