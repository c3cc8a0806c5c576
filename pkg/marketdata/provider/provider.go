// Package provider downloads historical candles from market data vendors.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnDownloadProgress reports download progress; current and total are in
// provider-specific units (candles or milliseconds).
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads historical candles for one instrument. The context can
// cancel a download mid-flight.
type Provider interface {
	// Download fetches the candles of the instrument between start and end.
	Download(ctx context.Context, sym symbol.Symbol, tf timeframe.TimeFrame, start, end time.Time, onProgress OnDownloadProgress) ([]candlestick.Candle, error)
}

// NewProvider creates a market data provider of the given type. apiKey is
// required for polygon and ignored by binance.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceProvider(), nil
	case ProviderPolygon:
		return NewPolygonProvider(apiKey)
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
