// Package marketdata ties a candle provider to a storage writer: it
// downloads historical candles and persists them for the backtester to read
// back as charts.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/pkg/marketdata/provider"
)

// CandleWriter persists downloaded candles. Both datasource implementations
// satisfy it.
type CandleWriter interface {
	WriteCandles(sym symbol.Symbol, candles []candlestick.Candle) error
}

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `yaml:"provider" validate:"required,oneof=polygon binance"`
	PolygonAPIKey string                `yaml:"polygon_api_key" validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for one download request.
type DownloadParams struct {
	Symbol    string    `yaml:"symbol" validate:"required"`
	TimeFrame string    `yaml:"timeframe" validate:"required"`
	StartDate time.Time `yaml:"start_date" validate:"required"`
	EndDate   time.Time `yaml:"end_date" validate:"required,gtfield=StartDate"`
}

// Client downloads market data from a provider and stores it with a writer.
type Client struct {
	provider   provider.Provider
	writer     CandleWriter
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient creates a market data client. onProgress may be nil.
func NewClient(config ClientConfig, writer CandleWriter, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	marketProvider, err := provider.NewProvider(config.ProviderType, config.PolygonAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return &Client{
		provider:   marketProvider,
		writer:     writer,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// Download fetches the requested range and persists it. Returns the number
// of stored candles.
func (c *Client) Download(ctx context.Context, params DownloadParams) (int, error) {
	if err := c.validate.Struct(params); err != nil {
		return 0, fmt.Errorf("invalid download parameters: %w", err)
	}

	sym, err := symbol.New(params.Symbol)
	if err != nil {
		return 0, err
	}

	tf, err := timeframe.Parse(params.TimeFrame)
	if err != nil {
		return 0, err
	}

	candles, err := c.provider.Download(ctx, sym, tf, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return 0, fmt.Errorf("download failed: %w", err)
	}

	if err := c.writer.WriteCandles(sym, candles); err != nil {
		return 0, fmt.Errorf("failed to store candles: %w", err)
	}

	return len(candles), nil
}
