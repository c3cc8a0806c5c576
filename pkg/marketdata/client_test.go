package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
)

type memoryWriter struct {
	written map[symbol.Symbol][]candlestick.Candle
}

func (w *memoryWriter) WriteCandles(sym symbol.Symbol, candles []candlestick.Candle) error {
	if w.written == nil {
		w.written = make(map[symbol.Symbol][]candlestick.Candle)
	}

	w.written[sym] = candles

	return nil
}

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) TestNewClientBinance() {
	client, err := NewClient(ClientConfig{ProviderType: "binance"}, &memoryWriter{}, nil)
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestNewClientPolygonRequiresKey() {
	_, err := NewClient(ClientConfig{ProviderType: "polygon"}, &memoryWriter{}, nil)
	suite.Error(err)

	client, err := NewClient(ClientConfig{
		ProviderType:  "polygon",
		PolygonAPIKey: "test-key",
	}, &memoryWriter{}, nil)
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestNewClientUnknownProvider() {
	_, err := NewClient(ClientConfig{ProviderType: "kraken"}, &memoryWriter{}, nil)
	suite.Error(err)
}

func (suite *ClientTestSuite) TestDownloadValidatesParams() {
	client, err := NewClient(ClientConfig{ProviderType: "binance"}, &memoryWriter{}, nil)
	suite.Require().NoError(err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params DownloadParams
	}{
		{"missing symbol", DownloadParams{TimeFrame: "1h", StartDate: start, EndDate: start.AddDate(0, 1, 0)}},
		{"missing timeframe", DownloadParams{Symbol: "BTC/USDT", StartDate: start, EndDate: start.AddDate(0, 1, 0)}},
		{"end before start", DownloadParams{Symbol: "BTC/USDT", TimeFrame: "1h", StartDate: start, EndDate: start.AddDate(0, -1, 0)}},
		{"invalid symbol", DownloadParams{Symbol: "btc-usdt", TimeFrame: "1h", StartDate: start, EndDate: start.AddDate(0, 1, 0)}},
		{"invalid timeframe", DownloadParams{Symbol: "BTC/USDT", TimeFrame: "7m", StartDate: start, EndDate: start.AddDate(0, 1, 0)}},
	}

	for _, tt := range tests {
		_, err := client.Download(context.Background(), tt.params)
		suite.Error(err, tt.name)
	}
}
