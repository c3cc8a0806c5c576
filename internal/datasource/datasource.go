// Package datasource loads charts from market data storage.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// DataSource reads stored market data into charts. Implementations own their
// underlying storage handle; Close releases it.
type DataSource interface {
	// ReadChart loads the candles of one instrument, optionally clipped to
	// [start, end], ordered by time.
	ReadChart(sym symbol.Symbol, tf timeframe.TimeFrame, start, end optional.Option[time.Time]) (*candlestick.Chart, error)
	// Count returns the number of stored candles for the symbol in the range.
	Count(sym symbol.Symbol, start, end optional.Option[time.Time]) (int, error)
	// Close releases the underlying storage handle.
	Close() error
}
