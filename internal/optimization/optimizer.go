// Package optimization searches strategy parameter spaces by running full
// backtests per candidate and ranking the resulting equity curves with a
// metric.
package optimization

import (
	"context"
	"errors"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

// ErrNotOptimized is returned by BestSystems before a successful Run.
var ErrNotOptimized = errors.New("optimizer has not been run")

// Optimizer materializes concrete trading systems from a template with
// declared parameter ranges, scores each with a backtest and keeps the
// ranking. Implementations own all mutable state of a search; run concurrent
// searches on separate instances.
type Optimizer interface {
	// Run evaluates candidate systems against the charts.
	Run(ctx context.Context, template *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart) error
	// BestSystems returns the n best-scoring systems, best first.
	BestSystems(n int) ([]*trading.TradingSystem, error)
}
