package live

import (
	"context"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
)

// Executor places the orders implied by a trade's levels on a venue. Real
// order routing is out of scope; the interface exists so the event model can
// be pointed at an exchange later without touching strategy code.
type Executor interface {
	// SubmitTrade registers the trade's levels with the venue.
	SubmitTrade(ctx context.Context, t *trade.Trade) error
	// CancelTrade withdraws the trade's pending levels.
	CancelTrade(ctx context.Context, t *trade.Trade) error
}

// LogExecutor logs submissions instead of routing them.
type LogExecutor struct {
	log *logger.Logger
}

// NewLogExecutor creates an executor that only logs.
func NewLogExecutor(log *logger.Logger) *LogExecutor {
	return &LogExecutor{log: log}
}

// SubmitTrade implements Executor.
func (e *LogExecutor) SubmitTrade(_ context.Context, t *trade.Trade) error {
	e.log.Info("submit trade",
		zap.String("id", t.ID()),
		zap.String("symbol", t.Symbol().String()),
		zap.String("side", string(t.Side())),
		zap.Float64("potential_volume", t.PotentialVolume()),
	)

	return nil
}

// CancelTrade implements Executor.
func (e *LogExecutor) CancelTrade(_ context.Context, t *trade.Trade) error {
	e.log.Info("cancel trade",
		zap.String("id", t.ID()),
		zap.String("symbol", t.Symbol().String()),
	)

	return nil
}
