package events

import "github.com/rxtech-lab/argo-backtest/internal/trade"

// VolumeDistributor is the sizing policy converting free balance and open
// trade count into a per-trade notional.
type VolumeDistributor interface {
	// SetWorker binds the distributor to the worker whose balance it sizes
	// against.
	SetWorker(w Worker)
	// SetTradeVolume assigns the trade's potential volume. Only effective if
	// the trade is still unsized.
	SetTradeVolume(t *trade.Trade) error
}

// DefaultDistributor sizes trades equal-weight: the remaining capital is
// split across the remaining open slots. Callers must not invoke it with no
// free slots; OpenTrade guards the admission check before sizing.
type DefaultDistributor struct {
	worker Worker
}

func (d *DefaultDistributor) SetWorker(w Worker) {
	d.worker = w
}

func (d *DefaultDistributor) SetTradeVolume(t *trade.Trade) error {
	t.SetPotentialVolume(d.tradeVolume())

	return nil
}

func (d *DefaultDistributor) tradeVolume() float64 {
	pendingSlots := d.worker.MaxTrades() - d.worker.OpenedTrades()

	return d.worker.FreeBalance() / float64(pendingSlots)
}
