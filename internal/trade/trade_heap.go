package trade

import "github.com/rxtech-lab/argo-backtest/internal/candlestick"

// TradeHeap is an unordered collection of trades owned by one worker.
type TradeHeap struct {
	trades []*Trade
}

// NewTradeHeap creates a heap holding the given trades.
func NewTradeHeap(trades ...*Trade) *TradeHeap {
	return &TradeHeap{trades: trades}
}

// Add appends a trade to the heap.
func (h *TradeHeap) Add(t *Trade) {
	h.trades = append(h.trades, t)
}

// Remove deletes the trade from the heap, matching by identity.
func (h *TradeHeap) Remove(t *Trade) {
	for i, member := range h.trades {
		if member == t {
			h.trades = append(h.trades[:i], h.trades[i+1:]...)

			return
		}
	}
}

// Members returns the member trades. The slice is a copy; the trades are
// shared.
func (h *TradeHeap) Members() []*Trade {
	members := make([]*Trade, len(h.trades))
	copy(members, h.trades)

	return members
}

func (h *TradeHeap) Len() int {
	return len(h.trades)
}

// Active returns a fresh heap of trades that are not yet closed.
func (h *TradeHeap) Active() *TradeHeap {
	return h.filter(func(t *Trade) bool { return t.Status() != StatusClosed })
}

// Closed returns a fresh heap of trades in the CLOSED state.
func (h *TradeHeap) Closed() *TradeHeap {
	return h.filter(func(t *Trade) bool { return t.Status() == StatusClosed })
}

// PotentialVolume returns the sum of members' notional targets.
func (h *TradeHeap) PotentialVolume() float64 {
	var total float64
	for _, t := range h.trades {
		total += t.PotentialVolume()
	}

	return total
}

// FilledVolume returns the sum of members' net held notional.
func (h *TradeHeap) FilledVolume() float64 {
	var total float64
	for _, t := range h.trades {
		total += t.FilledVolume()
	}

	return total
}

// Profit returns the sum of members' unrealized profit.
func (h *TradeHeap) Profit() float64 {
	var total float64
	for _, t := range h.trades {
		total += t.Profit()
	}

	return total
}

// UpdateAll updates every member against the candle.
func (h *TradeHeap) UpdateAll(candle candlestick.Candle) {
	for _, t := range h.trades {
		t.Update(candle)
	}
}

// CleanupClosed evicts members whose status is CLOSED.
func (h *TradeHeap) CleanupClosed() {
	kept := h.trades[:0]

	for _, t := range h.trades {
		if t.Status() != StatusClosed {
			kept = append(kept, t)
		}
	}

	h.trades = kept
}

func (h *TradeHeap) filter(keep func(t *Trade) bool) *TradeHeap {
	filtered := NewTradeHeap()

	for _, t := range h.trades {
		if keep(t) {
			filtered.Add(t)
		}
	}

	return filtered
}
