package trade

import "github.com/rxtech-lab/argo-backtest/internal/candlestick"

// LevelHeap is an unordered bag of levels belonging to one side of one trade
// (the entries heap or the breakouts heap).
type LevelHeap struct {
	levels []Level
}

// NewLevelHeap creates a heap holding the given levels.
func NewLevelHeap(levels ...Level) *LevelHeap {
	return &LevelHeap{levels: levels}
}

// Add appends a level to the heap.
func (h *LevelHeap) Add(l Level) {
	h.levels = append(h.levels, l)
}

// Remove deletes the first member equal to l.
func (h *LevelHeap) Remove(l Level) {
	for i, member := range h.levels {
		if member.Equal(l) {
			h.levels = append(h.levels[:i], h.levels[i+1:]...)

			return
		}
	}
}

// Update updates every member against the candle exactly once.
func (h *LevelHeap) Update(candle candlestick.Candle) {
	for _, l := range h.levels {
		l.Update(candle)
	}
}

// Crossed returns a fresh heap holding the already-crossed members.
func (h *LevelHeap) Crossed() *LevelHeap {
	return h.filter(true)
}

// Pending returns a fresh heap holding the members waiting to be crossed.
func (h *LevelHeap) Pending() *LevelHeap {
	return h.filter(false)
}

// QuoteVolume returns the sum of members' accumulated notional.
func (h *LevelHeap) QuoteVolume() float64 {
	var total float64
	for _, l := range h.levels {
		total += l.QuoteVolume()
	}

	return total
}

// BaseVolume returns the sum of members' notional in base units.
func (h *LevelHeap) BaseVolume() float64 {
	var total float64
	for _, l := range h.levels {
		total += l.BaseVolume()
	}

	return total
}

func (h *LevelHeap) Len() int {
	return len(h.levels)
}

// Contains reports whether the heap holds a member equal to l.
func (h *LevelHeap) Contains(l Level) bool {
	for _, member := range h.levels {
		if member.Equal(l) {
			return true
		}
	}

	return false
}

// Levels returns the live member references, for callers that subscribe to
// level hooks. Use Members for detached copies.
func (h *LevelHeap) Levels() []Level {
	return h.levels
}

// Members returns detached copies of all members.
func (h *LevelHeap) Members() []Level {
	members := make([]Level, len(h.levels))
	for i, l := range h.levels {
		members[i] = l.Clone()
	}

	return members
}

// Equal reports whether both heaps hold pairwise-equal members.
func (h *LevelHeap) Equal(other *LevelHeap) bool {
	if len(h.levels) != len(other.levels) {
		return false
	}

	for i, l := range h.levels {
		if !l.Equal(other.levels[i]) {
			return false
		}
	}

	return true
}

func (h *LevelHeap) filter(crossed bool) *LevelHeap {
	filtered := NewLevelHeap()

	for _, l := range h.levels {
		if l.Crossed() == crossed {
			filtered.Add(l)
		}
	}

	return filtered
}

func (h *LevelHeap) each(fn func(l Level)) {
	for _, l := range h.levels {
		fn(l)
	}
}
