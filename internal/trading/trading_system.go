package trading

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
)

// Entry groups one strategy with the instruments it trades. Every strategy
// entry carries a stable id used to attribute trades back to it.
type Entry struct {
	StrategyID  string
	Strategy    strategy.Strategy
	Instruments []Instrument
}

// Item is one (strategy, instrument) pair in iteration order.
type Item struct {
	StrategyID string
	Strategy   strategy.Strategy
	Instrument Instrument
}

// TradingSystem maps each strategy instance to the instruments it trades,
// plus a max-trades cap shared across the whole system. Iteration order over
// the configuration is insertion order and is load-bearing: it determines
// which trades exist when later strategies' admission checks run.
type TradingSystem struct {
	entries   []Entry
	maxTrades int
}

// NewTradingSystem creates an empty system with the given shared open-trade
// cap.
func NewTradingSystem(maxTrades int) *TradingSystem {
	return &TradingSystem{maxTrades: maxTrades}
}

// Add registers a strategy with the instruments it trades and returns the
// strategy id assigned to it.
func (s *TradingSystem) Add(strat strategy.Strategy, instruments ...Instrument) string {
	id := uuid.NewString()
	s.entries = append(s.entries, Entry{
		StrategyID:  id,
		Strategy:    strat,
		Instruments: instruments,
	})

	return id
}

// MaxTrades returns the shared cap on simultaneously open trades.
func (s *TradingSystem) MaxTrades() int {
	return s.maxTrades
}

// Entries returns the registered strategies in insertion order.
func (s *TradingSystem) Entries() []Entry {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)

	return entries
}

// Items flattens the configuration into (strategy, instrument) pairs in
// insertion order.
func (s *TradingSystem) Items() []Item {
	var items []Item

	for _, entry := range s.entries {
		for _, instrument := range entry.Instruments {
			items = append(items, Item{
				StrategyID: entry.StrategyID,
				Strategy:   entry.Strategy,
				Instrument: instrument,
			})
		}
	}

	return items
}

// Instruments returns the distinct instruments traded by the system, in
// first-seen order.
func (s *TradingSystem) Instruments() []Instrument {
	seen := make(map[Instrument]bool)

	var instruments []Instrument

	for _, item := range s.Items() {
		if !seen[item.Instrument] {
			seen[item.Instrument] = true

			instruments = append(instruments, item.Instrument)
		}
	}

	return instruments
}
