// Package events defines the trading intents a strategy emits each candle
// and the worker capability they are applied through. Events are bound to a
// worker via SetWorker before HandleTrades runs; the binding is how events
// gain access to the shared balance and commission.
package events

import (
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
)

// Worker is the capability surface an event mutates: the balance, the trade
// admission limits and the strategy/instrument context of the current
// timestep. The backtester is the only production implementation.
type Worker interface {
	// FreeBalance returns the unreserved balance.
	FreeBalance() float64
	// Debit subtracts amount from the free balance.
	Debit(amount float64)
	// Credit adds amount to the free balance.
	Credit(amount float64)
	// Commission returns the fraction of crossed notional charged per level.
	Commission() float64
	// AssumeZero returns the epsilon below which a filled volume counts as
	// zero.
	AssumeZero() float64
	// MaxTrades returns the shared cap on simultaneously open trades.
	MaxTrades() int
	// OpenedTrades returns the number of currently open trades.
	OpenedTrades() int
	// CurrentSymbol returns the symbol of the instrument being processed.
	CurrentSymbol() symbol.Symbol
	// CurrentStrategyID identifies the strategy being processed.
	CurrentStrategyID() string
}

// Event is a trading intent produced by a strategy. Within one timestep
// events are applied in emission order; a strategy that wants to flip its
// position must emit the close before the open.
type Event interface {
	// SetWorker binds the event to the worker applying it.
	SetWorker(w Worker)
	// HandleTrades applies the intent against the worker's trade heap.
	HandleTrades(trades *trade.TradeHeap) error
}

// OpenTrade admits a new trade: it is sized by the distributor, added to the
// heap and its potential volume is reserved from the free balance
// immediately. Each level additionally debits commission on its crossed
// notional at the moment it crosses.
type OpenTrade struct {
	trade       *trade.Trade
	distributor VolumeDistributor
	worker      Worker
}

// OpenTradeOption configures an OpenTrade event.
type OpenTradeOption func(e *OpenTrade)

// WithDistributor overrides the default equal-weight volume distributor.
func WithDistributor(d VolumeDistributor) OpenTradeOption {
	return func(e *OpenTrade) {
		e.distributor = d
	}
}

// NewOpenTrade creates an open intent for the trade.
func NewOpenTrade(t *trade.Trade, opts ...OpenTradeOption) *OpenTrade {
	e := &OpenTrade{
		trade:       t,
		distributor: &DefaultDistributor{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SetWorker binds the worker, stamps the trade with the current symbol and
// strategy id, and wires the per-level commission hook.
func (e *OpenTrade) SetWorker(w Worker) {
	e.worker = w
	e.trade.SetSymbol(w.CurrentSymbol())
	e.trade.SetStrategyID(w.CurrentStrategyID())
	e.trade.SetAssumeZero(w.AssumeZero())

	commission := func(l trade.Level) {
		w.Debit(l.QuoteVolume() * w.Commission())
	}

	for _, heap := range []*trade.LevelHeap{e.trade.Entries(), e.trade.Breakouts()} {
		for _, l := range heap.Levels() {
			l.SubscribeBreakout(commission)
		}
	}
}

// HandleTrades admits the trade unless the worker is already at its trade
// cap. Capital is reserved at open, not at fill.
func (e *OpenTrade) HandleTrades(trades *trade.TradeHeap) error {
	if e.worker.OpenedTrades() >= e.worker.MaxTrades() {
		return nil
	}

	e.distributor.SetWorker(e.worker)

	if err := e.distributor.SetTradeVolume(e.trade); err != nil {
		return err
	}

	trades.Add(e.trade)
	e.worker.Debit(e.trade.PotentialVolume())

	return nil
}

// CloseTrade terminates a position: the reserved potential volume plus the
// current profit is returned to the free balance, then the trade's levels
// are discarded, forcing it into the CLOSED state.
type CloseTrade struct {
	trade  *trade.Trade
	worker Worker
}

// NewCloseTrade creates a close intent for the trade.
func NewCloseTrade(t *trade.Trade) *CloseTrade {
	return &CloseTrade{trade: t}
}

func (e *CloseTrade) SetWorker(w Worker) {
	e.worker = w
}

func (e *CloseTrade) HandleTrades(trades *trade.TradeHeap) error {
	if !e.trade.Released() {
		e.worker.Credit(e.trade.PotentialVolume() + e.trade.Profit())
		e.trade.MarkReleased()
	}

	e.trade.Cleanup()

	return nil
}

// CloseAllTrades closes every trade in the heap, delegating per trade to
// CloseTrade.
type CloseAllTrades struct {
	worker Worker
}

// NewCloseAllTrades creates a close-all intent.
func NewCloseAllTrades() *CloseAllTrades {
	return &CloseAllTrades{}
}

func (e *CloseAllTrades) SetWorker(w Worker) {
	e.worker = w
}

func (e *CloseAllTrades) HandleTrades(trades *trade.TradeHeap) error {
	return closeMatching(e.worker, trades, func(t *trade.Trade) bool {
		return true
	})
}

// CloseStrategyTrades closes only the trades opened by the emitting
// strategy, matched by the strategy id captured when the event is bound.
type CloseStrategyTrades struct {
	worker     Worker
	strategyID string
}

// NewCloseStrategyTrades creates a close intent scoped to the emitting
// strategy.
func NewCloseStrategyTrades() *CloseStrategyTrades {
	return &CloseStrategyTrades{}
}

func (e *CloseStrategyTrades) SetWorker(w Worker) {
	e.worker = w
	e.strategyID = w.CurrentStrategyID()
}

func (e *CloseStrategyTrades) HandleTrades(trades *trade.TradeHeap) error {
	return closeMatching(e.worker, trades, func(t *trade.Trade) bool {
		return t.StrategyID() == e.strategyID
	})
}

func closeMatching(w Worker, trades *trade.TradeHeap, match func(t *trade.Trade) bool) error {
	for _, t := range trades.Members() {
		if !match(t) {
			continue
		}

		closeEvent := NewCloseTrade(t)
		closeEvent.SetWorker(w)

		if err := closeEvent.HandleTrades(trades); err != nil {
			return err
		}
	}

	return nil
}
