package backtest

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
	"github.com/rxtech-lab/argo-backtest/internal/version"
)

// ErrNoChartData is returned by Run when no chart contributes any candles to
// the simulated time range.
var ErrNoChartData = errors.New("no chart data in the simulated time range")

// ErrAlreadyRunning is returned when Run is called on a backtester that is
// mid-run. A backtester owns one heap and one balance; reuse it only between
// runs.
var ErrAlreadyRunning = errors.New("backtester is already running")

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateDone
)

// OnStepFunc is invoked after every completed timestep with the 1-based step
// and the total number of steps. Used to drive progress reporting.
type OnStepFunc func(step, total int)

// Backtester replays charts through a trading system and records the equity
// curve. It is the events.Worker of the run: events debit and credit its free
// balance and read its admission limits. A Backtester is single-owner state;
// run concurrent simulations on separate instances.
type Backtester struct {
	config Config
	log    *logger.Logger
	runID  string
	state  runState
	onStep OnStepFunc

	freeBalance float64
	maxTrades   int
	trades      *trade.TradeHeap
	eq          *equity.Equity

	currentSymbol     symbol.Symbol
	currentStrategyID string
}

// BacktesterOption configures a Backtester at construction time.
type BacktesterOption func(b *Backtester)

// WithLogger replaces the default nop logger.
func WithLogger(log *logger.Logger) BacktesterOption {
	return func(b *Backtester) {
		b.log = log
	}
}

// WithOnStep registers a per-timestep progress callback.
func WithOnStep(fn OnStepFunc) BacktesterOption {
	return func(b *Backtester) {
		b.onStep = fn
	}
}

// NewBacktester creates an idle backtester with the given config.
func NewBacktester(config Config, opts ...BacktesterOption) *Backtester {
	b := &Backtester{
		config: config,
		log:    logger.NewNopLogger(),
		runID:  uuid.NewString(),
		state:  stateIdle,
		trades: trade.NewTradeHeap(),
		eq:     equity.New(nil, nil, timeframe.Day1),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// RunID identifies this backtester instance across reports and logs.
func (b *Backtester) RunID() string {
	return b.runID
}

// FreeBalance returns the unreserved balance.
func (b *Backtester) FreeBalance() float64 {
	return b.freeBalance
}

// Debit subtracts amount from the free balance.
func (b *Backtester) Debit(amount float64) {
	b.freeBalance -= amount
}

// Credit adds amount to the free balance.
func (b *Backtester) Credit(amount float64) {
	b.freeBalance += amount
}

// Commission returns the fraction of crossed notional charged per level.
func (b *Backtester) Commission() float64 {
	return b.config.Commission
}

// AssumeZero returns the configured epsilon below which a filled volume
// counts as zero.
func (b *Backtester) AssumeZero() float64 {
	return b.config.AssumeZero
}

// MaxTrades returns the shared cap on simultaneously open trades.
func (b *Backtester) MaxTrades() int {
	return b.maxTrades
}

// OpenedTrades counts trades that are not yet closed. Pending trades hold a
// balance reservation, so they count toward admission.
func (b *Backtester) OpenedTrades() int {
	return b.trades.Active().Len()
}

// CurrentSymbol returns the symbol of the instrument being processed.
func (b *Backtester) CurrentSymbol() symbol.Symbol {
	return b.currentSymbol
}

// CurrentStrategyID identifies the strategy being processed.
func (b *Backtester) CurrentStrategyID() string {
	return b.currentStrategyID
}

// UsedBalance returns the balance reserved by open trades plus their
// unrealized profit. Trades whose reservation was already credited back by a
// close event are skipped until the loop evicts them.
func (b *Backtester) UsedBalance() float64 {
	var total float64

	for _, t := range b.trades.Members() {
		if t.Released() {
			continue
		}

		total += t.PotentialVolume() + t.Profit()
	}

	return total
}

// TotalBalance returns the total account value: free plus used.
func (b *Backtester) TotalBalance() float64 {
	return b.freeBalance + b.UsedBalance()
}

// Equity returns the equity curve of the last (or current) run.
func (b *Backtester) Equity() *equity.Equity {
	return b.eq
}

// Run replays the charts through the trading system and returns the equity
// curve. The loop is strictly sequential: timestamps in order, and within one
// timestamp the system's (strategy, instrument) pairs in registration order.
// That ordering determines which trades exist when later strategies'
// admission checks run. A strategy error aborts the whole run.
func (b *Backtester) Run(system *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart) (*equity.Equity, error) {
	if b.state == stateRunning {
		return nil, ErrAlreadyRunning
	}

	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtester config: %w", err)
	}

	for _, entry := range system.Entries() {
		versioned, ok := entry.Strategy.(strategy.Versioned)
		if !ok {
			continue
		}

		if err := version.CheckCompatibility(version.GetVersion(), versioned.EngineVersion()); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", entry.StrategyID, err)
		}
	}

	tf := equityTimeFrame(charts)
	if tf.IsZero() {
		return nil, ErrNoChartData
	}

	start, end, ok := timelineBounds(charts, b.config.StartTime, b.config.EndTime)
	if !ok {
		return nil, ErrNoChartData
	}

	axis := timelineAxis(start, end, tf, b.config.TimeAdjustmentFraction())
	if len(axis) == 0 {
		return nil, ErrNoChartData
	}

	b.state = stateRunning
	b.freeBalance = b.config.InitialDeposit
	b.maxTrades = system.MaxTrades()
	b.trades = trade.NewTradeHeap()
	b.eq = equity.New(nil, nil, tf)

	items := system.Items()

	b.log.Info("starting backtest",
		zap.String("run_id", b.runID),
		zap.Int("steps", len(axis)),
		zap.Int("strategies", len(system.Entries())),
		zap.Float64("initial_deposit", b.config.InitialDeposit),
	)

	for step, now := range axis {
		b.releaseClosedTrades()

		for _, item := range items {
			chart, ok := charts[item.Instrument]
			if !ok {
				continue
			}

			prefix := chart.Before(now)
			if prefix.Len() == 0 {
				continue
			}

			b.currentSymbol = item.Instrument.Symbol
			b.currentStrategyID = item.StrategyID

			if err := item.Strategy.Run(prefix); err != nil {
				b.state = stateIdle

				return nil, fmt.Errorf("strategy run failed: %w", err)
			}

			for _, event := range item.Strategy.FetchEvents() {
				event.SetWorker(b)

				if err := event.HandleTrades(b.trades); err != nil {
					b.state = stateIdle

					return nil, fmt.Errorf("event handling failed: %w", err)
				}
			}

			last, _ := prefix.Last()
			b.updateSymbolTrades(item.Instrument.Symbol, last)
		}

		b.eq.AppendAt(b.TotalBalance(), now)

		if b.onStep != nil {
			b.onStep(step+1, len(axis))
		}
	}

	b.releaseClosedTrades()
	b.state = stateDone

	b.log.Info("backtest finished",
		zap.String("run_id", b.runID),
		zap.Float64("final_balance", b.TotalBalance()),
	)

	return b.eq, nil
}

// releaseClosedTrades returns the reserved balance of closed trades that have
// not been credited yet and evicts them from the heap. Trades closed by an
// explicit close event were already credited there and only get evicted.
func (b *Backtester) releaseClosedTrades() {
	for _, t := range b.trades.Closed().Members() {
		if t.Released() {
			continue
		}

		b.Credit(t.PotentialVolume() + t.Profit())
		t.MarkReleased()
	}

	b.trades.CleanupClosed()
}

// updateSymbolTrades updates every trade bound to the symbol with the candle.
// Trades are matched by symbol rather than instrument so a position reacts to
// price changes seen on any timeframe of its market.
func (b *Backtester) updateSymbolTrades(sym symbol.Symbol, candle candlestick.Candle) {
	for _, t := range b.trades.Members() {
		if t.Symbol() == sym {
			t.Update(candle)
		}
	}
}
