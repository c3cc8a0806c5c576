package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/events"
	"github.com/rxtech-lab/argo-backtest/internal/indicator"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
)

// SMACrossover opens a long position when the fast moving average crosses
// above the slow one and closes its positions on the opposite cross. Each
// opened trade carries a market entry plus a stop-loss and a take-profit
// expressed as fractions of the entry price.
type SMACrossover struct {
	settings map[string]any
	queue    []events.Event

	fast *indicator.SMA
	slow *indicator.SMA
}

// DefaultSMACrossoverSettings returns the stock parameterization.
func DefaultSMACrossoverSettings() map[string]any {
	return map[string]any{
		"fast_period": 10,
		"slow_period": 30,
		"stop_loss":   0.05,
		"take_profit": 0.15,
	}
}

// NewSMACrossover builds the strategy from a settings map; missing keys fall
// back to defaults. The settings map is copied so instances never share
// storage.
func NewSMACrossover(settings map[string]any) (*SMACrossover, error) {
	merged := DefaultSMACrossoverSettings()
	for k, v := range settings {
		merged[k] = v
	}

	fastPeriod, ok := merged["fast_period"].(int)
	if !ok {
		return nil, fmt.Errorf("fast_period must be an int, got %T", merged["fast_period"])
	}

	slowPeriod, ok := merged["slow_period"].(int)
	if !ok {
		return nil, fmt.Errorf("slow_period must be an int, got %T", merged["slow_period"])
	}

	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("fast_period (%d) must be shorter than slow_period (%d)", fastPeriod, slowPeriod)
	}

	fast := &indicator.SMA{}
	if err := fast.Config(fastPeriod); err != nil {
		return nil, err
	}

	slow := &indicator.SMA{}
	if err := slow.Config(slowPeriod); err != nil {
		return nil, err
	}

	return &SMACrossover{
		settings: merged,
		fast:     fast,
		slow:     slow,
	}, nil
}

// MinCandles returns the warmup window before the strategy can signal.
func (s *SMACrossover) MinCandles() int {
	return s.settings["slow_period"].(int) + 1
}

// Run evaluates the crossover on the visible chart prefix and queues events
// for FetchEvents.
func (s *SMACrossover) Run(chart *candlestick.Chart) error {
	if chart.Len() < s.MinCandles() {
		return nil
	}

	fast, err := s.fast.Compute(chart)
	if err != nil {
		return fmt.Errorf("failed to compute fast SMA: %w", err)
	}

	slow, err := s.slow.Compute(chart)
	if err != nil {
		return fmt.Errorf("failed to compute slow SMA: %w", err)
	}

	last := chart.Len() - 1
	crossedUp := fast[last] > slow[last] && fast[last-1] <= slow[last-1]
	crossedDown := fast[last] < slow[last] && fast[last-1] >= slow[last-1]

	switch {
	case crossedUp:
		event, err := s.openLong(chart.Close()[last])
		if err != nil {
			return err
		}

		s.queue = append(s.queue, event)
	case crossedDown:
		s.queue = append(s.queue, events.NewCloseStrategyTrades())
	}

	return nil
}

// FetchEvents returns the queued events and resets the queue.
func (s *SMACrossover) FetchEvents() []events.Event {
	queued := s.queue
	s.queue = nil

	return queued
}

// Parameters exposes the tunables to the optimizer.
func (s *SMACrossover) Parameters() map[string]Parameter {
	return map[string]Parameter{
		"fast_period": IntParameter{Min: 3, Max: 50},
		"slow_period": IntParameter{Min: 10, Max: 200},
		"stop_loss":   FloatParameter{Min: 0.01, Max: 0.2},
		"take_profit": FloatParameter{Min: 0.02, Max: 0.5},
	}
}

// Settings returns a copy of the current settings map.
func (s *SMACrossover) Settings() map[string]any {
	settings := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		settings[k] = v
	}

	return settings
}

// WithSettings builds a fresh instance from the given settings.
func (s *SMACrossover) WithSettings(settings map[string]any) (Strategy, error) {
	return NewSMACrossover(settings)
}

func (s *SMACrossover) openLong(price float64) (events.Event, error) {
	stopLoss := s.settings["stop_loss"].(float64)
	takeProfit := s.settings["take_profit"].(float64)

	entries := trade.NewLevelHeap(trade.NewSimpleEntry(price, 1.0))
	breakouts := trade.NewLevelHeap(
		trade.NewStopLoss(price*(1-stopLoss), 1.0),
		trade.NewTakeProfit(price*(1+takeProfit), 1.0),
	)

	t, err := trade.New(trade.SideLong, entries, breakouts)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	return events.NewOpenTrade(t), nil
}
