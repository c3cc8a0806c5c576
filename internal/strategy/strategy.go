// Package strategy defines the contract the backtester drives: a strategy
// advances its internal signal state on each visible chart prefix and emits
// zero or more trading events per timestep.
package strategy

import (
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/events"
)

// Strategy is the external collaborator of the backtest loop. Run and
// FetchEvents are called once per timestep, in that order. A strategy error
// propagates and aborts the whole run; there is no per-strategy isolation.
type Strategy interface {
	// Run advances the internal signal state using the visible chart prefix.
	Run(chart *candlestick.Chart) error
	// FetchEvents returns the events queued for this timestep and resets the
	// queue.
	FetchEvents() []events.Event
	// Parameters exposes the tunables to the optimizer.
	Parameters() map[string]Parameter
}

// Tunable is implemented by strategies that can be re-instantiated with new
// settings during optimization. WithSettings must return a fresh instance
// with its own settings map; instances never share settings storage.
type Tunable interface {
	Strategy

	// Settings returns a copy of the current settings map.
	Settings() map[string]any
	// WithSettings builds a fresh strategy instance from the given settings.
	WithSettings(settings map[string]any) (Strategy, error)
}

// Cloneable is implemented by strategies without tunables that can still
// produce independent copies of themselves. Optimizers must never share one
// strategy instance across candidate systems: Run mutates internal signal
// state, so shared instances leak state between trials. Clone must return an
// instance with no shared mutable storage.
type Cloneable interface {
	Strategy

	// Clone returns an independent copy with fresh internal state.
	Clone() Strategy
}

// Versioned is implemented by strategies built and shipped against a
// specific engine release, such as plugins loaded from outside this module.
// The backtester refuses to run a versioned strategy whose declared engine
// version is incompatible with the running one.
type Versioned interface {
	// EngineVersion returns the engine version the strategy was built
	// against, for example "v0.3.0".
	EngineVersion() string
}

// MinCandles is implemented by strategies that need a warmup window before
// producing signals. The backtester itself does not enforce it; strategies
// use it to guard their own Run.
type MinCandles interface {
	MinCandles() int
}
