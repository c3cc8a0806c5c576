package optimization

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/analysis"
	"github.com/rxtech-lab/argo-backtest/internal/backtest"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

// trial is one scored candidate system.
type trial struct {
	system *trading.TradingSystem
	score  float64
	err    error
}

// RandomSearchOptimizer samples each tunable strategy's parameter ranges
// uniformly at random, runs a private backtester per trial and ranks trials
// by the metric. Trials share only read-only chart data, so they fan out
// across a bounded worker pool.
type RandomSearchOptimizer struct {
	config    backtest.Config
	newMetric func() analysis.Metric
	trials    int
	jobs      int
	seed      int64
	log       *logger.Logger

	mu     sync.Mutex
	scored []trial
	hasRun bool
}

// RandomSearchOption configures the optimizer.
type RandomSearchOption func(o *RandomSearchOptimizer)

// WithJobs bounds the number of concurrent trials.
func WithJobs(jobs int) RandomSearchOption {
	return func(o *RandomSearchOptimizer) {
		o.jobs = jobs
	}
}

// WithSeed fixes the sampling seed for reproducible searches.
func WithSeed(seed int64) RandomSearchOption {
	return func(o *RandomSearchOptimizer) {
		o.seed = seed
	}
}

// WithOptimizerLogger replaces the default nop logger.
func WithOptimizerLogger(log *logger.Logger) RandomSearchOption {
	return func(o *RandomSearchOptimizer) {
		o.log = log
	}
}

// NewRandomSearchOptimizer creates an optimizer running the given number of
// trials, each with a backtester built from config. newMetric must build a
// fresh metric per call: metrics are stateful, and every trial scores on its
// own instance so concurrent trials never share one.
func NewRandomSearchOptimizer(config backtest.Config, newMetric func() analysis.Metric, trials int, opts ...RandomSearchOption) *RandomSearchOptimizer {
	o := &RandomSearchOptimizer{
		config:    config,
		newMetric: newMetric,
		trials:    trials,
		jobs:      1,
		seed:      rand.Int63(),
		log:       logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.jobs < 1 {
		o.jobs = 1
	}

	return o
}

// Run samples candidate systems from the template and scores each with a
// full backtest. Sampling happens up front on a single seeded source; only
// the backtests run concurrently.
func (o *RandomSearchOptimizer) Run(ctx context.Context, template *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart) error {
	rng := rand.New(rand.NewSource(o.seed))

	candidates := make([]*trading.TradingSystem, 0, o.trials)

	for i := 0; i < o.trials; i++ {
		candidate, err := materializeSystem(rng, template)
		if err != nil {
			return fmt.Errorf("sampling trial %d: %w", i, err)
		}

		candidates = append(candidates, candidate)
	}

	results := make([]trial, len(candidates))

	var wg sync.WaitGroup

	sem := make(chan struct{}, o.jobs)

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		wg.Add(1)

		go func(i int, candidate *trading.TradingSystem) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = o.runTrial(candidate, charts)
		}(i, candidate)
	}

	wg.Wait()

	scored := make([]trial, 0, len(results))

	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("trial %d: %w", i, result.err)
		}

		scored = append(scored, result)
	}

	o.mu.Lock()
	o.scored = scored
	o.hasRun = true
	o.mu.Unlock()

	o.log.Info("random search finished",
		zap.Int("trials", len(scored)),
		zap.Int("jobs", o.jobs),
	)

	return nil
}

// BestSystems returns up to n best-scoring systems, best first. The metric's
// direction decides what "best" means.
func (o *RandomSearchOptimizer) BestSystems(n int) ([]*trading.TradingSystem, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.hasRun {
		return nil, ErrNotOptimized
	}

	ranked := make([]trial, len(o.scored))
	copy(ranked, o.scored)

	higherIsBetter := o.newMetric().Positive()

	sort.SliceStable(ranked, func(i, j int) bool {
		if higherIsBetter {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].score < ranked[j].score
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	systems := make([]*trading.TradingSystem, 0, n)
	for _, t := range ranked[:n] {
		systems = append(systems, t.system)
	}

	return systems, nil
}

func (o *RandomSearchOptimizer) runTrial(candidate *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart) trial {
	tester := backtest.NewBacktester(o.config)

	eq, err := tester.Run(candidate, charts)
	if err != nil {
		return trial{err: fmt.Errorf("backtest failed: %w", err)}
	}

	score, err := analysis.Evaluate(o.newMetric(), eq)
	if err != nil {
		return trial{err: fmt.Errorf("metric evaluation failed: %w", err)}
	}

	return trial{system: candidate, score: score}
}

// materializeSystem builds a concrete system from the template: tunable
// strategies are re-instantiated with sampled settings, cloneable ones are
// copied. Strategies carry signal state across Run calls, so no instance may
// appear in two candidate systems.
func materializeSystem(rng *rand.Rand, template *trading.TradingSystem) (*trading.TradingSystem, error) {
	system := trading.NewTradingSystem(template.MaxTrades())

	for _, entry := range template.Entries() {
		switch strat := entry.Strategy.(type) {
		case strategy.Tunable:
			settings, err := sampleSettings(rng, entry.Strategy.Parameters())
			if err != nil {
				return nil, err
			}

			concrete, err := strat.WithSettings(settings)
			if err != nil {
				return nil, fmt.Errorf("applying settings %q: %w", strategy.SettingsKey(settings), err)
			}

			system.Add(concrete, entry.Instruments...)
		case strategy.Cloneable:
			system.Add(strat.Clone(), entry.Instruments...)
		default:
			return nil, fmt.Errorf("strategy %T cannot be searched: it is neither tunable nor cloneable", entry.Strategy)
		}
	}

	return system, nil
}
