// Package walkforward validates optimized systems on data they were not
// fitted to: charts are sliced into rolling in-sample/out-of-sample windows,
// each window optimizes on the in-sample part and backtests the selected
// system out-of-sample, and the out-of-sample equities are stitched into one
// curve.
package walkforward

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-backtest/internal/backtest"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/optimization"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

// ErrNoWindows is returned when the chart range is shorter than one
// in-sample plus out-of-sample window.
var ErrNoWindows = errors.New("chart range shorter than one walk-forward window")

// SampleResult is the outcome of one walk-forward window.
type SampleResult struct {
	// TrainStart is the inclusive start of the in-sample window.
	TrainStart time.Time
	// ValidateStart is the inclusive start of the out-of-sample window.
	ValidateStart time.Time
	// ValidateEnd is the exclusive end of the out-of-sample window.
	ValidateEnd time.Time
	// System is the best in-sample system, as backtested out-of-sample.
	System *trading.TradingSystem
	// Equity is the out-of-sample equity of System.
	Equity *equity.Equity
}

// Result is the outcome of a full walk-forward run.
type Result struct {
	// Equity is the out-of-sample equities of all windows stitched in time
	// order.
	Equity *equity.Equity
	// Samples holds the per-window outcomes in time order.
	Samples []SampleResult
}

// WalkForward fans one optimize-then-backtest pipeline per window across a
// bounded worker pool. Each window owns a private optimizer and backtester;
// windows share only read-only chart data.
type WalkForward struct {
	config       backtest.Config
	newOptimizer func() optimization.Optimizer
	trainLen     time.Duration
	validateLen  time.Duration
	jobs         int
	log          *logger.Logger
}

// Option configures a WalkForward.
type Option func(w *WalkForward)

// WithJobs bounds the number of concurrently processed windows.
func WithJobs(jobs int) Option {
	return func(w *WalkForward) {
		w.jobs = jobs
	}
}

// WithLogger replaces the default nop logger.
func WithLogger(log *logger.Logger) Option {
	return func(w *WalkForward) {
		w.log = log
	}
}

// New creates a walk-forward validator. newOptimizer must build a fresh
// optimizer per call; optimizer state is never shared between windows.
func New(config backtest.Config, newOptimizer func() optimization.Optimizer, trainLen, validateLen time.Duration, opts ...Option) *WalkForward {
	w := &WalkForward{
		config:       config,
		newOptimizer: newOptimizer,
		trainLen:     trainLen,
		validateLen:  validateLen,
		jobs:         1,
		log:          logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.jobs < 1 {
		w.jobs = 1
	}

	return w
}

// Run slices the charts into rolling windows, processes each window and
// stitches the out-of-sample equities.
func (w *WalkForward) Run(ctx context.Context, template *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart) (*Result, error) {
	start, end, ok := chartBounds(charts)
	if !ok {
		return nil, backtest.ErrNoChartData
	}

	windows := splitWindows(start, end, w.trainLen, w.validateLen)
	if len(windows) == 0 {
		return nil, ErrNoWindows
	}

	w.log.Info("starting walk-forward run",
		zap.Int("windows", len(windows)),
		zap.Int("jobs", w.jobs),
	)

	samples := make([]SampleResult, len(windows))
	errs := make([]error, len(windows))

	var wg sync.WaitGroup

	sem := make(chan struct{}, w.jobs)

	for i, win := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wg.Add(1)

		go func(i int, win window) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			samples[i], errs[i] = w.runWindow(ctx, template, charts, win)
		}(i, win)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
	}

	return &Result{
		Equity:  stitchEquity(samples),
		Samples: samples,
	}, nil
}

type window struct {
	trainStart    time.Time
	validateStart time.Time
	validateEnd   time.Time
}

func (w *WalkForward) runWindow(ctx context.Context, template *trading.TradingSystem, charts map[trading.Instrument]*candlestick.Chart, win window) (SampleResult, error) {
	optimizer := w.newOptimizer()

	trainCharts := sliceCharts(charts, win.trainStart, win.validateStart)
	if err := optimizer.Run(ctx, template, trainCharts); err != nil {
		return SampleResult{}, fmt.Errorf("in-sample optimization: %w", err)
	}

	best, err := optimizer.BestSystems(1)
	if err != nil {
		return SampleResult{}, err
	}

	if len(best) == 0 {
		return SampleResult{}, optimization.ErrNotOptimized
	}

	tester := backtest.NewBacktester(w.config)

	validateCharts := sliceCharts(charts, win.validateStart, win.validateEnd)

	eq, err := tester.Run(best[0], validateCharts)
	if err != nil {
		return SampleResult{}, fmt.Errorf("out-of-sample backtest: %w", err)
	}

	return SampleResult{
		TrainStart:    win.trainStart,
		ValidateStart: win.validateStart,
		ValidateEnd:   win.validateEnd,
		System:        best[0],
		Equity:        eq,
	}, nil
}

// splitWindows lays consecutive windows over [start, end]: each shifts by one
// validation length, so the validation segments tile the range without
// overlap.
func splitWindows(start, end time.Time, trainLen, validateLen time.Duration) []window {
	var windows []window

	for t := start; !t.Add(trainLen + validateLen).After(end); t = t.Add(validateLen) {
		windows = append(windows, window{
			trainStart:    t,
			validateStart: t.Add(trainLen),
			validateEnd:   t.Add(trainLen + validateLen),
		})
	}

	return windows
}

func chartBounds(charts map[trading.Instrument]*candlestick.Chart) (time.Time, time.Time, bool) {
	var (
		start time.Time
		end   time.Time
		found bool
	)

	for _, chart := range charts {
		first, ok := chart.FirstTimestamp()
		if !ok {
			continue
		}

		last, _ := chart.LastTimestamp()

		if !found || first.Before(start) {
			start = first
		}

		if !found || last.After(end) {
			end = last
		}

		found = true
	}

	return start, end, found
}

func sliceCharts(charts map[trading.Instrument]*candlestick.Chart, from, to time.Time) map[trading.Instrument]*candlestick.Chart {
	sliced := make(map[trading.Instrument]*candlestick.Chart, len(charts))

	for instrument, chart := range charts {
		sliced[instrument] = chart.Between(from, to)
	}

	return sliced
}

// stitchEquity concatenates the out-of-sample equities in window order.
func stitchEquity(samples []SampleResult) *equity.Equity {
	var (
		values     []float64
		timestamps []time.Time
	)

	for _, sample := range samples {
		values = append(values, sample.Equity.Values()...)
		timestamps = append(timestamps, sample.Equity.Timestamps()...)
	}

	return equity.New(values, timestamps, samples[0].Equity.TimeFrame())
}
