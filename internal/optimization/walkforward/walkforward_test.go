package walkforward

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/backtest"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/rxtech-lab/argo-backtest/internal/events"
	"github.com/rxtech-lab/argo-backtest/internal/optimization"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

type idleStrategy struct{}

func (idleStrategy) Run(*candlestick.Chart) error              { return nil }
func (idleStrategy) FetchEvents() []events.Event               { return nil }
func (idleStrategy) Parameters() map[string]strategy.Parameter { return nil }

// passthroughOptimizer selects the template itself as the best system.
type passthroughOptimizer struct {
	runs   int
	system *trading.TradingSystem
}

func (o *passthroughOptimizer) Run(_ context.Context, template *trading.TradingSystem, _ map[trading.Instrument]*candlestick.Chart) error {
	o.runs++
	o.system = template

	return nil
}

func (o *passthroughOptimizer) BestSystems(int) ([]*trading.TradingSystem, error) {
	if o.system == nil {
		return nil, optimization.ErrNotOptimized
	}

	return []*trading.TradingSystem{o.system}, nil
}

type WalkForwardTestSuite struct {
	suite.Suite

	start      time.Time
	instrument trading.Instrument
}

func TestWalkForwardSuite(t *testing.T) {
	suite.Run(t, new(WalkForwardTestSuite))
}

func (suite *WalkForwardTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.instrument = trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Day1)
}

func (suite *WalkForwardTestSuite) newCharts(n int) map[trading.Instrument]*candlestick.Chart {
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	timestamps := make([]time.Time, n)

	for i := 0; i < n; i++ {
		open[i] = 100
		high[i] = 101
		low[i] = 99
		closes[i] = 100
		timestamps[i] = suite.start.Add(time.Duration(i) * 24 * time.Hour)
	}

	chart, err := candlestick.NewChart(candlestick.ChartData{
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closes,
		Timestamp: timestamps,
		TimeFrame: timeframe.Day1,
	})
	suite.Require().NoError(err)

	return map[trading.Instrument]*candlestick.Chart{suite.instrument: chart}
}

const day = 24 * time.Hour

func (suite *WalkForwardTestSuite) TestSplitWindowsTiling() {
	end := suite.start.Add(10 * day)

	windows := splitWindows(suite.start, end, 4*day, 2*day)
	suite.Require().Len(windows, 3)

	for i, win := range windows {
		offset := time.Duration(i) * 2 * day
		suite.True(win.trainStart.Equal(suite.start.Add(offset)))
		suite.True(win.validateStart.Equal(suite.start.Add(offset + 4*day)))
		suite.True(win.validateEnd.Equal(suite.start.Add(offset + 6*day)))
	}

	// Consecutive validation segments tile without overlap.
	suite.True(windows[1].validateStart.Equal(windows[0].validateEnd))
}

func (suite *WalkForwardTestSuite) TestSplitWindowsRangeTooShort() {
	end := suite.start.Add(3 * day)
	suite.Empty(splitWindows(suite.start, end, 4*day, 2*day))
}

func (suite *WalkForwardTestSuite) TestChartBounds() {
	charts := suite.newCharts(5)

	other := trading.NewInstrument(symbol.MustNew("ETH/USDT"), timeframe.Day1)
	shifted := suite.newCharts(5)[suite.instrument].Between(suite.start.Add(2*day), suite.start.Add(10*day))
	charts[other] = shifted

	start, end, ok := chartBounds(charts)
	suite.Require().True(ok)
	suite.True(start.Equal(suite.start))
	suite.True(end.Equal(suite.start.Add(4 * day)))
}

func (suite *WalkForwardTestSuite) TestChartBoundsEmpty() {
	_, _, ok := chartBounds(nil)
	suite.False(ok)
}

func (suite *WalkForwardTestSuite) TestStitchEquity() {
	first := equity.New([]float64{100, 105},
		[]time.Time{suite.start, suite.start.Add(day)}, timeframe.Day1)
	second := equity.New([]float64{104},
		[]time.Time{suite.start.Add(2 * day)}, timeframe.Day1)

	stitched := stitchEquity([]SampleResult{{Equity: first}, {Equity: second}})

	suite.Equal([]float64{100, 105, 104}, stitched.Values())
	suite.Require().Len(stitched.Timestamps(), 3)
	suite.True(stitched.TimeFrame().Equal(timeframe.Day1))
}

func (suite *WalkForwardTestSuite) TestRun() {
	template := trading.NewTradingSystem(1)
	template.Add(idleStrategy{}, suite.instrument)

	var factoryCalls int

	validator := New(backtest.DefaultConfig(), func() optimization.Optimizer {
		factoryCalls++

		return &passthroughOptimizer{}
	}, 4*day, 3*day)

	result, err := validator.Run(context.Background(), template, suite.newCharts(10))
	suite.Require().NoError(err)

	// 9 days of data fit one 4d+3d window; each window gets its own
	// optimizer.
	suite.Require().Len(result.Samples, 1)
	suite.Equal(1, factoryCalls)

	sample := result.Samples[0]
	suite.True(sample.TrainStart.Equal(suite.start))
	suite.True(sample.ValidateStart.Equal(suite.start.Add(4 * day)))
	suite.True(sample.ValidateEnd.Equal(suite.start.Add(7 * day)))
	suite.Same(template, sample.System)

	// The strategy never trades, so the stitched curve holds the deposit.
	suite.NotEmpty(result.Equity.Values())

	for _, value := range result.Equity.Values() {
		suite.InDelta(100.0, value, 1e-9)
	}
}

func (suite *WalkForwardTestSuite) TestRunWithoutCharts() {
	validator := New(backtest.DefaultConfig(), func() optimization.Optimizer {
		return &passthroughOptimizer{}
	}, 4*day, 2*day)

	_, err := validator.Run(context.Background(), trading.NewTradingSystem(1), nil)
	suite.ErrorIs(err, backtest.ErrNoChartData)
}

func (suite *WalkForwardTestSuite) TestRunRangeTooShort() {
	template := trading.NewTradingSystem(1)
	template.Add(idleStrategy{}, suite.instrument)

	validator := New(backtest.DefaultConfig(), func() optimization.Optimizer {
		return &passthroughOptimizer{}
	}, 30*day, 10*day)

	_, err := validator.Run(context.Background(), template, suite.newCharts(5))
	suite.ErrorIs(err, ErrNoWindows)
}
