package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
)

// EMA implements Exponential Moving Average calculation.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the type of the indicator.
func (e *EMA) Name() IndicatorType {
	return IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	period, err := configPeriod(params)
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// Compute calculates the EMA series over the chart's closes. The first value
// is seeded with the SMA of the warmup window.
func (e *EMA) Compute(chart *candlestick.Chart) ([]float64, error) {
	closes := chart.Close()
	if len(closes) < e.period {
		return nil, fmt.Errorf("not enough data points for EMA: need %d, have %d", e.period, len(closes))
	}

	values := make([]float64, len(closes))
	for i := range values {
		values[i] = math.NaN()
	}

	var seed float64
	for _, c := range closes[:e.period] {
		seed += c
	}

	values[e.period-1] = seed / float64(e.period)
	alpha := 2.0 / float64(e.period+1)

	for i := e.period; i < len(closes); i++ {
		values[i] = closes[i]*alpha + values[i-1]*(1-alpha)
	}

	return values, nil
}
