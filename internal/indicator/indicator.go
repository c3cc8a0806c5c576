// Package indicator provides technical indicators computed over a chart's
// close series. Indicators are pure: they never mutate the chart.
package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
)

// IndicatorType identifies a registered indicator.
type IndicatorType string

const (
	IndicatorTypeSMA IndicatorType = "sma"
	IndicatorTypeEMA IndicatorType = "ema"
	IndicatorTypeRSI IndicatorType = "rsi"
)

// Indicator computes one value series from a chart. The result has the same
// length as the chart; positions before the warmup window hold NaN.
type Indicator interface {
	// Name returns the type of the indicator.
	Name() IndicatorType
	// Config configures the indicator. Parameters are indicator-specific.
	Config(params ...any) error
	// Compute calculates the indicator series for the chart.
	Compute(chart *candlestick.Chart) ([]float64, error)
}

func configPeriod(params []any) (int, error) {
	if len(params) != 1 {
		return 0, fmt.Errorf("Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return 0, fmt.Errorf("invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return 0, fmt.Errorf("period must be a positive integer, got %d", period)
	}

	return period, nil
}
