package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
)

// SMA implements Simple Moving Average calculation.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator with default configuration.
func NewSMA() Indicator {
	return &SMA{
		period: 20, // Default period
	}
}

// Name returns the type of the indicator.
func (s *SMA) Name() IndicatorType {
	return IndicatorTypeSMA
}

// Config configures the SMA indicator. Expected parameters: period (int).
func (s *SMA) Config(params ...any) error {
	period, err := configPeriod(params)
	if err != nil {
		return err
	}

	s.period = period

	return nil
}

// Compute calculates the SMA series over the chart's closes.
func (s *SMA) Compute(chart *candlestick.Chart) ([]float64, error) {
	closes := chart.Close()
	if len(closes) < s.period {
		return nil, fmt.Errorf("not enough data points for SMA: need %d, have %d", s.period, len(closes))
	}

	values := make([]float64, len(closes))
	for i := range values {
		values[i] = math.NaN()
	}

	var sum float64
	for i, c := range closes {
		sum += c
		if i >= s.period {
			sum -= closes[i-s.period]
		}

		if i >= s.period-1 {
			values[i] = sum / float64(s.period)
		}
	}

	return values, nil
}
