package indicator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
)

// RSI implements Relative Strength Index calculation using Wilder's
// smoothing.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the type of the indicator.
func (r *RSI) Name() IndicatorType {
	return IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	period, err := configPeriod(params)
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute calculates the RSI series over the chart's closes.
func (r *RSI) Compute(chart *candlestick.Chart) ([]float64, error) {
	closes := chart.Close()
	if len(closes) < r.period+1 {
		return nil, fmt.Errorf("not enough data points for RSI: need %d, have %d", r.period+1, len(closes))
	}

	values := make([]float64, len(closes))
	for i := range values {
		values[i] = math.NaN()
	}

	var avgGain, avgLoss float64

	for i := 1; i <= r.period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	values[r.period] = rsiValue(avgGain, avgLoss)

	for i := r.period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]

		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		values[i] = rsiValue(avgGain, avgLoss)
	}

	return values, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
