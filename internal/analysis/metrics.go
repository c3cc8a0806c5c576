package analysis

import (
	"math"

	"github.com/rxtech-lab/argo-backtest/internal/equity"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
)

// Metric scores an equity curve with a single number. Positive reports the
// comparison direction: whether a higher value is better. Optimizers rank
// candidate systems by metric value in that direction.
type Metric interface {
	// Calculate computes the value from the equity curve.
	Calculate(eq *equity.Equity) error
	// Value returns the last calculated score.
	Value() float64
	// Positive reports whether a higher value is better.
	Positive() bool
}

// Evaluate runs the metric against the curve and returns its value.
func Evaluate(metric Metric, eq *equity.Equity) (float64, error) {
	if err := metric.Calculate(eq); err != nil {
		return 0, err
	}

	return metric.Value(), nil
}

// YearProfit is the annualized growth multiplier implied by an exponential
// fit of the equity curve. A value of 1.5 means the fitted curve compounds
// 50% per year.
type YearProfit struct {
	value float64
}

func NewYearProfit() *YearProfit {
	return &YearProfit{}
}

func (m *YearProfit) Calculate(eq *equity.Equity) error {
	model := NewExponentialRegression()
	if err := model.Fit(eq.Values()); err != nil {
		return err
	}

	curve := model.Curve()

	profitPerCandle := curve[1] / curve[0]
	candlesPerYear := eq.TimeFrame().CandlesInYear()

	m.value = math.Pow(profitPerCandle, candlesPerYear)

	return nil
}

func (m *YearProfit) Value() float64 {
	return m.value
}

func (m *YearProfit) Positive() bool {
	return true
}

// MaxDrawDown is the largest fractional drop from a running equity peak.
type MaxDrawDown struct {
	value float64
}

func NewMaxDrawDown() *MaxDrawDown {
	return &MaxDrawDown{}
}

func (m *MaxDrawDown) Calculate(eq *equity.Equity) error {
	values := eq.Values()
	if len(values) == 0 {
		return ErrNotEnoughData
	}

	peak := values[0]

	var maxDrawDown float64

	for _, value := range values {
		if value > peak {
			peak = value
		}

		drawDown := 1 - value/peak
		if drawDown > maxDrawDown {
			maxDrawDown = drawDown
		}
	}

	m.value = maxDrawDown

	return nil
}

func (m *MaxDrawDown) Value() float64 {
	return m.value
}

func (m *MaxDrawDown) Positive() bool {
	return false
}

// CalmarRatio is the annualized profit divided by the maximum drawdown. A
// zero drawdown yields the infinity sentinel so flawless curves still rank
// above everything else.
type CalmarRatio struct {
	value float64
}

func NewCalmarRatio() *CalmarRatio {
	return &CalmarRatio{}
}

func (m *CalmarRatio) Calculate(eq *equity.Equity) error {
	profit, err := Evaluate(NewYearProfit(), eq)
	if err != nil {
		return err
	}

	drawDown, err := Evaluate(NewMaxDrawDown(), eq)
	if err != nil {
		return err
	}

	m.value = utils.Divide(profit, drawDown, utils.DefaultAssumeZero)

	return nil
}

func (m *CalmarRatio) Value() float64 {
	return m.value
}

func (m *CalmarRatio) Positive() bool {
	return true
}

// SharpeRatio is the annualized mean return over the risk-free rate, divided
// by the annualized standard deviation of returns.
type SharpeRatio struct {
	riskFree float64
	value    float64
}

func NewSharpeRatio(riskFree float64) *SharpeRatio {
	return &SharpeRatio{riskFree: riskFree}
}

func (m *SharpeRatio) Calculate(eq *equity.Equity) error {
	returns := eq.Change()
	if len(returns) == 0 {
		return ErrNotEnoughData
	}

	candles := eq.TimeFrame().CandlesInYear()

	profit := mean(returns)*candles - m.riskFree
	deviation := std(returns) * math.Sqrt(candles)

	m.value = utils.Divide(profit, deviation, utils.DefaultAssumeZero)

	return nil
}

func (m *SharpeRatio) Value() float64 {
	return m.value
}

func (m *SharpeRatio) Positive() bool {
	return true
}

// SortinoRatio is the Sharpe variant that penalizes only downside deviation:
// the denominator is the standard deviation of negative returns.
type SortinoRatio struct {
	riskFree float64
	value    float64
}

func NewSortinoRatio(riskFree float64) *SortinoRatio {
	return &SortinoRatio{riskFree: riskFree}
}

func (m *SortinoRatio) Calculate(eq *equity.Equity) error {
	returns := eq.Change()
	if len(returns) == 0 {
		return ErrNotEnoughData
	}

	var negative []float64

	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}

	candles := eq.TimeFrame().CandlesInYear()

	profit := mean(returns)*candles - m.riskFree
	deviation := std(negative) * math.Sqrt(candles)

	m.value = utils.Divide(profit, deviation, utils.DefaultAssumeZero)

	return nil
}

func (m *SortinoRatio) Value() float64 {
	return m.value
}

func (m *SortinoRatio) Positive() bool {
	return true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// std is the population standard deviation.
func std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	avg := mean(values)

	var sum float64
	for _, v := range values {
		sum += (v - avg) * (v - avg)
	}

	return math.Sqrt(sum / float64(len(values)))
}
