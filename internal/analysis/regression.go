// Package analysis scores equity curves: regression models plus the standard
// performance metrics built on them.
package analysis

import (
	"errors"
	"math"
)

// ErrNotEnoughData is returned when a model or metric needs more equity
// points than it was given.
var ErrNotEnoughData = errors.New("not enough data points")

// RegressionModel fits a curve to a value series.
type RegressionModel interface {
	// Fit estimates the model from the series.
	Fit(values []float64) error
	// Curve returns the fitted values, one per input point.
	Curve() []float64
}

// LinearRegression fits an ordinary least squares line over the integer index
// axis.
type LinearRegression struct {
	curve []float64
}

// NewLinearRegression creates an unfitted linear model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit estimates slope and intercept by least squares.
func (r *LinearRegression) Fit(values []float64) error {
	n := len(values)
	if n < 2 {
		return ErrNotEnoughData
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	count := float64(n)
	denominator := count*sumXX - sumX*sumX

	if denominator == 0 {
		return ErrNotEnoughData
	}

	slope := (count*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / count

	curve := make([]float64, n)
	for i := range curve {
		curve[i] = slope*float64(i) + intercept
	}

	r.curve = curve

	return nil
}

// Curve returns the fitted line.
func (r *LinearRegression) Curve() []float64 {
	return r.curve
}

// ExponentialRegression fits a linear model in log space and exponentiates
// the result, giving a constant-growth-rate curve. Values must be positive.
type ExponentialRegression struct {
	curve []float64
}

// NewExponentialRegression creates an unfitted exponential model.
func NewExponentialRegression() *ExponentialRegression {
	return &ExponentialRegression{}
}

// Fit estimates the exponential curve through the log values.
func (r *ExponentialRegression) Fit(values []float64) error {
	logs := make([]float64, len(values))
	for i, v := range values {
		logs[i] = math.Log(v)
	}

	linear := NewLinearRegression()
	if err := linear.Fit(logs); err != nil {
		return err
	}

	fitted := linear.Curve()

	curve := make([]float64, len(fitted))
	for i, v := range fitted {
		curve[i] = math.Exp(v)
	}

	r.curve = curve

	return nil
}

// Curve returns the fitted exponential curve.
func (r *ExponentialRegression) Curve() []float64 {
	return r.curve
}
