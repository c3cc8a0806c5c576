// Package equity holds the account value time series produced by a backtest
// run, sampled once per timestep.
package equity

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// LengthMismatchError is returned by elementwise operations on equities of
// different lengths.
type LengthMismatchError struct {
	Lengths []int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("equities must be of the same length, received lengths: %v", e.Lengths)
}

// TimestampNotFoundError is returned when an equity is indexed by a
// timestamp that does not match any point.
type TimestampNotFoundError struct {
	Timestamp time.Time
}

func (e *TimestampNotFoundError) Error() string {
	return fmt.Sprintf("no equity point at timestamp %s", e.Timestamp)
}

// Equity is an ordered series of account values plus a parallel timestamp
// axis and the reporting timeframe.
type Equity struct {
	values     []float64
	timestamps []time.Time
	tf         timeframe.TimeFrame
}

// New creates an equity series. timestamps may be nil when only the values
// matter (e.g. metric unit tests).
func New(values []float64, timestamps []time.Time, tf timeframe.TimeFrame) *Equity {
	if tf.IsZero() {
		tf = timeframe.Day1
	}

	return &Equity{
		values:     values,
		timestamps: timestamps,
		tf:         tf,
	}
}

// Append adds one equity point at the end of the series.
func (e *Equity) Append(value float64) {
	e.values = append(e.values, value)
}

// AppendAt adds one equity point together with its timestamp.
func (e *Equity) AppendAt(value float64, ts time.Time) {
	e.values = append(e.values, value)
	e.timestamps = append(e.timestamps, ts)
}

// Update replaces the last equity point, leaving prior points untouched.
// Updating an empty series is a no-op.
func (e *Equity) Update(value float64) {
	if len(e.values) == 0 {
		return
	}

	e.values[len(e.values)-1] = value
}

func (e *Equity) Len() int {
	return len(e.values)
}

// At returns the equity value at integer position i.
func (e *Equity) At(i int) float64 {
	return e.values[i]
}

// AtTime returns the equity value stamped with ts.
func (e *Equity) AtTime(ts time.Time) (float64, error) {
	for i, t := range e.timestamps {
		if t.Equal(ts) {
			return e.values[i], nil
		}
	}

	return 0, &TimestampNotFoundError{Timestamp: ts}
}

// Last returns the most recent value; ok is false for an empty series.
func (e *Equity) Last() (float64, bool) {
	if len(e.values) == 0 {
		return 0, false
	}

	return e.values[len(e.values)-1], true
}

// Values returns a copy of the underlying series.
func (e *Equity) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)

	return out
}

// Timestamps returns the timestamp axis.
func (e *Equity) Timestamps() []time.Time {
	return e.timestamps
}

// TimeFrame returns the reporting granularity of the series.
func (e *Equity) TimeFrame() timeframe.TimeFrame {
	return e.tf
}

// Diff returns the absolute change between consecutive points; the first
// element is zero.
func (e *Equity) Diff() []float64 {
	diff := make([]float64, len(e.values))
	for i := 1; i < len(e.values); i++ {
		diff[i] = e.values[i] - e.values[i-1]
	}

	return diff
}

// Change returns the relative change between consecutive points; the first
// element is zero.
func (e *Equity) Change() []float64 {
	change := make([]float64, len(e.values))
	for i := 1; i < len(e.values); i++ {
		change[i] = e.values[i]/e.values[i-1] - 1
	}

	return change
}

// AddScalar returns a new series with x added to every point.
func (e *Equity) AddScalar(x float64) *Equity {
	return e.mapValues(func(v float64) float64 { return v + x })
}

// MulScalar returns a new series with every point multiplied by x.
func (e *Equity) MulScalar(x float64) *Equity {
	return e.mapValues(func(v float64) float64 { return v * x })
}

// Add returns the elementwise sum of two same-length series.
func (e *Equity) Add(other *Equity) (*Equity, error) {
	return e.binary(other, func(a, b float64) float64 { return a + b })
}

// Sub returns the elementwise difference of two same-length series.
func (e *Equity) Sub(other *Equity) (*Equity, error) {
	return e.binary(other, func(a, b float64) float64 { return a - b })
}

// Div returns the elementwise ratio of two same-length series.
func (e *Equity) Div(other *Equity) (*Equity, error) {
	return e.binary(other, func(a, b float64) float64 { return a / b })
}

// Equal reports whether both series hold the same values at the same
// timeframe.
func (e *Equity) Equal(other *Equity) bool {
	if len(e.values) != len(other.values) || !e.tf.Equal(other.tf) {
		return false
	}

	for i := range e.values {
		if e.values[i] != other.values[i] {
			return false
		}
	}

	return true
}

func (e *Equity) mapValues(fn func(v float64) float64) *Equity {
	values := make([]float64, len(e.values))
	for i, v := range e.values {
		values[i] = fn(v)
	}

	return New(values, e.timestamps, e.tf)
}

func (e *Equity) binary(other *Equity, op func(a, b float64) float64) (*Equity, error) {
	if len(e.values) != len(other.values) {
		return nil, &LengthMismatchError{Lengths: []int{len(e.values), len(other.values)}}
	}

	values := make([]float64, len(e.values))
	for i := range e.values {
		values[i] = op(e.values[i], other.values[i])
	}

	return New(values, e.timestamps, e.tf), nil
}
