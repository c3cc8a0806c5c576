package timeframe

import (
	"fmt"
	"time"
)

const secondsInYear = 365 * 24 * 60 * 60

// UnknownTimeFrameError is returned by Parse for names that match no stock
// timeframe.
type UnknownTimeFrameError struct {
	Name string
}

func (e *UnknownTimeFrameError) Error() string {
	return fmt.Sprintf("unknown timeframe: %q", e.Name)
}

// TimeFrame is the duration of a single candle. The zero value is not a valid
// timeframe; use the From* constructors or the package defaults.
type TimeFrame struct {
	name    string
	seconds float64
}

// New creates a timeframe with an explicit display name.
func New(name string, seconds float64) TimeFrame {
	return TimeFrame{
		name:    name,
		seconds: seconds,
	}
}

func (t TimeFrame) String() string {
	return t.name
}

// Seconds returns the candle duration in seconds.
func (t TimeFrame) Seconds() float64 {
	return t.seconds
}

// Duration returns the candle duration as a time.Duration.
func (t TimeFrame) Duration() time.Duration {
	return time.Duration(t.seconds * float64(time.Second))
}

// CandlesInYear returns how many candles of this timeframe fit in one year.
func (t TimeFrame) CandlesInYear() float64 {
	return secondsInYear / t.seconds
}

// IsZero reports whether the timeframe is the (invalid) zero value.
func (t TimeFrame) IsZero() bool {
	return t.seconds == 0
}

// Equal compares timeframes by duration only; display names may differ.
func (t TimeFrame) Equal(other TimeFrame) bool {
	return t.seconds == other.seconds
}

// Mul returns a timeframe n times longer than t.
func (t TimeFrame) Mul(n float64) TimeFrame {
	return TimeFrame{
		name:    fmt.Sprintf("%vx%s", n, t.name),
		seconds: t.seconds * n,
	}
}

// Div returns a timeframe n times shorter than t.
func (t TimeFrame) Div(n float64) TimeFrame {
	return TimeFrame{
		name:    fmt.Sprintf("%s/%v", t.name, n),
		seconds: t.seconds / n,
	}
}
