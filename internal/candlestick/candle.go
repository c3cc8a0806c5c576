// Package candlestick provides the immutable OHLCV price bar and the
// time-indexed chart that the backtest loop replays.
package candlestick

import "time"

// Candle is a single OHLCV price bar. Candles are immutable; arithmetic
// methods return new candles with volume and timestamp carried from the
// receiver.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// New creates a candle without volume or timestamp context.
func New(open, high, low, close float64) Candle {
	return Candle{
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1.0,
	}
}

// NewAt creates a candle stamped with its bar open time.
func NewAt(open, high, low, close, volume float64, ts time.Time) Candle {
	return Candle{
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		Timestamp: ts,
	}
}

// Contains reports whether price lies within the candle's [low, high] range.
func (c Candle) Contains(price float64) bool {
	return c.Low <= price && price <= c.High
}

// Add returns the elementwise sum of both candles' OHLC values.
func (c Candle) Add(other Candle) Candle {
	return c.apply(other.Open, other.High, other.Low, other.Close, add)
}

// Sub returns the elementwise difference of both candles' OHLC values.
func (c Candle) Sub(other Candle) Candle {
	return c.apply(other.Open, other.High, other.Low, other.Close, sub)
}

// Mul returns the elementwise product of both candles' OHLC values.
func (c Candle) Mul(other Candle) Candle {
	return c.apply(other.Open, other.High, other.Low, other.Close, mul)
}

// Div divides by another candle. The divisor's high and low are swapped so
// the result bounds the intra-candle price ratio: the new high is this high
// over the other low (maximum possible ratio), the new low is this low over
// the other high (minimum possible ratio).
func (c Candle) Div(other Candle) Candle {
	return c.apply(other.Open, other.Low, other.High, other.Close, div)
}

// Shift adds delta to every OHLC value.
func (c Candle) Shift(delta float64) Candle {
	return c.apply(delta, delta, delta, delta, add)
}

// Scale multiplies every OHLC value by factor.
func (c Candle) Scale(factor float64) Candle {
	return c.apply(factor, factor, factor, factor, mul)
}

// Equal compares OHLC values only; volume and timestamp are context, not
// price data.
func (c Candle) Equal(other Candle) bool {
	return c.Open == other.Open &&
		c.High == other.High &&
		c.Low == other.Low &&
		c.Close == other.Close
}

func (c Candle) apply(open, high, low, close float64, op func(a, b float64) float64) Candle {
	return Candle{
		Open:      op(c.Open, open),
		High:      op(c.High, high),
		Low:       op(c.Low, low),
		Close:     op(c.Close, close),
		Volume:    c.Volume,
		Timestamp: c.Timestamp,
	}
}

func add(a, b float64) float64 { return a + b }
func sub(a, b float64) float64 { return a - b }
func mul(a, b float64) float64 { return a * b }
func div(a, b float64) float64 { return a / b }
