package candlestick

import (
	"fmt"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// LengthMismatchError is returned when the parallel series of a chart do not
// share the same length.
type LengthMismatchError struct {
	Lengths []int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("all chart series must be of the same length, received lengths: %v", e.Lengths)
}

// TimestampNotFoundError is returned when a chart is indexed by a timestamp
// that does not match any candle.
type TimestampNotFoundError struct {
	Timestamp time.Time
}

func (e *TimestampNotFoundError) Error() string {
	return fmt.Sprintf("no candle at timestamp %s", e.Timestamp)
}

// ChartData holds the parallel series a chart is built from. Volume and
// Timestamp are optional: a missing volume series defaults to 1.0 per bar
// and a missing timestamp series defaults to a synthetic backward-looking
// range ending now. A zero TimeFrame defaults to one day.
type ChartData struct {
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
	Timestamp []time.Time
	TimeFrame timeframe.TimeFrame
}

// Chart is an ordered sequence of synchronized OHLCV series with a parallel
// timestamp axis and a timeframe. It is read-only from the backtester's
// perspective except for Append.
type Chart struct {
	open      []float64
	high      []float64
	low       []float64
	close     []float64
	volume    []float64
	timestamp []time.Time
	tf        timeframe.TimeFrame
}

// NewChart validates the parallel series and builds a chart. Mismatched
// series lengths fail with a LengthMismatchError.
func NewChart(data ChartData) (*Chart, error) {
	if data.TimeFrame.IsZero() {
		data.TimeFrame = timeframe.Day1
	}

	n := len(data.Close)

	if data.Volume == nil {
		data.Volume = defaultVolume(n)
	}

	if data.Timestamp == nil {
		data.Timestamp = defaultTimestamp(n, data.TimeFrame)
	}

	lengths := []int{len(data.Open), len(data.High), len(data.Low), n, len(data.Volume), len(data.Timestamp)}
	for _, l := range lengths {
		if l != n {
			return nil, &LengthMismatchError{Lengths: lengths}
		}
	}

	return &Chart{
		open:      data.Open,
		high:      data.High,
		low:       data.Low,
		close:     data.Close,
		volume:    data.Volume,
		timestamp: data.Timestamp,
		tf:        data.TimeFrame,
	}, nil
}

// Empty creates a chart with no candles.
func Empty(tf timeframe.TimeFrame) *Chart {
	return &Chart{tf: tf}
}

func (c *Chart) Len() int {
	return len(c.close)
}

// TimeFrame returns the duration of one candle.
func (c *Chart) TimeFrame() timeframe.TimeFrame {
	return c.tf
}

// At returns the candle at integer position i.
func (c *Chart) At(i int) Candle {
	return NewAt(c.open[i], c.high[i], c.low[i], c.close[i], c.volume[i], c.timestamp[i])
}

// Last returns the most recent candle; ok is false for an empty chart.
func (c *Chart) Last() (Candle, bool) {
	if c.Len() == 0 {
		return Candle{}, false
	}

	return c.At(c.Len() - 1), true
}

// IndexOf resolves a timestamp to its integer position.
func (c *Chart) IndexOf(ts time.Time) (int, error) {
	for i, t := range c.timestamp {
		if t.Equal(ts) {
			return i, nil
		}
	}

	return 0, &TimestampNotFoundError{Timestamp: ts}
}

// AtTime returns the candle whose timestamp matches ts exactly.
func (c *Chart) AtTime(ts time.Time) (Candle, error) {
	i, err := c.IndexOf(ts)
	if err != nil {
		return Candle{}, err
	}

	return c.At(i), nil
}

// Slice returns the sub-chart [i, j). The underlying series are shared, not
// copied; treat sub-charts as read-only.
func (c *Chart) Slice(i, j int) *Chart {
	return &Chart{
		open:      c.open[i:j],
		high:      c.high[i:j],
		low:       c.low[i:j],
		close:     c.close[i:j],
		volume:    c.volume[i:j],
		timestamp: c.timestamp[i:j],
		tf:        c.tf,
	}
}

// Before returns the prefix of candles stamped strictly before t.
func (c *Chart) Before(t time.Time) *Chart {
	i := sort.Search(c.Len(), func(i int) bool {
		return !c.timestamp[i].Before(t)
	})

	return c.Slice(0, i)
}

// Between returns the sub-chart of candles stamped in [from, to).
func (c *Chart) Between(from, to time.Time) *Chart {
	i := sort.Search(c.Len(), func(i int) bool {
		return !c.timestamp[i].Before(from)
	})
	j := sort.Search(c.Len(), func(j int) bool {
		return !c.timestamp[j].Before(to)
	})

	if j < i {
		j = i
	}

	return c.Slice(i, j)
}

// Append adds one candle to the end of the chart.
func (c *Chart) Append(candle Candle) {
	c.open = append(c.open, candle.Open)
	c.high = append(c.high, candle.High)
	c.low = append(c.low, candle.Low)
	c.close = append(c.close, candle.Close)
	c.volume = append(c.volume, candle.Volume)
	c.timestamp = append(c.timestamp, candle.Timestamp)
}

// Candles materializes the chart as a candle slice, in time order.
func (c *Chart) Candles() []Candle {
	candles := make([]Candle, c.Len())
	for i := range candles {
		candles[i] = c.At(i)
	}

	return candles
}

func (c *Chart) Open() []float64         { return c.open }
func (c *Chart) High() []float64         { return c.high }
func (c *Chart) Low() []float64          { return c.low }
func (c *Chart) Close() []float64        { return c.close }
func (c *Chart) Volume() []float64       { return c.volume }
func (c *Chart) Timestamps() []time.Time { return c.timestamp }

// FirstTimestamp returns the timestamp of the oldest candle.
func (c *Chart) FirstTimestamp() (time.Time, bool) {
	if c.Len() == 0 {
		return time.Time{}, false
	}

	return c.timestamp[0], true
}

// LastTimestamp returns the timestamp of the newest candle.
func (c *Chart) LastTimestamp() (time.Time, bool) {
	if c.Len() == 0 {
		return time.Time{}, false
	}

	return c.timestamp[c.Len()-1], true
}

// Add returns the elementwise sum of both charts' OHLC series.
func (c *Chart) Add(other *Chart) (*Chart, error) {
	return c.binary(other, add, false)
}

// Sub returns the elementwise difference of both charts' OHLC series.
func (c *Chart) Sub(other *Chart) (*Chart, error) {
	return c.binary(other, sub, false)
}

// Mul returns the elementwise product of both charts' OHLC series.
func (c *Chart) Mul(other *Chart) (*Chart, error) {
	return c.binary(other, mul, false)
}

// Div divides elementwise by another chart, swapping the divisor's high and
// low series to bound the intra-candle price ratio (see Candle.Div).
func (c *Chart) Div(other *Chart) (*Chart, error) {
	return c.binary(other, div, true)
}

// Scale multiplies every OHLC value by factor.
func (c *Chart) Scale(factor float64) *Chart {
	scaled, _ := NewChart(ChartData{
		Open:      scaleSeries(c.open, factor),
		High:      scaleSeries(c.high, factor),
		Low:       scaleSeries(c.low, factor),
		Close:     scaleSeries(c.close, factor),
		Volume:    c.volume,
		Timestamp: c.timestamp,
		TimeFrame: c.tf,
	})

	return scaled
}

// Equal reports whether both charts hold identical series and timestamps.
func (c *Chart) Equal(other *Chart) bool {
	if c.Len() != other.Len() {
		return false
	}

	for i := range c.close {
		if !c.At(i).Equal(other.At(i)) || c.volume[i] != other.volume[i] || !c.timestamp[i].Equal(other.timestamp[i]) {
			return false
		}
	}

	return true
}

func (c *Chart) binary(other *Chart, op func(a, b float64) float64, swapHighLow bool) (*Chart, error) {
	if c.Len() != other.Len() {
		return nil, &LengthMismatchError{Lengths: []int{c.Len(), other.Len()}}
	}

	otherHigh, otherLow := other.high, other.low
	if swapHighLow {
		otherHigh, otherLow = other.low, other.high
	}

	return NewChart(ChartData{
		Open:      combineSeries(c.open, other.open, op),
		High:      combineSeries(c.high, otherHigh, op),
		Low:       combineSeries(c.low, otherLow, op),
		Close:     combineSeries(c.close, other.close, op),
		Volume:    c.volume,
		Timestamp: c.timestamp,
		TimeFrame: c.tf,
	})
}

func combineSeries(a, b []float64, op func(x, y float64) float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = op(a[i], b[i])
	}

	return out
}

func scaleSeries(a []float64, factor float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * factor
	}

	return out
}

func defaultVolume(n int) []float64 {
	volume := make([]float64, n)
	for i := range volume {
		volume[i] = 1.0
	}

	return volume
}

func defaultTimestamp(n int, tf timeframe.TimeFrame) []time.Time {
	end := time.Now().UTC().Truncate(tf.Duration())
	start := end.Add(-tf.Duration() * time.Duration(n-1))

	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.Add(tf.Duration() * time.Duration(i))
	}

	return ts
}
