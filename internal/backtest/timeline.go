package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

// equityTimeFrame returns the coarsest timeframe among the charts. The equity
// curve is sampled once per bar of this timeframe so every chart contributes
// at most one new candle per step.
func equityTimeFrame(charts map[trading.Instrument]*candlestick.Chart) timeframe.TimeFrame {
	var coarsest timeframe.TimeFrame

	for instrument := range charts {
		if instrument.TimeFrame.Seconds() > coarsest.Seconds() {
			coarsest = instrument.TimeFrame
		}
	}

	return coarsest
}

// timelineBounds returns the earliest first timestamp and the latest last
// timestamp across all charts, optionally clipped by start and end.
func timelineBounds(
	charts map[trading.Instrument]*candlestick.Chart,
	start, end optional.Option[time.Time],
) (time.Time, time.Time, bool) {
	var (
		earliest time.Time
		latest   time.Time
		found    bool
	)

	for _, chart := range charts {
		first, ok := chart.FirstTimestamp()
		if !ok {
			continue
		}

		last, _ := chart.LastTimestamp()

		if !found || first.Before(earliest) {
			earliest = first
		}

		if !found || last.After(latest) {
			latest = last
		}

		found = true
	}

	if !found {
		return time.Time{}, time.Time{}, false
	}

	if clip, err := start.Take(); err == nil && clip.After(earliest) {
		earliest = clip
	}

	if clip, err := end.Take(); err == nil && clip.Before(latest) {
		latest = clip
	}

	if latest.Before(earliest) {
		return time.Time{}, time.Time{}, false
	}

	return earliest, latest, true
}

// timelineAxis builds the simulated timestamps: one per equity bar from start
// through end inclusive, each shifted forward by the adjustment fraction of
// the bar so the equity point lands after the candles that produced it.
func timelineAxis(start, end time.Time, tf timeframe.TimeFrame, adjustment float64) []time.Time {
	step := tf.Duration()
	if step <= 0 {
		return nil
	}

	offset := time.Duration(adjustment * float64(step))

	var axis []time.Time
	for t := start; !t.After(end); t = t.Add(step) {
		axis = append(axis, t.Add(offset))
	}

	return axis
}
