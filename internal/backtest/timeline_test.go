package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
	"github.com/rxtech-lab/argo-backtest/internal/trading"
)

type TimelineTestSuite struct {
	suite.Suite

	start time.Time
}

func TestTimelineSuite(t *testing.T) {
	suite.Run(t, new(TimelineTestSuite))
}

func (suite *TimelineTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *TimelineTestSuite) newChart(tf timeframe.TimeFrame, start time.Time, n int) *candlestick.Chart {
	closes := make([]float64, n)
	timestamps := make([]time.Time, n)

	for i := range closes {
		closes[i] = 100
		timestamps[i] = start.Add(time.Duration(i) * tf.Duration())
	}

	chart, err := candlestick.NewChart(candlestick.ChartData{
		Open:      closes,
		High:      closes,
		Low:       closes,
		Close:     closes,
		Timestamp: timestamps,
		TimeFrame: tf,
	})
	suite.Require().NoError(err)

	return chart
}

func (suite *TimelineTestSuite) TestEquityTimeFramePicksCoarsest() {
	charts := map[trading.Instrument]*candlestick.Chart{
		trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Hour1): suite.newChart(timeframe.Hour1, suite.start, 3),
		trading.NewInstrument(symbol.MustNew("ETH/USDT"), timeframe.Day1):  suite.newChart(timeframe.Day1, suite.start, 3),
	}

	suite.True(equityTimeFrame(charts).Equal(timeframe.Day1))
}

func (suite *TimelineTestSuite) TestEquityTimeFrameEmpty() {
	suite.True(equityTimeFrame(nil).IsZero())
}

func (suite *TimelineTestSuite) TestTimelineBoundsUnion() {
	charts := map[trading.Instrument]*candlestick.Chart{
		trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Day1): suite.newChart(timeframe.Day1, suite.start, 3),
		trading.NewInstrument(symbol.MustNew("ETH/USDT"), timeframe.Day1): suite.newChart(timeframe.Day1, suite.start.Add(24*time.Hour), 5),
	}

	start, end, ok := timelineBounds(charts, optional.None[time.Time](), optional.None[time.Time]())
	suite.True(ok)
	suite.True(start.Equal(suite.start))
	suite.True(end.Equal(suite.start.Add(5 * 24 * time.Hour)))
}

func (suite *TimelineTestSuite) TestTimelineBoundsClipping() {
	charts := map[trading.Instrument]*candlestick.Chart{
		trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Day1): suite.newChart(timeframe.Day1, suite.start, 10),
	}

	clipStart := suite.start.Add(2 * 24 * time.Hour)
	clipEnd := suite.start.Add(5 * 24 * time.Hour)

	start, end, ok := timelineBounds(charts, optional.Some(clipStart), optional.Some(clipEnd))
	suite.True(ok)
	suite.True(start.Equal(clipStart))
	suite.True(end.Equal(clipEnd))
}

func (suite *TimelineTestSuite) TestTimelineBoundsInvertedClip() {
	charts := map[trading.Instrument]*candlestick.Chart{
		trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Day1): suite.newChart(timeframe.Day1, suite.start, 10),
	}

	_, _, ok := timelineBounds(charts,
		optional.Some(suite.start.Add(8*24*time.Hour)),
		optional.Some(suite.start.Add(2*24*time.Hour)),
	)
	suite.False(ok)
}

func (suite *TimelineTestSuite) TestTimelineBoundsNoData() {
	charts := map[trading.Instrument]*candlestick.Chart{
		trading.NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Day1): candlestick.Empty(timeframe.Day1),
	}

	_, _, ok := timelineBounds(charts, optional.None[time.Time](), optional.None[time.Time]())
	suite.False(ok)
}

func (suite *TimelineTestSuite) TestTimelineAxis() {
	end := suite.start.Add(4 * 24 * time.Hour)

	axis := timelineAxis(suite.start, end, timeframe.Day1, 0.5)
	suite.Require().Len(axis, 5)

	// Every point is shifted by half a bar past its bar open.
	suite.True(axis[0].Equal(suite.start.Add(12 * time.Hour)))
	suite.True(axis[4].Equal(end.Add(12 * time.Hour)))
}

func (suite *TimelineTestSuite) TestTimelineAxisZeroAdjustment() {
	axis := timelineAxis(suite.start, suite.start, timeframe.Day1, 0)
	suite.Require().Len(axis, 1)
	suite.True(axis[0].Equal(suite.start))
}
