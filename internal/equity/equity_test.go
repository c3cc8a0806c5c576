package equity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

type EquityTestSuite struct {
	suite.Suite

	start time.Time
}

func TestEquitySuite(t *testing.T) {
	suite.Run(t, new(EquityTestSuite))
}

func (suite *EquityTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *EquityTestSuite) newEquity(values ...float64) *Equity {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = suite.start.Add(time.Duration(i) * 24 * time.Hour)
	}

	return New(values, timestamps, timeframe.Day1)
}

func (suite *EquityTestSuite) TestAppend() {
	eq := New(nil, nil, timeframe.Day1)

	eq.Append(100)
	eq.Append(105)

	suite.Equal(2, eq.Len())
	suite.Equal(105.0, eq.At(1))
}

func (suite *EquityTestSuite) TestAppendAt() {
	eq := New(nil, nil, timeframe.Day1)

	eq.AppendAt(100, suite.start)
	eq.AppendAt(105, suite.start.Add(24*time.Hour))

	suite.Equal(2, eq.Len())

	value, err := eq.AtTime(suite.start.Add(24 * time.Hour))
	suite.NoError(err)
	suite.Equal(105.0, value)
}

func (suite *EquityTestSuite) TestUpdate() {
	eq := suite.newEquity(100, 105)

	eq.Update(110)

	suite.Equal(2, eq.Len())
	suite.Equal(110.0, eq.At(1))
}

func (suite *EquityTestSuite) TestLast() {
	eq := suite.newEquity(100, 105, 103)

	last, ok := eq.Last()
	suite.True(ok)
	suite.Equal(103.0, last)

	_, ok = New(nil, nil, timeframe.Day1).Last()
	suite.False(ok)
}

func (suite *EquityTestSuite) TestAtTimeNotFound() {
	eq := suite.newEquity(100, 105)

	_, err := eq.AtTime(suite.start.Add(time.Hour))
	suite.Error(err)

	var notFoundErr *TimestampNotFoundError
	suite.ErrorAs(err, &notFoundErr)
}

func (suite *EquityTestSuite) TestDiff() {
	eq := suite.newEquity(100, 110, 105)

	suite.Equal([]float64{0, 10, -5}, eq.Diff())
}

func (suite *EquityTestSuite) TestChange() {
	eq := suite.newEquity(100, 110, 99)

	change := eq.Change()
	suite.Len(change, 3)
	suite.Zero(change[0])
	suite.InDelta(0.1, change[1], 1e-9)
	suite.InDelta(-0.1, change[2], 1e-9)
}

func (suite *EquityTestSuite) TestScalarArithmetic() {
	eq := suite.newEquity(100, 110)

	added := eq.AddScalar(10)
	suite.Equal([]float64{110, 120}, added.Values())

	scaled := eq.MulScalar(2)
	suite.Equal([]float64{200, 220}, scaled.Values())

	// The source is untouched.
	suite.Equal([]float64{100, 110}, eq.Values())
}

func (suite *EquityTestSuite) TestBinaryArithmetic() {
	a := suite.newEquity(100, 110)
	b := suite.newEquity(10, 10)

	sum, err := a.Add(b)
	suite.NoError(err)
	suite.Equal([]float64{110, 120}, sum.Values())

	diff, err := a.Sub(b)
	suite.NoError(err)
	suite.Equal([]float64{90, 100}, diff.Values())

	ratio, err := a.Div(b)
	suite.NoError(err)
	suite.Equal([]float64{10, 11}, ratio.Values())
}

func (suite *EquityTestSuite) TestBinaryLengthMismatch() {
	a := suite.newEquity(100, 110)
	b := suite.newEquity(100)

	_, err := a.Add(b)
	suite.Error(err)

	var mismatchErr *LengthMismatchError
	suite.ErrorAs(err, &mismatchErr)
}

func (suite *EquityTestSuite) TestEqual() {
	a := suite.newEquity(100, 110)
	b := suite.newEquity(100, 110)
	c := suite.newEquity(100, 111)

	suite.True(a.Equal(b))
	suite.False(a.Equal(c))
}
