package timeframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TimeFrameTestSuite struct {
	suite.Suite
}

func TestTimeFrameSuite(t *testing.T) {
	suite.Run(t, new(TimeFrameTestSuite))
}

func (suite *TimeFrameTestSuite) TestSeconds() {
	suite.Equal(60.0, Minute1.Seconds())
	suite.Equal(3600.0, Hour1.Seconds())
	suite.Equal(86400.0, Day1.Seconds())
	suite.Equal(7*86400.0, Week1.Seconds())
}

func (suite *TimeFrameTestSuite) TestDuration() {
	suite.Equal(time.Hour, Hour1.Duration())
	suite.Equal(24*time.Hour, Day1.Duration())
}

func (suite *TimeFrameTestSuite) TestMul() {
	scaled := Hour1.Mul(5)

	suite.Equal(Hour1.Seconds()*5, scaled.Seconds())
	suite.Equal(Hour1.CandlesInYear()/5, scaled.CandlesInYear())
}

func (suite *TimeFrameTestSuite) TestDiv() {
	halved := Hour2.Div(2)
	suite.True(halved.Equal(Hour1))
}

func (suite *TimeFrameTestSuite) TestFromDaysEqualsFromWeeks() {
	suite.True(FromDays(7).Equal(FromWeeks(1)))
	suite.True(FromMinutes(60).Equal(FromHours(1)))
	suite.False(FromDays(1).Equal(FromDays(2)))
}

func (suite *TimeFrameTestSuite) TestCandlesInYear() {
	suite.InDelta(365.0, Day1.CandlesInYear(), 1e-9)
	suite.InDelta(365.0*24, Hour1.CandlesInYear(), 1e-9)
}

func (suite *TimeFrameTestSuite) TestIsZero() {
	suite.True(TimeFrame{}.IsZero())
	suite.False(Day1.IsZero())
}

func (suite *TimeFrameTestSuite) TestParse() {
	tf, err := Parse("1h")
	suite.NoError(err)
	suite.True(tf.Equal(Hour1))

	tf, err = Parse("1d")
	suite.NoError(err)
	suite.True(tf.Equal(Day1))
}

func (suite *TimeFrameTestSuite) TestParseUnknown() {
	_, err := Parse("2y")
	suite.Error(err)

	var unknownErr *UnknownTimeFrameError
	suite.ErrorAs(err, &unknownErr)
	suite.Equal("2y", unknownErr.Name)
}

func (suite *TimeFrameTestSuite) TestDefaultsAscending() {
	defaults := Defaults()
	suite.NotEmpty(defaults)

	for i := 1; i < len(defaults); i++ {
		suite.Less(defaults[i-1].Seconds(), defaults[i].Seconds())
	}
}
