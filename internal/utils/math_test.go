package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MathTestSuite struct {
	suite.Suite
}

func TestMathSuite(t *testing.T) {
	suite.Run(t, new(MathTestSuite))
}

func (suite *MathTestSuite) TestIsZero() {
	suite.True(IsZero(0, DefaultAssumeZero))
	suite.True(IsZero(1e-12, DefaultAssumeZero))
	suite.True(IsZero(-1e-12, DefaultAssumeZero))
	suite.False(IsZero(1e-9, DefaultAssumeZero))
	suite.False(IsZero(0.5, DefaultAssumeZero))
}

func (suite *MathTestSuite) TestIsEqual() {
	suite.True(IsEqual(1.0, 1.0, DefaultAssumeZero))
	suite.True(IsEqual(1.0, 1.0+1e-12, DefaultAssumeZero))
	suite.False(IsEqual(1.0, 1.1, DefaultAssumeZero))
}

func (suite *MathTestSuite) TestDivide() {
	suite.Equal(2.0, Divide(10, 5, DefaultAssumeZero))
	suite.Equal(-2.0, Divide(-10, 5, DefaultAssumeZero))
}

func (suite *MathTestSuite) TestDivideZeroByZero() {
	suite.Equal(1.0, Divide(0, 0, DefaultAssumeZero))
}

func (suite *MathTestSuite) TestDivideByZero() {
	suite.True(math.IsInf(Divide(3, 0, DefaultAssumeZero), 1))
	suite.True(math.IsInf(Divide(-3, 0, DefaultAssumeZero), -1))
}

func (suite *MathTestSuite) TestMultiplyDiff() {
	suite.InDelta(0.95, MultiplyDiff(1.05, -1), 1e-9)
	suite.InDelta(1.05, MultiplyDiff(1.05, 1), 1e-9)
	suite.InDelta(1.10, MultiplyDiff(1.05, 2), 1e-9)
}
