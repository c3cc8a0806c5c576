package live

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/logger"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
)

type LogExecutorTestSuite struct {
	suite.Suite

	executor *LogExecutor
	trade    *trade.Trade
}

func TestLogExecutorSuite(t *testing.T) {
	suite.Run(t, new(LogExecutorTestSuite))
}

func (suite *LogExecutorTestSuite) SetupTest() {
	suite.executor = NewLogExecutor(logger.NewNopLogger())

	entries := trade.NewLevelHeap(trade.NewSimpleEntry(100, 1.0))

	t, err := trade.New(trade.SideLong, entries, nil, trade.WithPotentialVolume(50))
	suite.Require().NoError(err)

	t.SetSymbol(symbol.MustNew("BTC/USDT"))
	suite.trade = t
}

func (suite *LogExecutorTestSuite) TestSubmitTrade() {
	suite.NoError(suite.executor.SubmitTrade(context.Background(), suite.trade))
}

func (suite *LogExecutorTestSuite) TestCancelTrade() {
	suite.NoError(suite.executor.CancelTrade(context.Background(), suite.trade))
}

var _ Executor = (*LogExecutor)(nil)
