package events

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/trade"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
)

// fakeWorker is a minimal Worker with a mutable balance and fixed limits.
type fakeWorker struct {
	freeBalance float64
	commission  float64
	assumeZero  float64
	maxTrades   int
	trades      *trade.TradeHeap
	sym         symbol.Symbol
	strategyID  string
}

func newFakeWorker(balance float64, maxTrades int) *fakeWorker {
	return &fakeWorker{
		freeBalance: balance,
		assumeZero:  utils.DefaultAssumeZero,
		maxTrades:   maxTrades,
		trades:      trade.NewTradeHeap(),
		sym:         symbol.MustNew("BTC/USDT"),
		strategyID:  "strategy-1",
	}
}

func (w *fakeWorker) FreeBalance() float64         { return w.freeBalance }
func (w *fakeWorker) Debit(amount float64)         { w.freeBalance -= amount }
func (w *fakeWorker) Credit(amount float64)        { w.freeBalance += amount }
func (w *fakeWorker) Commission() float64          { return w.commission }
func (w *fakeWorker) AssumeZero() float64          { return w.assumeZero }
func (w *fakeWorker) MaxTrades() int               { return w.maxTrades }
func (w *fakeWorker) OpenedTrades() int            { return w.trades.Active().Len() }
func (w *fakeWorker) CurrentSymbol() symbol.Symbol { return w.sym }
func (w *fakeWorker) CurrentStrategyID() string    { return w.strategyID }

func newLongTrade(s *suite.Suite) *trade.Trade {
	entries := trade.NewLevelHeap(trade.NewSimpleEntry(100, 1.0))
	breakouts := trade.NewLevelHeap(trade.NewTakeProfit(120, 1.0))

	t, err := trade.New(trade.SideLong, entries, breakouts)
	s.Require().NoError(err)

	return t
}

type EventTestSuite struct {
	suite.Suite

	worker *fakeWorker
}

func TestEventSuite(t *testing.T) {
	suite.Run(t, new(EventTestSuite))
}

func (suite *EventTestSuite) SetupTest() {
	suite.worker = newFakeWorker(100, 1)
}

func (suite *EventTestSuite) TestOpenTradeReservesBalance() {
	t := newLongTrade(&suite.Suite)

	event := NewOpenTrade(t)
	event.SetWorker(suite.worker)

	suite.NoError(event.HandleTrades(suite.worker.trades))

	suite.Equal(1, suite.worker.trades.Len())
	suite.InDelta(100.0, t.PotentialVolume(), 1e-9)
	suite.InDelta(0.0, suite.worker.FreeBalance(), 1e-9)
}

func (suite *EventTestSuite) TestOpenTradeStampsContext() {
	t := newLongTrade(&suite.Suite)

	event := NewOpenTrade(t)
	event.SetWorker(suite.worker)

	suite.Equal(suite.worker.sym, t.Symbol())
	suite.Equal("strategy-1", t.StrategyID())
}

func (suite *EventTestSuite) TestOpenTradeRespectsMaxTrades() {
	first := newLongTrade(&suite.Suite)
	second := newLongTrade(&suite.Suite)

	open := NewOpenTrade(first)
	open.SetWorker(suite.worker)
	suite.NoError(open.HandleTrades(suite.worker.trades))

	open = NewOpenTrade(second)
	open.SetWorker(suite.worker)
	suite.NoError(open.HandleTrades(suite.worker.trades))

	// The cap is one: the second trade is dropped, not queued.
	suite.Equal(1, suite.worker.trades.Len())
	suite.False(second.HasPotentialVolume())
}

func (suite *EventTestSuite) TestOpenTradeAppliesWorkerEpsilon() {
	suite.worker.assumeZero = 150

	t := newLongTrade(&suite.Suite)

	event := NewOpenTrade(t)
	event.SetWorker(suite.worker)
	suite.NoError(event.HandleTrades(suite.worker.trades))

	suite.worker.trades.UpdateAll(candlestick.New(100, 101, 99, 100))
	suite.worker.trades.UpdateAll(candlestick.New(100, 111, 99, 110))

	// The filled 100 sits below the worker's epsilon, so the position
	// counts as empty and revalues to zero profit.
	suite.InDelta(0.0, t.Profit(), 1e-9)
	suite.Equal(trade.StatusClosed, t.Status())
}

func (suite *EventTestSuite) TestCommissionDebitedAtBreakout() {
	suite.worker.commission = 0.01

	t := newLongTrade(&suite.Suite)

	event := NewOpenTrade(t)
	event.SetWorker(suite.worker)
	suite.NoError(event.HandleTrades(suite.worker.trades))

	balanceAfterOpen := suite.worker.FreeBalance()

	// The entry crosses on the first update and fills the full 100.
	suite.worker.trades.UpdateAll(candlestick.New(100, 101, 99, 100))

	suite.InDelta(balanceAfterOpen-100*0.01, suite.worker.FreeBalance(), 1e-9)
}

func (suite *EventTestSuite) TestCloseTradeCreditsBalance() {
	t := newLongTrade(&suite.Suite)

	open := NewOpenTrade(t)
	open.SetWorker(suite.worker)
	suite.NoError(open.HandleTrades(suite.worker.trades))

	suite.worker.trades.UpdateAll(candlestick.New(100, 101, 99, 100))
	suite.worker.trades.UpdateAll(candlestick.New(100, 111, 99, 110))

	closeEvent := NewCloseTrade(t)
	closeEvent.SetWorker(suite.worker)
	suite.NoError(closeEvent.HandleTrades(suite.worker.trades))

	// Reserved 100 plus 10% profit comes back.
	suite.InDelta(110.0, suite.worker.FreeBalance(), 1e-9)
	suite.Equal(trade.StatusClosed, t.Status())
	suite.True(t.Released())
}

func (suite *EventTestSuite) TestCloseTradeCreditsOnlyOnce() {
	t := newLongTrade(&suite.Suite)

	open := NewOpenTrade(t)
	open.SetWorker(suite.worker)
	suite.NoError(open.HandleTrades(suite.worker.trades))

	suite.worker.trades.UpdateAll(candlestick.New(100, 101, 99, 100))

	closeEvent := NewCloseTrade(t)
	closeEvent.SetWorker(suite.worker)
	suite.NoError(closeEvent.HandleTrades(suite.worker.trades))

	balance := suite.worker.FreeBalance()

	closeEvent = NewCloseTrade(t)
	closeEvent.SetWorker(suite.worker)
	suite.NoError(closeEvent.HandleTrades(suite.worker.trades))

	suite.InDelta(balance, suite.worker.FreeBalance(), 1e-9)
}

func (suite *EventTestSuite) TestCloseAllTrades() {
	suite.worker.maxTrades = 2

	first := newLongTrade(&suite.Suite)
	second := newLongTrade(&suite.Suite)

	for _, t := range []*trade.Trade{first, second} {
		open := NewOpenTrade(t)
		open.SetWorker(suite.worker)
		suite.Require().NoError(open.HandleTrades(suite.worker.trades))
	}

	closeAll := NewCloseAllTrades()
	closeAll.SetWorker(suite.worker)
	suite.NoError(closeAll.HandleTrades(suite.worker.trades))

	suite.Equal(trade.StatusClosed, first.Status())
	suite.Equal(trade.StatusClosed, second.Status())
	suite.InDelta(100.0, suite.worker.FreeBalance(), 1e-9)
}

func (suite *EventTestSuite) TestCloseStrategyTradesMatchesByID() {
	suite.worker.maxTrades = 2

	mine := newLongTrade(&suite.Suite)
	other := newLongTrade(&suite.Suite)

	open := NewOpenTrade(mine)
	open.SetWorker(suite.worker)
	suite.Require().NoError(open.HandleTrades(suite.worker.trades))

	suite.worker.strategyID = "strategy-2"

	open = NewOpenTrade(other)
	open.SetWorker(suite.worker)
	suite.Require().NoError(open.HandleTrades(suite.worker.trades))

	suite.worker.strategyID = "strategy-1"

	closeMine := NewCloseStrategyTrades()
	closeMine.SetWorker(suite.worker)
	suite.NoError(closeMine.HandleTrades(suite.worker.trades))

	suite.Equal(trade.StatusClosed, mine.Status())
	suite.NotEqual(trade.StatusClosed, other.Status())
}

type DistributorTestSuite struct {
	suite.Suite
}

func TestDistributorSuite(t *testing.T) {
	suite.Run(t, new(DistributorTestSuite))
}

func (suite *DistributorTestSuite) TestEqualWeightSizing() {
	worker := newFakeWorker(10, 3)

	// Two slots already taken: the remaining 10 goes to the last slot.
	for i := 0; i < 2; i++ {
		t := newLongTrade(&suite.Suite)
		t.SetPotentialVolume(12.5)
		worker.trades.Add(t)
		worker.trades.UpdateAll(candlestick.New(100, 101, 99, 100))
	}

	suite.Require().Equal(2, worker.OpenedTrades())

	target := newLongTrade(&suite.Suite)

	distributor := &DefaultDistributor{}
	distributor.SetWorker(worker)
	suite.NoError(distributor.SetTradeVolume(target))

	suite.InDelta(10.0, target.PotentialVolume(), 1e-9)
}

func (suite *DistributorTestSuite) TestDoesNotResize() {
	worker := newFakeWorker(100, 1)

	target := newLongTrade(&suite.Suite)
	target.SetPotentialVolume(25)

	distributor := &DefaultDistributor{}
	distributor.SetWorker(worker)
	suite.NoError(distributor.SetTradeVolume(target))

	suite.InDelta(25.0, target.PotentialVolume(), 1e-9)
}
