package trading

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/events"
	"github.com/rxtech-lab/argo-backtest/internal/strategy"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

type noopStrategy struct{}

func (noopStrategy) Run(*candlestick.Chart) error              { return nil }
func (noopStrategy) FetchEvents() []events.Event               { return nil }
func (noopStrategy) Parameters() map[string]strategy.Parameter { return nil }

type TradingSystemTestSuite struct {
	suite.Suite

	btc Instrument
	eth Instrument
}

func TestTradingSystemSuite(t *testing.T) {
	suite.Run(t, new(TradingSystemTestSuite))
}

func (suite *TradingSystemTestSuite) SetupTest() {
	suite.btc = NewInstrument(symbol.MustNew("BTC/USDT"), timeframe.Hour1)
	suite.eth = NewInstrument(symbol.MustNew("ETH/USDT"), timeframe.Hour1)
}

func (suite *TradingSystemTestSuite) TestAddAssignsDistinctIDs() {
	system := NewTradingSystem(3)

	first := system.Add(noopStrategy{}, suite.btc)
	second := system.Add(noopStrategy{}, suite.eth)

	suite.NotEmpty(first)
	suite.NotEmpty(second)
	suite.NotEqual(first, second)
	suite.Equal(3, system.MaxTrades())
}

func (suite *TradingSystemTestSuite) TestItemsKeepInsertionOrder() {
	system := NewTradingSystem(1)

	first := system.Add(noopStrategy{}, suite.btc, suite.eth)
	second := system.Add(noopStrategy{}, suite.btc)

	items := system.Items()
	suite.Require().Len(items, 3)

	suite.Equal(first, items[0].StrategyID)
	suite.Equal(suite.btc, items[0].Instrument)
	suite.Equal(first, items[1].StrategyID)
	suite.Equal(suite.eth, items[1].Instrument)
	suite.Equal(second, items[2].StrategyID)
	suite.Equal(suite.btc, items[2].Instrument)
}

func (suite *TradingSystemTestSuite) TestInstrumentsDeduplicates() {
	system := NewTradingSystem(1)
	system.Add(noopStrategy{}, suite.btc, suite.eth)
	system.Add(noopStrategy{}, suite.btc)

	suite.Equal([]Instrument{suite.btc, suite.eth}, system.Instruments())
}

func (suite *TradingSystemTestSuite) TestEntriesReturnsCopy() {
	system := NewTradingSystem(1)
	system.Add(noopStrategy{}, suite.btc)

	entries := system.Entries()
	suite.Require().Len(entries, 1)

	entries[0].StrategyID = "tampered"
	suite.NotEqual("tampered", system.Entries()[0].StrategyID)
}

func (suite *TradingSystemTestSuite) TestInstrumentString() {
	suite.Equal("BTC/USDT@1h", suite.btc.String())
}
