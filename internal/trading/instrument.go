// Package trading maps strategies to the instruments they trade.
package trading

import (
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/timeframe"
)

// Instrument is an immutable (symbol, timeframe) pair. It is comparable and
// used as the chart map key.
type Instrument struct {
	Symbol    symbol.Symbol
	TimeFrame timeframe.TimeFrame
}

// NewInstrument pairs a symbol with a candle timeframe.
func NewInstrument(sym symbol.Symbol, tf timeframe.TimeFrame) Instrument {
	return Instrument{
		Symbol:    sym,
		TimeFrame: tf,
	}
}

func (i Instrument) String() string {
	return i.Symbol.String() + "@" + i.TimeFrame.String()
}
