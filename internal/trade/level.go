package trade

import (
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
)

type levelKind string

const (
	kindEntry    levelKind = "entry"
	kindBreakout levelKind = "breakout"
)

// Level is a single price trigger bound to one trade. Entries fill a
// fraction of the trade's potential volume when crossed; breakouts exit a
// fraction of what is already filled. The crossed flag is monotonic: once
// true it never resets.
type Level interface {
	// Side returns the side of the bound trade.
	Side() Side
	// TriggerPrice returns the price that crosses the level.
	TriggerPrice() float64
	// TradePart returns the fraction of the base volume this level moves.
	TradePart() float64
	// Crossed reports whether the level has been hit.
	Crossed() bool
	// QuoteVolume returns the notional attributed to this level, in quote
	// currency.
	QuoteVolume() float64
	// BaseVolume returns the level's notional converted to base units at the
	// trigger price.
	BaseVolume() float64
	// Update recomputes the pending volume from the bound trade, fires the
	// update subscribers, then tests crossing; the first cross fires the
	// breakout subscribers. Crossing is idempotent.
	Update(candle candlestick.Candle)
	// CheckBreaking reports whether the candle crosses the trigger.
	CheckBreaking(candle candlestick.Candle) bool
	// EditTriggerPrice moves the trigger; a no-op once crossed.
	EditTriggerPrice(price float64)
	// SubscribeUpdate registers a hook invoked on every update.
	SubscribeUpdate(fn func(Level))
	// SubscribeBreakout registers a hook invoked once, when the level
	// crosses.
	SubscribeBreakout(fn func(Level))
	// Equal compares side, trigger price, trade part and crossed status.
	Equal(other Level) bool
	// Clone returns a detached copy of the level.
	Clone() Level

	bind(t *Trade)
	kind() levelKind
}

type level struct {
	levelKind levelKind
	trigger   float64
	part      float64
	crossed   bool
	quote     float64
	trade     *Trade
	check     func(l *level, candle candlestick.Candle) bool

	onUpdate   []func(Level)
	onBreakout []func(Level)
}

// NewSimpleEntry creates a market-style entry: the trigger is considered hit
// on the first update.
func NewSimpleEntry(price, part float64) Level {
	return &level{
		levelKind: kindEntry,
		trigger:   price,
		part:      part,
		check: func(l *level, candle candlestick.Candle) bool {
			return true
		},
	}
}

// NewAveragingEntry creates a limit-style entry that fills only when price
// trades through the trigger against the trade's side: a long averages in
// when the candle's low reaches the trigger, a short when its high does.
func NewAveragingEntry(price, part float64) Level {
	return &level{
		levelKind: kindEntry,
		trigger:   price,
		part:      part,
		check: func(l *level, candle candlestick.Candle) bool {
			if l.Side() == SideShort {
				return candle.High >= l.trigger
			}

			return candle.Low <= l.trigger
		},
	}
}

// NewStopLoss creates a breakout that crosses when price moves against the
// trade's side beyond the trigger.
func NewStopLoss(price, part float64) Level {
	return &level{
		levelKind: kindBreakout,
		trigger:   price,
		part:      part,
		check: func(l *level, candle candlestick.Candle) bool {
			if l.Side() == SideShort {
				return candle.High >= l.trigger
			}

			return candle.Low <= l.trigger
		},
	}
}

// NewTakeProfit creates a breakout that crosses when price moves in favor of
// the trade's side past the trigger.
func NewTakeProfit(price, part float64) Level {
	return &level{
		levelKind: kindBreakout,
		trigger:   price,
		part:      part,
		check: func(l *level, candle candlestick.Candle) bool {
			if l.Side() == SideShort {
				return candle.Low <= l.trigger
			}

			return candle.High >= l.trigger
		},
	}
}

func (l *level) Side() Side {
	if l.trade == nil {
		return ""
	}

	return l.trade.Side()
}

func (l *level) TriggerPrice() float64 {
	return l.trigger
}

func (l *level) TradePart() float64 {
	return l.part
}

func (l *level) Crossed() bool {
	return l.crossed
}

func (l *level) QuoteVolume() float64 {
	return l.quote
}

func (l *level) BaseVolume() float64 {
	return l.quote / l.trigger
}

func (l *level) Update(candle candlestick.Candle) {
	l.updateVolume()

	for _, fn := range l.onUpdate {
		fn(l)
	}

	if !l.crossed && l.CheckBreaking(candle) {
		l.crossed = true

		for _, fn := range l.onBreakout {
			fn(l)
		}
	}
}

func (l *level) CheckBreaking(candle candlestick.Candle) bool {
	return l.check(l, candle)
}

func (l *level) EditTriggerPrice(price float64) {
	if !l.crossed {
		l.trigger = price
	}
}

func (l *level) SubscribeUpdate(fn func(Level)) {
	l.onUpdate = append(l.onUpdate, fn)
}

func (l *level) SubscribeBreakout(fn func(Level)) {
	l.onBreakout = append(l.onBreakout, fn)
}

func (l *level) Equal(other Level) bool {
	return l.Side() == other.Side() &&
		l.trigger == other.TriggerPrice() &&
		l.part == other.TradePart() &&
		l.crossed == other.Crossed()
}

func (l *level) Clone() Level {
	clone := *l
	clone.onUpdate = append([]func(Level){}, l.onUpdate...)
	clone.onBreakout = append([]func(Level){}, l.onBreakout...)

	return &clone
}

// updateVolume snapshots the base volume while the level is still pending.
// Entries draw from the trade's potential volume, breakouts from the
// currently filled volume.
func (l *level) updateVolume() {
	if l.crossed {
		return
	}

	l.quote = l.baseVolume() * l.part
}

func (l *level) baseVolume() float64 {
	if l.trade == nil {
		return 0
	}

	if l.levelKind == kindBreakout {
		return l.trade.FilledVolume()
	}

	return l.trade.PotentialVolume()
}

func (l *level) bind(t *Trade) {
	l.trade = t
}

func (l *level) kind() levelKind {
	return l.levelKind
}
