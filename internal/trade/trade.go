package trade

import (
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/internal/candlestick"
	"github.com/rxtech-lab/argo-backtest/internal/symbol"
	"github.com/rxtech-lab/argo-backtest/internal/utils"
)

// Trade is one directional position intent. It aggregates an entries heap
// and a breakouts heap under a side and owns the PENDING -> ACTIVE -> CLOSED
// status machine. Levels hold only a non-owning back-reference to their
// trade.
type Trade struct {
	id        string
	side      Side
	entries   *LevelHeap
	breakouts *LevelHeap

	potentialVolume optional.Option[float64]
	status          Status
	opened          bool
	released        bool

	sym        symbol.Symbol
	strategyID string
	markPrice  float64
	assumeZero float64
}

// Option configures a trade at construction time.
type Option func(t *Trade)

// WithPotentialVolume sizes the trade at construction instead of leaving the
// sizing to a volume distributor.
func WithPotentialVolume(volume float64) Option {
	return func(t *Trade) {
		t.potentialVolume = optional.Some(volume)
	}
}

// WithAssumeZero overrides the epsilon used for the numeric zero test of the
// filled volume.
func WithAssumeZero(eps float64) Option {
	return func(t *Trade) {
		t.assumeZero = eps
	}
}

// New validates the side, binds every level to the trade and returns it in
// the PENDING state.
func New(side Side, entries, breakouts *LevelHeap, opts ...Option) (*Trade, error) {
	if err := side.Validate(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = NewLevelHeap()
	}

	if breakouts == nil {
		breakouts = NewLevelHeap()
	}

	t := &Trade{
		id:              uuid.NewString(),
		side:            side,
		entries:         entries,
		breakouts:       breakouts,
		potentialVolume: optional.None[float64](),
		status:          StatusPending,
		assumeZero:      utils.DefaultAssumeZero,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.bindLevels()

	return t, nil
}

// ID returns the trade's unique identifier.
func (t *Trade) ID() string {
	return t.id
}

func (t *Trade) Side() Side {
	return t.side
}

func (t *Trade) Status() Status {
	return t.status
}

// Entries returns the entries heap. The heap is owned by the trade; callers
// may subscribe to its levels but must not re-bind them.
func (t *Trade) Entries() *LevelHeap {
	return t.entries
}

// Breakouts returns the breakouts heap.
func (t *Trade) Breakouts() *LevelHeap {
	return t.breakouts
}

// Symbol returns the instrument symbol this trade is bound to.
func (t *Trade) Symbol() symbol.Symbol {
	return t.sym
}

// SetSymbol binds the trade to an instrument symbol. Called by OpenTrade when
// the event is bound to a worker.
func (t *Trade) SetSymbol(sym symbol.Symbol) {
	t.sym = sym
}

// StrategyID identifies the strategy that opened this trade.
func (t *Trade) StrategyID() string {
	return t.strategyID
}

// SetStrategyID stamps the trade with the id of the emitting strategy.
func (t *Trade) SetStrategyID(id string) {
	t.strategyID = id
}

// SetAssumeZero overrides the epsilon used for the numeric zero test of the
// filled volume. The worker applies its configured epsilon when it adopts
// the trade.
func (t *Trade) SetAssumeZero(eps float64) {
	t.assumeZero = eps
}

// PotentialVolume returns the notional target, or zero while unsized.
func (t *Trade) PotentialVolume() float64 {
	return t.potentialVolume.TakeOr(0)
}

// HasPotentialVolume reports whether the trade has been sized.
func (t *Trade) HasPotentialVolume() bool {
	return t.potentialVolume.IsSome()
}

// SetPotentialVolume sets the notional target exactly once; later calls are
// silently ignored, so whichever caller sizes the trade first wins.
func (t *Trade) SetPotentialVolume(volume float64) {
	if t.potentialVolume.IsNone() {
		t.potentialVolume = optional.Some(volume)
	}
}

// FilledVolume returns the net notional currently held: crossed entries
// minus crossed breakouts, in quote currency.
func (t *Trade) FilledVolume() float64 {
	return t.entries.Crossed().QuoteVolume() - t.breakouts.Crossed().QuoteVolume()
}

// FilledVolumeBase returns the net held notional in base units.
func (t *Trade) FilledVolumeBase() float64 {
	return t.entries.Crossed().BaseVolume() - t.breakouts.Crossed().BaseVolume()
}

// Profit revalues the filled notional at the latest mark price relative to
// the weighted entry price implied by FilledVolume and FilledVolumeBase. The
// relative change is inverted for shorts. A trade with no filled volume has
// zero profit.
func (t *Trade) Profit() float64 {
	filled := t.FilledVolume()
	if utils.IsZero(filled, t.assumeZero) {
		return 0
	}

	multiplier := utils.Divide(t.FilledVolumeBase()*t.markPrice, filled, t.assumeZero)
	if t.side == SideShort {
		multiplier = utils.MultiplyDiff(multiplier, -1)
	}

	return multiplier*filled - filled
}

// Update records the candle close as the latest mark price, updates both
// level heaps and re-evaluates the status.
func (t *Trade) Update(candle candlestick.Candle) {
	t.markPrice = candle.Close
	t.entries.Update(candle)
	t.breakouts.Update(candle)
	t.updateStatus()
}

// Cleanup forcibly empties both heaps, discarding all crossed-volume
// bookkeeping, which zeroes the filled volume and forces the CLOSED status.
// Idempotent.
func (t *Trade) Cleanup() {
	t.entries = NewLevelHeap()
	t.breakouts = NewLevelHeap()
	t.updateStatus()
}

// Released reports whether the trade's reserved balance has been returned to
// the worker. Guards against double-crediting when a trade is closed by an
// event and later evicted by the loop.
func (t *Trade) Released() bool {
	return t.released
}

// MarkReleased records that the reserved balance has been returned.
func (t *Trade) MarkReleased() {
	t.released = true
}

// Equal compares side, status, potential volume and both level heaps.
func (t *Trade) Equal(other *Trade) bool {
	return t.side == other.side &&
		t.status == other.status &&
		t.PotentialVolume() == other.PotentialVolume() &&
		t.entries.Equal(other.entries) &&
		t.breakouts.Equal(other.breakouts)
}

func (t *Trade) bindLevels() {
	bind := func(l Level) { l.bind(t) }
	t.entries.each(bind)
	t.breakouts.each(bind)
}

func (t *Trade) updateStatus() {
	switch {
	case !t.opened && !utils.IsZero(t.FilledVolume(), t.assumeZero):
		t.opened = true
		t.status = StatusActive
	case utils.IsZero(t.FilledVolume(), t.assumeZero):
		t.status = StatusClosed
	}
}
