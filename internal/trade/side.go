// Package trade implements the position state machine: price levels that
// fill or exit parts of a trade, the trade itself, and heaps of both.
package trade

import "fmt"

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// UnexpectedSideError is returned when a trade is constructed with a side
// other than SideLong or SideShort.
type UnexpectedSideError struct {
	Side Side
}

func (e *UnexpectedSideError) Error() string {
	return fmt.Sprintf("unexpected trade side: %s", e.Side)
}

// Validate returns an UnexpectedSideError for unrecognized sides.
func (s Side) Validate() error {
	switch s {
	case SideLong, SideShort:
		return nil
	default:
		return &UnexpectedSideError{Side: s}
	}
}
