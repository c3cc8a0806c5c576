// Package symbol provides parsing and validation of trading pair symbols in
// the "BASE/QUOTE" form, e.g. "BTC/USDT".
package symbol

import (
	"fmt"
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+/[A-Z0-9]+$`)

// InvalidSymbolError is returned when a symbol string does not match the
// expected "BASE/QUOTE" format.
type InvalidSymbolError struct {
	Symbol string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol: %s", e.Symbol)
}

// Symbol is an immutable trading pair. The zero value is not valid; use New
// or FromParts. Symbol is comparable and usable as a map key.
type Symbol struct {
	base  string
	quote string
}

// New parses a pair string of the form "BASE/QUOTE".
func New(pair string) (Symbol, error) {
	if !symbolPattern.MatchString(pair) {
		return Symbol{}, &InvalidSymbolError{Symbol: pair}
	}

	parts := strings.SplitN(pair, "/", 2)

	return Symbol{base: parts[0], quote: parts[1]}, nil
}

// FromParts builds a symbol from its base and quote currencies.
func FromParts(base, quote string) (Symbol, error) {
	return New(base + "/" + quote)
}

// MustNew parses a pair string and panics on invalid input. Intended for
// tests and package-level declarations.
func MustNew(pair string) Symbol {
	s, err := New(pair)
	if err != nil {
		panic(err)
	}

	return s
}

// Base returns the base currency, e.g. "BTC" of "BTC/USDT".
func (s Symbol) Base() string {
	return s.base
}

// Quote returns the quote currency, e.g. "USDT" of "BTC/USDT".
func (s Symbol) Quote() string {
	return s.quote
}

func (s Symbol) String() string {
	return s.base + "/" + s.quote
}

// IsZero reports whether the symbol is the (invalid) zero value.
func (s Symbol) IsZero() bool {
	return s.base == "" && s.quote == ""
}

// EqualString reports whether the symbol's pair string matches pair.
func (s Symbol) EqualString(pair string) bool {
	return s.String() == pair
}
