package strategy

import (
	"fmt"
	"sort"
	"strings"
)

// Parameter describes the search range of one strategy tunable.
type Parameter interface {
	isParameter()
}

// IntParameter is an inclusive integer range.
type IntParameter struct {
	Min int
	Max int
}

// FloatParameter is an inclusive float range.
type FloatParameter struct {
	Min float64
	Max float64
}

// CategoricalParameter is a closed set of candidate values.
type CategoricalParameter struct {
	Values []any
}

func (IntParameter) isParameter()         {}
func (FloatParameter) isParameter()       {}
func (CategoricalParameter) isParameter() {}

// UnexpectedParameterError is returned when a sampler meets a parameter type
// it does not recognize.
type UnexpectedParameterError struct {
	Parameter Parameter
}

func (e *UnexpectedParameterError) Error() string {
	return fmt.Sprintf("unexpected parameter type: %T", e.Parameter)
}

// SettingsKey renders a settings map as a deterministic string, so two
// differently parameterized instances of the same strategy make distinct map
// keys.
func SettingsKey(settings map[string]any) string {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, settings[name]))
	}

	return strings.Join(parts, ",")
}
