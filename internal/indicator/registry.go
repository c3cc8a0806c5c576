package indicator

import "fmt"

// IndicatorRegistry holds the available indicators by type.
type IndicatorRegistry interface {
	// RegisterIndicator adds an indicator to the registry.
	RegisterIndicator(indicator Indicator) error
	// GetIndicator retrieves an indicator by its type.
	GetIndicator(name IndicatorType) (Indicator, error)
}

type registry struct {
	indicators map[IndicatorType]Indicator
}

// NewIndicatorRegistry creates an empty registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &registry{
		indicators: make(map[IndicatorType]Indicator),
	}
}

// NewDefaultIndicatorRegistry creates a registry with all built-in
// indicators registered.
func NewDefaultIndicatorRegistry() IndicatorRegistry {
	r := NewIndicatorRegistry()
	_ = r.RegisterIndicator(NewSMA())
	_ = r.RegisterIndicator(NewEMA())
	_ = r.RegisterIndicator(NewRSI())

	return r
}

func (r *registry) RegisterIndicator(indicator Indicator) error {
	if _, exists := r.indicators[indicator.Name()]; exists {
		return fmt.Errorf("indicator already registered: %s", indicator.Name())
	}

	r.indicators[indicator.Name()] = indicator

	return nil
}

func (r *registry) GetIndicator(name IndicatorType) (Indicator, error) {
	indicator, exists := r.indicators[name]
	if !exists {
		return nil, fmt.Errorf("indicator not found: %s", name)
	}

	return indicator, nil
}
