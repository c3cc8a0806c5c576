package optimization

import (
	"math/rand"
	"sort"

	"github.com/rxtech-lab/argo-backtest/internal/strategy"
)

// sampleValue draws one value from the parameter's range. Ranges are
// inclusive on both ends.
func sampleValue(rng *rand.Rand, parameter strategy.Parameter) (any, error) {
	switch p := parameter.(type) {
	case strategy.IntParameter:
		return p.Min + rng.Intn(p.Max-p.Min+1), nil
	case strategy.FloatParameter:
		return p.Min + rng.Float64()*(p.Max-p.Min), nil
	case strategy.CategoricalParameter:
		return p.Values[rng.Intn(len(p.Values))], nil
	default:
		return nil, &strategy.UnexpectedParameterError{Parameter: parameter}
	}
}

// sampleSettings draws one value per declared parameter. Parameters are
// visited in name order so a seeded run is reproducible.
func sampleSettings(rng *rand.Rand, parameters map[string]strategy.Parameter) (map[string]any, error) {
	names := make([]string, 0, len(parameters))
	for name := range parameters {
		names = append(names, name)
	}

	sort.Strings(names)

	settings := make(map[string]any, len(parameters))

	for _, name := range names {
		value, err := sampleValue(rng, parameters[name])
		if err != nil {
			return nil, err
		}

		settings[name] = value
	}

	return settings, nil
}
