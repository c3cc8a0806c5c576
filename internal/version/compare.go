package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility reports whether a strategy built against
// strategyVersion can run on this engine version.
//
// Rules:
//   - "main" on either side is a development build; the check is skipped
//   - major and minor versions must match exactly
//   - patch versions may differ
func CheckCompatibility(engineVersion, strategyVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	strategyVersion = strings.TrimPrefix(strategyVersion, "v")

	if engineVersion == "main" || strategyVersion == "main" {
		return nil
	}

	engine, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version %q: %w", engineVersion, err)
	}

	strategy, err := semver.NewVersion(strategyVersion)
	if err != nil {
		return fmt.Errorf("invalid strategy version %q: %w", strategyVersion, err)
	}

	if engine.Major() != strategy.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but strategy requires %d.x.x",
			engine.Major(), strategy.Major())
	}

	if engine.Minor() != strategy.Minor() {
		return fmt.Errorf("minor version mismatch: engine is %d.%d.x but strategy requires %d.%d.x",
			engine.Major(), engine.Minor(),
			strategy.Major(), strategy.Minor())
	}

	return nil
}
