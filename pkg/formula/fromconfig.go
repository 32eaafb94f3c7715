package formula

import (
	"fmt"

	"github.com/randalmurphal/formulagen/pkg/formula/config"
)

// OptionsFromConfig builds engine options from cfg.
//
// Recognized keys:
//   - max_index (int)
//   - missing ("empty", "keep", "error")
//   - preconditions ("emptiness", "flags")
//   - metrics (bool)
//   - tracing (bool)
//
// Absent keys leave the engine defaults in place.
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	var opts []Option

	if cfg.Has("max_index") {
		n := cfg.Int("max_index", -1)
		if n < 4 {
			return nil, fmt.Errorf("max_index: must be an integer >= 4")
		}
		opts = append(opts, WithMaxIndex(n))
	}
	if cfg.Has("missing") {
		action, err := ParseMissingAction(cfg.String("missing", "?"))
		if err != nil {
			return nil, fmt.Errorf("missing: %w", err)
		}
		opts = append(opts, WithMissingAction(action))
	}
	if cfg.Has("preconditions") {
		mode, err := ParsePreconditionMode(cfg.String("preconditions", "?"))
		if err != nil {
			return nil, fmt.Errorf("preconditions: %w", err)
		}
		opts = append(opts, WithPreconditions(mode))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	return opts, nil
}

// DefinitionsFromConfig reads the mapping at key as definitions.
// Scalar values are rendered as strings.
func DefinitionsFromConfig(cfg config.Config, key string) (map[string]string, error) {
	return cfg.StringMap(key)
}
