// Package config loads analyzer thresholds from an optional TOML file.
// Absent file or fields fall back to the tuned defaults; present values are
// validated before use so a typoed threshold fails fast instead of skewing
// a whole batch of analyses.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/soundry/mixdoctor"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load returns the default config overlaid with the TOML file at path.
// An empty path returns the validated defaults.
func Load(path string) (mixdoctor.Config, error) {
	cfg := mixdoctor.DefaultConfig()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}
