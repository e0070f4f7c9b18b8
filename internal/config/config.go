// Package config carries the workspace settings a queck project can
// override: answer-type labels and the answer normalization applied on
// export. Settings come from the same viper instance the CLI binds its
// flags and environment to, so a queck.yaml in the search path, a
// QUECK_* variable or a flag all land here.
package config

import (
	"fmt"
	"maps"

	"github.com/queckhq/queck/internal/queck"
	"github.com/spf13/viper"
)

// Normalize selects the answer rewrites applied before exporting.
type Normalize struct {
	// NumType converts numeric answers: queck.NumTypeRange or
	// queck.NumTypeTolerance. Empty keeps both forms.
	NumType string
	// BoolToChoice rewrites true/false answers as choice lists.
	BoolToChoice bool
}

// Config is the resolved workspace configuration.
type Config struct {
	// TypeLabels maps item and answer type tags to display labels,
	// defaults overlaid with the workspace's own entries.
	TypeLabels map[string]string
	Normalize  Normalize

	overrides map[string]string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{TypeLabels: map[string]string(queck.DefaultLabels())}
}

// FromViper reads the configuration, overlaying set keys on the
// defaults.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Default()
	cfg.overrides = v.GetStringMapString("type_labels")
	maps.Copy(cfg.TypeLabels, cfg.overrides)
	cfg.Normalize.BoolToChoice = v.GetBool("normalize.bool_to_choice")
	switch nt := v.GetString("normalize.num_type"); nt {
	case "", queck.NumTypeRange, queck.NumTypeTolerance:
		cfg.Normalize.NumType = nt
	default:
		return Config{}, fmt.Errorf("config: unknown normalize.num_type %q (want %q or %q)",
			nt, queck.NumTypeRange, queck.NumTypeTolerance)
	}
	return cfg, nil
}

// Labels returns the full label map.
func (c Config) Labels() queck.Labels { return queck.Labels(c.TypeLabels) }

// MergeLabels overlays the workspace's own label entries on base.
// Localized labels merge this way: the locale provides base, explicit
// workspace configuration wins.
func (c Config) MergeLabels(base queck.Labels) queck.Labels {
	out := make(queck.Labels, len(base)+len(c.overrides))
	maps.Copy(out, base)
	for tag, label := range c.overrides {
		out[tag] = label
	}
	return out
}

// NormalizeOptions converts the normalization settings to the quiz
// rewrite options.
func (c Config) NormalizeOptions() queck.NormalizeOptions {
	return queck.NormalizeOptions{
		NumType:      c.Normalize.NumType,
		BoolToChoice: c.Normalize.BoolToChoice,
	}
}
