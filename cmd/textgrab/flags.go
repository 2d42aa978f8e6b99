package main

import (
	"github.com/spf13/viper"

	"github.com/dhalloway/textgrab/pkg/textgrab/config"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// parseRotationSize parses a human-readable rotation size like "10MB".
func parseRotationSize(s string) (int64, error) {
	return types.ParseSize(s)
}

// applyFlagOverrides folds command-line flags into the loaded
// configuration. Flags win over config file values, which win over
// the built-in defaults.
func applyFlagOverrides(cfg *config.Config) {
	if s := viper.GetString("max_file_size"); s != "" {
		cfg.MaxFileSize = s
	}
	if w := viper.GetInt("workers"); w > 0 {
		cfg.Workers = w
	}
	if viper.GetBool("hidden") {
		cfg.ShowHiddenFiles = true
		cfg.ShowHiddenDirs = true
	}
	if f := viper.GetString("format"); f != "" {
		cfg.Output.Format = f
	}
	if z := viper.GetString("compression"); z != "" {
		cfg.Output.Compression = z
	}
	if viper.GetBool("cache.persist") {
		cfg.Cache.Persist = true
	}
}
