// Package config handles pipeline configuration loading and management.
package config

import "time"

// Config holds all compiler settings.
type Config struct {
	Assets   AssetsConfig   `yaml:"assets"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AssetsConfig holds asset tree locations.
type AssetsConfig struct {
	// Roots are searched in reverse order (last entry = highest priority),
	// so override packs go after the base tree.
	Roots []string `yaml:"roots"`
	// HardcodedDir is the name of the shadow tree holding models for
	// entities the standard format cannot express.
	HardcodedDir string `yaml:"hardcoded_dir"`
}

// PipelineConfig holds resolution and fetch behavior.
type PipelineConfig struct {
	// AssetTimeout bounds a single asset fetch; a timeout degrades to a
	// resolution miss for that asset only.
	AssetTimeout time.Duration `yaml:"asset_timeout"`
	// MaxIndirection bounds texture "#key" reference chains.
	MaxIndirection int `yaml:"max_indirection"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Roots:        []string{"assets"},
			HardcodedDir: "hardcoded",
		},
		Pipeline: PipelineConfig{
			AssetTimeout:   15 * time.Second,
			MaxIndirection: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
