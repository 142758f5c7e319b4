package config

import (
	"flag"
	"time"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagAssets  = flag.String("assets", "", "Asset tree root (overrides config roots)")
	flagLogFile = flag.String("log-file", "", "Write logs to this file (rotated)")
	flagTimeout = flag.Duration("asset-timeout", 0, "Per-asset fetch timeout")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAssets != "" {
		cfg.Assets.Roots = []string{*flagAssets}
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagTimeout > time.Duration(0) {
		cfg.Pipeline.AssetTimeout = *flagTimeout
	}
}
