package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log", "", "Write logs to this file")
	flagSeed    = flag.Int64("seed", 0, "Terrain noise seed")
	flagNoFlipV = flag.Bool("no-flip-v", false, "Keep OBJ texture V as stored")
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
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
	if *flagNoFlipV {
		cfg.Model.FlipV = false
	}
}
