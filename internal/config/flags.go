package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to scene file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagDuration     = flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	flagTickRate     = flag.Int("tick-rate", 0, "Ticks per second")
	flagStream       = flag.Bool("stream", false, "Serve the pose stream")
	flagStreamAddr   = flag.String("stream-addr", "", "Pose stream listen address")
	flagNoPrecompute = flag.Bool("no-precompute", false, "Evaluate paths live instead of precomputing them")
	flagSeed         = flag.Uint64("seed", 0, "Random seed for noise and delays")
	flagWriteConfig  = flag.String("write-config", "", "Write the effective scene to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the path given by --write-config, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDuration > 0 {
		cfg.Playback.Duration = *flagDuration
	}
	if *flagTickRate > 0 {
		cfg.Playback.TickRate = *flagTickRate
	}
	if *flagStream {
		cfg.Stream.Enabled = true
	}
	if *flagStreamAddr != "" {
		cfg.Stream.Addr = *flagStreamAddr
	}
	if *flagNoPrecompute {
		for i := range cfg.Movers {
			cfg.Movers[i].Settings.Precompute = false
		}
	}
	if *flagSeed != 0 {
		cfg.Playback.Seed = *flagSeed
	}
}
