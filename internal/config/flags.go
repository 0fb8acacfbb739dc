package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagQuality = flag.String("quality", "", "Shadow quality (off, very_low, low, medium, high, very_high)")
	flagFrames  = flag.Int("frames", 0, "Number of frames to simulate")
	flagLights  = flag.Int("lights", 0, "Number of lights to simulate")
	flagTrace   = flag.String("trace", "", "Write a compressed frame trace to this file")
	flagSave    = flag.Bool("save-config", false, "Save the resolved config to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ParseArgs parses flags from args instead of the process arguments,
// for commands whose first argument is a subcommand.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether -save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagQuality != "" {
		cfg.Shadow.Quality = *flagQuality
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagLights > 0 {
		cfg.Simulation.Lights = *flagLights
	}
	if *flagTrace != "" {
		cfg.Simulation.TraceFile = *flagTrace
	}
}
