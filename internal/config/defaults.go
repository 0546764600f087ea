package config

const (
	defaultConfigPath    = "~/.config/mediaprobe/config.toml"
	defaultMaxReadBytes  = 16 << 20
	minMaxReadBytes      = 64 << 10
	defaultJobs          = 4
	maxJobs              = 64
	defaultOutputFormat  = OutputText
	defaultLogLevel      = "warn"
	defaultLogFormat     = "console"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Probe: Probe{
			MaxReadBytes: defaultMaxReadBytes,
			Jobs:         defaultJobs,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Logging: Logging{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
