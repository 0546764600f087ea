package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProbe() error {
	if c.Probe.MaxReadBytes < minMaxReadBytes {
		return fmt.Errorf("%w: probe.max_read_bytes must be at least %d", ErrInvalid, minMaxReadBytes)
	}
	if c.Probe.Jobs < 1 || c.Probe.Jobs > maxJobs {
		return fmt.Errorf("%w: probe.jobs must be between 1 and %d", ErrInvalid, maxJobs)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("%w: output.format %q is not one of text, json", ErrInvalid, c.Output.Format)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
		return nil
	default:
		return fmt.Errorf("%w: logging.level %q is not recognized", ErrInvalid, c.Logging.Level)
	}
}
