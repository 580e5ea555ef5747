package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if filepath.Clean(c.Paths.OutputDir) == filepath.Clean(c.Paths.WorkDir) {
		return errors.New("paths.output_dir must differ from paths.work_dir so outputs are never re-read as inputs")
	}
	if c.Paths.LogFile == "" {
		return errors.New("paths.log_file must be set")
	}
	return nil
}

func (c *Config) validateOverlay() error {
	if c.Overlay.Name == "" {
		return errors.New("overlay.name must be set")
	}
	if c.Overlay.DrawOrder < 0 {
		return errors.New("overlay.draw_order must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
