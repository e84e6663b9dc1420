package config

import (
	"fmt"
	"strings"
	"text/template"
)

var supportedEncodings = map[string]struct{}{
	"utf-8":      {},
	"utf8":       {},
	"latin-1":    {},
	"latin1":     {},
	"iso-8859-1": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScript(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScript() error {
	if _, ok := supportedEncodings[c.Script.OutputEncoding]; !ok {
		return fmt.Errorf("script.output_encoding: unsupported value %q", c.Script.OutputEncoding)
	}
	if c.Script.Command != "" {
		if _, err := template.New("command").Parse(c.Script.Command); err != nil {
			return fmt.Errorf("script.command: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
