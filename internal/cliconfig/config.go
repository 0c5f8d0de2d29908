package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/gaship/pkg/gaship"
	"github.com/bft-labs/gaship/pkg/sender"
)

// DefaultServiceURL is the default collection host.
const DefaultServiceURL = sender.DefaultBaseURI

// Config holds CLI configuration for gaship.
type Config struct {
	TrackingID string

	ServiceURL string
	UserAgent  string

	BatchLimit    int
	HTTPTimeout   time.Duration
	FlushInterval time.Duration

	SpoolDir    string
	MetricsAddr string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:    DefaultServiceURL,
		UserAgent:     sender.DefaultUserAgent,
		BatchLimit:    gaship.DefaultBatchLimit,
		HTTPTimeout:   gaship.DefaultHTTPTimeout,
		FlushInterval: 30 * time.Second,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and normalizes the service URL.
func (c *Config) Validate() error {
	if c.TrackingID == "" {
		return fmt.Errorf("tracking-id is required")
	}
	if c.BatchLimit < 1 {
		return fmt.Errorf("batch limit must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive")
	}

	c.ServiceURL = sender.NormalizeBaseURI(c.ServiceURL)
	return nil
}

// ValidateWatch additionally checks the settings the watch command needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SpoolDir == "" {
		return fmt.Errorf("spool-dir is required")
	}
	return nil
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if positive.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
