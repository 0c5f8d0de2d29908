package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BatchLimit != 20 {
		t.Errorf("BatchLimit = %v, want 20", cfg.BatchLimit)
	}
	if cfg.ServiceURL != DefaultServiceURL {
		t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, DefaultServiceURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.FlushInterval != 30*time.Second {
		t.Errorf("FlushInterval = %v, want 30s", cfg.FlushInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := DefaultConfig()
		c.TrackingID = "UA-1"
		return c
	}

	tests := []struct {
		name           string
		mutate         func(*Config)
		wantErr        bool
		wantServiceURL string
	}{
		{
			name:           "valid defaults with tracking id",
			mutate:         func(*Config) {},
			wantServiceURL: DefaultServiceURL,
		},
		{
			name:    "missing tracking id",
			mutate:  func(c *Config) { c.TrackingID = "" },
			wantErr: true,
		},
		{
			name:    "zero batch limit",
			mutate:  func(c *Config) { c.BatchLimit = 0 },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTPTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative flush interval",
			mutate:  func(c *Config) { c.FlushInterval = -time.Second },
			wantErr: true,
		},
		{
			name:           "service url gets trailing slash",
			mutate:         func(c *Config) { c.ServiceURL = "http://localhost:8080" },
			wantServiceURL: "http://localhost:8080/",
		},
		{
			name:           "empty service url falls back to default",
			mutate:         func(c *Config) { c.ServiceURL = "" },
			wantServiceURL: DefaultServiceURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.ServiceURL != tt.wantServiceURL {
				t.Errorf("ServiceURL = %v, want %v", cfg.ServiceURL, tt.wantServiceURL)
			}
		})
	}
}

func TestConfig_ValidateWatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackingID = "UA-1"
	if err := cfg.ValidateWatch(); err == nil {
		t.Error("ValidateWatch() without spool dir should fail")
	}

	cfg.SpoolDir = "/var/spool/gaship"
	if err := cfg.ValidateWatch(); err != nil {
		t.Errorf("ValidateWatch() error = %v", err)
	}
}
