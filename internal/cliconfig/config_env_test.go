package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"GASHIP_TRACKING_ID":    "UA-ENV-1",
				"GASHIP_SERVICE_URL":    "http://env/",
				"GASHIP_BATCH_LIMIT":    "7",
				"GASHIP_HTTP_TIMEOUT":   "2s",
				"GASHIP_FLUSH_INTERVAL": "5m",
				"GASHIP_LOG_LEVEL":      "warn",
			},
			changed: map[string]bool{},
			expected: Config{
				TrackingID:    "UA-ENV-1",
				ServiceURL:    "http://env/",
				BatchLimit:    7,
				HTTPTimeout:   2 * time.Second,
				FlushInterval: 5 * time.Minute,
				LogLevel:      "warn",
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"GASHIP_TRACKING_ID": "UA-ENV-1",
				"GASHIP_SPOOL_DIR":   "/env/spool",
			},
			changed: map[string]bool{"tracking-id": true},
			initial: Config{TrackingID: "UA-FLAG-1"},
			expected: Config{
				TrackingID: "UA-FLAG-1",
				SpoolDir:   "/env/spool",
			},
		},
		{
			name:     "non-positive batch limit is ignored",
			envVars:  map[string]string{"GASHIP_BATCH_LIMIT": "0"},
			changed:  map[string]bool{},
			initial:  Config{BatchLimit: 20},
			expected: Config{BatchLimit: 20},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"GASHIP_FLUSH_INTERVAL": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"GASHIP_BATCH_LIMIT": "twenty"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Precedence order: flags > env > file.
func TestConfigPrecedence(t *testing.T) {
	fileConf := FileConfig{
		TrackingID: "UA-FILE-1",
		BatchLimit: 5,
		SpoolDir:   "/file/spool",
	}

	t.Setenv("GASHIP_TRACKING_ID", "UA-ENV-1")
	t.Setenv("GASHIP_BATCH_LIMIT", "8")

	changed := map[string]bool{"tracking-id": true}
	cfg := Config{TrackingID: "UA-FLAG-1"}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.TrackingID != "UA-FLAG-1" {
		t.Errorf("TrackingID = %v, want UA-FLAG-1 (flag should win)", cfg.TrackingID)
	}
	if cfg.BatchLimit != 8 {
		t.Errorf("BatchLimit = %v, want 8 (env should override file)", cfg.BatchLimit)
	}
	if cfg.SpoolDir != "/file/spool" {
		t.Errorf("SpoolDir = %v, want /file/spool (file should set)", cfg.SpoolDir)
	}
}
