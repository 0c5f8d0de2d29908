package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (GASHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("tracking-id", os.Getenv("GASHIP_TRACKING_ID"), &cfg.TrackingID)
	s.setString("service-url", os.Getenv("GASHIP_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("user-agent", os.Getenv("GASHIP_USER_AGENT"), &cfg.UserAgent)
	s.setString("spool-dir", os.Getenv("GASHIP_SPOOL_DIR"), &cfg.SpoolDir)
	s.setString("metrics-addr", os.Getenv("GASHIP_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("GASHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("batch-limit", os.Getenv("GASHIP_BATCH_LIMIT"), &cfg.BatchLimit); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("GASHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("flush-interval", os.Getenv("GASHIP_FLUSH_INTERVAL"), &cfg.FlushInterval); err != nil {
		return err
	}

	return nil
}
