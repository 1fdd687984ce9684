// FilePath: internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Liveness.StaleThreshold != 60*time.Second {
		t.Errorf("stale threshold = %v, want 60s", cfg.Liveness.StaleThreshold)
	}
	if cfg.Fallback.MaxReadings != 10000 {
		t.Errorf("fallback max readings = %d, want 10000", cfg.Fallback.MaxReadings)
	}
	if cfg.Redis.Enabled() {
		t.Errorf("redis should be disabled without a host")
	}
	if cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("redis ttl = %v, want 24h", cfg.Redis.TTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VIGILAIRE_LIVENESS__STALE_THRESHOLD", "90s")
	t.Setenv("VIGILAIRE_FALLBACK__MAX_READINGS", "500")
	t.Setenv("VIGILAIRE_REDIS__HOST", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Liveness.StaleThreshold != 90*time.Second {
		t.Errorf("stale threshold = %v, want 90s", cfg.Liveness.StaleThreshold)
	}
	if cfg.Fallback.MaxReadings != 500 {
		t.Errorf("fallback max readings = %d, want 500", cfg.Fallback.MaxReadings)
	}
	if !cfg.Redis.Enabled() {
		t.Errorf("redis should be enabled when a host is set")
	}
}
