package config

import (
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("CANARYCAST_CACHE_DIR", "")
	t.Setenv("CANARYCAST_CACHE_QUOTA", "")
	t.Setenv("CANARYCAST_CACHE_TTL", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.CacheDir != "" {
		t.Errorf("CacheDir = %q, want empty (XDG resolution)", s.CacheDir)
	}
	if s.StoreQuotaBytes != 10485760 {
		t.Errorf("StoreQuotaBytes = %d, want 10 MiB default", s.StoreQuotaBytes)
	}
	if s.EntryTTL != time.Hour {
		t.Errorf("EntryTTL = %v, want 1h default", s.EntryTTL)
	}
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("CANARYCAST_CACHE_DIR", "/tmp/cc-test")
	t.Setenv("CANARYCAST_CACHE_QUOTA", "2048")
	t.Setenv("CANARYCAST_CACHE_TTL", "15m")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.CacheDir != "/tmp/cc-test" {
		t.Errorf("CacheDir = %q, want override", s.CacheDir)
	}
	if s.StoreQuotaBytes != 2048 {
		t.Errorf("StoreQuotaBytes = %d, want 2048", s.StoreQuotaBytes)
	}
	if s.EntryTTL != 15*time.Minute {
		t.Errorf("EntryTTL = %v, want 15m", s.EntryTTL)
	}
}

func TestLoadSettingsRejectsBadDuration(t *testing.T) {
	t.Setenv("CANARYCAST_CACHE_TTL", "not-a-duration")

	if _, err := LoadSettings(); err == nil {
		t.Error("LoadSettings accepted an unparseable TTL")
	}
}

func TestTTLOrdering(t *testing.T) {
	// Alerts must expire faster than current conditions, which must expire
	// faster than near-static data.
	if !(AlertsTTL < WeatherTTL && WeatherTTL < POITTL && POITTL < LocationsTTL) {
		t.Error("feature TTLs are not ordered by volatility")
	}
	if DefaultTTL <= 0 {
		t.Error("DefaultTTL must be positive")
	}
}
