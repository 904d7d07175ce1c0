package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want default", cfg.APIBaseURL)
	}
	if cfg.PollIntervalSec != 60 {
		t.Errorf("PollIntervalSec = %d, want 60", cfg.PollIntervalSec)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	in := &Config{
		APIBaseURL:      "http://localhost:3000",
		DefaultProfile:  "work",
		PollIntervalSec: 15,
	}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.APIBaseURL != in.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", out.APIBaseURL, in.APIBaseURL)
	}
	if out.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want work", out.DefaultProfile)
	}
	if out.PollIntervalSec != 15 {
		t.Errorf("PollIntervalSec = %d, want 15", out.PollIntervalSec)
	}
	// Unset fields get defaults.
	if out.RequestTimeoutSec != 15 {
		t.Errorf("RequestTimeoutSec = %d, want 15", out.RequestTimeoutSec)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TEXTURNHUB_API_URL", "http://127.0.0.1:9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9999" {
		t.Errorf("APIBaseURL = %q, want env override", cfg.APIBaseURL)
	}
}
