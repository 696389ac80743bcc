package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DATA_FILE", "")
	t.Setenv("GCS_BUCKET", "")
	t.Setenv("FULL_REVERT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DataFile != "fintracker.json" {
		t.Errorf("DataFile = %q, want fintracker.json", cfg.DataFile)
	}
	if cfg.SnapshotObject != "mainData.json" {
		t.Errorf("SnapshotObject = %q, want mainData.json", cfg.SnapshotObject)
	}
	if cfg.FullRevert {
		t.Error("FullRevert should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GCS_BUCKET", "finance-snapshots")
	t.Setenv("FULL_REVERT", "true")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.GCSBucket != "finance-snapshots" {
		t.Errorf("GCSBucket = %q, want finance-snapshots", cfg.GCSBucket)
	}
	if !cfg.FullRevert {
		t.Error("FullRevert should be true")
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoad_GeminiKeyAliases(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "gm-key" {
		t.Errorf("GeminiAPIKey = %q, want gm-key", cfg.GeminiAPIKey)
	}

	// GOOGLE_API_KEY wins when both are set.
	t.Setenv("GOOGLE_API_KEY", "gg-key")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "gg-key" {
		t.Errorf("GeminiAPIKey = %q, want gg-key", cfg.GeminiAPIKey)
	}
}

func TestLoad_BadBool(t *testing.T) {
	t.Setenv("FULL_REVERT", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FullRevert {
		t.Error("unparsable FULL_REVERT should keep the default")
	}
}
