// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries need. Fields left empty disable the
// corresponding integration: no GCS bucket means the file store, no Gemini
// key means no advisor, and so on.
type Config struct {
	Port     string
	LogLevel string

	// Snapshot persistence. When GCSBucket is set the snapshot blob lives
	// in Cloud Storage; otherwise it is a local file at DataFile.
	DataFile       string
	GCSBucket      string
	SnapshotObject string

	// Gemini advisor.
	GeminiAPIKey string
	GeminiModel  string

	// BigQuery analytics export.
	BQProject string
	BQDataset string

	// Notion sync.
	NotionToken      string
	NotionDatabaseID string

	// FullRevert enables the corrected edit semantics where every
	// transaction kind is unwound before the replacement is applied.
	FullRevert bool
}

// Load reads configuration, sourcing .env first when present. Missing
// optional values fall back to defaults suited to local use.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DataFile:         getEnv("DATA_FILE", "fintracker.json"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		SnapshotObject:   getEnv("SNAPSHOT_OBJECT", "mainData.json"),
		GeminiAPIKey:     firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", ""),
		BQProject:        os.Getenv("BQ_PROJECT"),
		BQDataset:        getEnv("BQ_DATASET", "fintracker"),
		NotionToken:      os.Getenv("NOTION_TOKEN"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		FullRevert:       getBoolEnv("FULL_REVERT", false),
	}
	return cfg, nil
}

// firstEnv returns the first non-empty variable. The Gemini SDK itself
// accepts either key name, so the gate must too.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
