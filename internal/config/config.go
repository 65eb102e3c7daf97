// Package config resolves revpanel configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Defaults for environment-overridable settings.
const (
	DefaultModel      = "gpt-4o-mini"
	DefaultSession    = "code-review"
	DefaultStateDir   = ".revpanel/sessions"
	DefaultReviewsDir = "reviews"
)

// Config holds everything the panel driver and CLI need. Flag values override
// these after Load.
type Config struct {
	APIKey     string // OpenAI credential; required
	Model      string // chat model the personas run on
	SessionID  string // conversation session key; reuse accumulates history
	StateDir   string // where the file-backed session store lives
	ReviewsDir string // root directory for generated reports
}

// Load reads configuration from the process environment, first merging in a
// local .env file when present. A missing API key is a startup error; nothing
// else is required.
func Load() (*Config, error) {
	// Absence of .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("missing OPENAI_API_KEY: export it or add it to a .env file")
	}

	return &Config{
		APIKey:     key,
		Model:      envOr("REVPANEL_MODEL", DefaultModel),
		SessionID:  envOr("REVPANEL_SESSION", DefaultSession),
		StateDir:   envOr("REVPANEL_STATE_DIR", DefaultStateDir),
		ReviewsDir: envOr("REVPANEL_REVIEWS_DIR", DefaultReviewsDir),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
