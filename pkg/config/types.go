package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	API       APIConfig       `koanf:"api"`
	Server    ServerConfig    `koanf:"server"`
	History   HistoryConfig   `koanf:"history"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Identity  IdentityConfig  `koanf:"identity"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "text" (console writer) or "json".
	Format string `koanf:"format"`

	// File is an optional log file path; empty means stderr.
	File string `koanf:"file"`
}

// APIConfig points at the generation backend.
type APIConfig struct {
	// BaseURL is the backend root URL.
	BaseURL string `koanf:"base_url"`

	// Key authenticates requests when non-empty.
	Key string `koanf:"key"`

	// Timeout bounds a single HTTP round trip.
	Timeout time.Duration `koanf:"timeout"`

	// PollInterval is the delay between status fetches while a job runs.
	PollInterval time.Duration `koanf:"poll_interval"`
}

// ServerConfig controls the local history API server.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// HistoryConfig controls local job history persistence.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `koanf:"path"`
}

// ArtifactsConfig controls where downloaded results are stored.
type ArtifactsConfig struct {
	// Dir is the artifact store root directory.
	Dir string `koanf:"dir"`
}

// IdentityConfig carries the caller identity attached to submissions.
type IdentityConfig struct {
	UserID      string `koanf:"user_id"`
	WorkspaceID string `koanf:"workspace_id"`
}
