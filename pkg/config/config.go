// Package config loads application configuration from defaults, an
// optional YAML file, environment variables, and command-line flags, in
// ascending precedence.
package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Global Koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global Koanf instance.
// This should be called early in the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = newKoanf()
	})
}

func newKoanf() *koanf.Koanf {
	return koanf.New(".")
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex // To protect currentConfig during runtime updates
}

// NewManager creates a new Manager backed by the global Koanf instance.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{
		koanfInstance: k,
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
// These serve as the baseline configuration if no other sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		API: APIConfig{
			BaseURL:      "http://localhost:8000",
			Timeout:      30 * time.Second,
			PollInterval: 2 * time.Second,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1",
			Port:         7878,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		History: HistoryConfig{
			Path: "reelcraft-history.db",
		},
		Artifacts: ArtifactsConfig{
			Dir: "reelcraft-artifacts",
		},
		Identity: IdentityConfig{
			UserID:      "local",
			WorkspaceID: "default",
		},
	}
}

// Load loads configuration from the default source chain.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (--api.base-url=...)
//  2. Environment variables (REELCRAFT_API_BASE_URL=...)
//  3. Config file (YAML)
//  4. Default values
//
// Environment variables use the REELCRAFT_ prefix with underscore-to-dot
// mapping:
//
//	REELCRAFT_LOG_LEVEL     -> log.level
//	REELCRAFT_API_BASE_URL  -> api.base_url
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	sources := DefaultSources(customConfigFilePath, flags)
	return m.LoadWithSources(sources)
}

// LoadWithSources loads configuration from the provided sources in priority
// order. Sources with lower priority values are loaded first; higher
// priority sources override lower priority values.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	for _, src := range sources {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("error loading config from %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	m.currentConfig = newCfg

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := m.currentConfig
	return cfgCopy
}

// GetValue retrieves a configuration value by key path.
// Example: GetValue("api.poll_interval"). Returns nil if the key is absent.
func (m *Manager) GetValue(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance.Get(key)
}

// DefaultConfigAsMap converts the DefaultConfig struct to a
// map[string]interface{} for Koanf's confmap provider, so Koanf knows
// every key up front.
func DefaultConfigAsMap() map[string]any {
	def := DefaultConfig()
	return map[string]any{
		// Log configuration
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		// Backend API configuration
		"api.base_url":      def.API.BaseURL,
		"api.key":           def.API.Key,
		"api.timeout":       def.API.Timeout,
		"api.poll_interval": def.API.PollInterval,

		// Local server configuration
		"server.addr":          def.Server.Addr,
		"server.port":          def.Server.Port,
		"server.read_timeout":  def.Server.ReadTimeout,
		"server.write_timeout": def.Server.WriteTimeout,

		// History configuration
		"history.path": def.History.Path,

		// Artifacts configuration
		"artifacts.dir": def.Artifacts.Dir,

		// Identity configuration
		"identity.user_id":      def.Identity.UserID,
		"identity.workspace_id": def.Identity.WorkspaceID,
	}
}

// BindFlags defines command-line flags corresponding to configuration
// settings. These flags override config file and environment settings.
// Called when setting up the root Cobra command.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.String("api.base_url", defaults.API.BaseURL, "Generation backend base URL")
	flags.String("api.key", "", "Generation backend API key")
	flags.Duration("api.poll_interval", defaults.API.PollInterval, "Delay between job status polls")
	flags.String("history.path", defaults.History.Path, "Path to the local job history database")
	flags.String("artifacts.dir", defaults.Artifacts.Dir, "Directory for downloaded results")

	// Note: the main --config / -c flag for specifying the config file path
	// is defined directly on the root Cobra command's PersistentFlags.
}
