package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix is stripped from environment variables before key mapping.
const envPrefix = "REELCRAFT_"

// ConfigSource is one layer of the configuration chain. Sources are loaded
// in ascending Priority order; later loads override earlier values.
type ConfigSource interface {
	// Name identifies the source in error messages.
	Name() string

	// Priority orders loading; lower loads first.
	Priority() int

	// Load merges the source into the koanf instance.
	Load(k *koanf.Koanf) error
}

// DefaultSources returns the standard chain: defaults, optional YAML file,
// environment, flags.
func DefaultSources(configFilePath string, flags *pflag.FlagSet) []ConfigSource {
	sources := []ConfigSource{
		defaultsSource{},
		fileSource{path: configFilePath},
		envSource{},
	}
	if flags != nil {
		sources = append(sources, flagSource{flags: flags})
	}
	return sources
}

type defaultsSource struct{}

func (defaultsSource) Name() string  { return "defaults" }
func (defaultsSource) Priority() int { return 0 }

func (defaultsSource) Load(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil)
}

type fileSource struct {
	path string
}

func (s fileSource) Name() string  { return "file" }
func (s fileSource) Priority() int { return 10 }

func (s fileSource) Load(k *koanf.Koanf) error {
	if s.path == "" {
		return nil
	}
	err := k.Load(file.Provider(s.path), yaml.Parser())
	if errors.Is(err, fs.ErrNotExist) {
		// A missing explicit config file is tolerated; env and flags can
		// carry the whole configuration.
		return nil
	}
	return err
}

type envSource struct{}

func (envSource) Name() string  { return "env" }
func (envSource) Priority() int { return 20 }

func (envSource) Load(k *koanf.Koanf) error {
	return k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// REELCRAFT_API_BASE_URL -> api.base_url: the first underscore
		// separates the section, the rest stays underscored.
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
}

type flagSource struct {
	flags *pflag.FlagSet
}

func (flagSource) Name() string  { return "flags" }
func (flagSource) Priority() int { return 30 }

func (s flagSource) Load(k *koanf.Koanf) error {
	return k.Load(posflag.Provider(s.flags, ".", k), nil)
}
