// Package config loads asset configuration and wires a ready asset.Library.
//
// Configuration is loaded from a single YAML file named by the ASSET_CONFIG
// environment variable or passed explicitly. It selects the provider once
// for the process, the ambient cache policy, and the manifest that
// populates the registry.
//
//	provider: filesystem
//	policy: weak
//	manifest: assets/manifest.yaml
//	filesystem:
//	  root: assets
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/meigma/asset"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "ASSET_CONFIG"

// ProviderType selects the resource provider.
type ProviderType string

const (
	// Embedded serves compiled-in resources: an fs.FS passed with
	// WithEmbedFS, or a pack when Pack paths are configured.
	Embedded ProviderType = "embedded"
	// Filesystem serves files under Filesystem.Root.
	Filesystem ProviderType = "filesystem"
	// Preloaded loads every registered asset from Preload.Root before the
	// library is returned.
	Preloaded ProviderType = "preloaded"
)

var (
	// ErrNoConfig is returned by LoadFromEnv when ASSET_CONFIG is unset.
	ErrNoConfig = errors.New("config: " + EnvVar + " is not set")

	// ErrInvalid is returned by Validate for unusable configurations.
	ErrInvalid = errors.New("config: invalid")
)

// Config is the asset configuration.
type Config struct {
	// Provider selects the resource provider.
	Provider ProviderType `yaml:"provider"`

	// Policy is the initial ambient cache policy. Defaults to strong.
	Policy *asset.Policy `yaml:"policy,omitempty"`

	// Manifest is the registration manifest path.
	Manifest string `yaml:"manifest"`

	// Filesystem configures the filesystem provider.
	Filesystem FilesystemConfig `yaml:"filesystem"`

	// Pack configures a pack for the embedded provider.
	Pack PackConfig `yaml:"pack"`

	// Preload configures the preloaded provider.
	Preload PreloadConfig `yaml:"preload"`
}

// FilesystemConfig configures the filesystem provider.
type FilesystemConfig struct {
	Root string `yaml:"root"`
}

// PackConfig names the blobs of an asset pack on disk.
type PackConfig struct {
	Index string `yaml:"index"`
	Data  string `yaml:"data"`

	// Verify hashes the whole data blob on open.
	Verify bool `yaml:"verify"`
}

// PreloadConfig configures the preload phase.
type PreloadConfig struct {
	// Root is the directory loads read from.
	Root string `yaml:"root"`

	// Workers bounds concurrent loads; zero uses GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Decode stores decoded runtime objects instead of raw bytes. Images
	// preloaded this way cannot be read through Bytes or Text.
	Decode bool `yaml:"decode"`
}

// Load reads and validates a config file. Relative paths in the file are
// resolved against the file's directory.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	cfg.resolvePaths(filepath.Dir(filename))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by ASSET_CONFIG.
func LoadFromEnv() (*Config, error) {
	filename := os.Getenv(EnvVar)
	if filename == "" {
		return nil, ErrNoConfig
	}
	return Load(filename)
}

// Validate checks that the selected provider has what it needs.
func (c *Config) Validate() error {
	if c.Policy != nil && !c.Policy.Valid() {
		return fmt.Errorf("%w: policy %d", ErrInvalid, *c.Policy)
	}
	switch c.Provider {
	case Embedded:
		if (c.Pack.Index == "") != (c.Pack.Data == "") {
			return fmt.Errorf("%w: pack needs both index and data", ErrInvalid)
		}
	case Filesystem:
		if c.Filesystem.Root == "" {
			return fmt.Errorf("%w: filesystem.root is required", ErrInvalid)
		}
	case Preloaded:
		if c.Preload.Root == "" {
			return fmt.Errorf("%w: preload.root is required", ErrInvalid)
		}
	case "":
		return fmt.Errorf("%w: provider is required", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}
	return nil
}

// policy returns the configured policy or the library default.
func (c *Config) policy() asset.Policy {
	if c.Policy == nil {
		return asset.DefaultPolicy
	}
	return *c.Policy
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.Manifest,
		&c.Filesystem.Root,
		&c.Pack.Index,
		&c.Pack.Data,
		&c.Preload.Root,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
