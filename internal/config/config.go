// Package config loads compiler settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "BFC_CONFIG"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the complete compiler configuration
type Config struct {
	Target    string          `toml:"target" yaml:"target"`
	Optimize  bool            `toml:"optimize" yaml:"optimize"`
	KeepFiles bool            `toml:"keep_files" yaml:"keep_files"`
	Labels    string          `toml:"labels" yaml:"labels"`
	Toolchain ToolchainConfig `toml:"toolchain" yaml:"toolchain"`

	// Source is the file the config was loaded from, empty for defaults.
	Source string `toml:"-" yaml:"-"`
}

// ToolchainConfig names the external programs used to build executables
type ToolchainConfig struct {
	Assembler string   `toml:"assembler" yaml:"assembler"`
	CC        string   `toml:"cc" yaml:"cc"`
	CFlags    []string `toml:"cflags" yaml:"cflags"`
	ASFlags   []string `toml:"asflags" yaml:"asflags"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// SearchPaths returns the locations tried when no explicit path is given,
// in order.
func SearchPaths() []string {
	paths := []string{"./bfc.toml", "./bfc.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "bfc", "config.toml"))
	}
	return paths
}

// Discover loads the configuration from explicit if it is not empty, then
// from $BFC_CONFIG, then from the first existing file in SearchPaths.
// With nothing found it returns Default().
func Discover(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Target == "" {
		c.Target = "asm"
	}
	if c.Labels == "" {
		c.Labels = "counter"
	}
	if c.Toolchain.Assembler == "" {
		c.Toolchain.Assembler = "as"
	}
	if c.Toolchain.CC == "" {
		c.Toolchain.CC = "gcc"
	}
}

// expandEnvVars expands environment variables in tool paths
func (c *Config) expandEnvVars() {
	c.Toolchain.Assembler = os.ExpandEnv(c.Toolchain.Assembler)
	c.Toolchain.CC = os.ExpandEnv(c.Toolchain.CC)
}

// Validate checks enumerated fields. Errors wrap ErrInvalid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Target) {
	case "asm", "c":
	default:
		return fmt.Errorf("%w: target %q (want asm or c)", ErrInvalid, c.Target)
	}
	switch c.Labels {
	case "counter", "random":
	default:
		return fmt.Errorf("%w: labels %q (want counter or random)", ErrInvalid, c.Labels)
	}
	if strings.TrimSpace(c.Toolchain.Assembler) == "" || strings.TrimSpace(c.Toolchain.CC) == "" {
		return fmt.Errorf("%w: toolchain programs must not be blank", ErrInvalid)
	}
	return nil
}
