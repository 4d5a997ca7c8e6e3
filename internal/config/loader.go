package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/agentd/internal/agent"
	"github.com/fyrsmithlabs/agentd/internal/logging"
	"github.com/fyrsmithlabs/agentd/internal/telemetry"
)

const (
	maxConfigFileSize = 1024 * 1024

	// envPrefix namespaces agentd environment overrides, e.g.
	// AGENTD_PROVIDER_API_KEY -> provider.api_key.
	envPrefix = "AGENTD_"
)

// Load reads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (AGENTD_PROVIDER_MODEL, AGENTD_LOGGING_LEVEL, ...)
//  2. YAML config file (~/.config/agentd/config.yaml by default)
//  3. Defaults
//
// The config file must live under ~/.config/agentd/ or /etc/agentd/
// and carry 0600/0400 permissions; a missing file is fine, defaults
// plus environment apply.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "agentd", "config.yaml")
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		// Open once and validate through the descriptor to avoid a
		// TOCTOU race between stat and read.
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
		if err := validateConfigFileProperties(info); err != nil {
			return nil, fmt.Errorf("config file validation failed: %w", err)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envTransform maps AGENTD_SECTION_FIELD_NAME to section.field_name:
// the first underscore after the prefix separates the section, the
// rest stays a single snake_case field.
func envTransform(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// EnsureConfigDir creates ~/.config/agentd with owner-only permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "agentd")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return nil
}

// validateConfigPath checks that the path is in an allowed directory.
// Runs even when the file does not exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// Symlink evaluation fails for not-yet-existing files; validate
		// the absolute path instead.
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	allowedDirs := []string{
		filepath.Join(home, ".config", "agentd"),
		"/etc/agentd",
	}
	for _, dir := range allowedDirs {
		if strings.HasPrefix(resolvedPath, dir) {
			return nil
		}
	}
	return fmt.Errorf("config file must be in ~/.config/agentd/ or /etc/agentd/")
}

// validateConfigFileProperties checks permissions and size on an
// already-opened file.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

// defaultConfig is the baseline the file and environment layer over.
func defaultConfig() *Config {
	return &Config{
		Logging:   *logging.DefaultConfig(),
		Telemetry: *telemetry.DefaultConfig(),
		Agent:     agent.DefaultConfig(),
		Compression: CompressionConfig{
			Strategy: StrategyNone,
		},
		Guardrails: GuardrailsConfig{
			InjectionEnabled: true,
			InvisibleEnabled: true,
			SecretsEnabled:   true,
		},
	}
}

// applyDefaults fills values koanf unmarshalling may have zeroed.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Compression.Strategy == "" {
		cfg.Compression.Strategy = StrategyNone
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = cfg.Agent.Model
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = cfg.Provider.Model
	}
}
