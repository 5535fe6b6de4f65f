// Package config handles configuration loading for the concierge. It
// supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all concierge configuration.
type Config struct {
	Anthropic    AnthropicConfig    `mapstructure:"anthropic"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Runtime      RuntimeConfig      `mapstructure:"runtime"`
	Session      SessionConfig      `mapstructure:"session"`
	Storage      StorageConfig      `mapstructure:"storage"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	// APIKey is the API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model overrides the default planning model.
	Model string `mapstructure:"model"`
	// UseAWSBedrock routes requests through AWS Bedrock instead of the
	// Anthropic API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region when UseAWSBedrock is set.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the shared-config profile when UseAWSBedrock is set.
	AWSProfile string `mapstructure:"aws_profile"`
}

// OrchestratorConfig bounds the adaptive re-planning loop.
type OrchestratorConfig struct {
	// MaxAdaptationTurns caps re-planning rounds per request.
	MaxAdaptationTurns int `mapstructure:"max_adaptation_turns"`
	// MaxTotalTools caps tool calls per request across all rounds.
	MaxTotalTools int `mapstructure:"max_total_tools"`
	// AdaptationThreshold is the issue ratio above which adaptation runs.
	AdaptationThreshold float64 `mapstructure:"adaptation_threshold"`
}

// RuntimeConfig tunes the wave scheduler.
type RuntimeConfig struct {
	// CallTimeout bounds each tool call.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// MaxParallel bounds concurrent tool calls within a wave.
	MaxParallel int `mapstructure:"max_parallel"`
}

// SessionConfig tunes per-user session handling.
type SessionConfig struct {
	// ClassifyTimeout bounds the LLM intent-classifier fallback.
	ClassifyTimeout time.Duration `mapstructure:"classify_timeout"`
}

// StorageConfig holds filesystem paths.
type StorageConfig struct {
	// DBPath overrides the default run-history database location.
	DBPath string `mapstructure:"db_path"`
	// HolidayCalendar is the YAML holiday calendar for date resolution.
	HolidayCalendar string `mapstructure:"holiday_calendar"`
	// RuntimeDir holds operator signal files. Empty disables the watcher.
	RuntimeDir string `mapstructure:"runtime_dir"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.concierge.yaml in current directory or parent)
// 3. User config (~/.config/concierge/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.use_aws_bedrock", "CLAUDE_CODE_USE_BEDROCK")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("orchestrator.max_adaptation_turns", cfg.Orchestrator.MaxAdaptationTurns)
	v.Set("orchestrator.max_total_tools", cfg.Orchestrator.MaxTotalTools)
	v.Set("orchestrator.adaptation_threshold", cfg.Orchestrator.AdaptationThreshold)
	v.Set("runtime.call_timeout", cfg.Runtime.CallTimeout.String())
	v.Set("runtime.max_parallel", cfg.Runtime.MaxParallel)
	v.Set("session.classify_timeout", cfg.Session.ClassifyTimeout.String())
	v.Set("storage.db_path", cfg.Storage.DBPath)
	v.Set("storage.holiday_calendar", cfg.Storage.HolidayCalendar)
	v.Set("storage.runtime_dir", cfg.Storage.RuntimeDir)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it
// exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("orchestrator.max_adaptation_turns", 1)
	v.SetDefault("orchestrator.max_total_tools", 10)
	v.SetDefault("orchestrator.adaptation_threshold", 0.5)

	v.SetDefault("runtime.call_timeout", "30s")
	v.SetDefault("runtime.max_parallel", 8)

	v.SetDefault("session.classify_timeout", "2s")

	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.holiday_calendar", "")
	v.SetDefault("storage.runtime_dir", "")
}

// getUserConfigDir returns the XDG config directory for the concierge.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "concierge")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "concierge")
	}
	return filepath.Join(home, ".config", "concierge")
}

// findProjectConfig searches for .concierge.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".concierge.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Orchestrator: OrchestratorConfig{
			MaxAdaptationTurns:  1,
			MaxTotalTools:       10,
			AdaptationThreshold: 0.5,
		},
		Runtime: RuntimeConfig{
			CallTimeout: 30 * time.Second,
			MaxParallel: 8,
		},
		Session: SessionConfig{
			ClassifyTimeout: 2 * time.Second,
		},
	}
}
