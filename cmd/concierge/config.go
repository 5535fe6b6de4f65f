package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guestflow/concierge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify concierge configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/concierge/config.yaml
Project-specific overrides can be placed in .concierge.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s\n", config.MaskAPIKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", orUnset(cfg.Anthropic.Model))
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", orUnset(cfg.Anthropic.AWSRegion))
	fmt.Printf("anthropic.aws_profile: %s\n", orUnset(cfg.Anthropic.AWSProfile))
	fmt.Printf("orchestrator.max_adaptation_turns: %d\n", cfg.Orchestrator.MaxAdaptationTurns)
	fmt.Printf("orchestrator.max_total_tools: %d\n", cfg.Orchestrator.MaxTotalTools)
	fmt.Printf("orchestrator.adaptation_threshold: %g\n", cfg.Orchestrator.AdaptationThreshold)
	fmt.Printf("runtime.call_timeout: %s\n", cfg.Runtime.CallTimeout)
	fmt.Printf("runtime.max_parallel: %d\n", cfg.Runtime.MaxParallel)
	fmt.Printf("session.classify_timeout: %s\n", cfg.Session.ClassifyTimeout)
	fmt.Printf("storage.db_path: %s\n", orUnset(cfg.Storage.DBPath))
	fmt.Printf("storage.holiday_calendar: %s\n", orUnset(cfg.Storage.HolidayCalendar))
	fmt.Printf("storage.runtime_dir: %s\n", orUnset(cfg.Storage.RuntimeDir))
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return orUnset(cfg.Anthropic.Model), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return orUnset(cfg.Anthropic.AWSRegion), nil
	case "anthropic.aws_profile":
		return orUnset(cfg.Anthropic.AWSProfile), nil
	case "orchestrator.max_adaptation_turns":
		return strconv.Itoa(cfg.Orchestrator.MaxAdaptationTurns), nil
	case "orchestrator.max_total_tools":
		return strconv.Itoa(cfg.Orchestrator.MaxTotalTools), nil
	case "orchestrator.adaptation_threshold":
		return strconv.FormatFloat(cfg.Orchestrator.AdaptationThreshold, 'g', -1, 64), nil
	case "runtime.call_timeout":
		return cfg.Runtime.CallTimeout.String(), nil
	case "runtime.max_parallel":
		return strconv.Itoa(cfg.Runtime.MaxParallel), nil
	case "session.classify_timeout":
		return cfg.Session.ClassifyTimeout.String(), nil
	case "storage.db_path":
		return orUnset(cfg.Storage.DBPath), nil
	case "storage.holiday_calendar":
		return orUnset(cfg.Storage.HolidayCalendar), nil
	case "storage.runtime_dir":
		return orUnset(cfg.Storage.RuntimeDir), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "orchestrator.max_adaptation_turns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_adaptation_turns: %w", err)
		}
		cfg.Orchestrator.MaxAdaptationTurns = n
	case "orchestrator.max_total_tools":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_total_tools: %w", err)
		}
		cfg.Orchestrator.MaxTotalTools = n
	case "orchestrator.adaptation_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for adaptation_threshold: %w", err)
		}
		cfg.Orchestrator.AdaptationThreshold = f
	case "runtime.call_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for call_timeout: %w", err)
		}
		cfg.Runtime.CallTimeout = d
	case "runtime.max_parallel":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_parallel: %w", err)
		}
		cfg.Runtime.MaxParallel = n
	case "session.classify_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for classify_timeout: %w", err)
		}
		cfg.Session.ClassifyTimeout = d
	case "storage.db_path":
		cfg.Storage.DBPath = value
	case "storage.holiday_calendar":
		cfg.Storage.HolidayCalendar = value
	case "storage.runtime_dir":
		cfg.Storage.RuntimeDir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
