package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/guestflow/concierge/internal/config"
	"github.com/guestflow/concierge/internal/tools"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration and holiday calendar",
	Long: `Set up the concierge for first use.

Creates:
  - ~/.config/concierge/config.yaml with documented defaults
  - ~/.config/concierge/holidays.yaml with a starter holiday calendar

Existing files are kept unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.GetUserConfigPath()
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	wroteConfig, err := writeDefaultConfig(configPath)
	if err != nil {
		return err
	}
	if wroteConfig {
		printStatus("✓", "Created "+configPath, color.FgGreen)
	} else {
		printStatus("⚠", "Config exists, kept "+configPath, color.FgYellow)
	}

	calendarPath := filepath.Join(configDir, "holidays.yaml")
	wroteCalendar, err := writeStarterCalendar(calendarPath)
	if err != nil {
		return err
	}
	if wroteCalendar {
		printStatus("✓", "Created "+calendarPath, color.FgGreen)
	} else {
		printStatus("⚠", "Calendar exists, kept "+calendarPath, color.FgYellow)
	}

	fmt.Printf("\n%s Concierge setup complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("  1. Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println()
	}
	fmt.Println("  2. Try a request:")
	fmt.Println("     concierge ask \"any rooms this weekend for 2?\"")
	fmt.Println("     # or: concierge (for interactive chat)")
	fmt.Println()
	return nil
}

// writeDefaultConfig writes config.yaml unless it already exists.
func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil && !initForce {
		return false, nil
	}

	defaults := config.Default()
	out := map[string]any{
		"anthropic": map[string]any{
			"api_key":         "${ANTHROPIC_API_KEY}",
			"model":           "",
			"use_aws_bedrock": false,
		},
		"orchestrator": map[string]any{
			"max_adaptation_turns": defaults.Orchestrator.MaxAdaptationTurns,
			"max_total_tools":      defaults.Orchestrator.MaxTotalTools,
			"adaptation_threshold": defaults.Orchestrator.AdaptationThreshold,
		},
		"runtime": map[string]any{
			"call_timeout": defaults.Runtime.CallTimeout.String(),
			"max_parallel": defaults.Runtime.MaxParallel,
		},
		"session": map[string]any{
			"classify_timeout": defaults.Session.ClassifyTimeout.String(),
		},
		"storage": map[string]any{
			"holiday_calendar": filepath.Join(filepath.Dir(path), "holidays.yaml"),
		},
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return false, fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}

// writeStarterCalendar writes holidays.yaml unless it already exists.
func writeStarterCalendar(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil && !initForce {
		return false, nil
	}

	calendar := tools.HolidayCalendar{
		Holidays: []tools.Holiday{
			{Name: "christmas", Start: "2026-12-24", End: "2026-12-27"},
			{Name: "new year", Start: "2026-12-31", End: "2027-01-02"},
			{Name: "easter", Start: "2027-03-26", End: "2027-03-29"},
		},
	}

	data, err := yaml.Marshal(calendar)
	if err != nil {
		return false, fmt.Errorf("marshal holiday calendar: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("write holiday calendar: %w", err)
	}
	return true, nil
}

// printStatus prints a colored status line.
func printStatus(symbol, message string, attr color.Attribute) {
	c := color.New(attr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
