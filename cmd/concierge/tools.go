package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/guestflow/concierge/internal/config"
	"github.com/guestflow/concierge/internal/state"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their arguments",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.DBPath
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state db: %w", err)
	}

	registry, err := buildRegistry(cfg, db)
	if err != nil {
		return err
	}

	for _, name := range registry.Names() {
		tool, ok := registry.Lookup(name)
		if !ok {
			continue
		}
		fmt.Println(name)

		schema := tool.Schema()
		argNames := make([]string, 0, len(schema))
		for arg := range schema {
			argNames = append(argNames, arg)
		}
		sort.Strings(argNames)

		for _, arg := range argNames {
			spec := schema[arg]
			required := ""
			if spec.Required {
				required = " (required)"
			}
			fmt.Printf("  %s: %s%s ~ %s\n", arg, spec.Type, required, spec.Description)
		}
	}
	return nil
}
