package main

import (
	"context"
	"fmt"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/config"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/schema"
	"github.com/spf13/cobra"
)

var applySchemaCmd = &cobra.Command{
	Use:   "apply-schema",
	Short: "Create the data mart tables and indexes if they do not already exist",
	RunE:  runApplySchema,
}

func runApplySchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dialect, err := cfg.Dialect()
	if err != nil {
		return fmt.Errorf("resolving database dialect: %w", err)
	}

	db, err := schema.Open(dialect, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := schema.Apply(context.Background(), db, dialect); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	fmt.Printf("schema applied (%s)\n", dialect)
	return nil
}
