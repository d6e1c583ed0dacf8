package main

import (
	"fmt"
	"os"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/config"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/log"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "datamartreplicator",
	Short: "Replicates entity-resolution change events into a relational data mart",
	Long: `datamartreplicator consumes entity-resolution change events from Kafka,
coordinates per-entity work through a resource-scoped locking service, and
projects the resulting documents into a relational schema.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"datamartreplicator version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (optional)")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(applySchemaCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return
	}
	log.Init(cfg.LogConfigFor())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("datamartreplicator version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime)
		return nil
	},
}
