package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leavex/mepscan/internal/observability"
	"github.com/leavex/mepscan/internal/overrides"
)

var mergeCmd = &cobra.Command{
	Use:   "merge-overrides",
	Short: "Merge manual overrides into a harvested record set",
	Long:  "Overlays a JSON correction file (object keyed by member id) onto the harvester's JSON output. Overrides for unknown ids create stub records.",
	RunE:  runMerge,
}

var (
	mergeBasePath      string
	mergeOverridesPath string
	mergeOutputPath    string
	mergeSchemaPath    string
	mergeVerbose       bool
)

func init() {
	mergeCmd.Flags().StringVar(&mergeBasePath, "base", "", "Path to the harvested JSON record set (required)")
	mergeCmd.Flags().StringVar(&mergeOverridesPath, "overrides", "", "Path to the overrides JSON file (required)")
	mergeCmd.Flags().StringVarP(&mergeOutputPath, "output", "o", "meps_all_with_overrides.json", "Output filename for the merged record set")
	mergeCmd.Flags().StringVar(&mergeSchemaPath, "schema", "schemas/overrides_schema.json", "JSON schema to validate the overrides file against (empty to skip)")
	mergeCmd.Flags().BoolVarP(&mergeVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := mergeCmd.MarkFlagRequired("base"); err != nil {
		panic(fmt.Sprintf("failed to mark base flag as required: %v", err))
	}
	if err := mergeCmd.MarkFlagRequired("overrides"); err != nil {
		panic(fmt.Sprintf("failed to mark overrides flag as required: %v", err))
	}

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(_ *cobra.Command, _ []string) error {
	log, err := observability.NewLogger(mergeVerbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	return overrides.MergeFiles(mergeBasePath, mergeOverridesPath, mergeOutputPath, mergeSchemaPath, log)
}
