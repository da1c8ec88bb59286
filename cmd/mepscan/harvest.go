package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leavex/mepscan/internal/config"
	"github.com/leavex/mepscan/internal/fetch"
	"github.com/leavex/mepscan/internal/harvest"
	"github.com/leavex/mepscan/internal/observability"
	"github.com/leavex/mepscan/internal/output"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest the full MEP roster into a CSV file",
	Long:  "Discovers all members from the full-list page, fetches each profile, extracts contact and affiliation fields, and writes the record set as semicolon-separated CSV (and optionally JSON).",
	RunE:  runHarvest,
}

var (
	harvestOnlyWithX  bool
	harvestOutput     string
	harvestJSONOutput string
	harvestConfigPath string
	harvestWorkers    int
	harvestUseBrowser bool
	harvestVerbose    bool
)

func init() {
	harvestCmd.Flags().BoolVar(&harvestOnlyWithX, "only-with-x", false, "Only include MEPs that have an X/Twitter account")
	harvestCmd.Flags().StringVarP(&harvestOutput, "output", "o", "meps.csv", "Output CSV filename")
	harvestCmd.Flags().StringVar(&harvestJSONOutput, "json-output", "", "Also write the record set as JSON to this file")
	harvestCmd.Flags().StringVar(&harvestConfigPath, "config", "", "Path to a JSON config file")
	harvestCmd.Flags().IntVar(&harvestWorkers, "workers", 0, "Number of concurrent profile fetches (default: 1, sequential)")
	harvestCmd.Flags().BoolVar(&harvestUseBrowser, "use-browser", false, "Render JavaScript-heavy pages in a headless browser")
	harvestCmd.Flags().BoolVarP(&harvestVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if harvestConfigPath != "" {
		loaded, err := config.Load(harvestConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()
	if harvestWorkers > 0 {
		cfg.Workers = harvestWorkers
	}
	if harvestUseBrowser {
		cfg.UseBrowser = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := observability.NewLogger(harvestVerbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	fetcher := fetch.New(&cfg, log)
	harvester := harvest.New(&cfg, fetcher, log)

	var include harvest.Predicate
	if harvestOnlyWithX {
		include = harvest.HasSocial
	}

	records, _, err := harvester.Run(cmd.Context(), include)
	if err != nil {
		return err
	}

	if err := output.WriteCSV(harvestOutput, records, log); err != nil {
		return err
	}
	if harvestJSONOutput != "" {
		if err := output.WriteJSON(harvestJSONOutput, records, log); err != nil {
			return err
		}
	}

	return nil
}
