// Package main provides the entry point for the mepscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mepscan",
	Short: "Harvest MEP contact and affiliation data",
	Long:  "mepscan harvests contact and affiliation data (email, X handle, political group, country, national party) for Members of the European Parliament from europarl.europa.eu, merges manual corrections, and produces ranking reports.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
