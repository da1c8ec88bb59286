package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leavex/mepscan/internal/ranking"
	"github.com/leavex/mepscan/internal/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank countries and parties by MEPs on X",
	Long:  "Reads a harvested (optionally override-merged) JSON record set and prints markdown ranking tables: absolute counts of MEPs on X by country and national party, or percentage shares by country and EU group with --percentages.",
	RunE:  runRank,
}

var (
	rankInputPath   string
	rankPercentages bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankInputPath, "input", "i", "", "Path to the JSON record set (required)")
	rankCmd.Flags().BoolVar(&rankPercentages, "percentages", false, "Rank by share of MEPs on X instead of absolute counts")

	if err := rankCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(rankInputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %s: %w", rankInputPath, err)
	}

	var records []types.MemberRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse record set %s: %w", rankInputPath, err)
	}

	if rankPercentages {
		ranking.RenderShares(os.Stdout, "Ranking by country (share of MEPs on X)", "Country",
			ranking.ShareBy(records, ranking.ByCountry))
		ranking.RenderShares(os.Stdout, "Ranking by EU group (share of MEPs on X)", "EU group",
			ranking.ShareBy(records, ranking.ByPoliticalGroup))
		return nil
	}

	ranking.RenderCounts(os.Stdout, "Ranking by country (MEPs on X)", "Country",
		ranking.CountBy(records, ranking.ByCountry))
	ranking.RenderCounts(os.Stdout, "Ranking by party (MEPs on X)", "Party",
		ranking.CountBy(records, ranking.ByNationalParty))
	return nil
}
