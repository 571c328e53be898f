package main

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/maxaizer/hr-matcher/internal/services"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank <vacancy-id>",
	Short: "Rank candidates for a vacancy, best first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vacancyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		values := url.Values{}
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			values.Set("status", status)
		}
		if cmd.Flags().Changed("min-score") {
			minScore, _ := cmd.Flags().GetFloat64("min-score")
			values.Set("min_score", strconv.FormatFloat(minScore, 'f', -1, 64))
		}
		if force, _ := cmd.Flags().GetBool("force"); force {
			values.Set("force_recalculate", "true")
		}

		query, err := services.ParseRankQuery(values)
		if err != nil {
			return err
		}

		return withApp(func(ctx context.Context, a *app) error {
			ranked, err := a.ranking.Rank(ctx, vacancyID, query)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(ranked)
		})(cmd, args)
	},
}

func init() {
	rankCmd.Flags().String("status", "", "only candidates with this status")
	rankCmd.Flags().Float64("min-score", 0, "minimum score in percent (0-100)")
	rankCmd.Flags().Bool("force", false, "recalculate stored scores")
	rootCmd.AddCommand(rankCmd)
}
