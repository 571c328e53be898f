package main

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/maxaizer/hr-matcher/internal/domain/models"
	"github.com/spf13/cobra"
)

type resultLister interface {
	ListByVacancy(ctx context.Context, vacancyID int64) ([]models.MatchResult, error)
}

var resultsCmd = &cobra.Command{
	Use:   "results <vacancy-id>",
	Short: "Show stored match results of a vacancy without scoring anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vacancyID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		return withApp(func(ctx context.Context, a *app) error {
			return listResults(ctx, a.results, vacancyID, cmd.OutOrStdout())
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

// listResults prints stored results best first. An empty store prints [].
func listResults(ctx context.Context, store resultLister, vacancyID int64, w io.Writer) error {
	results, err := store.ListByVacancy(ctx, vacancyID)
	if err != nil {
		return err
	}
	if results == nil {
		results = []models.MatchResult{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
