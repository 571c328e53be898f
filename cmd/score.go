package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <candidate-id> <vacancy-id>",
	Short: "Show the match result of one candidate for one vacancy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidateID, vacancyID, err := parsePair(args)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		return withApp(func(ctx context.Context, a *app) error {
			candidate, err := a.candidates.GetByID(ctx, candidateID)
			if err != nil {
				return err
			}
			vacancy, err := a.vacancies.GetByID(ctx, vacancyID)
			if err != nil {
				return err
			}
			if candidate == nil || vacancy == nil {
				return fmt.Errorf("candidate %d or vacancy %d not found", candidateID, vacancyID)
			}

			result, err := a.scorer.Score(ctx, candidate, vacancy, force)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		})(cmd, args)
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard <candidate-id> <vacancy-id>",
	Short: "Discard the stored match result of a candidate for a vacancy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidateID, vacancyID, err := parsePair(args)
		if err != nil {
			return err
		}

		return withApp(func(ctx context.Context, a *app) error {
			deleted, err := a.ranking.Discard(ctx, candidateID, vacancyID)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("no match result for candidate %d and vacancy %d", candidateID, vacancyID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "discarded")
			return nil
		})(cmd, args)
	},
}

func parsePair(args []string) (int64, int64, error) {
	candidateID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("candidate id: %w", err)
	}
	vacancyID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("vacancy id: %w", err)
	}
	return candidateID, vacancyID, nil
}

func init() {
	scoreCmd.Flags().Bool("force", false, "discard the stored result and recompute")
	rootCmd.AddCommand(scoreCmd, discardCmd)
}
