package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a candidate or a vacancy together with its match results",
}

func deleteCommand(kind string, remove func(ctx context.Context, a *app, id int64) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app) error {
				removed, err := remove(ctx, a, id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%s %d not found", kind, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d deleted\n", kind, id)
				return nil
			})(cmd, args)
		},
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			stats, err := a.catalog.Stats(ctx)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		})(cmd, args)
	},
}

func init() {
	deleteCmd.AddCommand(
		deleteCommand("candidate", func(ctx context.Context, a *app, id int64) (bool, error) {
			return a.catalog.DeleteCandidate(ctx, id)
		}),
		deleteCommand("vacancy", func(ctx context.Context, a *app, id int64) (bool, error) {
			return a.catalog.DeleteVacancy(ctx, id)
		}),
	)
	rootCmd.AddCommand(deleteCmd, statsCmd)
}
