package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import extracted candidates or vacancies from JSON files",
}

var importCandidatesCmd = &cobra.Command{
	Use:   "candidates <file.json>",
	Short: "Import a JSON array of candidates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			count, err := a.catalog.ImportCandidates(ctx, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d candidates\n", count)
			return nil
		})(cmd, args)
	},
}

var importVacanciesCmd = &cobra.Command{
	Use:   "vacancies <file.json>",
	Short: "Import a JSON array of vacancies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			count, err := a.catalog.ImportVacancies(ctx, file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d vacancies\n", count)
			return nil
		})(cmd, args)
	},
}

func init() {
	importCmd.AddCommand(importCandidatesCmd, importVacanciesCmd)
	rootCmd.AddCommand(importCmd)
}
