package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/infrastructure/predictor/httpapi"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit     int
		withStats bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}

			entries, err := app.Client.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to fetch history: %w", err)
			}
			app.Printer.History(entries)

			if withStats {
				stats, err := app.Client.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to fetch stats: %w", err)
				}
				app.Printer.Separator()
				app.Printer.Stats(stats)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of predictions to show")
	cmd.Flags().BoolVar(&withStats, "stats", false, "also show aggregate statistics")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Client.Get(cmd.Context(), prediction.ID(args[0]))
			if errors.Is(err, httpapi.ErrNotFound) {
				return fmt.Errorf("prediction %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to fetch prediction: %w", err)
			}
			app.Printer.Entry(entry)
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Client.Delete(cmd.Context(), prediction.ID(args[0]))
			if errors.Is(err, httpapi.ErrNotFound) {
				return fmt.Errorf("prediction %s not found", args[0])
			}
			if err != nil {
				return err
			}
			app.Printer.Success("Prediction %s deleted", args[0])
			return nil
		},
	}
}
