package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFeaturesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the metrics the prediction service expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := app.Client.Features(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch features: %w", err)
			}
			app.Printer.Features(features)
			return nil
		},
	}
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the prediction service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.Client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("prediction service unreachable at %s: %w", app.Client.BaseURL(), err)
			}

			if h.Status == "healthy" && h.ModelLoaded {
				app.Printer.Success("%s is %s (model loaded, %dms)", app.Client.BaseURL(), h.Status, h.Latency.Milliseconds())
				return nil
			}

			app.Printer.Warning("%s status=%s model_loaded=%t", app.Client.BaseURL(), h.Status, h.ModelLoaded)
			return fmt.Errorf("prediction service is not ready")
		},
	}
}
