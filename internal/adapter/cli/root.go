package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nyukimin/failguard/internal/adapter/config"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/predictor/httpapi"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// App はサブコマンド間で共有する依存関係
type App struct {
	ConfigPath   string
	PredictorURL string

	Config  *config.Config
	Client  *httpapi.Client
	Printer *Printer

	stderr io.Writer

	// テストで差し替える
	newPrompter func(in io.Reader, out io.Writer) (Prompter, error)
	clipboard   view.Clipboard
}

// NewRootCmd はfailguardのルートコマンドを作成
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(&App{}, version)
}

func newRootCmd(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "failguard",
		Short:         "Predict module failure risk from code metrics",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", defaultConfigPath(), "config file (optional)")
	root.PersistentFlags().StringVar(&app.PredictorURL, "predictor-url", "", "prediction service base URL (overrides config)")

	root.AddCommand(
		newServeCmd(app),
		newPredictCmd(app),
		newFeaturesCmd(app),
		newHealthCmd(app),
		newHistoryCmd(app),
		newShowCmd(app),
		newDeleteCmd(app),
	)

	return root
}

// Execute はルートコマンドを実行し、終了コードを返す
func Execute(version string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := NewRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		NewPrinter(root.ErrOrStderr()).Error("%v", err)
		return 1
	}
	return 0
}

func (a *App) load(stdout, stderr io.Writer) error {
	cfg, err := config.LoadOptional(a.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.PredictorURL != "" {
		cfg.Predictor.BaseURL = a.PredictorURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --predictor-url: %w", err)
		}
	}

	logger.Init(stderr, cfg.Log.Format, cfg.Log.Level)

	a.Config = cfg
	a.Client = httpapi.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout)
	a.Printer = NewPrinter(stdout)
	a.stderr = stderr
	return nil
}

// defaultConfigPath は設定ファイルパスを取得
func defaultConfigPath() string {
	if path := os.Getenv("FAILGUARD_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}
