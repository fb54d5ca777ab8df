package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nyukimin/failguard/internal/adapter/config"
	"github.com/Nyukimin/failguard/internal/adapter/web"
	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/infrastructure/health"
	persistence "github.com/Nyukimin/failguard/internal/infrastructure/persistence/session"
	"github.com/Nyukimin/failguard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the FailGuard web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Addr()
			}

			deps, err := buildDependencies(app)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), addr, deps)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config server.host:server.port)")

	return cmd
}

// Dependencies はサーバーの依存関係
type Dependencies struct {
	Handler http.Handler
	Sweeper *persistence.Sweeper
}

// buildDependencies は依存関係を構築
func buildDependencies(app *App) (*Dependencies, error) {
	cfg := app.Config

	// 1. Session Repository
	repo, err := newSessionRepository(cfg.Session)
	if err != nil {
		return nil, err
	}

	sweeper, err := persistence.NewSweeper(repo, cfg.Session.SweepSchedule, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	// 2. Health Checks
	checker := health.NewChecker()
	checker.Register("self", func(ctx context.Context) (bool, string) { return true, "ok" })
	checker.Register("predictor", health.PredictorCheck(app.Client, cfg.Predictor.Timeout))

	// 3. Web Handler
	handler := web.NewHandler(web.Options{
		Predictor:  app.Client,
		History:    app.Client,
		Sessions:   repo,
		Checker:    checker,
		Routes:     web.Routes{Form: cfg.Routes.Form, Results: cfg.Routes.Results},
		CookieName: cfg.Session.CookieName,
	})

	logger.InfoCF("serve", "dependencies.ready", map[string]interface{}{
		"predictor":       cfg.Predictor.BaseURL,
		"session_backend": cfg.Session.Backend,
		"results_route":   cfg.Routes.Results,
	})

	return &Dependencies{Handler: handler, Sweeper: sweeper}, nil
}

// newSessionRepository は設定に応じたセッションRepositoryを作成
func newSessionRepository(cfg config.SessionConfig) (session.Repository, error) {
	switch cfg.Backend {
	case config.SessionBackendJSON:
		// セッションディレクトリ作成
		if err := os.MkdirAll(cfg.StorageDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		return persistence.NewJSONSessionRepository(cfg.StorageDir), nil
	default:
		return persistence.NewMemorySessionRepository(), nil
	}
}

// serve はctxがキャンセルされるまでHTTPサーバーとセッション掃除を動かす
func serve(ctx context.Context, addr string, deps *Dependencies) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           deps.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		if err := deps.Sweeper.Run(sweepCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCF("serve", "sweeper.stopped", map[string]interface{}{
				"error": err,
			})
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoCF("serve", "server.listening", map[string]interface{}{
			"addr": addr,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.InfoCF("serve", "server.shutdown", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
