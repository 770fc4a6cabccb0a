package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"

	"ModelScout/internal/config"
	"ModelScout/internal/infrastructure/huggingface"
	"ModelScout/internal/infrastructure/llm"
	"ModelScout/internal/infrastructure/rpc"
	"ModelScout/internal/infrastructure/scheduler"
	"ModelScout/internal/infrastructure/storage"
	"ModelScout/internal/logging"
	"ModelScout/internal/ports"
	"ModelScout/internal/ranker"
	"ModelScout/internal/readme"
	"ModelScout/internal/tools"
	"ModelScout/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	server   *http.Server
	warmer   *usecase.CacheWarmer
	sessions storage.SessionStore
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	clk := clock.WallClock

	sessions, err := storage.Open(ctx, cfg.Sessions)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	hub := huggingface.NewClient(cfg.HuggingFace, nil, baseLogger.With("component", "huggingface"))
	listings := huggingface.NewCachedSource(hub, cfg.Cache.TTL, clk)

	var chatClient ports.ChatClient
	if client := llm.NewChatGPTClient(cfg.LLM); client.Configured() {
		chatClient = client
	} else {
		baseLogger.Warn("llm api key not set; tag inference falls back to the default tag")
	}

	explorer := usecase.NewExplorer(usecase.ExplorerDeps{
		Source:  listings,
		Readmes: hub,
		Chat:    chatClient,
		Ranker: ranker.New(clk, ranker.Options{
			FreshnessWindowDays: cfg.Ranking.FreshnessWindowDays,
			MinLikes:            int64(cfg.Ranking.MinLikes),
		}),
		Normalizer: readme.NewNormalizer(baseLogger.With("component", "readme")),
		Tags:       cfg.Ranking.Tags,
		DefaultTag: cfg.Ranking.DefaultTag,
		Logger:     baseLogger.With("component", "explorer"),
	})

	server := rpc.NewServer(rpc.ServerDeps{
		Registry:     tools.NewExplorerRegistry(explorer),
		Sessions:     sessions,
		Clock:        clk,
		HistoryLimit: cfg.Sessions.HistoryLimit,
		Logger:       baseLogger.With("component", "rpc"),
	})

	warmer := usecase.NewCacheWarmer(
		scheduler.NewIntervalScheduler(cfg.Cache.RefreshInterval, clk),
		listings,
		cfg.Cache.WarmTags,
		baseLogger.With("component", "cache"),
	)

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      server.Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		warmer:   warmer,
		sessions: sessions,
	}, nil
}

// Run serves until ctx is cancelled, then shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	if err := a.warmer.Start(ctx); err != nil {
		return fmt.Errorf("start cache warmer: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("tool server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var result error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			result = multierror.Append(result, fmt.Errorf("serve: %w", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("shutdown server: %w", err))
	}
	if err := a.warmer.Stop(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("stop cache warmer: %w", err))
	}
	if err := a.sessions.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close session log: %w", err))
	}

	a.logger.Info("tool server stopped")
	return result
}
