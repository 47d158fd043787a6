package service

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"yatube/app/cache"
	"yatube/app/config"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/routes"
)

// RunAppServer starts the blog server and blocks until SIGINT or SIGTERM.
func RunAppServer(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.BindAddress, "address to listen on")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, *addr, logger); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	logger.Info("server exited")
	return 0
}

func serve(ctx context.Context, cfg *config.Config, addr string, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	store, err := repositories.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	pageCache, err := cache.NewPageCache(cfg.CacheMaxBytes)
	if err != nil {
		return fmt.Errorf("create page cache: %w", err)
	}
	defer pageCache.Close()

	server, err := routes.New(routes.Deps{
		Store:     store,
		Sessions:  middleware.NewCookieStore(cfg.SessionSecret),
		Logger:    logger,
		PageCache: pageCache,
		IndexTTL:  cfg.IndexCacheTTL,
		PerPage:   cfg.PostsPerPage,
		LoginURL:  cfg.LoginURL,
		StaticDir: cfg.StaticDir,
	})
	if err != nil {
		return err
	}

	logger.Info("starting yatube", "address", addr, "db", cfg.DBPath, "env", cfg.Env)
	return routes.StartServer(ctx, addr, server, logger)
}
