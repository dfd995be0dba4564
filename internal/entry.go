// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/victorprouff/envrac/internal/api"
	"github.com/victorprouff/envrac/internal/category"
	"github.com/victorprouff/envrac/internal/digest"
	"github.com/victorprouff/envrac/internal/github"
	"github.com/victorprouff/envrac/internal/todoist"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("todoist_project", cfg.Todoist.ProjectID),
		slog.String("github_repo", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo),
		slog.String("content_dir", cfg.GitHub.ContentDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Category mapping, externally maintained and hot-reloaded.
	store, err := category.NewStore(cfg.Categories.Path)
	if err != nil {
		return fmt.Errorf("load category mapping: %w", err)
	}

	// Outbound clients.
	gh := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.UserAgent,
		cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Timeout())
	tasks := todoist.NewClient(cfg.Todoist.BaseURL, cfg.Todoist.Token, cfg.Todoist.Timeout(), store.Classify)

	// Pipeline.
	locator := digest.NewLocator(gh, cfg.GitHub.ContentDir)
	composer := digest.NewComposer(cfg.Blog.BaseURL)
	committer := github.Committer{Name: cfg.GitHub.Committer.Name, Email: cfg.GitHub.Committer.Email}
	publisher := digest.NewPublisher(gh, cfg.GitHub.ContentDir, cfg.GitHub.Branch, cfg.GitHub.CommitMessage, committer)
	svc := digest.NewService(locator, composer, publisher, tasks, cfg.Todoist.ProjectID, app.now)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/", api.NewRouter(svc, cfg.Trigger.Secret))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the category mapping file for live edits.
	g.Go(func() error {
		return store.Watch(gCtx, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
