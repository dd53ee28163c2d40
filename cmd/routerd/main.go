// Code coverage for main is ignored for now.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Djnirds1984/Hybrid-Router/internal/api"
	"github.com/Djnirds1984/Hybrid-Router/internal/auth"
	"github.com/Djnirds1984/Hybrid-Router/internal/config"
	"github.com/Djnirds1984/Hybrid-Router/internal/executor"
	"github.com/Djnirds1984/Hybrid-Router/internal/orchestrator"
	"github.com/Djnirds1984/Hybrid-Router/internal/repository"
	"github.com/Djnirds1984/Hybrid-Router/internal/telemetry"
)

var (
	flagConfig  string
	flagListen  string
	flagDB      string
	flagScripts string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routerd",
		Short: "Hybrid Router control plane",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the management service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "listen address, overrides config")
	serveCmd.Flags().StringVar(&flagDB, "db", "", "database path, overrides config")
	serveCmd.Flags().StringVar(&flagScripts, "scripts", "", "helper scripts directory, overrides config")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagScripts != "" {
		cfg.ScriptsDir = flagScripts
	}

	setupLogging(cfg.LogLevel)

	db, err := cfg.InitializeDatabase()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		return err
	}
	defer db.Close()

	exec := executor.NewScriptExecutor(cfg.ScriptsDir,
		executor.WithInterpreter(cfg.Executor.Interpreter),
		executor.WithTimeout(cfg.ExecutorTimeout()),
	)
	orch := orchestrator.New(db, exec)

	sessions := auth.NewStore(repository.NewUserRepository(db))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sessions.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Error().Err(err).Msg("failed to bootstrap admin user")
		return err
	}

	hub := telemetry.NewHub(telemetry.NewExecutorSampler(exec), cfg.TelemetryInterval())
	go hub.Run()
	defer hub.Stop()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	api.NewAPI(orch, sessions, hub).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.Listen).Msg("starting hybrid router service")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
			return err
		}
	}

	return nil
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
