package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"matching/cmd"
	api "matching/internal/adapters/in/http"
	"matching/internal/adapters/out/postgres"
	"matching/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to a dotenv file; a missing file is ignored")
	migrate := pflag.Bool("migrate", false, "create or update the database schema on start")
	pflag.Parse()

	configs := getConfigs(*envFile)
	configs.Migrate = configs.Migrate || *migrate

	if err := run(configs); err != nil {
		log.Fatalf("%v", err)
	}
}

// run releases everything it opened before it returns.
func run(configs cmd.Config) error {
	logger := logging.NewLogger(configs.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := postgres.Open(configs.DSN())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if configs.Migrate {
		if err = postgres.Migrate(gormDB); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
		logger.Info("Database schema migrated")
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return fmt.Errorf("error building application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close outbound adapters", "error", err)
		}
	}()

	server, err := app.CreateHTTPServer()
	if err != nil {
		return fmt.Errorf("error building http server: %w", err)
	}
	e, err := api.NewRouter(ctx, server, logger)
	if err != nil {
		return fmt.Errorf("error building router: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(ctx); err != nil {
		return fmt.Errorf("error starting jobs: %w", err)
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, e, configs)
}

func getConfigs(envFile string) cmd.Config {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading %s file: %v", envFile, err)
	}

	config, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func startWebServer(ctx context.Context, e *echo.Echo, configs cmd.Config) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.HTTPShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
