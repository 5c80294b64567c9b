package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/labsis/labsis-export/internal/config"
	"github.com/labsis/labsis-export/internal/domain/boleta"
	"github.com/labsis/labsis-export/internal/platform/auth"
	"github.com/labsis/labsis-export/internal/platform/db"
	"github.com/labsis/labsis-export/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "labsis-export",
		Short: "Labsis screening report exporter",
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(pingCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate and write the legacy report file for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			out, _ := cmd.Flags().GetString("out")

			for _, d := range []string{from, to} {
				if _, err := time.Parse("2006-01-02", d); err != nil {
					return fmt.Errorf("dates must be YYYY-MM-DD, got %q", d)
				}
			}
			if from > to {
				return fmt.Errorf("--from must not be after --to")
			}

			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			svc := boleta.NewService(boleta.NewResultRowRepoPG(pool), logger)

			report, err := svc.Generate(ctx, from, to)
			if err != nil {
				// Partial reports are shown in the preview but never
				// written to a file the legacy system would ingest.
				return fmt.Errorf("generation incomplete (%d boletas built), export refused: %w", report.Len(), err)
			}
			if report.Len() == 0 {
				logger.Info().Str("from", from).Str("to", to).Msg("no data for the selected range; nothing to export")
				return nil
			}

			if out == "" {
				out = filepath.Join(cfg.ExportDir, boleta.ExportFileName(from, to))
			}
			return svc.Export(report, out)
		},
	}

	today := time.Now().Format("2006-01-02")
	cmd.Flags().String("from", today, "Range start date (YYYY-MM-DD)")
	cmd.Flags().String("to", today, "Range end date (YYYY-MM-DD)")
	cmd.Flags().String("out", "", "Output file path (default EXPORT_DIR/reporte_labsis_<from>_a_<to>.csv)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the preview/export HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(2 * time.Minute))

	e.GET("/health", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")
	if cfg.AuthSecret != "" {
		apiV1.Use(auth.JWTMiddleware(cfg.AuthSecret))
	} else if !cfg.IsDev() {
		logger.Warn().Msg("AUTH_SECRET not set; the preview API is unauthenticated")
	}

	svc := boleta.NewService(boleta.NewResultRowRepoPG(pool), logger)
	boleta.NewHandler(svc).RegisterRoutes(apiV1)

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	return e.Start(":" + cfg.Port)
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			pool.Close()

			fmt.Println("database connection ok")
			return nil
		},
	}
}
