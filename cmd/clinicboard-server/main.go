package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicboard/clinicboard/internal/config"
	"github.com/clinicboard/clinicboard/internal/domain/assessment"
	"github.com/clinicboard/clinicboard/internal/domain/automation"
	"github.com/clinicboard/clinicboard/internal/domain/device"
	"github.com/clinicboard/clinicboard/internal/domain/partner"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
	"github.com/clinicboard/clinicboard/internal/domain/report"
	"github.com/clinicboard/clinicboard/internal/domain/workspace"
	"github.com/clinicboard/clinicboard/internal/platform/middleware"
	"github.com/clinicboard/clinicboard/internal/platform/sandbox"
	"github.com/clinicboard/clinicboard/internal/platform/websocket"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clinicboard-server",
		Short:        "Clinical practice dashboard API server",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(seedCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect the reference catalog",
	}

	// seed dump
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the embedded catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sandbox.Default()
			if err != nil {
				return err
			}
			out, err := ds.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	// seed check [file]
	checkCmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a catalog file, or the embedded one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ds, err := sandbox.Load(path)
			if err != nil {
				return err
			}
			s := ds.Summary()
			fmt.Fprintf(cmd.OutOrStdout(),
				"ok: %d patients, %d children, %d completed tests, %d assessments, %d reports, %d functions\n",
				s.Patients, s.Children, s.CompletedTests, s.Assessments, s.Reports, s.Functions)
			return nil
		},
	}

	cmd.AddCommand(dumpCmd, checkCmd)
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logger
	logger := newLogger(cfg)

	// Catalog
	ds, err := sandbox.Load(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	sum := ds.Summary()
	logger.Info().
		Int("patients", sum.Patients).
		Int("reports", sum.Reports).
		Int("functions", sum.Functions).
		Msg("catalog loaded")

	e, cleanup := newServer(cfg, ds, logger)
	defer cleanup()

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires every service and route. cleanup stops background work
// and must be called after the server has shut down.
func newServer(cfg *config.Config, ds *sandbox.Dataset, logger zerolog.Logger) (*echo.Echo, func()) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Realtime events
	hub := websocket.NewHub(logger)
	websocket.NewHandler(hub, cfg.CORSOrigins).RegisterRoutes(e.Group(""))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           middleware.DefaultRateLimitConfig().IdleTTL,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Catalog domains
	patientSvc := patient.NewService(patient.NewMemoryRepo(ds.Patients, ds.Children, ds.CompletedTests))
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	assessmentSvc := assessment.NewService(ds.Assessments)
	assessment.NewHandler(assessmentSvc).RegisterRoutes(apiV1)

	reportSvc := report.NewService(ds.Reports)
	report.NewHandler(reportSvc).RegisterRoutes(apiV1)

	functionSvc := automation.NewService(ds.Functions)
	automation.NewHandler(functionSvc).RegisterRoutes(apiV1)

	partnerSvc := partner.NewService(partner.NewMemoryRepo())
	partner.NewHandler(partnerSvc).RegisterRoutes(apiV1)

	// Devices
	deviceSvc := device.NewService(
		device.NewMemoryRepo(),
		device.SimulatedCalibrator{Delay: cfg.CalibrationDelay},
		hub,
		logger,
	)
	device.NewHandler(deviceSvc).RegisterRoutes(apiV1)

	// Workspaces
	store := workspace.NewStore(cfg.WorkspaceIdleTTL, logger)
	store.Start(time.Minute)
	sources := map[workspace.Section]workspace.Source{
		workspace.SectionPatients:  workspace.PatientSource(patientSvc),
		workspace.SectionTests:     workspace.AssessmentSource(assessmentSvc),
		workspace.SectionReports:   workspace.ReportSource(reportSvc),
		workspace.SectionFunctions: workspace.FunctionSource(functionSvc),
		workspace.SectionCalibrate: workspace.DeviceSource(deviceSvc),
	}
	workspaceSvc := workspace.NewService(store, sources, functionSvc, logger)
	workspace.NewHandler(workspaceSvc).RegisterRoutes(apiV1)

	// Sandbox
	sandbox.NewHandler(ds).RegisterRoutes(apiV1)

	cleanup := func() {
		store.Stop()
		deviceSvc.Close()
	}
	return e, cleanup
}
