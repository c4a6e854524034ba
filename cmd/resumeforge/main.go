// Package main is the entry point for the ResumeForge application.
// ResumeForge is a resume export service that rasterizes HTML resumes
// into single-page PDF and image artifacts through headless Chrome.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/consts"
	"github.com/resumeforge/resumeforge/internal/check"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/database"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/export/browser"
	"github.com/resumeforge/resumeforge/internal/export/imageout"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/server"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/telemetry"
)

// Build information - set via ldflags during build
// These variables are linked to consts package for global access
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// init synchronizes build info to consts package for global access
func init() {
	consts.Version = Version
	consts.BuildTime = BuildTime
	consts.GitCommit = GitCommit
}

// configPath holds the path to the configuration file
var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "resumeforge",
	Short: "ResumeForge - Single-Page Resume Export Service",
	Long: `ResumeForge renders structured resumes into HTML templates and exports
them as single-page A4 PDF or image artifacts through headless Chrome.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ResumeForge server",
	Long: `Start the HTTP server for the resume and export API.

On first run, use --check flag to interactively set up your environment:
  resumeforge serve --check

This will guide you through:
  - Creating the configuration file from a template
  - Validating the configuration and export environment

After initial setup, simply run:
  resumeforge serve`,
	Run: runServe,
}

// exportCmd represents the one-shot export command
var exportCmd = &cobra.Command{
	Use:   "export <resume-id>",
	Short: "Export a stored resume to a file",
	Long: `Export a single resume without starting the server. The artifact is
written to the configured output directory.

Examples:
  resumeforge export cq2r8hml5vjc7390
  resumeforge export cq2r8hml5vjc7390 --format png
  resumeforge export cq2r8hml5vjc7390 --free`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ResumeForge %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
	},
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: "+config.ConfigPath+")")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Serve command flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("debug", false, "enable debug mode")
	serveCmd.Flags().Bool("check", false, "run interactive environment check before starting server")

	// Export command flags
	exportCmd.Flags().String("format", "pdf", "export format: pdf, png or jpeg")
	exportCmd.Flags().Bool("free", false, "watermarked export that does not consume a credit")
	exportCmd.Flags().String("output", "", "output file path (default: <output_dir>/<filename>)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runServe starts the ResumeForge server
func runServe(cmd *cobra.Command, args []string) {
	interactiveCheck, _ := cmd.Flags().GetBool("check")

	if interactiveCheck {
		checker := check.NewCheckerWithPath(resolvedConfigPath())
		if err := checker.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Environment check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n✓ Environment check completed successfully")
	} else {
		checker := check.NewCheckerWithPath(resolvedConfigPath())
		result := checker.RunNonInteractive()

		if !result.Success {
			check.PrintCheckResult(result)
			os.Exit(1)
		}

		// Print warnings if any (but don't block startup)
		if len(result.Warnings) > 0 {
			for _, warn := range result.Warnings {
				fmt.Fprintf(os.Stderr, "[WARNING] %s\n", warn)
			}
			fmt.Fprintln(os.Stderr)
		}
	}

	// Record server start time
	consts.SetStartedAt(time.Now())

	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override config with command line flags
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Server.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		fmt.Fprintf(os.Stderr, "\n[ERROR] Configuration validation failed\n")
		fmt.Fprintf(os.Stderr, "Error Code: %s\n", validationErr.Code)
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", validationErr)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ResumeForge",
		zap.String("version", Version),
	)

	// Initialize telemetry (OpenTelemetry metrics)
	tel, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	// Initialize database
	if err := database.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	dataStore := store.NewStore(database.Get())

	// Start export record cleanup service
	if cfg.Cleanup.Enabled {
		cleanupService := store.NewExportCleanupService(dataStore.Export(), cfg.Cleanup.RetentionDays)
		if err := cleanupService.Start(); err != nil {
			logger.Warn("Failed to start export cleanup service", zap.Error(err))
		} else {
			defer cleanupService.Stop()
		}
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		logger.Fatal("Failed to load resume templates", zap.Error(err))
	}

	// Launch the shared headless browser
	browserCtx, browserCancel := context.WithCancel(context.Background())
	defer browserCancel()
	chrome, err := browser.New(browserCtx, browser.Config{
		ChromePath: cfg.Export.ChromePath,
		Debug:      cfg.Server.Debug,
	})
	if err != nil {
		logger.Fatal("Failed to launch headless browser", zap.Error(err))
	}
	defer chrome.Close()

	orchestrator := export.New(
		renderer,
		export.NewBrowserSessionFactory(chrome),
		dataStore.Credit(),
		dataStore.Export(),
		cfg.Export,
	)

	// Create and configure server
	srv := server.New(cfg, orchestrator, renderer, dataStore)
	srv.SetupRoutes()

	if err := srv.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("ResumeForge server is running",
		zap.String("address", cfg.Server.Address()),
	)

	port := cfg.Server.Port
	logger.Info(fmt.Sprintf("  Local:   http://localhost:%d/api/v1", port))
	if lanIP := getLocalIP(); lanIP != "" {
		logger.Info(fmt.Sprintf("  Network: http://%s:%d/api/v1", lanIP, port))
	}

	// Wait for shutdown
	srv.WaitForShutdown()

	logger.Info("ResumeForge stopped")
}

// runExport performs a one-shot export of a stored resume
func runExport(cmd *cobra.Command, args []string) {
	resumeID := args[0]
	format, _ := cmd.Flags().GetString("format")
	free, _ := cmd.Flags().GetBool("free")
	output, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Quiet logging for CLI use
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "text"
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := database.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	dataStore := store.NewStore(database.Get())

	resume, err := dataStore.Resume().GetByID(resumeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Resume %s not found\n", resumeID)
		os.Exit(1)
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load resume templates: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chrome, err := browser.New(ctx, browser.Config{ChromePath: cfg.Export.ChromePath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to launch headless browser: %v\n", err)
		os.Exit(1)
	}
	defer chrome.Close()

	orchestrator := export.New(
		renderer,
		export.NewBrowserSessionFactory(chrome),
		dataStore.Credit(),
		dataStore.Export(),
		cfg.Export,
	)

	req := export.Request{Resume: resume, Free: free}

	var artifact *export.Artifact
	switch format {
	case "pdf":
		artifact, err = orchestrator.ExportPDF(ctx, req)
	case "png", "jpeg", "jpg":
		var f imageout.Format
		f, err = imageout.ParseFormat(format)
		if err == nil {
			artifact, err = orchestrator.ExportImage(ctx, req, f)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q, expected pdf, png or jpeg\n", format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
		output = filepath.Join(cfg.Export.OutputDir, artifact.Filename)
	}

	if err := os.WriteFile(output, artifact.Data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Exported %s (%d bytes)\n", output, len(artifact.Data))
	if artifact.Outcome.Overflow {
		fmt.Println("Note: content exceeds the single-page budget and was scaled to fit")
	}
}

// resolvedConfigPath returns the config path from the flag or the default
func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath
}

// newRenderer builds the renderer, preferring a custom template directory
func newRenderer(cfg *config.Config) (render.Renderer, error) {
	if cfg.Render.TemplateDir != "" {
		if _, err := os.Stat(cfg.Render.TemplateDir); err == nil {
			return render.NewRendererWithDir(cfg.Render.DefaultTemplate, cfg.Render.TemplateDir)
		}
	}
	return render.NewRenderer(cfg.Render.DefaultTemplate)
}

// getLocalIP returns the first non-loopback IPv4 address
func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
