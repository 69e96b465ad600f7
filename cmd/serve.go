package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meetsync/meetsync-api/api"
	"github.com/meetsync/meetsync-api/api/types"
	"github.com/meetsync/meetsync-api/internal/database"
	"github.com/meetsync/meetsync-api/internal/services/contacts"
	"github.com/meetsync/meetsync-api/internal/services/credentials"
	"github.com/meetsync/meetsync-api/internal/services/extraction"
	"github.com/meetsync/meetsync-api/internal/services/gemini"
	"github.com/meetsync/meetsync-api/internal/services/jobs"
	"github.com/meetsync/meetsync-api/internal/services/meetings"
	"github.com/meetsync/meetsync-api/internal/services/workers"
	"github.com/meetsync/meetsync-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the MeetSync API server with the configured settings.

The server listens for HTTP requests and runs the background worker
pool that processes contact extraction jobs.

Example:
  meetsync-api serve
  meetsync-api serve --port 9090
  meetsync-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[ERROR] Failed to close database: %v", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	jobService := jobs.NewService(jobs.NewRepository(db.DB))
	meetingService := meetings.NewService(meetings.NewGormRepository(db.DB))
	contactService := contacts.NewService(contacts.NewGormRepository(db.DB))
	credentialService := credentials.NewService(credentials.NewGormRepository(db.DB))

	if cfg.Gemini.APIKey == "" {
		log.Printf("[WARN] Gemini API key is not set, extraction jobs will fail until it is configured")
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		Timeout:    cfg.Gemini.Timeout,
	})
	extractor := extraction.NewExtractor(geminiClient)

	workerPool := workers.NewWorkerPool(jobService, cfg.Processing.Workers, cfg.Processing.PollInterval)
	workerPool.RegisterProcessor(workers.NewExtractionProcessor(jobService, meetingService, contactService, extractor))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if err := workerPool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}
	log.Printf("[DEBUG] Worker pool started with %d workers", cfg.Processing.Workers)

	srv := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	srv.SetDatabase(db)
	srv.SetDependencies(&types.Dependencies{
		DB:                db,
		MeetingService:    meetingService,
		ContactService:    contactService,
		CredentialService: credentialService,
		JobService:        jobService,
		WorkerPool:        workerPool,
	})

	if err := srv.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("[DEBUG] Server is ready to handle requests at %s:%d", serverHost, serverPort)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	// Stop claiming new jobs before the HTTP surface goes away
	cancelWorkers()
	workerPool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
