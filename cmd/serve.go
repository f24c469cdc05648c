package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/engine"
	"github.com/kozaktomas/face-attendance/internal/speech"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/postgres"
	"github.com/kozaktomas/face-attendance/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance server",
	Long: `Start the attendance engine and its HTTP API.
The API receives observations from an external face recognizer, controls
the tracking session, manages the student roster, and streams engine
events over SSE. Announcements play through the detected speech backend.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("silent", false, "Print announcements instead of playing audio")
	serveCmd.Flags().Bool("start-session", false, "Start a tracking session immediately")
}

// buildSpeaker selects the speech backend for the serve command.
func buildSpeaker(cfg *config.Config, silent bool) speech.Speaker {
	if silent {
		return &speech.PrintSpeaker{}
	}
	speaker := speech.Detect(cfg.Speech.Command)
	fmt.Printf("Speech backend: %s\n", speaker.Name())
	return speaker
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var st store.Store = postgres.NewRepository(pool)

	speaker := buildSpeaker(cfg, mustGetBool(cmd, "silent"))

	eng := engine.New(cfg, speaker)
	eng.Start()
	if mustGetBool(cmd, "start-session") {
		fmt.Printf("Session started: %s\n", eng.StartSession())
	}

	server := web.NewServer(cfg, eng, st)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
		if err := eng.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error stopping engine: %v\n", err)
		}
	}()

	fmt.Printf("Starting attendance API on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
