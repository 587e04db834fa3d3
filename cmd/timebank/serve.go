package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/timebank/api"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "HTTP server port (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the interest scheduler",
	Long: `Start the HTTP API. The interest scheduler runs once at startup and then
every [interest].check_interval. On SIGINT/SIGTERM the server stops accepting
connections, waits up to 30s for active requests, then closes the database.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Server.Port
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		port = p
	}

	interval, err := a.cfg.Interest.Interval()
	if err != nil {
		return err
	}
	scheduler := api.NewInterestScheduler(a.service)
	scheduler.CheckInterval = interval
	scheduler.Enabled = a.cfg.Interest.Enabled
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(api.NewHandler(a.service), a.cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost:%d", port)
		log.Printf("API available at http://localhost:%d/api", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
