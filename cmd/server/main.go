package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"document-portal/internal/config"
	"document-portal/internal/handler"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer container.Close()

	cfg := container.Config

	// Handlers
	documentHandler := handler.NewDocumentHandler(
		container.DocumentService,
		cfg.GetMaxFileSize(),
		container.Logger,
	)

	modelHandler := handler.NewModelHandler(
		container.ModelLoader,
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		documentHandler,
		modelHandler,
		container.Metrics,
		container.Logger,
		cfg.GetAllowedOrigins(),
	)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr, "data_dir", container.DocumentService.BaseDir())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Server forced to shutdown", err)
	}

	container.Logger.Info("Server exited")
}
