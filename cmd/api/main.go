package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/jhpark-lab/career-coach/internal/adapters/http"
	"github.com/jhpark-lab/career-coach/internal/bootstrap"
	"github.com/jhpark-lab/career-coach/internal/config"
	"github.com/jhpark-lab/career-coach/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewJSONLogger("career-coach-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(app.Coach, logger, app.Metrics.Handler()).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      app.Metrics.Middleware("api", router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_error", "error", err)
	}
}
