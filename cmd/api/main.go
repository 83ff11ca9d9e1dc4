package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simplynourished/internal/ai"
	"simplynourished/internal/config"
	"simplynourished/internal/server"
	"simplynourished/internal/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.AIProvider == config.ProviderOpenAI && cfg.OpenAIAPIKey == "" {
		// Not fatal: plans still work and fetches report the missing key.
		log.Printf("OPENAI_API_KEY is not set; recipe fetches will fail until it is configured")
	}

	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	store := session.NewStore(session.NewFetcher(ai.New(cfg), cfg), ttl)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go store.RunJanitor(janitorCtx, time.Minute)

	app := server.New(cfg, store)
	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Closing the store ends open event streams so Shutdown does not wait on them.
	httpServer.RegisterOnShutdown(store.Close)

	go func() {
		log.Printf("simplynourished api listening on http://localhost:%s (provider=%s)", cfg.AppPort, cfg.AIProvider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
