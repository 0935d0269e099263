package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papermind/papermind/internal/api"
	"github.com/papermind/papermind/internal/config"
	"github.com/papermind/papermind/internal/extractor"
	"github.com/papermind/papermind/internal/fragment"
	"github.com/papermind/papermind/internal/llm"
	"github.com/papermind/papermind/internal/pipeline"
	"github.com/papermind/papermind/internal/retriever"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize the fragment store. The connection is process-scoped:
	// opened once here, shared by all requests, closed on shutdown.
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connectCancel()

	var store fragment.Store
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = fragment.NewMemoryStore()
	default:
		mongoStore, err := fragment.NewMongoStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			log.Error("mongodb not reachable", "error", err)
			os.Exit(1)
		}
		store = mongoStore
	}

	// Select the generation backend. The orchestrator only ever sees the
	// Generator interface.
	var generator llm.Generator
	switch cfg.GenerationBackend {
	case config.GeneratorLocal:
		generator = llm.NewLocal(llm.LocalConfig{
			BaseURL:     cfg.LocalLLMURL,
			Model:       cfg.LocalLLMModel,
			Timeout:     cfg.GenerationTimeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	default:
		generator = llm.NewOpenRouter(llm.OpenRouterConfig{
			APIKey:      cfg.OpenRouterAPIKey,
			Model:       cfg.OpenRouterModel,
			SiteURL:     cfg.OpenRouterSiteURL,
			SiteName:    cfg.OpenRouterSiteName,
			Timeout:     cfg.GenerationTimeout,
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: cfg.Temperature,
		})
	}

	orch := pipeline.NewOrchestrator(
		extractor.NewPDF(),
		store,
		retriever.NewPositional(store, cfg.RetrieveK),
		generator,
		log,
		pipeline.Config{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap},
	)

	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if err := store.Close(shutdownCtx); err != nil {
			log.Error("closing fragment store", "error", err)
		}
	}()

	log.Info("starting papermind",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"generator", cfg.GenerationBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
