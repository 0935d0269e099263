// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/papermind/papermind/internal/chunker"
)

// Backend names accepted by STORE_BACKEND and GENERATION_BACKEND.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	GeneratorOpenRouter = "openrouter"
	GeneratorLocal      = "local"
)

type Config struct {
	Port string

	// Fragment store
	StoreBackend    string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Generation
	GenerationBackend  string
	OpenRouterAPIKey   string
	OpenRouterModel    string
	OpenRouterSiteURL  string
	OpenRouterSiteName string
	LocalLLMURL        string
	LocalLLMModel      string
	GenerationTimeout  time.Duration
	MaxTokens          int
	// Temperature below zero selects the backend default; exactly zero is
	// honored as greedy sampling.
	Temperature float64

	// Ingestion
	ChunkSize    int
	ChunkOverlap int
	RetrieveK    int

	// Upload limits
	MaxUploadBytes int64
}

func Load() Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	return Config{
		Port: envOr("PORT", "5000"),

		StoreBackend:    envOr("STORE_BACKEND", StoreMongo),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   envOr("MONGO_DATABASE", "papermind_db"),
		MongoCollection: envOr("MONGO_COLLECTION", "documents"),

		GenerationBackend:  envOr("GENERATION_BACKEND", GeneratorOpenRouter),
		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:    envOr("OPENROUTER_MODEL", "deepseek/deepseek-r1-0528:free"),
		OpenRouterSiteURL:  envOr("OPENROUTER_SITE_URL", "http://localhost:3000"),
		OpenRouterSiteName: envOr("OPENROUTER_SITE_NAME", "PaperMind"),
		LocalLLMURL:        envOr("LOCAL_LLM_URL", "http://localhost:11434"),
		LocalLLMModel:      os.Getenv("LOCAL_LLM_MODEL"),
		GenerationTimeout:  envDuration("GENERATION_TIMEOUT", 90*time.Second),
		MaxTokens:          envInt("MAX_TOKENS", 0),
		Temperature:        envFloat("TEMPERATURE", -1),

		ChunkSize:    envInt("CHUNK_SIZE", chunker.DefaultSize),
		ChunkOverlap: envInt("CHUNK_OVERLAP", chunker.DefaultOverlap),
		RetrieveK:    envInt("RETRIEVE_K", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
	}
}

// Validate fails startup on missing required values or chunk geometry under
// which ingestion could never run.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.GenerationBackend {
	case GeneratorOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required")
		}
	case GeneratorLocal:
		if c.LocalLLMModel == "" {
			return fmt.Errorf("LOCAL_LLM_MODEL is required")
		}
	default:
		return fmt.Errorf("unknown GENERATION_BACKEND %q", c.GenerationBackend)
	}

	if err := chunker.Validate(c.ChunkSize, c.ChunkOverlap); err != nil {
		return err
	}
	if c.RetrieveK <= 0 {
		return fmt.Errorf("RETRIEVE_K must be positive, got %d", c.RetrieveK)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
