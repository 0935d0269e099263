package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/papermind/papermind/internal/chunker"
)

func validConfig() Config {
	return Config{
		Port:              "5000",
		StoreBackend:      StoreMongo,
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "papermind_db",
		MongoCollection:   "documents",
		GenerationBackend: GeneratorOpenRouter,
		OpenRouterAPIKey:  "sk-or-test",
		GenerationTimeout: 90 * time.Second,
		ChunkSize:         900,
		ChunkOverlap:      300,
		RetrieveK:         10,
		MaxUploadBytes:    52428800,
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RequiredValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing mongo uri", mutate: func(c *Config) { c.MongoURI = "" }},
		{name: "missing openrouter key", mutate: func(c *Config) { c.OpenRouterAPIKey = "" }},
		{name: "unknown store backend", mutate: func(c *Config) { c.StoreBackend = "postgres" }},
		{name: "unknown generation backend", mutate: func(c *Config) { c.GenerationBackend = "carrier-pigeon" }},
		{name: "local backend without model", mutate: func(c *Config) {
			c.GenerationBackend = GeneratorLocal
			c.LocalLLMModel = ""
		}},
		{name: "zero retrieve k", mutate: func(c *Config) { c.RetrieveK = 0 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_ChunkGeometryFailsFast(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	assert.ErrorIs(t, cfg.Validate(), chunker.ErrInvalidConfig)
}

func TestLoad_ZeroTemperatureIsNotUnset(t *testing.T) {
	t.Setenv("TEMPERATURE", "0")
	assert.Zero(t, Load().Temperature)

	t.Setenv("TEMPERATURE", "")
	assert.Negative(t, Load().Temperature, "unset temperature must defer to the backend default")
}

func TestValidate_MemoryStoreNeedsNoMongo(t *testing.T) {
	cfg := validConfig()
	cfg.StoreBackend = StoreMemory
	cfg.MongoURI = ""
	assert.NoError(t, cfg.Validate())
}
