// ABOUTME: Centralized configuration for the job finder RAG engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jobfinder/jobfinder/internal/models"
)

// Config holds all configuration for the RAG engine and its front doors.
type Config struct {
	// Storage settings
	DBPath string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Chunking settings
	ChunkSize    int
	ChunkOverlap int
	MinChunkLen  int

	// Retrieval settings
	TopK          int
	FetchK        int
	Lambda        float64
	ContextBudget int

	// Front door settings
	HTTPAddr string
	MCPRole  models.Role
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         getEnv("JOBFINDER_DB", defaultDBPath()),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("JOBFINDER_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("JOBFINDER_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		ChunkSize:      getEnvInt("JOBFINDER_CHUNK_SIZE", 800),
		ChunkOverlap:   getEnvInt("JOBFINDER_CHUNK_OVERLAP", 150),
		MinChunkLen:    getEnvInt("JOBFINDER_MIN_CHUNK_LEN", 16),
		TopK:           getEnvInt("JOBFINDER_TOP_K", 5),
		FetchK:         getEnvInt("JOBFINDER_FETCH_K", 20),
		Lambda:         getEnvFloat("JOBFINDER_MMR_LAMBDA", 0.7),
		ContextBudget:  getEnvInt("JOBFINDER_CONTEXT_BUDGET", 6000),
		HTTPAddr:       getEnv("JOBFINDER_HTTP_ADDR", ":8080"),
		MCPRole:        models.ParseRole(getEnv("JOBFINDER_MCP_ROLE", "admin")),
	}

	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("JOBFINDER_CHUNK_OVERLAP must be 0 <= overlap < chunk size, got overlap=%d size=%d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.Lambda < 0 || c.Lambda > 1 {
		return fmt.Errorf("JOBFINDER_MMR_LAMBDA must be 0-1, got %f", c.Lambda)
	}
	if c.TopK < 1 {
		return fmt.Errorf("JOBFINDER_TOP_K must be positive, got %d", c.TopK)
	}
	if c.FetchK < c.TopK {
		return fmt.Errorf("JOBFINDER_FETCH_K must be >= JOBFINDER_TOP_K, got fetch=%d top=%d", c.FetchK, c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// defaultDBPath places the database under XDG data home.
func defaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "jobfinder.db"
		}
		dataHome = homeDir + "/.local/share"
	}
	return dataHome + "/jobfinder/jobfinder.db"
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
