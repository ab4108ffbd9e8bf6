// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Engine construction plus small formatting helpers used across commands
package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/jobfinder/jobfinder/internal/chunker"
	"github.com/jobfinder/jobfinder/internal/config"
	"github.com/jobfinder/jobfinder/internal/index"
	"github.com/jobfinder/jobfinder/internal/llm"
	"github.com/jobfinder/jobfinder/internal/rag"
	"github.com/jobfinder/jobfinder/internal/storage"
)

// buildEngine constructs the engine from configuration and loads the
// vector index projection from the store. The caller owns closing the
// returned store.
func buildEngine(cfg *config.Config) (*rag.Engine, *storage.Store, error) {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, cfg.MinChunkLen)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("configuring chunker: %w", err)
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	engine := rag.NewEngine(store, index.NewMemory(), splitter, client, client, rag.Options{
		TopK:          cfg.TopK,
		FetchK:        cfg.FetchK,
		Lambda:        cfg.Lambda,
		ContextBudget: cfg.ContextBudget,
	})

	if err := engine.LoadProjection(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("loading index: %w", err)
	}
	if verbose {
		log.Printf("Index loaded from %s", cfg.DBPath)
	}
	return engine, store, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
