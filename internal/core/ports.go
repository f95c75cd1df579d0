package core

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Complete sends a prompt and returns the raw completion text
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelName identifies the model answering the prompt
	ModelName() string
}

// CacheEntry is a cached model completion
type CacheEntry struct {
	Key       string
	Response  string
	ModelUsed string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CacheRepository defines the interface for caching model completions
type CacheRepository interface {
	// Get retrieves a cached entry by key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// MessageClassifier produces an outcome for a single message
type MessageClassifier interface {
	Classify(ctx context.Context, msg *Message) Outcome
}
