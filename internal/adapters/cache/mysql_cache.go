package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	db       *sql.DB
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS completion_cache (
			cache_key CHAR(64) PRIMARY KEY,
			response MEDIUMTEXT NOT NULL,
			model_used VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_completion_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	// Start background cleanup
	if cleanupFreq > 0 {
		go runCleanup(cache, cleanupFreq, cache.stopCh, logger)
	}

	return cache, nil
}

// Get retrieves a cached completion by key
func (c *MySQLCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	var createdAt, expiresAt int64

	err := c.db.QueryRowContext(ctx, `
		SELECT cache_key, response, model_used, created_at, expires_at
		FROM completion_cache
		WHERE cache_key = ?
	`, key).Scan(&entry.Key, &entry.Response, &entry.ModelUsed, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	// Convert stored millis back to times
	entry.CreatedAt = time.UnixMilli(createdAt)
	entry.ExpiresAt = time.UnixMilli(expiresAt)
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrExpired
	}

	return &entry, nil
}

// Set stores a cache entry
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO completion_cache (cache_key, response, model_used, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			response = VALUES(response),
			model_used = VALUES(model_used),
			created_at = VALUES(created_at),
			expires_at = VALUES(expires_at)
	`, entry.Key, entry.Response, entry.ModelUsed, entry.CreatedAt.UnixMilli(), entry.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM completion_cache
		WHERE cache_key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM completion_cache
		WHERE expires_at <= ?
	`, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *MySQLCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close MySQL database", zap.Error(err))
		}
	})
}
