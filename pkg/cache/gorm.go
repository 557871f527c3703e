package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is the GORM model for a stored cache entry.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName keeps the table name stable across GORM naming strategies.
func (Record) TableName() string { return "cache_entries" }

// GormBackend stores cache entries in an embedded SQLite database. It covers
// single-node deployments without Redis and hermetic tests. SQLite has no
// server-side expiry, so staleness is enforced entirely by the validity
// check on read; stale rows are deleted lazily.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend creates a SQLite-backed store backend at path.
// Use ":memory:" for an ephemeral store.
func NewGormBackend(path string) (*GormBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate cache table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

// Get returns the raw entry bytes for key.
func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := b.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	return rec.Value, nil
}

// Set stores value under key. The ttl is ignored here; the entry's own
// timestamp and TTL decide validity on read.
func (b *GormBackend) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := b.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Delete removes key.
func (b *GormBackend) Delete(ctx context.Context, key string) error {
	if err := b.db.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// likeEscaper neutralizes LIKE wildcards in key prefixes; derived keys are
// full of underscores.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Keys lists all stored keys beginning with prefix.
func (b *GormBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := b.db.WithContext(ctx).
		Model(&Record{}).
		Where(`key LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying database handle.
func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
