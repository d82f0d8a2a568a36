package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gettext-scanner/internal/textutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS msgid_translations (
	hash       TEXT PRIMARY KEY,
	locale     TEXT NOT NULL,
	msgid      TEXT NOT NULL,
	translated TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// TranslationCache keeps machine translations per (locale, msgid) in memory
// and, when a pool is configured, in PostgreSQL.
type TranslationCache struct {
	pool   *pgxpool.Pool
	mu     sync.RWMutex
	memory map[string]string // hash → translated text
}

// NewTranslationCache creates a cache. A nil pool keeps it memory-only.
func NewTranslationCache(pool *pgxpool.Pool) *TranslationCache {
	return &TranslationCache{
		pool:   pool,
		memory: make(map[string]string),
	}
}

// EnsureSchema creates the backing table.
func (c *TranslationCache) EnsureSchema(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

// Get retrieves a cached translation.
func (c *TranslationCache) Get(ctx context.Context, locale, msgid string) (string, bool) {
	hash := textutil.Hash(locale, msgid)

	c.mu.RLock()
	if v, ok := c.memory[hash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if c.pool == nil {
		return "", false
	}

	var translated string
	err := c.pool.QueryRow(ctx, `SELECT translated FROM msgid_translations WHERE hash = $1`, hash).Scan(&translated)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Debug().Err(err).Str("locale", locale).Msg("Cache lookup failed")
		}
		return "", false
	}

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and, if configured, in PostgreSQL.
func (c *TranslationCache) Set(ctx context.Context, locale, msgid, translated string) error {
	hash := textutil.Hash(locale, msgid)

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	if c.pool == nil {
		return nil
	}

	_, err := c.pool.Exec(ctx, `
		INSERT INTO msgid_translations (hash, locale, msgid, translated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hash) DO UPDATE SET translated = EXCLUDED.translated, updated_at = now()
	`, hash, locale, msgid, translated)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Preload loads all persisted translations into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}

	rows, err := c.pool.Query(ctx, `SELECT hash, translated FROM msgid_translations`)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}
	defer rows.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for rows.Next() {
		var hash, translated string
		if err := rows.Scan(&hash, &translated); err != nil {
			return fmt.Errorf("preload cache row: %w", err)
		}
		c.memory[hash] = translated
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	log.Info().Int("count", count).Msg("Preloaded translation cache")
	return nil
}

// Len returns the number of translations held in memory.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}
