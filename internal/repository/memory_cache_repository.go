package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCacheRepository holds listing snapshots in process when Redis is not configured.
// Values are kept JSON-encoded so every reader decodes its own copy, as with Redis.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCacheRepository builds an empty cache.
func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get decodes the entry into dest. Expired entries are evicted on access; a positive refresh
// pushes the expiry of a live entry forward.
func (r *MemoryCacheRepository) Get(ctx context.Context, key string, dest interface{}, refresh time.Duration) error {
	r.mu.Lock()
	now := r.now()
	entry, ok := r.entries[key]
	if ok && expired(entry, now) {
		delete(r.entries, key)
		ok = false
	}
	if ok && refresh > 0 {
		entry.expiresAt = now.Add(refresh)
		r.entries[key] = entry
	}
	r.mu.Unlock()

	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return nil
}

// Set stores value until ttl elapses. A non-positive ttl never expires.
func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries[key] = entry
	r.sweepLocked()
	return nil
}

// Delete removes one entry.
func (r *MemoryCacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}

// Len reports how many entries are held, expired ones included until the next sweep.
func (r *MemoryCacheRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sweepLocked drops expired snapshots so abandoned listings do not accumulate.
func (r *MemoryCacheRepository) sweepLocked() {
	now := r.now()
	for key, entry := range r.entries {
		if expired(entry, now) {
			delete(r.entries, key)
		}
	}
}

func expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && now.After(entry.expiresAt)
}
