/*
Package cache provides a read-through cache for employee financial profiles.

PURPOSE:
  Profile lookups hit the employee store on every eligibility preview.
  CachedProfiles wraps any generic.EmployeeRepository and keeps the nullable
  ProfileRecord as JSON in a key/value Cache for a bounded TTL.

BACKENDS:
  Memory: process-local map, used in tests and single-node deployments
  Redis:  shared cache via go-redis, enabled with -redis on the server

INVALIDATION:
  Writers call Invalidate after saving an employee. Entries also expire
  after the configured TTL, so a missed invalidation heals itself.

FAILURE SEMANTICS:
  A cache miss, a decode failure or an unreachable backend all fall through
  to the underlying repository. The cache never turns a found employee into
  an error.

SEE ALSO:
  - generic/store.go: EmployeeRepository
  - service/service.go: Invalidates on SaveEmployee
*/
package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/warp/compensation-engine/generic"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// MEMORY CACHE
// =============================================================================

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Cache.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// WithClock overrides the clock used for expiry. Used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// =============================================================================
// CACHED PROFILES
// =============================================================================

const profileKeyPrefix = "profile:"

// CachedProfiles is a generic.EmployeeRepository that consults a Cache first.
type CachedProfiles struct {
	next  generic.EmployeeRepository
	cache Cache
	ttl   time.Duration
}

// NewCachedProfiles wraps next with a read-through cache.
func NewCachedProfiles(next generic.EmployeeRepository, c Cache, ttl time.Duration) *CachedProfiles {
	return &CachedProfiles{next: next, cache: c, ttl: ttl}
}

// GetFinancialProfile implements generic.EmployeeRepository.
func (p *CachedProfiles) GetFinancialProfile(ctx context.Context, id generic.EmployeeID) (generic.ProfileRecord, error) {
	key := profileKey(id)
	if raw, ok := p.cache.Get(ctx, key); ok {
		var rec generic.ProfileRecord
		if err := json.Unmarshal([]byte(raw), &rec); err == nil {
			return rec, nil
		}
		log.Printf("cache: dropping undecodable profile %s", id)
		_ = p.cache.Delete(ctx, key)
	}

	rec, err := p.next.GetFinancialProfile(ctx, id)
	if err != nil {
		return generic.ProfileRecord{}, err
	}

	if raw, err := json.Marshal(rec); err == nil {
		if err := p.cache.Set(ctx, key, string(raw), p.ttl); err != nil {
			log.Printf("cache: failed to store profile %s: %v", id, err)
		}
	}
	return rec, nil
}

// Invalidate drops the cached profile for id.
func (p *CachedProfiles) Invalidate(ctx context.Context, id generic.EmployeeID) {
	if err := p.cache.Delete(ctx, profileKey(id)); err != nil {
		log.Printf("cache: failed to invalidate profile %s: %v", id, err)
	}
}

func profileKey(id generic.EmployeeID) string {
	return profileKeyPrefix + string(id)
}
