package repository

import (
	"context"
	"sync"
	"time"

	"caravanshare/internal/models"
)

type lookupEntry struct {
	reservation models.Reservation
	expiresAt   time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryLookupCache is the in-process fallback for RedisLookupCache.
type MemoryLookupCache struct {
	mu           sync.Mutex
	reservations map[string]lookupEntry
	rateLimits   map[string]*rateLimitEntry
	ttl          time.Duration
	now          func() time.Time
}

func NewMemoryLookupCache(ttl time.Duration) *MemoryLookupCache {
	return &MemoryLookupCache{
		reservations: make(map[string]lookupEntry),
		rateLimits:   make(map[string]*rateLimitEntry),
		ttl:          ttl,
		now:          time.Now,
	}
}

func (r *MemoryLookupCache) GetReservation(_ context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	if r.now().After(entry.expiresAt) {
		delete(r.reservations, id)
		return nil, nil
	}
	reservation := entry.reservation
	return &reservation, nil
}

func (r *MemoryLookupCache) SetReservation(_ context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reservations[reservation.ID] = lookupEntry{
		reservation: *reservation,
		expiresAt:   r.now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryLookupCache) Invalidate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reservations, id)
	return nil
}

func (r *MemoryLookupCache) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.rateLimits[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{expiresAt: now.Add(window)}
		r.rateLimits[key] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}
