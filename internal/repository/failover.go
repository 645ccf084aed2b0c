package repository

import (
	"context"
	"sync/atomic"
	"time"

	"caravanshare/internal/domain"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLookupCache uses primary until it errors, then serves from fallback
// and retries primary once per recoveryInterval.
type FailoverLookupCache struct {
	primary   domain.LookupCache
	fallback  domain.LookupCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverLookupCache(primary, fallback domain.LookupCache, logger *zerolog.Logger) *FailoverLookupCache {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverLookupCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary reports whether the next call should go to primary.
func (r *FailoverLookupCache) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

// observe records the primary outcome.
func (r *FailoverLookupCache) observe(err error) {
	if err == nil {
		if r.isDown.CompareAndSwap(true, false) {
			r.logger.Info().Msg("Primary lookup cache recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary lookup cache failed, falling back to memory")
	}
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverLookupCache) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if r.usePrimary() {
		reservation, err := r.primary.GetReservation(ctx, id)
		r.observe(err)
		if err == nil {
			return reservation, nil
		}
	}
	return r.fallback.GetReservation(ctx, id)
}

func (r *FailoverLookupCache) SetReservation(ctx context.Context, reservation *models.Reservation) error {
	if r.usePrimary() {
		err := r.primary.SetReservation(ctx, reservation)
		r.observe(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.SetReservation(ctx, reservation)
}

// Invalidate clears both stores so a snapshot cached during an outage is not served later.
func (r *FailoverLookupCache) Invalidate(ctx context.Context, id string) error {
	fallbackErr := r.fallback.Invalidate(ctx, id)
	if r.usePrimary() {
		err := r.primary.Invalidate(ctx, id)
		r.observe(err)
		if err == nil {
			return fallbackErr
		}
	}
	return fallbackErr
}

func (r *FailoverLookupCache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		r.observe(err)
		if err == nil {
			return allowed, nil
		}
	}
	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
