package repository

import (
	"context"
	"testing"
	"time"

	"caravanshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLookupCache(t *testing.T) {
	repo := NewMemoryLookupCache(time.Hour)
	ctx := context.Background()

	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	t.Run("SetAndGetReservation", func(t *testing.T) {
		reservation := &models.Reservation{ID: "r-1", Status: models.StatusConfirmed}
		require.NoError(t, repo.SetReservation(ctx, reservation))

		got, err := repo.GetReservation(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, reservation, got)

		// stored value is a copy
		got.Status = models.StatusCancelled
		again, _ := repo.GetReservation(ctx, "r-1")
		assert.Equal(t, models.StatusConfirmed, again.Status)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, repo.SetReservation(ctx, &models.Reservation{ID: "r-2"}))
		clock = clock.Add(2 * time.Hour)

		got, err := repo.GetReservation(ctx, "r-2")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, repo.SetReservation(ctx, &models.Reservation{ID: "r-3"}))
		require.NoError(t, repo.Invalidate(ctx, "r-3"))
		got, _ := repo.GetReservation(ctx, "r-3")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "10.0.0.1"
		allowed, _ := repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.False(t, allowed)

		// other clients have their own window
		allowed, _ = repo.CheckRateLimit(ctx, "10.0.0.2", 2, time.Second)
		assert.True(t, allowed)

		clock = clock.Add(time.Second + time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, key, 2, time.Second)
		assert.True(t, allowed)
	})
}
