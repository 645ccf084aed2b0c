package service

import (
	"context"
	"testing"

	"caravanshare/internal/config"
	"caravanshare/internal/domain"
	"caravanshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaravanService_Create(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()
	host := env.signup(t, "host@example.com", models.RoleHost)
	guest := env.signup(t, "guest@example.com", models.RoleGuest)

	caravan, err := env.caravans.CreateCaravan(ctx, host.ID, caravanInput(50000))
	require.NoError(t, err)
	assert.Equal(t, host.ID, caravan.HostID)
	assert.NotEmpty(t, caravan.ID)

	t.Run("NotAHost", func(t *testing.T) {
		_, err := env.caravans.CreateCaravan(ctx, guest.ID, caravanInput(100))
		assert.ErrorIs(t, err, domain.ErrDomainRule)
		assert.Equal(t, "user is not a host", domain.MessageOf(err))
	})

	t.Run("UnknownHost", func(t *testing.T) {
		_, err := env.caravans.CreateCaravan(ctx, "missing", caravanInput(100))
		assert.ErrorIs(t, err, domain.ErrDomainRule)
	})

	invalid := map[string]func(in *domain.CaravanInput){
		"MissingName":   func(in *domain.CaravanInput) { in.Name = " " },
		"ZeroPrice":     func(in *domain.CaravanInput) { in.PricePerDay = 0 },
		"NegativePrice": func(in *domain.CaravanInput) { in.PricePerDay = -1 },
		"ZeroCapacity":  func(in *domain.CaravanInput) { in.Capacity = 0 },
		"EmptyImage":    func(in *domain.CaravanInput) { in.Images = []string{""} },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			in := caravanInput(100)
			mutate(&in)
			_, err := env.caravans.CreateCaravan(ctx, host.ID, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	t.Run("MissingHostID", func(t *testing.T) {
		_, err := env.caravans.CreateCaravan(ctx, "", caravanInput(100))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCaravanService_ReadUpdateDelete(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()
	host := env.signup(t, "host@example.com", models.RoleHost)
	other := env.signup(t, "other@example.com", models.RoleHost)
	caravan := env.listing(t, host.ID, 50000)

	detail, err := env.caravans.GetCaravan(ctx, caravan.ID)
	require.NoError(t, err)
	assert.Equal(t, host.Name, detail.Host.Name)
	assert.Zero(t, detail.ReviewsAvg)

	_, err = env.caravans.GetCaravan(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := env.caravans.ListCaravansByHost(ctx, host.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	in := caravanInput(60000)
	in.Name = "Bigger camper"
	in.Images = nil

	t.Run("ForeignActorForbidden", func(t *testing.T) {
		_, err := env.caravans.UpdateCaravan(ctx, caravan.ID, other.ID, in)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.ErrorIs(t, env.caravans.DeleteCaravan(ctx, caravan.ID, other.ID), domain.ErrForbidden)
	})

	t.Run("Update", func(t *testing.T) {
		updated, err := env.caravans.UpdateCaravan(ctx, caravan.ID, host.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "Bigger camper", updated.Name)
		assert.Equal(t, int64(60000), updated.PricePerDay)
		assert.NotNil(t, updated.Images)

		// anonymous update is allowed
		_, err = env.caravans.UpdateCaravan(ctx, caravan.ID, "", in)
		require.NoError(t, err)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		_, err := env.caravans.UpdateCaravan(ctx, "missing", "", in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateInvalid", func(t *testing.T) {
		bad := caravanInput(0)
		_, err := env.caravans.UpdateCaravan(ctx, caravan.ID, "", bad)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, env.caravans.DeleteCaravan(ctx, caravan.ID, host.ID))
		_, err := env.caravans.GetCaravan(ctx, caravan.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, env.caravans.DeleteCaravan(ctx, caravan.ID, ""), domain.ErrNotFound)
		assert.ErrorIs(t, env.caravans.DeleteCaravan(ctx, caravan.ID, host.ID), domain.ErrNotFound)
	})
}
