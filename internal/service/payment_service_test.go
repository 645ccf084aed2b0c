package service

import (
	"context"
	"testing"

	"caravanshare/internal/config"
	"caravanshare/internal/domain"
	"caravanshare/internal/events"
	"caravanshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{AutoConfirm: boolPtr(false)}, false)
	ctx := context.Background()

	host := env.signup(t, "host@example.com", models.RoleHost)
	listing := env.listing(t, host.ID, 1000)
	guest := env.signup(t, "guest@example.com", models.RoleGuest)

	r, err := env.reservations.CreateReservation(ctx, domain.ReservationInput{
		CaravanID: listing.ID, GuestID: guest.ID, StartDate: day(1), EndDate: day(3),
	})
	require.NoError(t, err)

	t.Run("Validation", func(t *testing.T) {
		cases := []domain.PaymentInput{
			{UserID: guest.ID, Amount: 1, Method: models.MethodCard},
			{ReservationID: r.ID, UserID: guest.ID, Amount: 0, Method: models.MethodCard},
			{ReservationID: r.ID, UserID: guest.ID, Amount: 1, Method: "BITCOIN"},
			{ReservationID: r.ID, UserID: guest.ID, Amount: 1, Method: models.MethodCard, Status: "LOST"},
		}
		for _, in := range cases {
			_, err := env.payments.CreatePayment(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
	})

	t.Run("UnknownReservation", func(t *testing.T) {
		_, err := env.payments.CreatePayment(ctx, domain.PaymentInput{
			ReservationID: "missing", UserID: guest.ID, Amount: 1, Method: models.MethodCard,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CompletedConfirmsPendingReservation", func(t *testing.T) {
		// cached snapshot must not survive the payment
		_, err := env.reservations.Lookup(ctx, r.ID)
		require.NoError(t, err)

		p, err := env.payments.CreatePayment(ctx, domain.PaymentInput{
			ReservationID: r.ID, UserID: guest.ID, Amount: 2000, Method: models.MethodBankTransfer,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, p.Status)
		assert.Equal(t, events.EventPaymentRecorded, env.bus.last().Type)

		got, err := env.reservations.Lookup(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)
		assert.Equal(t, p.ID, got.Payment.ID)
	})

	t.Run("CancelledReservation", func(t *testing.T) {
		other, err := env.reservations.CreateReservation(ctx, domain.ReservationInput{
			CaravanID: listing.ID, GuestID: guest.ID, StartDate: day(10), EndDate: day(11),
		})
		require.NoError(t, err)
		_, err = env.reservations.UpdateStatus(ctx, other.ID, models.StatusCancelled, "")
		require.NoError(t, err)

		_, err = env.payments.CreatePayment(ctx, domain.PaymentInput{
			ReservationID: other.ID, UserID: guest.ID, Amount: 1000, Method: models.MethodCash,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("ListByUser", func(t *testing.T) {
		payments, err := env.payments.ListByUser(ctx, guest.ID)
		require.NoError(t, err)
		// two initial pending payments plus the completed one
		require.Len(t, payments, 3)
		for _, p := range payments {
			require.NotNil(t, p.Reservation)
			assert.Equal(t, guest.ID, p.Reservation.GuestID)
			assert.NotNil(t, p.Reservation.Caravan)
		}

		none, err := env.payments.ListByUser(ctx, host.ID)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
