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

func TestReviewService(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, false)
	ctx := context.Background()

	host := env.signup(t, "host@example.com", models.RoleHost)
	listing := env.listing(t, host.ID, 1000)
	guest := env.signup(t, "guest@example.com", models.RoleGuest)

	t.Run("Validation", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
				AuthorID: guest.ID, CaravanID: listing.ID, Rating: rating, Comment: "ok",
			})
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
		_, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
			AuthorID: guest.ID, CaravanID: listing.ID, Rating: 3, Comment: "  ",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		exists, err := env.db.ReviewExists(ctx, guest.ID, listing.ID)
		require.NoError(t, err)
		assert.False(t, exists, "rejected reviews must not be persisted")
	})

	t.Run("UnknownCaravanOrAuthor", func(t *testing.T) {
		_, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
			AuthorID: guest.ID, CaravanID: "missing", Rating: 3, Comment: "ok",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = env.reviews.CreateReview(ctx, domain.ReviewInput{
			AuthorID: "missing", CaravanID: listing.ID, Rating: 3, Comment: "ok",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SoftStayCheck", func(t *testing.T) {
		review, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
			AuthorID: guest.ID, CaravanID: listing.ID, Rating: 4, Comment: "Lovely",
		})
		require.NoError(t, err)
		require.NotNil(t, review.Author)
		assert.Equal(t, guest.Name, review.Author.Name)
		assert.Equal(t, events.EventReviewCreated, env.bus.last().Type)
	})

	t.Run("DuplicateRegardlessOfContent", func(t *testing.T) {
		_, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
			AuthorID: guest.ID, CaravanID: listing.ID, Rating: 1, Comment: "Changed my mind",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("ListByCaravan", func(t *testing.T) {
		reviews, err := env.reviews.ListByCaravan(ctx, listing.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 4, reviews[0].Rating)

		_, err = env.reviews.ListByCaravan(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		detail, err := env.caravans.GetCaravan(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), detail.ReviewsCount)
		assert.InDelta(t, 4.0, detail.ReviewsAvg, 0.001)
	})
}

func TestReviewService_RequireConfirmedStay(t *testing.T) {
	env := newTestEnv(t, config.BookingConfig{}, true)
	ctx := context.Background()

	host := env.signup(t, "host@example.com", models.RoleHost)
	listing := env.listing(t, host.ID, 1000)
	guest := env.signup(t, "guest@example.com", models.RoleGuest)

	_, err := env.reviews.CreateReview(ctx, domain.ReviewInput{
		AuthorID: guest.ID, CaravanID: listing.ID, Rating: 5, Comment: "Never went",
	})
	assert.ErrorIs(t, err, domain.ErrDomainRule)

	_, err = env.reservations.CreateReservation(ctx, domain.ReservationInput{
		CaravanID: listing.ID, GuestID: guest.ID, StartDate: day(1), EndDate: day(2),
	})
	require.NoError(t, err)

	_, err = env.reviews.CreateReview(ctx, domain.ReviewInput{
		AuthorID: guest.ID, CaravanID: listing.ID, Rating: 5, Comment: "Great stay",
	})
	assert.NoError(t, err)
}
