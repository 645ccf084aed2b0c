package database

import (
	"context"
	"testing"

	"caravanshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	host := createTestUser(t, db, "host@example.com", models.RoleHost)
	guest := createTestUser(t, db, "guest@example.com", models.RoleGuest)
	caravan := createTestCaravan(t, db, host.ID, 100)

	exists, err := db.ReviewExists(ctx, guest.ID, caravan.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	review := &models.Review{AuthorID: guest.ID, CaravanID: caravan.ID, Rating: 4, Comment: "Nice"}
	require.NoError(t, db.CreateReview(ctx, review))
	assert.NotEmpty(t, review.ID)

	exists, err = db.ReviewExists(ctx, guest.ID, caravan.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = db.CreateReview(ctx, &models.Review{AuthorID: guest.ID, CaravanID: caravan.ID, Rating: 5, Comment: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// rating CHECK constraint
	err = db.CreateReview(ctx, &models.Review{AuthorID: host.ID, CaravanID: caravan.ID, Rating: 6, Comment: "x"})
	assert.Error(t, err)

	reviews, err := db.ListReviewsByCaravan(ctx, caravan.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
	require.NotNil(t, reviews[0].Author)
	assert.Equal(t, guest.Name, reviews[0].Author.Name)

	empty, err := db.ListReviewsByCaravan(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
