package database

import (
	"context"
	"database/sql"
	"fmt"

	"caravanshare/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateReview(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO reviews (id, author_id, caravan_id, rating, comment, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	ts := now()
	_, err := db.ExecContext(ctx, query,
		review.ID,
		review.AuthorID,
		review.CaravanID,
		review.Rating,
		review.Comment,
		formatTime(ts),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.CreatedAt = ts
	return nil
}

func (db *DB) ReviewExists(ctx context.Context, authorID, caravanID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE author_id = ? AND caravan_id = ?`
	if err := db.QueryRowContext(ctx, query, authorID, caravanID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return count > 0, nil
}

// ListReviewsByCaravan returns reviews newest first with the author's display fields.
func (db *DB) ListReviewsByCaravan(ctx context.Context, caravanID string) ([]*models.Review, error) {
	query := `SELECT rv.id, rv.author_id, rv.caravan_id, rv.rating, rv.comment, rv.created_at,
	                 u.name, u.profile_picture
              FROM reviews rv JOIN users u ON u.id = rv.author_id
              WHERE rv.caravan_id = ?
              ORDER BY rv.created_at DESC, rv.rowid DESC`
	rows, err := db.QueryContext(ctx, query, caravanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		var (
			rv        models.Review
			createdAt string
			name      string
			picture   sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.AuthorID, &rv.CaravanID, &rv.Rating, &rv.Comment, &createdAt, &name, &picture); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if rv.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		rv.Author = &models.UserSummary{Name: name, ProfilePicture: stringPtr(picture)}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return reviews, nil
}
