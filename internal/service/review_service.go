package service

import (
	"context"
	"strings"

	"caravanshare/internal/domain"
	"caravanshare/internal/events"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
)

type ReviewService struct {
	repo                 domain.Repository
	eventBus             domain.EventPublisher
	requireConfirmedStay bool
	logger               *zerolog.Logger
}

func NewReviewService(repo domain.Repository, eventBus domain.EventPublisher, requireConfirmedStay bool, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{
		repo:                 repo,
		eventBus:             eventBus,
		requireConfirmedStay: requireConfirmedStay,
		logger:               logging.Component(logger, "reviews"),
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, input domain.ReviewInput) (*models.Review, error) {
	log := logging.FromContext(ctx, s.logger)

	comment := strings.TrimSpace(input.Comment)
	if strings.TrimSpace(input.AuthorID) == "" || strings.TrimSpace(input.CaravanID) == "" || comment == "" {
		return nil, domain.Validation("authorId, caravanId and comment are required")
	}
	if !models.IsValidRating(input.Rating) {
		return nil, domain.Validation("rating must be an integer between %d and %d", models.MinRating, models.MaxRating)
	}

	caravan, err := s.repo.GetCaravan(ctx, input.CaravanID)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	author, err := s.repo.GetUserByID(ctx, input.AuthorID)
	if err != nil {
		return nil, translate(err, "author")
	}

	exists, err := s.repo.ReviewExists(ctx, author.ID, caravan.ID)
	if err != nil {
		return nil, translate(err, "review")
	}
	if exists {
		return nil, domain.Conflict("you have already reviewed this caravan")
	}

	stayed, err := s.repo.HasConfirmedReservation(ctx, author.ID, caravan.ID)
	if err != nil {
		return nil, translate(err, "reservation")
	}
	if !stayed {
		if s.requireConfirmedStay {
			return nil, domain.DomainRule("only guests with a confirmed reservation can review this caravan")
		}
		log.Warn().Str("author_id", author.ID).Str("caravan_id", caravan.ID).Msg("review without a confirmed stay")
	}

	review := &models.Review{
		AuthorID:  author.ID,
		CaravanID: caravan.ID,
		Rating:    input.Rating,
		Comment:   comment,
	}
	// the unique index still guards against a concurrent duplicate
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, translate(err, "review")
	}
	review.Author = &models.UserSummary{Name: author.Name, ProfilePicture: author.ProfilePicture}

	if s.eventBus != nil {
		err := s.eventBus.PublishJSON(events.EventReviewCreated, events.ReviewEventPayload{
			ReviewID:  review.ID,
			AuthorID:  review.AuthorID,
			CaravanID: review.CaravanID,
			Rating:    review.Rating,
		})
		if err != nil {
			log.Error().Err(err).Str("event_type", events.EventReviewCreated).Msg("publish event error")
		}
	}
	return review, nil
}

func (s *ReviewService) ListByCaravan(ctx context.Context, caravanID string) ([]*models.Review, error) {
	if _, err := s.repo.GetCaravan(ctx, caravanID); err != nil {
		return nil, translate(err, "caravan")
	}
	reviews, err := s.repo.ListReviewsByCaravan(ctx, caravanID)
	if err != nil {
		return nil, translate(err, "review")
	}
	return reviews, nil
}
