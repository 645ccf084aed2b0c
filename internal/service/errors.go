package service

import (
	"errors"

	"caravanshare/internal/database"
	"caravanshare/internal/domain"
)

// translate maps storage sentinels to domain errors. entity names the record for NotFound.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		return domain.NotFound("%s not found", entity)
	case errors.Is(err, database.ErrDuplicateEmail):
		return domain.Conflict("email is already registered")
	case errors.Is(err, database.ErrDuplicateReview):
		return domain.Conflict("you have already reviewed this caravan")
	case errors.Is(err, database.ErrHasReservations):
		return domain.Conflict("caravan has reservations and cannot be deleted")
	case errors.Is(err, database.ErrOverlap):
		return domain.Conflict("caravan is already reserved for the selected dates")
	case errors.Is(err, database.ErrConcurrentModification):
		return domain.Conflict("%s was modified concurrently, retry the request", entity)
	case errors.Is(err, database.ErrReservationCancelled):
		return domain.Conflict("reservation is cancelled")
	default:
		return domain.Internal("internal server error", err)
	}
}
