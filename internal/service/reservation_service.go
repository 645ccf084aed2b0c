package service

import (
	"context"
	"strings"
	"time"

	"caravanshare/internal/config"
	"caravanshare/internal/domain"
	"caravanshare/internal/events"
	"caravanshare/internal/logging"
	"caravanshare/internal/models"

	"github.com/rs/zerolog"
)

// maxAvailabilityWindow bounds availability queries.
const maxAvailabilityWindow = 366 * 24 * time.Hour

// transitions lists the allowed status changes; CANCELLED is terminal.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ReservationService struct {
	repo        domain.Repository
	cache       domain.LookupCache
	eventBus    domain.EventPublisher
	autoConfirm bool
	maxNights   int64
	logger      *zerolog.Logger
}

func NewReservationService(repo domain.Repository, cache domain.LookupCache, eventBus domain.EventPublisher, cfg config.BookingConfig, logger *zerolog.Logger) *ReservationService {
	maxNights := int64(cfg.MaxNights)
	if maxNights <= 0 {
		maxNights = models.DefaultMaxNights
	}
	return &ReservationService{
		repo:        repo,
		cache:       cache,
		eventBus:    eventBus,
		autoConfirm: cfg.AutoConfirmEnabled(),
		maxNights:   maxNights,
		logger:      logging.Component(logger, "reservations"),
	}
}

// price returns the billable nights and the total for [start, end).
func (s *ReservationService) price(caravan *models.Caravan, start, end time.Time) (int64, int64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, 0, domain.Validation("startDate and endDate are required")
	}
	if !end.After(start) {
		return 0, 0, domain.InvalidRange("endDate must be after startDate")
	}
	nights := models.Nights(start, end)
	if nights > s.maxNights {
		return 0, 0, domain.InvalidRange("a reservation cannot be longer than %d nights", s.maxNights)
	}
	return nights, nights * caravan.PricePerDay, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, input domain.ReservationInput) (*models.Reservation, error) {
	log := logging.FromContext(ctx, s.logger)

	if strings.TrimSpace(input.CaravanID) == "" || strings.TrimSpace(input.GuestID) == "" {
		return nil, domain.Validation("caravanId and guestId are required")
	}

	caravan, err := s.repo.GetCaravan(ctx, input.CaravanID)
	if err != nil {
		return nil, translate(err, "caravan")
	}
	guest, err := s.repo.GetUserByID(ctx, input.GuestID)
	if err != nil {
		return nil, translate(err, "guest")
	}
	if caravan.HostID == guest.ID {
		return nil, domain.DomainRule("hosts cannot reserve their own caravan")
	}

	start, end := input.StartDate.UTC(), input.EndDate.UTC()
	nights, total, err := s.price(caravan, start, end)
	if err != nil {
		return nil, err
	}
	if input.ClientTotal != nil && *input.ClientTotal != total {
		log.Warn().
			Int64("client_total", *input.ClientTotal).
			Int64("total_price", total).
			Str("caravan_id", caravan.ID).
			Msg("client total price ignored")
	}

	reservation := &models.Reservation{
		GuestID:    guest.ID,
		CaravanID:  caravan.ID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: total,
		Status:     models.StatusPending,
	}
	payment := &models.Payment{
		UserID: guest.ID,
		Amount: total,
		Method: models.MethodCard,
		Status: models.PaymentPending,
	}
	if s.autoConfirm {
		reservation.Status = models.StatusConfirmed
		payment.Status = models.PaymentCompleted
	}

	if err := s.repo.CreateReservationWithPayment(ctx, reservation, payment); err != nil {
		return nil, translate(err, "reservation")
	}
	reservation.Caravan = caravan
	reservation.Payment = payment

	log.Info().
		Str("reservation_id", reservation.ID).
		Str("caravan_id", caravan.ID).
		Int64("nights", nights).
		Int64("total_price", total).
		Str("status", reservation.Status).
		Msg("reservation created")

	s.publishEvent(ctx, events.EventReservationCreated, reservation, "", guest.ID)
	return reservation, nil
}

// UpdateStatus applies the state machine. With a non-empty actorID the host may
// confirm or cancel and the guest may only cancel.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status, actorID string) (*models.Reservation, error) {
	if !models.IsValidStatus(status) {
		return nil, domain.Validation("status must be one of %s, %s, %s",
			models.StatusPending, models.StatusConfirmed, models.StatusCancelled)
	}

	current, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, translate(err, "reservation")
	}

	if actorID != "" {
		switch actorID {
		case current.Caravan.HostID:
			// host may confirm or cancel
		case current.GuestID:
			if status != models.StatusCancelled {
				return nil, domain.Forbidden("guests can only cancel their reservations")
			}
		default:
			return nil, domain.Forbidden("only the host or the guest can change this reservation")
		}
	}

	if current.Status == status {
		return current, nil
	}
	if !canTransition(current.Status, status) {
		return nil, domain.Conflict("cannot change reservation status from %s to %s", current.Status, status)
	}

	if err := s.repo.UpdateReservationStatus(ctx, id, current.Status, status); err != nil {
		return nil, translate(err, "reservation")
	}
	s.invalidate(ctx, id)

	updated, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, translate(err, "reservation")
	}

	logging.FromContext(ctx, s.logger).Info().
		Str("reservation_id", id).
		Str("from", current.Status).
		Str("to", status).
		Msg("reservation status changed")

	s.publishEvent(ctx, events.EventReservationStatusChanged, updated, current.Status, actorID)
	return updated, nil
}

// Lookup serves anonymous reads through the lookup cache. Cache failures are logged, never returned.
func (s *ReservationService) Lookup(ctx context.Context, id string) (*models.Reservation, error) {
	log := logging.FromContext(ctx, s.logger)

	if s.cache != nil {
		cached, err := s.cache.GetReservation(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("reservation_id", id).Msg("lookup cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	reservation, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, translate(err, "reservation")
	}

	if s.cache != nil {
		if err := s.cache.SetReservation(ctx, reservation); err != nil {
			log.Warn().Err(err).Str("reservation_id", id).Msg("lookup cache write failed")
		}
	}
	return reservation, nil
}

func (s *ReservationService) ListByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error) {
	reservations, err := s.repo.ListReservationsByGuest(ctx, guestID)
	if err != nil {
		return nil, translate(err, "reservation")
	}
	return reservations, nil
}

func (s *ReservationService) ListByHost(ctx context.Context, hostID string) ([]*models.Reservation, error) {
	reservations, err := s.repo.ListReservationsByHost(ctx, hostID)
	if err != nil {
		return nil, translate(err, "reservation")
	}
	return reservations, nil
}

// Quote prices a range with the same rules as CreateReservation without writing anything.
func (s *ReservationService) Quote(ctx context.Context, caravanID string, start, end time.Time) (*models.Quote, error) {
	caravan, err := s.repo.GetCaravan(ctx, caravanID)
	if err != nil {
		return nil, translate(err, "caravan")
	}

	start, end = start.UTC(), end.UTC()
	nights, total, err := s.price(caravan, start, end)
	if err != nil {
		return nil, err
	}

	overlap, err := s.repo.HasOverlap(ctx, caravan.ID, start, end)
	if err != nil {
		return nil, translate(err, "reservation")
	}

	return &models.Quote{
		CaravanID:   caravan.ID,
		StartDate:   start,
		EndDate:     end,
		Nights:      nights,
		PricePerDay: caravan.PricePerDay,
		TotalPrice:  total,
		Available:   !overlap,
	}, nil
}

func (s *ReservationService) Availability(ctx context.Context, caravanID string, from, to time.Time) ([]models.BookedRange, error) {
	if from.IsZero() || to.IsZero() {
		return nil, domain.Validation("from and to are required")
	}
	if !to.After(from) {
		return nil, domain.InvalidRange("to must be after from")
	}
	if to.Sub(from) > maxAvailabilityWindow {
		return nil, domain.InvalidRange("availability window cannot exceed 366 days")
	}

	if _, err := s.repo.GetCaravan(ctx, caravanID); err != nil {
		return nil, translate(err, "caravan")
	}

	ranges, err := s.repo.ListBookedRanges(ctx, caravanID, from.UTC(), to.UTC())
	if err != nil {
		return nil, translate(err, "reservation")
	}
	return ranges, nil
}

func (s *ReservationService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logging.FromContext(ctx, s.logger).Warn().Err(err).Str("reservation_id", id).Msg("lookup cache invalidation failed")
	}
}

func (s *ReservationService) publishEvent(ctx context.Context, eventType string, reservation *models.Reservation, previousStatus, changedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID:  reservation.ID,
		CaravanID:      reservation.CaravanID,
		GuestID:        reservation.GuestID,
		Status:         reservation.Status,
		PreviousStatus: previousStatus,
		TotalPrice:     reservation.TotalPrice,
		StartDate:      reservation.StartDate,
		EndDate:        reservation.EndDate,
		ChangedBy:      changedBy,
	}
	if reservation.Caravan != nil {
		payload.HostID = reservation.Caravan.HostID
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		logging.FromContext(ctx, s.logger).Error().Err(err).
			Str("event_type", eventType).
			Str("reservation_id", reservation.ID).
			Msg("publish event error")
	}
}
