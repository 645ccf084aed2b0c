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

type PaymentService struct {
	repo     domain.PaymentRepository
	cache    domain.LookupCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewPaymentService(repo domain.PaymentRepository, cache domain.LookupCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logging.Component(logger, "payments"),
	}
}

// CreatePayment records a simulated payment. A COMPLETED payment confirms a
// PENDING reservation in the same transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, input domain.PaymentInput) (*models.Payment, error) {
	log := logging.FromContext(ctx, s.logger)

	if strings.TrimSpace(input.ReservationID) == "" || strings.TrimSpace(input.UserID) == "" {
		return nil, domain.Validation("reservationId and userId are required")
	}
	if input.Amount <= 0 {
		return nil, domain.Validation("amount must be greater than 0")
	}
	if !models.IsValidMethod(input.Method) {
		return nil, domain.Validation("method must be one of %s, %s, %s",
			models.MethodCard, models.MethodBankTransfer, models.MethodCash)
	}

	status := input.Status
	if status == "" {
		status = models.PaymentCompleted
	}
	if !models.IsValidPaymentStatus(status) {
		return nil, domain.Validation("invalid payment status %q", status)
	}

	payment := &models.Payment{
		ReservationID: input.ReservationID,
		UserID:        input.UserID,
		Amount:        input.Amount,
		Method:        input.Method,
		Status:        status,
	}
	if err := s.repo.CreatePayment(ctx, payment, status == models.PaymentCompleted); err != nil {
		return nil, translate(err, "reservation")
	}

	// the reservation snapshot now embeds a different payment and maybe a new status
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, payment.ReservationID); err != nil {
			log.Warn().Err(err).Str("reservation_id", payment.ReservationID).Msg("lookup cache invalidation failed")
		}
	}

	log.Info().
		Str("payment_id", payment.ID).
		Str("reservation_id", payment.ReservationID).
		Int64("amount", payment.Amount).
		Str("status", payment.Status).
		Msg("payment recorded")

	if s.eventBus != nil {
		err := s.eventBus.PublishJSON(events.EventPaymentRecorded, events.PaymentEventPayload{
			PaymentID:     payment.ID,
			ReservationID: payment.ReservationID,
			UserID:        payment.UserID,
			Amount:        payment.Amount,
			Method:        payment.Method,
			Status:        payment.Status,
		})
		if err != nil {
			log.Error().Err(err).Str("event_type", events.EventPaymentRecorded).Msg("publish event error")
		}
	}
	return payment, nil
}

func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	payments, err := s.repo.ListPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "payment")
	}
	return payments, nil
}
