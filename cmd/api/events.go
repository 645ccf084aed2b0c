package main

import (
	"caravanshare/internal/events"
	"caravanshare/internal/metrics"

	"github.com/rs/zerolog"
)

// subscribeDomainEvents обновляет метрики и пишет аудит по событиям сервисов
func subscribeDomainEvents(bus *events.EventBus, logger *zerolog.Logger) {
	if bus == nil {
		return
	}
	audit := logger.With().Str("component", "audit").Logger()

	bus.OnError(func(ev *events.Event, err error) {
		logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: handler failed")
	})

	bus.Subscribe(events.EventReservationCreated, func(ev *events.Event) error {
		var payload events.ReservationEventPayload
		if err := ev.Decode(&payload); err != nil {
			return err
		}
		metrics.IncReservationCreated(payload.Status)
		audit.Info().
			Str("event", ev.Type).
			Str("reservation_id", payload.ReservationID).
			Str("caravan_id", payload.CaravanID).
			Str("guest_id", payload.GuestID).
			Str("status", payload.Status).
			Int64("total_price", payload.TotalPrice).
			Msg("reservation created")
		return nil
	})

	bus.Subscribe(events.EventReservationStatusChanged, func(ev *events.Event) error {
		var payload events.ReservationEventPayload
		if err := ev.Decode(&payload); err != nil {
			return err
		}
		metrics.IncReservationTransition(payload.PreviousStatus, payload.Status)
		audit.Info().
			Str("event", ev.Type).
			Str("reservation_id", payload.ReservationID).
			Str("from", payload.PreviousStatus).
			Str("to", payload.Status).
			Str("changed_by", payload.ChangedBy).
			Msg("reservation status changed")
		return nil
	})

	bus.Subscribe(events.EventPaymentRecorded, func(ev *events.Event) error {
		var payload events.PaymentEventPayload
		if err := ev.Decode(&payload); err != nil {
			return err
		}
		metrics.IncPayment(payload.Status)
		audit.Info().
			Str("event", ev.Type).
			Str("payment_id", payload.PaymentID).
			Str("reservation_id", payload.ReservationID).
			Int64("amount", payload.Amount).
			Str("method", payload.Method).
			Str("status", payload.Status).
			Msg("payment recorded")
		return nil
	})

	bus.Subscribe(events.EventReviewCreated, func(ev *events.Event) error {
		var payload events.ReviewEventPayload
		if err := ev.Decode(&payload); err != nil {
			return err
		}
		metrics.IncReview()
		audit.Info().
			Str("event", ev.Type).
			Str("review_id", payload.ReviewID).
			Str("caravan_id", payload.CaravanID).
			Int("rating", payload.Rating).
			Msg("review created")
		return nil
	})
}
