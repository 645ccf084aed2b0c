package api

import (
	"net/http"
	"time"

	"caravanshare/internal/domain"
	"caravanshare/internal/logging"

	"github.com/gorilla/mux"
)

const lookupRateKeyPrefix = "lookup:"

type reservationRequest struct {
	CaravanID  string `json:"caravanId"`
	GuestID    string `json:"guestId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	TotalPrice *int64 `json:"totalPrice"`
}

type statusRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actorId"`
}

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	reservation, err := s.services.Reservations.CreateReservation(r.Context(), domain.ReservationInput{
		CaravanID:   req.CaravanID,
		GuestID:     req.GuestID,
		StartDate:   start,
		EndDate:     end,
		ClientTotal: req.TotalPrice,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleLookupReservation(w http.ResponseWriter, r *http.Request) {
	if err := s.checkLookupLimit(r); err != nil {
		s.fail(w, r, err)
		return
	}

	reservation, err := s.services.Reservations.Lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// checkLookupLimit ограничивает анонимные запросы по адресу клиента; сбой счетчика запрос не блокирует
func (s *HTTPServer) checkLookupLimit(r *http.Request) error {
	if s.services.LookupLimiter == nil || s.cfg.Lookup.Limit <= 0 {
		return nil
	}

	window := time.Duration(s.cfg.Lookup.WindowSeconds) * time.Second
	client := clientIP(r)
	allowed, err := s.services.LookupLimiter.CheckRateLimit(r.Context(), lookupRateKeyPrefix+client, s.cfg.Lookup.Limit, window)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Warn().Err(err).Str("client", client).Msg("lookup rate limit check failed")
		return nil
	}
	if !allowed {
		return domain.RateLimited("too many reservation lookups, try again later")
	}
	return nil
}

func (s *HTTPServer) handleListGuestReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := s.services.Reservations.ListByGuest(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (s *HTTPServer) handleListHostReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := s.services.Reservations.ListByHost(r.Context(), mux.Vars(r)["hostId"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (s *HTTPServer) handleUpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	reservation, err := s.services.Reservations.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status, req.ActorID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
