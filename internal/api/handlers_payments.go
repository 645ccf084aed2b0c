package api

import (
	"net/http"

	"caravanshare/internal/domain"

	"github.com/gorilla/mux"
)

type paymentRequest struct {
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	ReservationID string `json:"reservationId"`
	UserID        string `json:"userId"`
	Status        string `json:"status"`
}

func (s *HTTPServer) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	payment, err := s.services.Payments.CreatePayment(r.Context(), domain.PaymentInput{
		ReservationID: req.ReservationID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        req.Status,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *HTTPServer) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.services.Payments.ListByUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
