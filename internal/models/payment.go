package models

import "time"

type Payment struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservationId"`
	UserID        string    `json:"userId"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"paymentDate"`

	Reservation *Reservation `json:"reservation,omitempty"`
}
