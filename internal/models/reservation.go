package models

import "time"

type Reservation struct {
	ID         string    `json:"id"`
	GuestID    string    `json:"guestId"`
	CaravanID  string    `json:"caravanId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice int64     `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Caravan *Caravan     `json:"caravan,omitempty"`
	Payment *Payment     `json:"payment,omitempty"`
	Guest   *UserSummary `json:"guest,omitempty"`
}

// Overlaps reports whether [start, end) intersects the reservation's [StartDate, EndDate).
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && start.Before(r.EndDate)
}

// Nights возвращает количество оплачиваемых ночей; неполные сутки считаются целыми.
func Nights(start, end time.Time) int64 {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	day := 24 * time.Hour
	nights := int64(diff / day)
	if diff%day != 0 {
		nights++
	}
	return nights
}

// Quote is a price preview for a date range.
type Quote struct {
	CaravanID   string    `json:"caravanId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Nights      int64     `json:"nights"`
	PricePerDay int64     `json:"pricePerDay"`
	TotalPrice  int64     `json:"totalPrice"`
	Available   bool      `json:"available"`
}

// BookedRange is an interval occupied by a non-cancelled reservation.
type BookedRange struct {
	ReservationID string    `json:"reservationId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        string    `json:"status"`
}
