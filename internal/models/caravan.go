package models

import "time"

type Caravan struct {
	ID          string    `json:"id"`
	HostID      string    `json:"hostId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	PricePerDay int64     `json:"pricePerDay"`
	Capacity    int       `json:"capacity"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CaravanDetail is a caravan with its host and the rating aggregate computed at read time.
type CaravanDetail struct {
	Caravan
	Host         UserSummary `json:"host"`
	ReviewsAvg   float64     `json:"reviews_avg"`
	ReviewsCount int64       `json:"reviews_count"`
}
