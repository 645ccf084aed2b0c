package models

import "time"

type Review struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	CaravanID string    `json:"caravanId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	Author *UserSummary `json:"author,omitempty"`
}

// IsValidRating проверяет, что оценка в диапазоне [MinRating, MaxRating].
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
