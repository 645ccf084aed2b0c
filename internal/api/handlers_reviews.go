package api

import (
	"math"
	"net/http"

	"caravanshare/internal/domain"
	"caravanshare/internal/models"

	"github.com/gorilla/mux"
)

type reviewRequest struct {
	AuthorID  string   `json:"authorId"`
	CaravanID string   `json:"caravanId"`
	Rating    *float64 `json:"rating"`
	Comment   string   `json:"comment"`
}

// parseRating отклоняет дробные и выходящие за [1,5] оценки до обращения к сервису
func parseRating(raw *float64) (int, error) {
	if raw == nil {
		return 0, domain.Validation("rating is required")
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, domain.Validation("rating must be an integer")
	}
	if v < models.MinRating || v > models.MaxRating {
		return 0, domain.Validation("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	return int(v), nil
}

func (s *HTTPServer) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	rating, err := parseRating(req.Rating)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	review, err := s.services.Reviews.CreateReview(r.Context(), domain.ReviewInput{
		AuthorID:  req.AuthorID,
		CaravanID: req.CaravanID,
		Rating:    rating,
		Comment:   req.Comment,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *HTTPServer) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.services.Reviews.ListByCaravan(r.Context(), mux.Vars(r)["caravanId"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
