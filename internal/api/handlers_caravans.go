package api

import (
	"net/http"
	"strings"

	"caravanshare/internal/domain"
	"caravanshare/internal/models"

	"github.com/gorilla/mux"
)

type caravanRequest struct {
	HostID      string   `json:"hostId"`
	ActorID     string   `json:"actorId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	PricePerDay int64    `json:"pricePerDay"`
	Capacity    int      `json:"capacity"`
	Images      []string `json:"images"`
}

func (req caravanRequest) input() domain.CaravanInput {
	return domain.CaravanInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		PricePerDay: req.PricePerDay,
		Capacity:    req.Capacity,
		Images:      req.Images,
	}
}

type availabilityResponse struct {
	CaravanID string               `json:"caravanId"`
	From      string               `json:"from"`
	To        string               `json:"to"`
	Booked    []models.BookedRange `json:"booked"`
}

func (s *HTTPServer) handleListCaravans(w http.ResponseWriter, r *http.Request) {
	caravans, err := s.services.Caravans.ListCaravans(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, caravans)
}

func (s *HTTPServer) handleListHostCaravans(w http.ResponseWriter, r *http.Request) {
	caravans, err := s.services.Caravans.ListCaravansByHost(r.Context(), mux.Vars(r)["hostId"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, caravans)
}

func (s *HTTPServer) handleGetCaravan(w http.ResponseWriter, r *http.Request) {
	caravan, err := s.services.Caravans.GetCaravan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, caravan)
}

func (s *HTTPServer) handleCreateCaravan(w http.ResponseWriter, r *http.Request) {
	var req caravanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.HostID) == "" {
		s.fail(w, r, domain.Validation("hostId is required"))
		return
	}

	caravan, err := s.services.Caravans.CreateCaravan(r.Context(), req.HostID, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, caravan)
}

func (s *HTTPServer) handleUpdateCaravan(w http.ResponseWriter, r *http.Request) {
	var req caravanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	caravan, err := s.services.Caravans.UpdateCaravan(r.Context(), mux.Vars(r)["id"], req.ActorID, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, caravan)
}

func (s *HTTPServer) handleDeleteCaravan(w http.ResponseWriter, r *http.Request) {
	actorID := strings.TrimSpace(r.URL.Query().Get("actorId"))
	if err := s.services.Caravans.DeleteCaravan(r.Context(), mux.Vars(r)["id"], actorID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "caravan deleted"})
}

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryDateRange(r, "startDate", "endDate")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	quote, err := s.services.Reservations.Quote(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryDateRange(r, "from", "to")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := mux.Vars(r)["id"]
	booked, err := s.services.Reservations.Availability(r.Context(), id, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if booked == nil {
		booked = []models.BookedRange{}
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		CaravanID: id,
		From:      from.Format(models.DateLayout),
		To:        to.Format(models.DateLayout),
		Booked:    booked,
	})
}
