package api

import (
	"net/http"

	"caravanshare/internal/domain"
	"caravanshare/internal/logging"

	"github.com/gorilla/mux"
)

type signupRequest struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Name           string  `json:"name"`
	ContactNumber  *string `json:"contactNumber"`
	ProfilePicture *string `json:"profilePicture"`
	Role           string  `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name          *string `json:"name"`
	ContactNumber *string `json:"contactNumber"`
}

// fail пишет ошибку с логгером запроса
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, logging.FromContext(r.Context(), s.logger), err)
}

func (s *HTTPServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.services.Users.Signup(r.Context(), domain.SignupInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		ContactNumber:  req.ContactNumber,
		ProfilePicture: req.ProfilePicture,
		Role:           req.Role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.services.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.services.Users.UpdateProfile(r.Context(), mux.Vars(r)["id"], req.Name, req.ContactNumber)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
