package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"caravanshare/internal/domain"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

var statusByKind = map[domain.Kind]int{
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindInvalidRange: http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindConflict:     http.StatusConflict,
	domain.KindDomainRule:   http.StatusUnprocessableEntity,
	domain.KindRateLimited:  http.StatusTooManyRequests,
	domain.KindInternal:     http.StatusInternalServerError,
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type messageBody struct {
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError отдает ошибку клиенту; внутренние причины остаются только в логе
func writeError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal && logger != nil {
		logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, statusFor(kind), errorBody{Error: domain.MessageOf(err), Kind: kind.String()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return domain.Validation("request body is required")
		case errors.As(err, &maxErr):
			return domain.Validation("request body is too large")
		default:
			return domain.Validation("invalid JSON body")
		}
	}
	return nil
}
