package api

import (
	"net/http"
	"strings"
	"time"

	"caravanshare/internal/domain"
	"caravanshare/internal/models"
)

// parseDate принимает YYYY-MM-DD или RFC 3339 и возвращает время в UTC
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.Validation("%s is required", field)
	}

	if t, err := time.Parse(models.DateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.Validation("invalid %s format; expected YYYY-MM-DD or RFC 3339", field)
	}
	return t.UTC(), nil
}

func queryDateRange(r *http.Request, fromField, toField string) (time.Time, time.Time, error) {
	query := r.URL.Query()
	from, err := parseDate(fromField, query.Get(fromField))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(toField, query.Get(toField))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
