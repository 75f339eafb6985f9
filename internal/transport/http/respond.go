package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"parkly/internal/domain"
	"parkly/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain failure kinds to HTTP statuses: validation
// errors are 422, lookups that miss are 404, business-rule violations are
// 409. Anything unclassified is a 500 with the detail withheld.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	if kind, ok := domain.KindOf(err); ok {
		message = err.Error()
		switch kind {
		case domain.KindValidation:
			status = http.StatusUnprocessableEntity
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindConflict:
			status = http.StatusConflict
		}
	} else if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
		message = "not found"
	} else if errors.Is(err, storage.ErrConflict) {
		status = http.StatusConflict
		message = "conflict"
	}

	writeJSON(w, status, map[string]string{"error": message})
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	return req, true
}

// parseTime accepts RFC 3339 timestamps from request payloads and query
// strings. An empty raw value yields the zero time, letting the domain's
// required-field validation produce the 422.
func parseTime(w http.ResponseWriter, raw, field string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + field + ": expected RFC 3339"})
		return time.Time{}, false
	}
	return t, true
}
