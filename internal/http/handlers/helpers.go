package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/apiclient"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/journey"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service and upstream errors to a status code.
func writeServiceError(w http.ResponseWriter, logger *logging.Logger, r *http.Request, err error) {
	var statusErr *apiclient.StatusError
	switch {
	case errors.Is(err, journey.ErrNotFound):
		jsonError(w, "journey not found", http.StatusNotFound)
	case errors.Is(err, journey.ErrStepOutOfOrder), errors.Is(err, journey.ErrCompleted):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, journey.ErrInvalidStep):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound:
		jsonError(w, "not found", http.StatusNotFound)
	case errors.As(err, &statusErr):
		logger.Error("upstream request failed", "path", r.URL.Path, "api", statusErr.API, "status", statusErr.Status)
		jsonError(w, "upstream service error", http.StatusBadGateway)
	default:
		logger.Error("request failed", "path", r.URL.Path, "error", err)
		jsonError(w, "upstream service unavailable", http.StatusBadGateway)
	}
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

// queryList collects repeated and comma separated values of key.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
