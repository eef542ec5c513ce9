package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

type errorResponse struct {
	Error      string   `json:"error"`
	Missing    []string `json:"missing,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// serverError logs err and replies with a generic 500.
func serverError(w http.ResponseWriter, msg string, err error) {
	logger.Error(msg, slog.Any("err", err))
	http.Error(w, msg, http.StatusInternalServerError)
}

// intParam reads a bounded integer query parameter, falling back to def.
func intParam(r *http.Request, name string, def, lo, hi int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return def
	}
	return v
}
