package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/riskmap/internal/analytics"
	"github.com/garnizeh/riskmap/internal/recommend"
)

type AnalyticsHandler struct {
	engine *analytics.Engine
	rec    *recommend.Recommender
}

func NewAnalyticsHandler(engine *analytics.Engine, rec *recommend.Recommender) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, rec: rec}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Summary(r.Context())
	if err != nil {
		serverError(w, "failed to compute summary", err)
		return
	}

	writeJSON(w, s, http.StatusOK)
}

func (h *AnalyticsHandler) View(w http.ResponseWriter, r *http.Request) {
	rows, ok, err := h.engine.View(r.Context(), mux.Vars(r)["view"])
	if !ok {
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, "failed to compute view", err)
		return
	}

	writeJSON(w, rows, http.StatusOK)
}

func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.engine.Run(r.Context())
	if err != nil {
		serverError(w, "failed to compute report", err)
		return
	}

	writeJSON(w, rep, http.StatusOK)
}

// Recommendations replies with JSON findings, or numbered plain text when
// format=text.
func (h *AnalyticsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rep, err := h.engine.Run(r.Context())
	if err != nil {
		serverError(w, "failed to compute report", err)
		return
	}
	findings := h.rec.FromReport(rep)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := recommend.Render(w, findings); err != nil {
			logger.Error("failed to write recommendations", "err", err)
		}
		return
	}

	writeJSON(w, findings, http.StatusOK)
}
