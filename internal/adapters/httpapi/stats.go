package httpapi

import "net/http"

// serveStats handles GET /stats.
func (h *Handler) serveStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Stats(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// serveStatsInsights handles GET /stats/insights. The report is returned even
// when the trend analysis is unavailable.
func (h *Handler) serveStatsInsights(w http.ResponseWriter, r *http.Request) {
	report, insight, err := h.reports.Insights(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report":  toReportDTO(report),
		"insight": toInsightDTO(insight),
	})
}

// servePrediction handles POST /events/{id}/prediction.
func (h *Handler) servePrediction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	event, insight, err := h.reports.PredictAttendance(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event":   toEventDTO(event),
		"insight": toInsightDTO(insight),
	})
}

// serveForecast handles POST /events/forecast for a draft event.
func (h *Handler) serveForecast(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !h.decode(w, r, &req) {
		return
	}
	insight, err := h.reports.Forecast(r.Context(), IdentityFrom(r.Context()), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insight": toInsightDTO(insight)})
}
