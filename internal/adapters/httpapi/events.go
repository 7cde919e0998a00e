package httpapi

import (
	"net/http"

	"eventledger/internal/domain/entities"
)

// serveListEvents handles GET /events. ?scope=mine lists the caller's own events.
func (h *Handler) serveListEvents(w http.ResponseWriter, r *http.Request) {
	scope := entities.ScopeAll
	if r.URL.Query().Get("scope") == "mine" {
		scope = entities.ScopeOwned
	}
	events, err := h.events.ListEvents(r.Context(), IdentityFrom(r.Context()), scope)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTOs(events))
}

// serveCreateEvent handles POST /events.
func (h *Handler) serveCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !h.decode(w, r, &req) {
		return
	}
	event, err := h.events.CreateEvent(r.Context(), IdentityFrom(r.Context()), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event))
}

// serveGetEvent handles GET /events/{id}.
func (h *Handler) serveGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDetailDTO(event))
}

// serveDeleteEvent handles DELETE /events/{id}?confirm=true. The cascade is
// irreversible, so an unconfirmed request is refused.
func (h *Handler) serveDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		h.writeError(w, r, http.StatusBadRequest, codeConfirmationRequired, nil)
		return
	}
	if err := h.events.DeleteEvent(r.Context(), IdentityFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// serveCheckInLink handles GET /events/{id}/checkin-link.
func (h *Handler) serveCheckInLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	link, err := h.attendance.CheckInLink(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// serveReminders handles POST /events/{id}/reminders.
func (h *Handler) serveReminders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	queued, err := h.reminders.SendReminders(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"queued":  queued,
		"message": h.message(r, "reminders.queued", map[string]any{"Count": queued}),
	})
}
