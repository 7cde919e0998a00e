package httpapi

import (
	"net/http"

	"eventledger/internal/domain/entities"
	"eventledger/internal/infrastructure/sanitize"
)

// serveRegister handles POST /register, the anonymous path.
func (h *Handler) serveRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	reg, err := h.registrations.Register(r.Context(), req.EventID, entities.Attendee{
		Name:       sanitize.Text(req.Name),
		Email:      req.Email,
		Department: sanitize.Text(req.Department),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationDTO(reg))
}

// serveRegisterSelf handles POST /events/{id}/register for a signed-in user.
func (h *Handler) serveRegisterSelf(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reg, err := h.registrations.RegisterUser(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationDTO(reg))
}

// serveEventRegistrations handles GET /events/{id}/registrations.
func (h *Handler) serveEventRegistrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	regs, err := h.registrations.ListRegistrationsForEvent(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationDTOs(regs))
}

// serveMyRegistrations handles GET /my-registrations.
func (h *Handler) serveMyRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.ListRegistrationsForUser(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationDTOs(regs))
}

// serveParticipants handles GET /participants.
func (h *Handler) serveParticipants(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.ListParticipants(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRegistrationDTOs(regs))
}
