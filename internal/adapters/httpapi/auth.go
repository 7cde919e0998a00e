package httpapi

import (
	"context"
	"net/http"
	"time"

	"eventledger/internal/infrastructure/sanitize"
)

const healthTimeout = 2 * time.Second

// serveHealth handles GET /health.
func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveSignup handles POST /auth/signup.
func (h *Handler) serveSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.identity.Signup(r.Context(),
		sanitize.Text(req.Name), req.Email, req.Password, sanitize.Text(req.Department))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionDTO{Token: session.Token, User: toUserDTO(&session.User)})
}

// serveLogin handles POST /auth/login.
func (h *Handler) serveLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionDTO{Token: session.Token, User: toUserDTO(&session.User)})
}

// serveMe handles GET /auth/me.
func (h *Handler) serveMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.Me(r.Context(), IdentityFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// serveDeleteUser handles DELETE /users/{id}.
func (h *Handler) serveDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.identity.DeleteUser(r.Context(), IdentityFrom(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
