package httpapi

import (
	"net/http"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

// serveAttendance handles POST /attendance. A participant_id is the staff
// path and needs an organizer's token; an email is the public self check-in.
func (h *Handler) serveAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.EventID == 0 {
		h.fail(w, r, domain.Invalid("event_id", "required"))
		return
	}

	var (
		mark *entities.Attendance
		err  error
	)
	if req.ParticipantID != 0 {
		mark, err = h.attendance.CheckIn(r.Context(), IdentityFrom(r.Context()), req.EventID, req.ParticipantID)
	} else {
		mark, err = h.attendance.SelfCheckIn(r.Context(), req.EventID, req.Email)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attendanceDTO{
		ID:             mark.ID,
		RegistrationID: mark.RegistrationID,
		EventID:        mark.EventID,
		AttendedAt:     mark.AttendedAt,
		Message:        h.message(r, "checkin.success", nil),
	})
}

// serveToggleAttendance handles POST /admin/attendance.
func (h *Handler) serveToggleAttendance(w http.ResponseWriter, r *http.Request) {
	var req toggleAttendanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.attendance.ToggleAttendance(r.Context(), IdentityFrom(r.Context()), req.ParticipantID, req.Attended); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true, "attended": req.Attended})
}

// serveEventAttendance handles GET /events/{id}/attendance.
func (h *Handler) serveEventAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entries, err := h.attendance.ListAttendance(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceEntryDTOs(entries))
}
