package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"eventledger/internal/domain"
)

const maxBodyBytes = 1 << 20

// Adapter-level error codes, in addition to the domain codes.
const (
	codeBadRequest           = "bad_request"
	codeConfirmationRequired = "confirmation_required"
	codeInternal             = "internal"
)

var statusByCode = map[string]int{
	"unauthorized":           http.StatusUnauthorized,
	"invalid_credentials":    http.StatusUnauthorized,
	"forbidden":              http.StatusForbidden,
	"user_not_found":         http.StatusNotFound,
	"event_not_found":        http.StatusNotFound,
	"registration_not_found": http.StatusNotFound,
	"duplicate_email":        http.StatusBadRequest,
	"duplicate_registration": http.StatusBadRequest,
	"not_registered":         http.StatusBadRequest,
	"already_checked_in":     http.StatusBadRequest,
	"validation":             http.StatusBadRequest,
	"event_full":             http.StatusConflict,
	"upstream":               http.StatusBadGateway,
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail answers with the domain error's code and a localized message. Errors
// without a domain code are logged and hidden behind a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		h.log.Error("request failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, codeInternal, nil)
		return
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		h.writeError(w, r, status, code, ve)
		return
	}
	h.writeError(w, r, status, code, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code string, ve *domain.ValidationError) {
	body := errorBody{Error: code}
	var data map[string]any
	if ve != nil {
		body.Field = ve.Field
		data = map[string]any{"Field": ve.Field, "Reason": ve.Reason}
	}
	body.Message = h.tr.T(r.Header.Get("Accept-Language"), "error."+code, data)
	writeJSON(w, status, body)
}

func (h *Handler) message(r *http.Request, key string, data map[string]any) string {
	return h.tr.T(r.Header.Get("Accept-Language"), key, data)
}

// decode reads a JSON body into dst. It reports false after answering 400.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, codeBadRequest, nil)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}
