package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmoura/simulado/internal/access"
	"github.com/dmoura/simulado/internal/i18n"
	"github.com/dmoura/simulado/internal/quizgen"
	"github.com/dmoura/simulado/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks a request body that could not be decoded.
var errBadRequest = errors.New("malformed request body")

// writeError maps a domain error onto an HTTP status and a localized
// message. Upstream details and raw model output are logged, never sent to
// the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msgID := classify(err)
	if status >= 500 {
		slog.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		slog.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: i18n.T(r.Context(), msgID)})
}

func classify(err error) (int, string) {
	var formatErr *quizgen.InvalidFormatError
	switch {
	case errors.Is(err, access.ErrEmptyInput):
		return http.StatusBadRequest, "LoginEmptyEmail"
	case errors.Is(err, access.ErrNotFound):
		return http.StatusNotFound, "LoginNotFound"
	case errors.Is(err, access.ErrPendingApproval):
		return http.StatusForbidden, "LoginPending"
	case errors.Is(err, access.ErrUnknownStatus):
		return http.StatusForbidden, "LoginUnknownStatus"
	case errors.Is(err, access.ErrTransport):
		return http.StatusBadGateway, "LoginTransport"
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized, "SessionExpired"
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, "GenBusy"
	case errors.Is(err, session.ErrQuizNotActive):
		return http.StatusConflict, "QuizNotActive"
	case errors.Is(err, session.ErrReportNotReady):
		return http.StatusConflict, "ReportNotReady"
	case errors.Is(err, session.ErrInvalidAnswer),
		errors.Is(err, session.ErrWrongState),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "InvalidRequest"
	case errors.Is(err, quizgen.ErrEmptyTopic):
		return http.StatusBadRequest, "GenEmptyTopic"
	case errors.Is(err, quizgen.ErrMissingCredential):
		return http.StatusServiceUnavailable, "GenMissingCredential"
	case errors.Is(err, quizgen.ErrContentFiltered):
		return http.StatusUnprocessableEntity, "GenContentFiltered"
	case errors.Is(err, quizgen.ErrEmptyResult):
		return http.StatusBadGateway, "GenEmptyResult"
	case errors.As(err, &formatErr):
		return http.StatusBadGateway, "GenInvalidFormat"
	case errors.Is(err, quizgen.ErrUpstream):
		return http.StatusBadGateway, "GenUpstream"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

// decodeBody reads a small JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
