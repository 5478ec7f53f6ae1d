package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/workoutbuddy/internal/apperr"
	"github.com/templui/workoutbuddy/internal/ctxkeys"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidBody   = apperr.Validation("invalid_body", "request body must be valid JSON")
	errInternal      = apperr.Internal("internal", "internal server error")
	errUnauthorized  = &apperr.Error{Kind: "unauthorized", Code: "unauthorized", Message: "authentication required"}
	errMissingParams = apperr.Validation("missing_parameter", "missing required parameter")
)

type errorBody struct {
	Kind    apperr.Kind `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindSelfReference:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidTransition, apperr.KindDuplicate:
		return http.StatusConflict
	case "unauthorized":
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError renders err as {"error": {...}}. Anything that is not an
// *apperr.Error is logged and hidden behind a generic internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		appErr = errInternal
	}

	writeJSON(w, statusFor(appErr.Kind), map[string]errorBody{
		"error": {Kind: appErr.Kind, Code: appErr.Code, Message: appErr.Message},
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errInvalidBody
	}
	return nil
}

// currentUser returns the authenticated user id. Routes are wrapped in
// RequireAuth, so a missing id is written as 401 and ok is false.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := ctxkeys.UserID(r.Context())
	if !ok {
		writeError(w, r, errUnauthorized)
		return "", false
	}
	return userID, true
}

func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
