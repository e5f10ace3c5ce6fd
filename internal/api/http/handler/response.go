package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/priorly/priorly-server/internal/model"
)

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Rescode string            `json:"rescode"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

const (
	rescodeSuccess = "SUCCESS"
	rescodeError   = "ERROR"
)

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{
		Rescode: rescodeSuccess,
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{
		Rescode: rescodeError,
		Message: message,
		Error:   message,
	})
}

// handleError maps typed model errors to status codes and envelope
// messages. Anything unrecognized becomes a generic internal error;
// the handler logs the detail before calling here.
func handleError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, Response{
			Rescode: rescodeError,
			Message: "Validation failed",
			Errors:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, model.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, model.ErrUnknownUser):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, model.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Please wait before requesting another code")
	case errors.Is(err, model.ErrInvalidOrExpiredOTP):
		writeError(w, http.StatusBadRequest, "Invalid or expired verification code")
	case errors.Is(err, model.ErrGenerationTimeout):
		writeError(w, http.StatusServiceUnavailable, "Could not issue a verification code, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
