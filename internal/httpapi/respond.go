package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/finapi/internal/errs"
)

// Client-visible messages. Existing clients match on this exact wording.
const (
	msgAlreadyExists     = "Customer already exists"
	msgNotFound          = "Customer not found"
	msgInsufficientFunds = "Insufficients funds!"
	msgInvalid           = "invalid request"
	msgInternal          = "internal error"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	toJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFor maps a domain error to status, message and code.
// In legacy mode every known domain error is a 400 without a code.
func statusFor(err error, legacy bool) (int, errorResponse) {
	var (
		status int
		resp   errorResponse
	)
	switch {
	case errors.Is(err, errs.ErrAlreadyExists):
		status, resp = http.StatusConflict, errorResponse{Error: msgAlreadyExists, Code: "already_exists"}
	case errors.Is(err, errs.ErrNotFound):
		status, resp = http.StatusNotFound, errorResponse{Error: msgNotFound, Code: "not_found"}
	case errors.Is(err, errs.ErrInsufficientFunds):
		status, resp = http.StatusConflict, errorResponse{Error: msgInsufficientFunds, Code: "insufficient_funds"}
	case errors.Is(err, errs.ErrInvalid):
		status, resp = http.StatusBadRequest, errorResponse{Error: invalidMessage(err), Code: "invalid"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgInternal}
	}
	if legacy {
		return http.StatusBadRequest, errorResponse{Error: resp.Error}
	}
	return status, resp
}

// invalidMessage returns the client-facing part of an ErrInvalid.
func invalidMessage(err error) string {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return msgInvalid
}

// writeDomainErr answers with the mapped error; unmapped errors are logged.
func (s *Server) writeDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := statusFor(err, s.legacyStatus)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "req_id", chimw.GetReqID(r.Context()), "err", err)
	}
	toJSON(w, status, resp)
}
