package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sociohub.org/internal/community"
)

// Error codes carried in the response envelope. Clients dispatch on these,
// not on the human-readable message.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeNotFound           = "RESOURCE_NOT_FOUND"
	codeExists             = "RESOURCE_EXISTS"
	codeEmailExists        = "EMAIL_ALREADY_EXISTS"
	codeForbidden          = "NOT_ALLOWED_ACCESS"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeNotAuthenticated   = "NOT_AUTHENTICATED"
	codeInternal           = "INTERNAL_SERVER_ERROR"
	codeRateLimited        = "RATE_LIMITED"
)

type errorItem struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type errorEnvelope struct {
	Status    bool        `json:"status"`
	Errors    []errorItem `json:"errors"`
	RequestID string      `json:"request_id,omitempty"`
}

type successEnvelope struct {
	Status  bool    `json:"status"`
	Content content `json:"content"`
}

type content struct {
	Data any                 `json:"data"`
	Meta *community.PageMeta `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, successEnvelope{Status: true, Content: content{Data: data}})
}

func respondPage(w http.ResponseWriter, data any, meta community.PageMeta) {
	writeJSON(w, http.StatusOK, successEnvelope{Status: true, Content: content{Data: data, Meta: &meta}})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	env := errorEnvelope{Status: false, Errors: []errorItem{{Message: msg, Code: code}}}
	if r != nil {
		env.RequestID = RequestIDFromContext(r.Context())
	}
	writeJSON(w, status, env)
}

// handleServiceError maps the core's sentinel errors onto HTTP statuses and
// envelope codes. Conflicts answer 400, matching the public API contract.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, community.ErrValidation):
		respondError(w, r, http.StatusBadRequest, codeValidation, errMessage(err))
	case errors.Is(err, community.ErrInvalidCredentials):
		respondError(w, r, http.StatusBadRequest, codeInvalidCredentials, "invalid credentials")
	case errors.Is(err, community.ErrConflict):
		respondError(w, r, http.StatusBadRequest, codeExists, errMessage(err))
	case errors.Is(err, community.ErrNotFound):
		respondError(w, r, http.StatusNotFound, codeNotFound, errMessage(err))
	case errors.Is(err, community.ErrForbidden):
		respondError(w, r, http.StatusForbidden, codeForbidden, errMessage(err))
	default:
		respondError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// errMessage strips the package prefix from sentinel messages so the envelope
// carries "resource not found" rather than "community: resource not found".
func errMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "community: "); ok {
		return rest
	}
	return msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	respondError(w, r, http.StatusMethodNotAllowed, codeValidation, "method not allowed")
}
