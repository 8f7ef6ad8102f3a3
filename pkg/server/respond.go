package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/observability"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes err as a JSON error. Errors without a code are reported as
// internal and their text is only logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	case stderrors.Is(err, context.Canceled):
		err = errors.Wrap(errors.ErrCodeUnavailable, err, "request cancelled")
	}

	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	body := errorBody{Code: code, Message: errors.UserMessage(err)}
	if code == "" || status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	}
	if code == "" || code == errors.ErrCodeInternal {
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, body)
}

// decode reads a JSON request body, rejecting unknown fields and trailing
// data.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid request body: trailing data")
	}
	return nil
}
