package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidOrdering, "unknown ordering %q", "random")
	if got, want := err.Error(), `INVALID_ORDERING: unknown ordering "random"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "assignments file %s", "clusters.json")
	if got, want := wrapped.Error(), "FILE_NOT_FOUND: assignments file clusters.json: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := fmt.Errorf("load: %w", Wrap(ErrCodeInvalidDataset, fs.ErrNotExist, "decode assignments"))

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("cause lost through Wrap and fmt.Errorf")
	}
	if !Is(err, ErrCodeInvalidDataset) {
		t.Error("code lost through fmt.Errorf")
	}
	if got := GetCode(err); got != ErrCodeInvalidDataset {
		t.Errorf("GetCode() = %q", got)
	}
	if got := UserMessage(err); got != "decode assignments" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeTooManyGroups, "partition has 12 groups"), ErrCodeTooManyGroups, "partition has 12 groups"},
		{"outermost code wins", Wrap(ErrCodeUnavailable, New(ErrCodeInvalidInput, "inner"), "save diagram"), ErrCodeUnavailable, "save diagram"},
		{"plain", errors.New("connection reset"), "", "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidPartition, http.StatusBadRequest},
		{ErrCodeInvalidOrdering, http.StatusBadRequest},
		{ErrCodeTooManyGroups, http.StatusUnprocessableEntity},
		{ErrCodeDiagramNotFound, http.StatusNotFound},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
