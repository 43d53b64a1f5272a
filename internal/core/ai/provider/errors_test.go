package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    ErrorKind
	}{
		{name: "429 status", status: http.StatusTooManyRequests, want: ErrorKindOverloaded},
		{name: "503 status", status: http.StatusServiceUnavailable, want: ErrorKindOverloaded},
		{name: "500 status", status: http.StatusInternalServerError, want: ErrorKindInternal},
		{name: "504 status", status: http.StatusGatewayTimeout, want: ErrorKindTimeout},
		{name: "status wins over message", status: http.StatusInternalServerError, message: "model is overloaded", want: ErrorKindInternal},
		{name: "overloaded message", message: "The model is overloaded. Please try again later.", want: ErrorKindOverloaded},
		{name: "unavailable message", message: "Service Unavailable", want: ErrorKindOverloaded},
		{name: "gemini quota", message: "RESOURCE_EXHAUSTED: quota exceeded", want: ErrorKindOverloaded},
		{name: "bare 500 in message", message: "[500 ] upstream failed", want: ErrorKindInternal},
		{name: "internal message", message: "An internal error has occurred", want: ErrorKindInternal},
		{name: "unmatched 400", status: http.StatusBadRequest, message: "API key not valid", want: ErrorKindUnknown},
		{name: "empty", want: ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.message))
		})
	}
}

func TestNewError(t *testing.T) {
	err := NewError("gemini", 0, "", fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorKindTimeout, err.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = NewError("openrouter", http.StatusServiceUnavailable, "no capacity", nil)
	assert.Equal(t, ErrorKindOverloaded, err.Kind)
	assert.Contains(t, err.Error(), "status 503")
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", InvalidResponse("gemini", "no candidates"))
	assert.Equal(t, ErrorKindInvalidResponse, KindOf(wrapped))
	assert.Equal(t, ErrorKindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, ErrorKindOverloaded, KindOf(errors.New("model overloaded")))
	assert.Equal(t, ErrorKindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKindUnknown, KindOf(nil))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "overloaded", ErrorKindOverloaded.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}
