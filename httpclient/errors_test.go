package httpclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{401, ErrCodeAuth, false},
		{403, ErrCodeAuth, false},
		{404, ErrCodeNotFound, false},
		{400, ErrCodeBadRequest, false},
		{422, ErrCodeBadRequest, false},
		{500, ErrCodeServer, true},
		{503, ErrCodeServer, true},
	}
	for _, tt := range tests {
		err := classifyStatus(tt.status, []byte("body"))
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if err.Code != tt.code {
			t.Errorf("status %d: code = %v, want %v", tt.status, err.Code, tt.code)
		}
		if err.Retryable != tt.retryable {
			t.Errorf("status %d: retryable = %v", tt.status, err.Retryable)
		}
		if string(err.Body) != "body" {
			t.Errorf("status %d: body not preserved", tt.status)
		}
	}
}

func TestClassifyStatus_Success(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		if err := classifyStatus(status, nil); err != nil {
			t.Errorf("status %d: expected nil, got %v", status, err)
		}
	}
}

func TestError_Message(t *testing.T) {
	e := classifyStatus(404, nil)
	if got := e.Error(); got != "httpclient: not_found (HTTP 404)" {
		t.Errorf("Error() = %q", got)
	}

	te := newTimeoutError(errors.New("deadline"))
	if got := te.Error(); got != "httpclient: timeout: deadline" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("refused")
	e := newConnectionError(cause)
	if !errors.Is(e, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestIsHelpers_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("add shell: %w", classifyStatus(404, nil))
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through wrapping")
	}
	if IsAuth(wrapped) {
		t.Error("IsAuth should not match a 404")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("plain errors must not match")
	}
}

func TestErrorCode_String(t *testing.T) {
	if ErrCodeTimeout.String() != "timeout" || ErrCodeServer.String() != "server" {
		t.Error("unexpected code names")
	}
	if ErrorCode(99).String() != "unknown" {
		t.Error("unknown codes should stringify as unknown")
	}
}
