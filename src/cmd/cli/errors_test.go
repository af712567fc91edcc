package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"failsift-agent/src/deepseek"
	"failsift-agent/src/jenkins"
)

func TestWrapError_AuthFailed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "ErrAuthFailed sentinel",
			err:  jenkins.ErrAuthFailed,
		},
		{
			name: "wrapped ErrAuthFailed",
			err:  fmt.Errorf("request failed: %w", jenkins.ErrAuthFailed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapError(tt.err)

			userErr, ok := wrapped.(*UserError)
			if !ok {
				t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
			}

			if userErr.Message != "Jenkins authentication failed" {
				t.Errorf("Message = %q, want %q", userErr.Message, "Jenkins authentication failed")
			}

			if !strings.Contains(userErr.Hint, "JENKINS_TOKEN") {
				t.Errorf("Hint should mention JENKINS_TOKEN, got %q", userErr.Hint)
			}

			if !errors.Is(wrapped, jenkins.ErrAuthFailed) {
				t.Error("errors.Is(wrapped, jenkins.ErrAuthFailed) = false, want true")
			}
		})
	}
}

func TestWrapError_NotFound(t *testing.T) {
	wrapped := WrapError(fmt.Errorf("GET /job/x: %w", jenkins.ErrNotFound))

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}

	if userErr.Message != "Jenkins job or build not found" {
		t.Errorf("Message = %q, want %q", userErr.Message, "Jenkins job or build not found")
	}

	if !strings.Contains(userErr.Hint, "JOB_NAME") {
		t.Errorf("Hint should mention JOB_NAME, got %q", userErr.Hint)
	}
}

func TestWrapError_MissingAPIKey(t *testing.T) {
	wrapped := WrapError(deepseek.ErrMissingAPIKey)

	userErr, ok := wrapped.(*UserError)
	if !ok {
		t.Fatalf("WrapError() returned %T, want *UserError", wrapped)
	}

	if !strings.Contains(userErr.Hint, "DEEPSEEK_API_KEY") {
		t.Errorf("Hint should mention DEEPSEEK_API_KEY, got %q", userErr.Hint)
	}
}

func TestWrapError_PassesThroughUnknown(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	if wrapped := WrapError(err); wrapped != err {
		t.Errorf("WrapError() = %v, want the original error", wrapped)
	}
}

func TestWrapError_Nil(t *testing.T) {
	if err := WrapError(nil); err != nil {
		t.Errorf("WrapError(nil) = %v, want nil", err)
	}
}

func TestUserError_Error(t *testing.T) {
	err := &UserError{
		Message: "something broke",
		Hint:    "try turning it off and on",
		Err:     errors.New("underlying cause"),
	}

	msg := err.Error()
	for _, want := range []string{"something broke", "Hint: try turning it off and on", "Details: underlying cause"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should contain %q", msg, want)
		}
	}
}

func TestUserError_NoHint(t *testing.T) {
	err := &UserError{Message: "something broke"}

	if msg := err.Error(); msg != "something broke" {
		t.Errorf("Error() = %q, want bare message", msg)
	}
}
