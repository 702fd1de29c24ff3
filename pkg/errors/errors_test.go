package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad value %d", 42)
	want := "INVALID_INPUT: bad value 42"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetching tree")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); got != "NETWORK_ERROR: fetching tree: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeRepoNotFound, "gone")
	wrapped := fmt.Errorf("outer: %w", err)

	if !Is(wrapped, ErrCodeRepoNotFound) {
		t.Error("Is did not find the code through a wrapper")
	}
	if Is(wrapped, ErrCodeNetwork) {
		t.Error("Is matched the wrong code")
	}
	if got := GetCode(wrapped); got != ErrCodeRepoNotFound {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeRepoNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidRepoURL, "not a repo")); got != "not a repo" {
		t.Errorf("UserMessage = %q, want bare message", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
