package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfiguration, "test message: %s", "value")

	if err.Code != ErrCodeConfiguration {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfiguration)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "CONFIGURATION: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMapping, cause, "evaluate expression")

	if err.Code != ErrCodeMapping {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMapping)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeLookup, "test"),
			code:     ErrCodeLookup,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeLookup, "test"),
			code:     ErrCodeMapping,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeMapping, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeMapping,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeLengthMismatch, "test"),
			expected: ErrCodeLengthMismatch,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLengthMismatch(t *testing.T) {
	err := LengthMismatch("event_column", 4, 3)
	if err.Code != ErrCodeLengthMismatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLengthMismatch)
	}
	for _, want := range []string{"event_column", "4", "3"} {
		if !strings.Contains(err.Message, want) {
			t.Errorf("Message = %q, should mention %q", err.Message, want)
		}
	}
}

func TestWarning(t *testing.T) {
	w := EmptyResult("facet %q has no rows", "KC")
	if w.Code != ErrCodeEmptyResult {
		t.Errorf("Code = %v, want %v", w.Code, ErrCodeEmptyResult)
	}
	expected := `EMPTY_RESULT: facet "KC" has no rows`
	if w.String() != expected {
		t.Errorf("String() = %v, want %v", w.String(), expected)
	}
}
