package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPreset, "unknown preset: %s", "tulip")

	if err.Code != ErrCodeInvalidPreset {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPreset)
	}

	if err.Message != "unknown preset: tulip" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown preset: tulip")
	}

	expected := "INVALID_PRESET: unknown preset: tulip"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected token")
	err := Wrap(ErrCodeParse, cause, "read sentence")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "PARSE_ERROR: read sentence: unexpected token"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
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
			err:      New(ErrCodeStackUnderflow, "pose stack"),
			code:     ErrCodeStackUnderflow,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeStackUnderflow, "pose stack"),
			code:     ErrCodeUnbalanced,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeStackUnderflow, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("interpret: %w", New(ErrCodeStackUnderflow, "inner")),
			code:     ErrCodeStackUnderflow,
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
		{"Error type", New(ErrCodeStepLimit, "test"), ErrCodeStepLimit},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
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
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q, want %q", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		code      Code
		invalid   bool
		malformed bool
	}{
		{ErrCodeInvalidInput, true, false},
		{ErrCodeInvalidFormat, true, false},
		{ErrCodeStepLimit, true, false},
		{ErrCodeParse, true, false},
		{ErrCodeStackUnderflow, false, true},
		{ErrCodeUnbalanced, false, true},
		{ErrCodeInternal, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsInvalidInput(err); got != tt.invalid {
				t.Errorf("IsInvalidInput() = %v, want %v", got, tt.invalid)
			}
			if got := IsMalformedSentence(err); got != tt.malformed {
				t.Errorf("IsMalformedSentence() = %v, want %v", got, tt.malformed)
			}
		})
	}
}
