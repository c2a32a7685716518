package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWithSuggestion(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithSuggestion(baseErr, "try this instead")

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "test error") {
		t.Errorf("error message should contain base error, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "try this instead") {
		t.Errorf("error message should contain suggestion, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "💡 Sugerencia") {
		t.Errorf("error message should contain suggestion label, got: %s", errMsg)
	}
}

func TestWithContext(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithContext(baseErr, "source", "ct-log")
	err = WithContext(err, "timeout", "60s")

	errMsg := err.Error()
	if !strings.Contains(errMsg, "source: ct-log") {
		t.Errorf("error message should contain context, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "timeout: 60s") {
		t.Errorf("error message should contain all context, got: %s", errMsg)
	}
}

func TestNewMissingBinaryError(t *testing.T) {
	err := NewMissingBinaryError("amass", "/usr/bin", "/usr/local/bin")

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "amass") {
		t.Errorf("error message should contain binary name, got: %s", errMsg)
	}
	if !IsMissingBinary(err) {
		t.Error("IsMissingBinary should return true for missing binary error")
	}
	if IsSourceTimeout(err) {
		t.Error("IsSourceTimeout should return false for missing binary error")
	}
}

func TestNewSourceTimeoutError(t *testing.T) {
	err := NewSourceTimeoutError("ct-log", 60)

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "timeout") {
		t.Errorf("error message should contain 'timeout', got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "60") {
		t.Errorf("error message should contain duration, got: %s", errMsg)
	}
	if !IsSourceTimeout(err) {
		t.Error("IsSourceTimeout should return true for timeout error")
	}
}

func TestNewSourceFailureError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceFailureError("ct-log", "discover", cause)

	if !IsSourceFailure(err) {
		t.Error("IsSourceFailure should return true for source failure")
	}
	if !errors.Is(err, cause) {
		t.Error("source failure should wrap its cause")
	}
	if !strings.Contains(err.Error(), "ct-log") {
		t.Errorf("error message should contain source name, got: %s", err.Error())
	}
}

func TestNewProbeError(t *testing.T) {
	cause := errors.New("nxdomain")
	err := NewProbeError("api.example.com", "resolve", cause)

	if !IsProbe(err) {
		t.Error("IsProbe should return true for probe error")
	}
	if !errors.Is(err, cause) {
		t.Error("probe error should wrap its cause")
	}
	if !strings.Contains(err.Error(), "api.example.com") {
		t.Errorf("error message should contain asset, got: %s", err.Error())
	}
}

func TestNewInvalidTargetError(t *testing.T) {
	err := NewInvalidTargetError("", "vacío")

	if !IsInvalidTarget(err) {
		t.Error("IsInvalidTarget should return true for invalid target error")
	}
	if IsProbe(err) {
		t.Error("IsProbe should return false for invalid target error")
	}
}

func TestGetSuggestionAndContext(t *testing.T) {
	err := NewSourceTimeoutError("wordlist", 15)

	if suggestion := GetSuggestion(err); !strings.Contains(suggestion, "--timeout=75") {
		t.Errorf("expected suggestion with bumped timeout, got: %s", suggestion)
	}

	ctx := GetContext(err)
	if ctx == nil {
		t.Fatal("expected context map, got nil")
	}
	if ctx["source"] != "wordlist" {
		t.Errorf("expected context source=wordlist, got %v", ctx)
	}
}

func TestWithSuggestionNil(t *testing.T) {
	if err := WithSuggestion(nil, "ignored"); err != nil {
		t.Fatalf("WithSuggestion(nil) should be nil, got %v", err)
	}
	if err := WithContext(nil, "k", "v"); err != nil {
		t.Fatalf("WithContext(nil) should be nil, got %v", err)
	}
}
