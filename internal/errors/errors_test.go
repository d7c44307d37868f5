package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(AliasSaveFailed, "could not persist alias", cause)

	if err.Code != AliasSaveFailed {
		t.Errorf("Code = %v, want %v", err.Code, AliasSaveFailed)
	}
	if !strings.Contains(err.Error(), "ALIAS_SAVE_FAILED") {
		t.Errorf("Error() = %q, expected code marker", err.Error())
	}
	if !strings.Contains(err.Error(), "underlying error") {
		t.Errorf("Error() = %q, expected cause text", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CyclicHierarchy, "term %d revisited", 45)
	if err.Cause != nil {
		t.Error("Newf should not set a cause")
	}
	if !strings.Contains(err.Error(), "term 45 revisited") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestHasCode(t *testing.T) {
	inner := Newf(CyclicHierarchy, "term 45 revisited")
	wrapped := fmt.Errorf("resolving hierarchy: %w", inner)

	if !HasCode(wrapped, CyclicHierarchy) {
		t.Error("expected HasCode to find CyclicHierarchy through wrapping")
	}
	if HasCode(wrapped, AliasSaveFailed) {
		t.Error("did not expect AliasSaveFailed")
	}
	if HasCode(nil, CyclicHierarchy) {
		t.Error("nil error should not carry a code")
	}
	if HasCode(errors.New("plain"), CyclicHierarchy) {
		t.Error("plain error should not carry a code")
	}
}
