// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_StringFormats(t *testing.T) {
	plain := &Error{Code: "TEST_ERROR", Message: "test message"}
	if plain.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", plain.Error())
	}

	withCause := &Error{Code: "TEST_ERROR", Message: "test message", Cause: errors.New("boom")}
	if withCause.Error() != "[TEST_ERROR] test message: boom" {
		t.Errorf("unexpected error string with cause: %s", withCause.Error())
	}
}

func TestError_UnwrapChain(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(ErrDataUnavailable, fmt.Errorf("binance: %w", cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the root cause through Unwrap")
	}
}

func TestError_MatchesByCode(t *testing.T) {
	if !errors.Is(ErrNoData, ErrNoData) {
		t.Error("same error should match")
	}
	if errors.Is(ErrNoData, ErrInvalidRange) {
		t.Error("different codes should not match")
	}

	wrapped := WrapError(ErrNoData, errors.New("empty response"))
	if !errors.Is(wrapped, ErrNoData) {
		t.Error("wrapped error should match its base by code")
	}
}

func TestError_AsExtractsStruct(t *testing.T) {
	err := fmt.Errorf("running backtest: %w", WrapError(ErrNoData, nil))

	var coreErr *Error
	if !errors.As(err, &coreErr) {
		t.Fatal("errors.As should find the structured error")
	}
	if coreErr.Code != "NO_DATA" {
		t.Errorf("code = %s, want NO_DATA", coreErr.Code)
	}
}

func TestWrapError_PreservesBase(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrDataUnavailable, cause)

	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrDataUnavailable.Code || wrapped.Message != ErrDataUnavailable.Message {
		t.Error("base code and message should carry over")
	}
	if wrapped == ErrDataUnavailable {
		t.Error("WrapError must not mutate the shared base error")
	}
}
