package errors

import (
	"strings"
	"testing"
)

func TestRecoverConvertsPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "TestOp")
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error from the recovered panic")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if panicErr.Operation != "TestOp" || panicErr.PanicValue != "boom" {
		t.Errorf("PanicError = %+v", panicErr)
	}
	if panicErr.StackTrace == "" {
		t.Error("PanicError has no stack trace")
	}
}

func TestRecoverPreservesExistingError(t *testing.T) {
	original := New("original failure")
	fn := func() (err error) {
		defer Recover(&err, "TestOp")
		err = original
		panic("boom")
	}

	err := fn()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !Is(err, original) {
		t.Errorf("original error lost: %v", err)
	}
	if !strings.Contains(err.Error(), "panic in TestOp") {
		t.Errorf("panic context lost: %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("ok", func() error { return nil }); err != nil {
		t.Errorf("SafeExecute() = %v, want nil", err)
	}

	err := SafeExecute("panics", func() error { panic("boom") })
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Errorf("expected PanicError, got %v", err)
	}
}
