package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "snapshot not found")
		if err.Error() != "[NOT_FOUND] snapshot not found" {
			t.Errorf("expected [NOT_FOUND] snapshot not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("disk full")
		err := Wrap(original, CodeInternal, "write report")
		expected := "[INTERNAL_ERROR] write report: disk full"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid archive entry")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("io error")
		err := Wrap(original, CodeInternal, "read archive")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeValidationError, "bad path")
		err = AddContext(err, CtxPath, "src/app.jsx")

		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPath] != "src/app.jsx" {
			t.Errorf("expected path context, got %v", de.Context)
		}
	})

	t.Run("AddContextOnForeignError", func(t *testing.T) {
		err := AddContext(errors.New("plain"), CtxOperation, "scan")
		if !IsCode(err, CodeInternal) {
			t.Error("expected foreign error promoted to INTERNAL_ERROR")
		}
	})
}
