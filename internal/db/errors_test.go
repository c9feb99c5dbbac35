package db

import (
	"errors"
	"testing"
)

func TestError(t *testing.T) {
	inner := errors.New("connection refused")
	err := error(&Error{Op: OpGet, Err: inner})

	if err.Error() != "GET: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is does not reach the wrapped error")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpGet {
		t.Errorf("errors.As = %+v", dbErr)
	}
}
