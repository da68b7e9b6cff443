package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorSentinels(t *testing.T) {
	ioErr := fmt.Errorf("moving file: %w", &IOError{Op: "rename", Path: "a.csv", Err: os.ErrPermission})
	if !errors.Is(ioErr, ErrIO) {
		t.Fatalf("expected IOError to match ErrIO")
	}
	if !errors.Is(ioErr, os.ErrPermission) {
		t.Fatalf("expected IOError to unwrap its cause")
	}

	malformed := &MalformedDataError{File: "a.csv", Detail: "missing column phone"}
	if !errors.Is(malformed, ErrMalformedData) {
		t.Fatalf("expected MalformedDataError to match ErrMalformedData")
	}
	if errors.Is(malformed, ErrIO) {
		t.Fatalf("malformed data is not an io failure")
	}

	invalid := &InvalidFileError{File: "a.txt", Reason: RejectExtension}
	if !errors.Is(invalid, ErrInvalidFile) {
		t.Fatalf("expected InvalidFileError to match ErrInvalidFile")
	}
	if invalid.Error() != "file a.txt rejected: extension" {
		t.Fatalf("unexpected message: %s", invalid.Error())
	}
}
