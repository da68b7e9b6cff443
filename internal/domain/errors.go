package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFile marks a file that failed a gatekeeper check.
	ErrInvalidFile = errors.New("invalid file")
	// ErrMalformedData marks a file whose contents cannot be validated.
	ErrMalformedData = errors.New("malformed data")
	// ErrIO marks a filesystem operation that failed.
	ErrIO = errors.New("io failure")
)

// InvalidFileError reports which gatekeeper check rejected a file.
type InvalidFileError struct {
	File   string
	Reason RejectReason
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("file %s rejected: %s", e.File, e.Reason)
}

func (e *InvalidFileError) Is(target error) bool {
	return target == ErrInvalidFile
}

// IOError wraps a failed move, read or write.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// MalformedDataError reports an unparsable file or one missing required columns.
type MalformedDataError struct {
	File   string
	Detail string
	Err    error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed data in %s: %s: %v", e.File, e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed data in %s: %s", e.File, e.Detail)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

func (e *MalformedDataError) Is(target error) bool {
	return target == ErrMalformedData
}
