package core

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the extraction pipeline.
var (
	ErrStoreFailure = errors.New("store failure")
	ErrOCRFailure   = errors.New("ocr failure")
	ErrModelFailure = errors.New("model failure")

	ErrInvalidInput = errors.New("invalid input")
)

// ProcessingError is a fatal pipeline failure. errors.Is matches both
// its Kind and the wrapped cause.
type ProcessingError struct {
	Kind error
	Op   string
	Err  error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Op)
}

func (e *ProcessingError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func NewStoreFailure(op string, err error) error {
	return &ProcessingError{Kind: ErrStoreFailure, Op: op, Err: err}
}

func NewOCRFailure(op string, err error) error {
	return &ProcessingError{Kind: ErrOCRFailure, Op: op, Err: err}
}

func NewModelFailure(op string, err error) error {
	return &ProcessingError{Kind: ErrModelFailure, Op: op, Err: err}
}

// IsProcessingFailure reports whether err is one of the fatal failure kinds.
func IsProcessingFailure(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
