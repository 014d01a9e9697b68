package core

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedResult = errors.New("malformed upload result")
	ErrNotScalar       = errors.New("record value is not a scalar")
	ErrMissingField    = errors.New("missing required field")
	ErrEmptyTitle      = errors.New("empty chart title")
)

// FieldError locates a validation failure inside an upload result
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(path string, err error) error {
	var inner *FieldError
	if errors.As(err, &inner) {
		return &FieldError{Path: path + "." + inner.Path, Err: inner.Err}
	}
	return &FieldError{Path: path, Err: err}
}
