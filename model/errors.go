// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrRegionBounds     = errors.New("range exceeds the underlying data")
	ErrIndexType        = errors.New("index element type must be UInt8, UInt16 or UInt32")
	ErrFieldBounds      = errors.New("field does not fit in the buffer data")
	ErrFieldIndex       = errors.New("field index out of range")
	ErrDescriptorOffset = errors.New("descriptor offset beyond the buffer data")
	ErrElementType      = errors.New("unknown element type")
	ErrVertexAttr       = errors.New("unknown vertex attribute")
)

// ConstructionError is returned when a description is malformed. These
// are programmer or data errors found before any backend is involved.
type ConstructionError struct {
	Op  string
	Err error
	// Detail carries the offending numbers, may be empty.
	Detail string
}

func (e *ConstructionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Err, e.Detail)
}

// Unwrap returns the sentinel error.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func constructionError(op string, err error, format string, args ...interface{}) error {
	return &ConstructionError{
		Op:     op,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
