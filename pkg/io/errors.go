package io

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSize is returned when a size value can't be represented
	// either as a native int or as a 64-bit unsigned integer.
	ErrUnsupportedSize = errors.New("unsupported size")
	// ErrInvalidData is returned when decoded bytes don't form a valid value,
	// like text that is not UTF-8.
	ErrInvalidData = errors.New("invalid data")
	// ErrTooLarge is returned when a length prefix exceeds the allowed limit.
	ErrTooLarge = errors.New("length exceeds the limit")
	// ErrNilPointer is returned when a nil pointer is passed where an owned
	// value is expected.
	ErrNilPointer = errors.New("nil pointer")
)

// ErrorKind classifies errors returned from encoding and decoding.
type ErrorKind int

const (
	// KindNone is returned for nil errors.
	KindNone ErrorKind = iota
	// KindIO means the underlying source or sink failed (short read,
	// broken pipe, etc.).
	KindIO
	// KindUnsupported means a size can't be represented on this host.
	KindUnsupported
	// KindInvalidData means the bytes read don't form a valid value.
	KindInvalidData
)

// String implements the fmt.Stringer interface.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindUnsupported:
		return "unsupported"
	case KindInvalidData:
		return "invalid data"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// KindOf returns the class of the given error. Anything not produced by
// this package itself is considered to be an I/O error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnsupportedSize), errors.Is(err, ErrNilPointer):
		return KindUnsupported
	case errors.Is(err, ErrInvalidData), errors.Is(err, ErrTooLarge):
		return KindInvalidData
	default:
		return KindIO
	}
}
