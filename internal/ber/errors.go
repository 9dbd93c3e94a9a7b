// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

import (
	"errors"
	"fmt"
)

// Decoder errors
var (
	// ErrUnexpectedEOF is returned when the decoder encounters truncated data.
	ErrUnexpectedEOF = errors.New("ber: unexpected end of data")

	// ErrFraming is the root of every structural decode failure. All errors
	// below that describe malformed framing match it with errors.Is.
	ErrFraming = errors.New("ber: framing error")

	// ErrInvalidLength is returned when a length value is malformed.
	ErrInvalidLength error = &framingError{"invalid length encoding"}

	// ErrLengthOverflow is returned when a length does not fit in an int.
	ErrLengthOverflow error = &framingError{"length value overflow"}

	// ErrTagOverflow is returned when a long form tag number does not fit in 64 bits.
	ErrTagOverflow error = &framingError{"tag number overflow"}

	// ErrIndefinitePrimitive is returned when a primitive value declares an
	// indefinite length.
	ErrIndefinitePrimitive error = &framingError{"indefinite length on primitive value"}

	// ErrLengthMismatch is returned when the bytes consumed by a TLV differ from
	// its declared length.
	ErrLengthMismatch error = &framingError{"declared length does not match contents"}

	// ErrBudgetExceeded is returned when a child runs past the end of its container.
	ErrBudgetExceeded error = &framingError{"child exceeds container length"}

	// ErrUnexpectedEOC is returned when an end-of-contents marker appears where
	// none is allowed, or is missing where one is required.
	ErrUnexpectedEOC error = &framingError{"misplaced end-of-contents marker"}

	// ErrMaxDepth is returned when containers nest deeper than the configured limit.
	ErrMaxDepth error = &framingError{"container nesting too deep"}

	// ErrValueTooLarge is returned when a primitive value exceeds the configured limit.
	ErrValueTooLarge error = &framingError{"value exceeds size limit"}

	// ErrInvalidBoolean is returned when a boolean value has invalid length.
	ErrInvalidBoolean = errors.New("ber: invalid boolean encoding")

	// ErrInvalidInteger is returned when an integer value is malformed.
	ErrInvalidInteger = errors.New("ber: invalid integer encoding")

	// ErrInvalidReal is returned when a real value is malformed.
	ErrInvalidReal = errors.New("ber: invalid real encoding")

	// ErrInvalidNull is returned when a null value has non-zero length.
	ErrInvalidNull = errors.New("ber: invalid null encoding")

	// ErrInvalidOID is returned when an object identifier ends inside an arc.
	ErrInvalidOID = errors.New("ber: invalid object identifier encoding")

	// ErrUnknownType is returned by a Registry when no decoder is registered
	// for a type tag. Decoders treat it as a request to skip the value.
	ErrUnknownType = errors.New("ber: unknown type tag")

	// ErrDecoderFailed is returned by a StreamDecoder that has reported a fatal
	// error and has not been reset since.
	ErrDecoderFailed = errors.New("ber: decoder failed, reset required")
)

// Encoder errors
var (
	ErrInvalidTagClass = errors.New("ber: invalid tag class")
	ErrNegativeLength  = errors.New("ber: negative length not allowed")
)

// framingError is a named structural error that matches ErrFraming.
type framingError struct {
	msg string
}

func (e *framingError) Error() string { return "ber: " + e.msg }

// Is reports whether target is ErrFraming.
func (e *framingError) Is(target error) bool {
	return target == ErrFraming
}

// DecodeError provides detailed information about a decoding failure.
type DecodeError struct {
	Offset  int    // Byte offset where the error occurred
	Message string // Human-readable error description
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ber: decode error at offset %d: %s: %v", e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ber: decode error at offset %d: %s", e.Offset, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError with the given parameters.
func NewDecodeError(offset int, message string, err error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}

// IsFatal reports whether err must abort a decode. Unknown types are the
// only recoverable condition.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrUnknownType)
}
