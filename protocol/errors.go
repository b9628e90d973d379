package protocol

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Match with errors.Is.
var (
	ErrInvalidPrefix    = errors.New("invalid prefix")
	ErrInvalidLength    = errors.New("invalid length")
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrTruncatedOperand = errors.New("truncated operand")
)

// Verify failure kinds. Match with errors.Is.
var (
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrQuoteExpired      = errors.New("quote expired")
	ErrChainMismatch     = errors.New("chain mismatch")
)

// ErrVAAMismatch is matched by every MismatchError.
var ErrVAAMismatch = errors.New("VAA does not match request")

// DecodeError reports malformed input together with the offending field.
type DecodeError struct {
	Kind     error
	Format   string
	Field    string
	Expected string
	Actual   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: field %s: expected %s, got %s", e.Format, e.Kind, e.Field, e.Expected, e.Actual)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func newDecodeError(kind error, format, field string, expected, actual any) *DecodeError {
	return &DecodeError{
		Kind:     kind,
		Format:   format,
		Field:    field,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// VerifyError reports a quote that is well formed but unusable.
type VerifyError struct {
	Kind     error
	Field    string
	Expected string
	Actual   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("quote verification failed: %s: field %s: expected %s, got %s", e.Kind, e.Field, e.Expected, e.Actual)
}

func (e *VerifyError) Unwrap() error {
	return e.Kind
}

func newVerifyError(kind error, field string, expected, actual any) *VerifyError {
	return &VerifyError{
		Kind:     kind,
		Field:    field,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// MismatchError reports a VAA whose emitter or sequence differs from the request that references it.
type MismatchError struct {
	// Kind is ErrChainMismatch for the emitter chain and nil otherwise.
	Kind     error
	Field    string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%s: %s: field %s: expected %s, got %s", ErrVAAMismatch, e.Kind, e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: field %s: expected %s, got %s", ErrVAAMismatch, e.Field, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrVAAMismatch}
	}
	return []error{ErrVAAMismatch, e.Kind}
}

func newMismatchError(kind error, field string, expected, actual any) *MismatchError {
	return &MismatchError{
		Kind:     kind,
		Field:    field,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}

// IsMalformed reports whether err is a decode failure. Malformed input is never retried.
func IsMalformed(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsQuoteRejected reports whether err is a quote verification failure. A new quote is required.
func IsQuoteRejected(err error) bool {
	var ve *VerifyError
	return errors.As(err, &ve)
}
