// Package errs defines the error kinds surfaced by the khc core and CLI.
//
// Every failure in the core is fatal to the current operation (spec.md §7):
// there is no local retry, and a failed query returns no rows. Kind lets
// cmd/khc map any error back to the same exit code (1) while still logging
// which invariant was violated.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error. See spec.md §7.
type Kind int

const (
	// Usage marks malformed or missing command-line arguments.
	Usage Kind = iota
	// IO marks open/read/write failures.
	IO
	// InvalidSymbol marks a non-IUPAC letter encountered while parsing a k-mer.
	InvalidSymbol
	// DegenerateBase marks a degenerate symbol in a query when skipping
	// degenerates was not requested.
	DegenerateBase
	// VariantExplosion marks a subject window whose variant expansion
	// exceeded the configured cap.
	VariantExplosion
	// UnsupportedK marks a k-mer size outside the supported range.
	UnsupportedK
	// FormatMismatch marks a binary database whose header does not match
	// the expected magic, version, or parameters.
	FormatMismatch
	// Parse marks a malformed FASTA/FASTQ record.
	Parse
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "UsageError"
	case IO:
		return "IoError"
	case InvalidSymbol:
		return "InvalidSymbol"
	case DegenerateBase:
		return "DegenerateBase"
	case VariantExplosion:
		return "VariantExplosion"
	case UnsupportedK:
		return "UnsupportedK"
	case FormatMismatch:
		return "FormatMismatch"
	case Parse:
		return "ParseError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by every khc package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err is a khc error of the given kind.
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}

// New creates an Error of the given kind with a formatted message.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause in an Error of the given kind with a formatted message.
// The cause itself is captured via errors.WithStack so a caller that
// unwraps down to it still has a trace, the same way encoding/fasta and
// encoding/fastq attach stacks to I/O and parse failures.
func Wrap(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Err: errors.WithStack(cause)}
}

// Usagef is shorthand for New(Usage, ...).
func Usagef(format string, args ...interface{}) *Error { return New(Usage, format, args...) }

// IOf is shorthand for New(IO, ...).
func IOf(format string, args ...interface{}) *Error { return New(IO, format, args...) }
