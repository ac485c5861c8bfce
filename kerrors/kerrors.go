// Package kerrors defines the error taxonomy shared by every package in
// go-kerlab. Every error that crosses a package boundary is a *Error
// carrying a Kind, so callers can branch on failure class with errors.As
// instead of string-matching messages.
package kerrors

import "fmt"

// Kind classifies why an operation failed.
type Kind int

const (
	// Unknown covers failures that don't fit another Kind.
	Unknown Kind = iota
	// Kerberos covers protocol-level failures: a KRB-ERROR reply, an
	// unexpected message type, a violated invariant in a decoded message.
	Kerberos
	// Crypto covers key derivation, encryption, decryption, and checksum
	// failures, including requests for an unimplemented encryption type.
	Crypto
	// Parsing covers ASN.1/BER decode failures and MS-PAC/NDR decode
	// failures.
	Parsing
	// InvalidConst covers a value that is syntactically fine but violates
	// a fixed protocol constant (wrong tag number, wrong application
	// class, wrong message-type byte).
	InvalidConst
	// IO covers transport-level failures: connection, read, write, and
	// framing errors.
	IO
)

func (k Kind) String() string {
	switch k {
	case Kerberos:
		return "kerberos"
	case Crypto:
		return "crypto"
	case Parsing:
		return "parsing"
	case InvalidConst:
		return "invalid_const"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every go-kerlab package.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps cause. If cause is already an *Error,
// its Kind is not overridden unless kind is explicitly different from
// Unknown.
func Wrap(kind Kind, message string, cause error) *Error {
	if inner, ok := cause.(*Error); ok && kind == Unknown {
		kind = inner.Kind
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
