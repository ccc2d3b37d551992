// Package errs centralizes the error taxonomy shared by every layer of
// the tree engine: storage, codec, keyencoder, tree, and catalog.
package errs

import "fmt"

// Code identifies the kind of failure, independent of which package
// raised it. Callers should branch on Code (via the Is* helpers), not
// on the formatted message.
type Code int

const (
	// Internal indicates an unexpected, otherwise unclassified failure.
	Internal Code = iota

	// NotFound indicates a missing namespace, table, or root version.
	NotFound

	// AlreadyExists indicates a namespace/table is already present, or
	// that a root version (or storage object) has already been published.
	AlreadyExists

	// CommitConflict indicates a commit's conditional write lost the
	// race for the next root version. The caller may retry by
	// re-beginning a transaction from the new latest root.
	CommitConflict

	// NothingToCommit indicates commitTransaction was called on a
	// running transaction that has not mutated its running root.
	NothingToCommit

	// Uninitialized indicates no root at version 0 exists yet.
	Uninitialized

	// CorruptNode indicates a node file failed to decode: unknown
	// header, duplicate keys, missing reserved rows, or a row count
	// mismatch.
	CorruptNode

	// MalformedKey indicates a key does not belong to the class its
	// caller assumed (e.g. asking for the table name of a namespace key).
	MalformedKey

	// InvalidName indicates a namespace or table name contains bytes
	// reserved by the key encoder.
	InvalidName

	// StorageUnavailable indicates a transient or fatal I/O error
	// surfaced by the storage adapter.
	StorageUnavailable
)

func (c Code) String() string {
	switch c {
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case CommitConflict:
		return "CommitConflict"
	case NothingToCommit:
		return "NothingToCommit"
	case Uninitialized:
		return "Uninitialized"
	case CorruptNode:
		return "CorruptNode"
	case MalformedKey:
		return "MalformedKey"
	case InvalidName:
		return "InvalidName"
	case StorageUnavailable:
		return "StorageUnavailable"
	default:
		return "Internal"
	}
}

// Error is the error type returned by every package in this module.
type Error struct {
	Code    Code
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("trinitylake error (%s): %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("trinitylake error (%s): %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New builds an *Error with a formatted message and no wrapped cause.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error carrying an underlying cause, e.g. an I/O error
// surfaced as StorageUnavailable.
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: cause}
}

// Is reports whether err is an *Error of the given code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return Is(err, NotFound) }

// IsAlreadyExists reports whether err is an AlreadyExists error.
func IsAlreadyExists(err error) bool { return Is(err, AlreadyExists) }

// IsCommitConflict reports whether err is a CommitConflict error.
func IsCommitConflict(err error) bool { return Is(err, CommitConflict) }
