// Package errs collects the sentinel errors returned by the container
// packages. Callers match against these with errors.Is.
package errs

import "errors"

var (
	// ErrAllocFailed is returned when a backing buffer could not be grown or
	// allocated. The container is left exactly as it was before the call.
	ErrAllocFailed = errors.New("packedstore: allocation failed")

	// ErrKeyExists is returned by operations that must not overwrite an
	// existing key (dictmap.Dict.Add).
	ErrKeyExists = errors.New("packedstore: key already exists")

	// ErrKeyNotFound reports a lookup or delete that found no entry. No
	// container in this module returns it: dictmap reports a missing key
	// with a boolean.
	ErrKeyNotFound = errors.New("packedstore: key not found")

	// ErrIndexOutOfRange is returned by positional accessors instead of
	// panicking.
	ErrIndexOutOfRange = errors.New("packedstore: index out of range")

	// ErrEmptyContainer is returned by sampling operations on an empty
	// container where the spec defines no result.
	ErrEmptyContainer = errors.New("packedstore: container is empty")

	// ErrInvalidEncoding is returned when a packed buffer's encoding byte
	// or length prefix cannot be interpreted.
	ErrInvalidEncoding = errors.New("packedstore: invalid packed encoding")

	// ErrTruncatedBuffer is returned when a packed buffer is shorter than
	// its own header claims.
	ErrTruncatedBuffer = errors.New("packedstore: truncated buffer")

	// ErrBadSentinel is returned when a packed buffer is missing its
	// trailing 0xFF terminator.
	ErrBadSentinel = errors.New("packedstore: missing end-of-list sentinel")

	// ErrIteratorStale is returned by an unsafe dictmap iterator whose
	// fingerprint no longer matches the table it was created over.
	ErrIteratorStale = errors.New("packedstore: iterator invalidated by concurrent mutation")

	// ErrNotInteger reports a payload that cannot be parsed as an integer.
	// No container in this module returns it: ziplist's integer
	// recognition reports the outcome with a boolean.
	ErrNotInteger = errors.New("packedstore: value is not representable as an integer")

	// ErrValueTooWide reports a value wider than the widest packed integer
	// encoding (64 bits). No container in this module returns it.
	ErrValueTooWide = errors.New("packedstore: value exceeds maximum packed width")
)
