// Package unaerr defines the error kinds shared across the analyzer
// kernel. The typed errors below unwrap to these sentinels, so callers
// can use errors.Is/errors.As on them; some packages (config, morpho)
// also return errors of their own that wrap none of them.
package unaerr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Compare with errors.Is.
var (
	// ErrVersionMismatch means a resource's version tag does not match
	// any tag this build understands.
	ErrVersionMismatch = errors.New("una: resource version mismatch")

	// ErrMalformedResource means a resource's body failed structural
	// validation (bad offsets, truncated arrays, inconsistent counts).
	ErrMalformedResource = errors.New("una: malformed resource")

	// ErrMorphBufferFull is surfaced from path extraction when the
	// caller's output buffer cannot hold the whole path.
	ErrMorphBufferFull = errors.New("una: morpheme output buffer full")

	// ErrSubMorphBufferFull reports a sub-morpheme list that does not
	// fit its output buffer. No function in this module returns it:
	// SubMorphemes returns a freshly allocated slice.
	ErrSubMorphBufferFull = errors.New("una: sub-morpheme output buffer full")

	// ErrInvalidPOS means a POS number fell outside the connection
	// table's range. Fatal for the current analyze call.
	ErrInvalidPOS = errors.New("una: invalid POS number")

	// ErrCanceled means the caller's stop function returned true.
	ErrCanceled = errors.New("una: analysis canceled")

	// errLatticeFull is unexported: lattice.Set returns it and package
	// morpho recovers from it by forcing convergence, so it never
	// reaches an analyze caller (spec §7).
	errLatticeFull = errors.New("una: lattice edge arena full")
)

// ErrLatticeFull returns the internal-only lattice-overflow sentinel.
// Exported as a function, not a variable, so that only the kernel's own
// packages (lattice, which returns it, and morpho, which recognizes it
// with errors.Is) use it; the kernel never returns it to an analyze
// caller (see spec §7 propagation policy).
func ErrLatticeFull() error { return errLatticeFull }

// VersionError reports which resource and which tag mismatched.
type VersionError struct {
	Resource string
	Got      string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("una: %s: unsupported version tag %q", e.Resource, e.Got)
}

func (e *VersionError) Unwrap() error { return ErrVersionMismatch }

// MalformedError reports the resource and byte offset where validation
// failed.
type MalformedError struct {
	Resource string
	Offset   int64
	Reason   string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("una: %s: malformed at offset %d: %s", e.Resource, e.Offset, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedResource }

// POSError reports the offending POS number.
type POSError struct {
	POS uint16
}

func (e *POSError) Error() string {
	return fmt.Sprintf("una: POS %d out of range", e.POS)
}

func (e *POSError) Unwrap() error { return ErrInvalidPOS }
