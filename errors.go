package refcollect

import (
	"errors"
	"fmt"

	"github.com/Daltonhensley19/refcollect/internal/heap"
)

var (
	// ErrContractViolation matches every error caused by a caller breaking an
	// operation's precondition. Test with errors.Is.
	ErrContractViolation = errors.New("contract violation")

	// ErrInvalidRoot is returned when a root index is out of range.
	ErrInvalidRoot = errors.New("root index out of range")
	// ErrEmptyRoot is returned when an operation needs a chain but the root was collected.
	ErrEmptyRoot = errors.New("root is empty")
	// ErrDepthOutOfRange is returned when marking a position past the chain tail.
	ErrDepthOutOfRange = errors.New("depth beyond end of chain")
	// ErrInvalidDepth is returned for negative depths.
	ErrInvalidDepth = errors.New("depth must not be negative")
	// ErrInvalidCount is returned for negative root counts.
	ErrInvalidCount = errors.New("count must not be negative")
	// ErrAlreadyOwned is returned when attaching an object that already has an owner.
	ErrAlreadyOwned = errors.New("object already attached")
	// ErrClosed is returned by every operation on a torn-down arena.
	ErrClosed = errors.New("arena is closed")
	// ErrCorrupt is returned when a chain invariant no longer holds.
	ErrCorrupt = errors.New("chain invariant violated")

	// ErrNilHandle is returned when Nil is passed where an object is required.
	ErrNilHandle = heap.ErrNilHandle
	// ErrStaleHandle is returned for handles of reclaimed or unknown objects.
	ErrStaleHandle = heap.ErrStaleHandle
	// ErrOutOfMemory is returned when the allocator cannot satisfy a request.
	// It is never a contract violation.
	ErrOutOfMemory = heap.ErrOutOfMemory
)

// ContractError describes a rejected operation.
//
// The arena is left exactly as it was before the call. The underlying cause
// can be accessed via errors.Unwrap.
type ContractError struct {
	Op    string
	Root  int // -1 if the operation is not addressed by root
	cause error
}

func (e *ContractError) Error() string {
	if e.Root < 0 {
		return fmt.Sprintf("refcollect: %s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("refcollect: %s root %d: %v", e.Op, e.Root, e.cause)
}

func (e *ContractError) Unwrap() error { return e.cause }

// Is reports ErrContractViolation as matching every ContractError.
func (e *ContractError) Is(target error) bool { return target == ErrContractViolation }

// DepthError is the cause of a rejected mark whose depth exceeds the chain.
type DepthError struct {
	Depth  int
	Length int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("depth %d beyond end of chain (length %d)", e.Depth, e.Length)
}

func (e *DepthError) Unwrap() error { return ErrDepthOutOfRange }

func contractErr(op string, root int, cause error) error {
	return &ContractError{Op: op, Root: root, cause: cause}
}

func corruptErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// Must panics if err is non-nil and returns v otherwise.
// It is meant for drivers that treat every contract violation as fatal.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
