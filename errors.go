package gridmerge

import (
	"errors"
	"strconv"
)

// Sentinel errors. Every error returned by Plan, Merge and Assembler wraps
// exactly one of these, so callers test with errors.Is.
var (
	// ErrEmptyInput is returned when no source images are supplied.
	ErrEmptyInput = errors.New("gridmerge: no source images")

	// ErrInvalidDimensions is returned for a non-positive tile width or
	// height, or a non-positive column count.
	ErrInvalidDimensions = errors.New("gridmerge: invalid dimensions")

	// ErrDimensionMismatch is returned when a source's declared size differs
	// from the job tile, or its data does not match its declared size.
	ErrDimensionMismatch = errors.New("gridmerge: source dimensions mismatch")

	// ErrFormatMismatch is returned when a source's pixel format differs
	// from the job format.
	ErrFormatMismatch = errors.New("gridmerge: source format mismatch")

	// ErrPlacementCountMismatch is returned when layout and job disagree on
	// the number of tiles.
	ErrPlacementCountMismatch = errors.New("gridmerge: placement count mismatch")

	// ErrOutOfBounds is returned when a placement rectangle leaves the canvas
	// or overlaps another placement.
	ErrOutOfBounds = errors.New("gridmerge: placement out of bounds")

	// ErrCapacityExceeded is returned when an Assembler has no free cell left.
	ErrCapacityExceeded = errors.New("gridmerge: canvas capacity exceeded")

	// ErrAssemblerClosed is returned by an Assembler after Canvas or Close.
	ErrAssemblerClosed = errors.New("gridmerge: assembler is closed")

	// ErrEngineClosed is returned when merging on a closed engine or pool.
	ErrEngineClosed = errors.New("gridmerge: engine is closed")
)

// MergeError describes a failed operation on a specific source.
type MergeError struct {
	// Op is the operation that failed: "plan", "merge", "push" or "remove".
	Op string

	// Index is the offending source or placement index, or -1.
	Index int

	// Err is one of the sentinel errors above.
	Err error

	// Detail optionally carries the lower-level cause.
	Detail error
}

func (e *MergeError) Error() string {
	s := "gridmerge: " + e.Op
	if e.Index >= 0 {
		s += " source " + strconv.Itoa(e.Index)
	}
	s += ": " + e.Err.Error()
	if e.Detail != nil {
		s += ": " + e.Detail.Error()
	}
	return s
}

// Unwrap returns the sentinel and the detail, so both match errors.Is.
func (e *MergeError) Unwrap() []error {
	if e.Detail == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Detail}
}

func opError(op string, index int, err error) *MergeError {
	return &MergeError{Op: op, Index: index, Err: err}
}
