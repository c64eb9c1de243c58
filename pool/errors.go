package pool

import "github.com/cockroachdb/errors"

var (
	// ErrUnsupportedCount is returned by Allocate and Deallocate when asked to operate on any
	// number of elements other than one
	ErrUnsupportedCount = errors.New("pools only allocate one element at a time")
	// ErrBlockTooSmall is returned by New when the block size cannot hold a header, worst-case
	// alignment padding and at least one slot
	ErrBlockTooSmall = errors.New("block size is too small")
	// ErrPointerElement is returned by New when the element type contains pointers. Blocks are
	// raw memory that the garbage collector does not scan, so pointers stored in them would
	// not keep their targets alive.
	ErrPointerElement = errors.New("element type contains pointers")
)
