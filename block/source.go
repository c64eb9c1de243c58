// Package block provides the raw memory sources a pool carves its blocks from.
//
// A Source hands out fixed-size regions of raw memory and takes them back. Sources know
// nothing about slots, alignment or element types: the pool asks for a block of its configured
// size, lays its header and slots over the returned bytes, and gives the block back only when
// the whole pool is torn down.
//
// Memory handed out by a Source is not scanned by the garbage collector as holding pointers,
// so only pointer-free data may be stored in it.
package block

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

var (
	// ErrOutOfMemory marks every error caused by a Source being unable to provide a block.
	// Errors returned from Acquire can be tested against it with errors.Is.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrUnknownBlock is returned by Release when the block was not acquired from the Source
	ErrUnknownBlock = errors.New("block was not acquired from this source")
	// ErrUnsupported is returned by sources that cannot operate on the current platform
	ErrUnsupported = errors.New("block source is not supported on this platform")
)

// Source is a provider of raw fixed-size memory regions.
type Source interface {
	// Acquire returns a pointer to a fresh region of exactly size bytes, aligned to at least
	// the size of a pointer. The contents of the region are unspecified. The region must stay
	// valid, and must not be moved or collected, until it is passed to Release. Failures
	// should be marked with ErrOutOfMemory.
	Acquire(size int) (unsafe.Pointer, error)
	// Release returns a region previously obtained from Acquire with the same size. The region
	// must not be accessed afterward.
	Release(block unsafe.Pointer, size int) error
}

func checkSize(size int) error {
	if size <= 0 {
		return errors.Newf("block size must be positive, but was %d", size)
	}
	return nil
}
