//go:build unix

package block

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/memutils"
	"golang.org/x/sys/unix"
)

// MmapSource acquires every block as its own anonymous private mapping, outside the Go heap.
// Blocks are page aligned and zero filled, and releasing one unmaps it immediately. Block sizes
// are rounded up to whole pages, so pools using an MmapSource should pick a block size that is
// a multiple of the page size.
type MmapSource struct{}

var _ Source = MmapSource{}

// NewMmapSource creates an MmapSource
func NewMmapSource() MmapSource {
	return MmapSource{}
}

func (s MmapSource) Acquire(size int) (unsafe.Pointer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	data, err := unix.Mmap(-1, 0, s.MappedBytes(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to map a %d byte block", size), ErrOutOfMemory)
	}

	return unsafe.Pointer(unsafe.SliceData(data)), nil
}

func (s MmapSource) Release(block unsafe.Pointer, size int) error {
	err := unix.Munmap(unsafe.Slice((*byte)(block), s.MappedBytes(size)))
	if err != nil {
		return errors.Wrapf(err, "failed to unmap the %d byte block at %p", size, block)
	}
	return nil
}

// MappedBytes returns the number of bytes actually mapped for a block of the given size
func (s MmapSource) MappedBytes(size int) int {
	return memutils.AlignUp(size, uint(unix.Getpagesize()))
}
