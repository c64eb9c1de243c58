//go:build !unix

package block

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// MmapSource acquires every block as its own anonymous private mapping. It is only available
// on unix platforms; elsewhere Acquire fails with ErrUnsupported.
type MmapSource struct{}

var _ Source = MmapSource{}

// NewMmapSource creates an MmapSource
func NewMmapSource() MmapSource {
	return MmapSource{}
}

func (s MmapSource) Acquire(size int) (unsafe.Pointer, error) {
	return nil, errors.Mark(errors.Wrapf(ErrUnsupported, "mmap of %d bytes", size), ErrOutOfMemory)
}

func (s MmapSource) Release(block unsafe.Pointer, size int) error {
	return errors.Wrapf(ErrUnsupported, "munmap of %d bytes", size)
}

func (s MmapSource) MappedBytes(size int) int {
	return size
}
