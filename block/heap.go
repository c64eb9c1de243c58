package block

import (
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
)

// HeapSource acquires blocks from the Go heap. Every block it hands out is kept reachable in
// an internal registry until it is released, so the garbage collector never frees or scans a
// block that a pool is still using.
//
// HeapSource is safe for use by several pools at once.
type HeapSource struct {
	mutex  sync.Mutex
	blocks *swiss.Map[uintptr, []byte]
}

var _ Source = &HeapSource{}

// NewHeapSource creates an empty HeapSource
func NewHeapSource() *HeapSource {
	return &HeapSource{
		blocks: swiss.NewMap[uintptr, []byte](42),
	}
}

func (s *HeapSource) Acquire(size int) (unsafe.Pointer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	data := make([]byte, size)
	ptr := unsafe.Pointer(unsafe.SliceData(data))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.blocks.Put(uintptr(ptr), data)
	return ptr, nil
}

func (s *HeapSource) Release(block unsafe.Pointer, size int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := uintptr(block)
	data, ok := s.blocks.Get(key)
	if !ok {
		return errors.Wrapf(ErrUnknownBlock, "heap block at %#x", key)
	}
	if len(data) != size {
		return errors.Newf("heap block at %#x has size %d, but was released with size %d", key, len(data), size)
	}

	s.blocks.Delete(key)
	return nil
}

// BlockCount returns the number of blocks that have been acquired and not yet released
func (s *HeapSource) BlockCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.blocks.Count()
}
