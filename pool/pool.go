// Package pool implements a fixed-element-size memory pool.
//
// A Pool[T] carves slots for values of T out of large raw blocks and recycles deallocated
// slots through a free list threaded through the slots themselves. Allocation pops the free
// list when it is non-empty and otherwise bumps a cursor through the newest block, acquiring a
// new block only when the current one is exhausted. Blocks are never returned individually:
// they are all released together by ReleaseAll.
//
// Pools are not safe for concurrent use. Use one pool per goroutine, or guard every call with
// a lock.
//
// Pools trade safety for speed. None of the following is detected, and each silently corrupts
// the pool:
//   - deallocating a pointer that was not allocated by the same pool
//   - deallocating the same pointer twice without allocating it again in between
//   - using an element after it has been deallocated
//
// Elements live in raw memory, so T must not contain pointers of any kind.
package pool

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/block"
	"golang.org/x/exp/slog"
)

// Allocator is the contract generic containers rely on to obtain element storage.
type Allocator[T any] interface {
	Allocate(count int) (*T, error)
	Deallocate(ptr *T, count int) error
	Construct(ptr *T, value T) error
	Destroy(ptr *T) error
	NewElement(value T) (*T, error)
	DeleteElement(ptr *T) error
	AddressOf(ref *T) uintptr
	MaxCapacity() uint
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Pool hands out fixed-size slots for values of T, carved from blocks acquired from a
// block.Source. Create one with New.
type Pool[T any] struct {
	noCopy noCopy

	logger    *slog.Logger
	source    block.Source
	callbacks memoryCallbacks
	options   CreateOptions
	layout    SlotLayout

	copier    bool
	finalizer bool

	// currentBlock is the head of the block chain and the block bump allocation carves from
	currentBlock unsafe.Pointer
	// currentSlot and lastSlot are byte offsets into currentBlock: the next slot to bump
	// allocate, and the end of the last whole slot. They are equal when the block is exhausted.
	currentSlot int
	lastSlot    int
	// freeSlots is the head of the free list
	freeSlots unsafe.Pointer

	blockCount      int
	allocationCount int
	freeCount       int
}

var _ Allocator[int64] = &Pool[int64]{}

// Allocate returns storage for exactly one element. count must be 1; any other count fails
// with ErrUnsupportedCount and leaves the pool untouched.
//
// The storage is not initialized: recycled slots hold whatever they last contained. Failure to
// acquire a new block is returned as an error marked with block.ErrOutOfMemory.
func (p *Pool[T]) Allocate(count int) (*T, error) {
	if count != 1 {
		return nil, errors.Wrapf(ErrUnsupportedCount, "requested %d elements", count)
	}

	slot, err := p.reserve()
	if err != nil {
		return nil, err
	}

	return (*T)(slot), nil
}

// Deallocate returns storage obtained from Allocate to the pool. A nil ptr is ignored. count
// must be 1; any other count fails with ErrUnsupportedCount and leaves the pool untouched.
//
// Deallocate does not finalize the element; see Destroy.
func (p *Pool[T]) Deallocate(ptr *T, count int) error {
	if ptr == nil {
		return nil
	}

	if count != 1 {
		return errors.Wrapf(ErrUnsupportedCount, "deallocating %d elements", count)
	}

	p.release(unsafe.Pointer(ptr))
	return nil
}

// AddressOf returns the address of ref.
func (p *Pool[T]) AddressOf(ref *T) uintptr {
	return uintptr(unsafe.Pointer(ref))
}

// MaxCapacity returns an upper bound on the number of elements the pool could ever hold: the
// slots in one block, ignoring alignment padding, times the number of blocks that would fit
// in the address space. It is not a promise that this much memory is available.
func (p *Pool[T]) MaxCapacity() uint {
	maxBlocks := uint(^uintptr(0)) / uint(p.layout.BlockSize)
	return uint(p.layout.BlockSize-p.layout.HeaderSize) / uint(p.layout.SlotSize) * maxBlocks
}

// Layout returns the slot layout used to carve this pool's blocks
func (p *Pool[T]) Layout() SlotLayout {
	return p.layout
}
