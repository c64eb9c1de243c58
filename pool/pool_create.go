package pool

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/block"
	"golang.org/x/exp/slog"
)

const (
	// DefaultBlockSize is the block size used when CreateOptions.BlockSize is 0
	DefaultBlockSize int = 4096
)

// CreateOptions contains optional settings when creating a pool
type CreateOptions struct {
	// BlockSize is the size in bytes of every block the pool acquires. It must be large enough
	// to hold a block header, worst-case alignment padding and one slot. 0 selects
	// DefaultBlockSize.
	BlockSize int

	// Source provides the pool's raw blocks. If it is nil, the pool acquires blocks from its
	// own block.HeapSource.
	Source block.Source

	// MemoryCallbacks is an optional set of callbacks that will be executed when the pool
	// acquires or releases a block.
	MemoryCallbacks *MemoryCallbackOptions
}

// New creates a new, empty Pool for elements of type T. No memory is acquired until the first
// allocation.
//
// logger - Receives debug messages about block acquisition and teardown. If nil, slog.Default()
// is used.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New[T any](logger *slog.Logger, options CreateOptions) (*Pool[T], error) {
	if logger == nil {
		logger = slog.Default()
	}

	if options.BlockSize == 0 {
		options.BlockSize = DefaultBlockSize
	} else if options.BlockSize < 0 {
		return nil, errors.Wrapf(ErrBlockTooSmall, "block size %d is negative", options.BlockSize)
	}

	layout, err := newSlotLayout[T](options.BlockSize)
	if err != nil {
		return nil, err
	}

	if options.Source == nil {
		options.Source = block.NewHeapSource()
	}

	p := newPool[T](logger, options, layout)
	logger.Debug("Pool::New",
		slog.String("ElementType", reflect.TypeOf((*T)(nil)).Elem().String()),
		slog.Int("BlockSize", layout.BlockSize),
		slog.Int("SlotSize", layout.SlotSize),
	)

	return p, nil
}

func newPool[T any](logger *slog.Logger, options CreateOptions, layout SlotLayout) *Pool[T] {
	var zero T
	_, copier := any(zero).(Copier[T])
	_, finalizer := any(&zero).(Finalizer)

	return &Pool[T]{
		logger:    logger,
		source:    options.Source,
		callbacks: memoryCallbacks{Callbacks: options.MemoryCallbacks},
		options:   options,
		layout:    layout,
		copier:    copier,
		finalizer: finalizer,
	}
}

// Clone returns a new pool with the same element type, block size, source, logger and
// callbacks as p. The clone does not share or copy p's blocks, free list or cursor: it starts
// empty, and the two pools never own the same memory.
func (p *Pool[T]) Clone() *Pool[T] {
	return newPool[T](p.logger, p.options, p.layout)
}

// Rebind returns a new, empty pool for elements of type U, configured like p. It fails if U
// cannot be stored in p's block size, or contains pointers.
func Rebind[U, T any](p *Pool[T]) (*Pool[U], error) {
	return New[U](p.logger, p.options)
}
