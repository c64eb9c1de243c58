package pool

import (
	"context"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/block"
	"github.com/vkngwrapper/slotpool/memutils"
	"golang.org/x/exp/slog"
)

// acquireBlock pushes a fresh block onto the head of the chain and points the bump cursor at
// its slots. On failure the pool is left exactly as it was.
func (p *Pool[T]) acquireBlock() error {
	blockSize := p.layout.BlockSize

	newBlock, err := p.source.Acquire(blockSize)
	if err != nil {
		p.logger.LogAttrs(context.Background(), slog.LevelError, "Pool::acquireBlock FAILED",
			slog.Int("BlockSize", blockSize),
			slog.Int("BlockCount", p.blockCount),
			slog.Any("error", err),
		)
		return errors.Mark(errors.Wrapf(err, "failed to acquire a %d byte block", blockSize), block.ErrOutOfMemory)
	}

	// The header links to the previous head of the chain
	*(*uintptr)(newBlock) = uintptr(p.currentBlock)
	p.currentBlock = newBlock
	p.blockCount++

	padding, slotCount := p.layout.carve(uintptr(newBlock))
	p.currentSlot = p.layout.HeaderSize + padding
	p.lastSlot = p.currentSlot + slotCount*p.layout.SlotSize

	p.callbacks.Allocate(newBlock, blockSize)
	p.logger.Debug("Pool::acquireBlock",
		slog.Int("BlockCount", p.blockCount),
		slog.Int("Padding", padding),
		slog.Int("SlotCount", slotCount),
	)

	memutils.DebugValidate(p)
	return nil
}

// nextBlock returns the block acquired before the given one, or nil for the oldest block
func nextBlock(blockPtr unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(blockPtr)
}

// visitBlocks calls visit for every block in the chain, newest first
func (p *Pool[T]) visitBlocks(visit func(index int, blockPtr unsafe.Pointer)) {
	index := 0
	for blockPtr := p.currentBlock; blockPtr != nil; blockPtr = nextBlock(blockPtr) {
		visit(index, blockPtr)
		index++
	}
}

// ReleaseAll returns every block the pool owns to its source and resets the pool to its empty
// initial state. The pool can be used again afterward.
//
// ReleaseAll does not finalize elements. Callers must Destroy every element that is still
// constructed before calling it; elements left behind are discarded without their Finalize
// method ever running, and the pool has no way to notice.
//
// If the source fails to release a block, ReleaseAll stops and returns the error. The blocks
// that were not yet released remain owned by the pool, and calling ReleaseAll again resumes
// the teardown.
func (p *Pool[T]) ReleaseAll() error {
	p.logger.Debug("Pool::ReleaseAll", slog.Int("BlockCount", p.blockCount))

	// Free slots and the bump cursor may point into any block, so they go first
	p.freeSlots = nil
	p.freeCount = 0
	p.currentSlot = 0
	p.lastSlot = 0
	p.allocationCount = 0

	blockSize := p.layout.BlockSize
	for p.currentBlock != nil {
		blockPtr := p.currentBlock
		prev := nextBlock(blockPtr)

		err := p.source.Release(blockPtr, blockSize)
		if err != nil {
			return errors.Wrapf(err, "failed to release block %d of the pool", p.blockCount-1)
		}
		p.callbacks.Free(blockPtr, blockSize)

		p.currentBlock = prev
		p.blockCount--
	}

	return nil
}
