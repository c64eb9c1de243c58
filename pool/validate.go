package pool

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Validate performs internal consistency checks on the pool: cursor bounds, the length of the
// block chain and the free list, and that every free slot lies on a slot boundary inside one
// of the pool's blocks. It walks every block for every free slot, so it can be very slow and
// should only be used for diagnostics.
//
// Validate cannot detect every misuse. In particular, a slot deallocated twice creates a
// cycle in the free list, which Validate reports as a free list longer than expected.
func (p *Pool[T]) Validate() error {
	if p.currentSlot > p.lastSlot {
		return errors.Errorf("the bump cursor is at offset %d, past the end of the last slot at offset %d", p.currentSlot, p.lastSlot)
	}
	if p.lastSlot > p.layout.BlockSize {
		return errors.Errorf("the last slot ends at offset %d, past the end of the %d byte block", p.lastSlot, p.layout.BlockSize)
	}

	if p.currentBlock == nil {
		if p.blockCount != 0 {
			return errors.Errorf("the pool has no blocks, but its block count is %d", p.blockCount)
		}
		if p.lastSlot != 0 {
			return errors.Errorf("the pool has no blocks, but its bump cursor ends at offset %d", p.lastSlot)
		}
	} else if (p.lastSlot-p.currentSlot)%p.layout.SlotSize != 0 {
		return errors.Errorf("the bump cursor at offset %d is not on a slot boundary", p.currentSlot)
	}

	chainLength := 0
	p.visitBlocks(func(index int, blockPtr unsafe.Pointer) {
		chainLength++
	})
	if chainLength != p.blockCount {
		return errors.Errorf("the block chain has %d blocks, but the block count is %d", chainLength, p.blockCount)
	}

	if p.allocationCount < 0 {
		return errors.Errorf("the allocation count is negative: %d", p.allocationCount)
	}

	freeLength := 0
	for slot := p.freeSlots; slot != nil; slot = *(*unsafe.Pointer)(slot) {
		if freeLength >= p.freeCount {
			return errors.Errorf("the free list is longer than the %d slots that were deallocated", p.freeCount)
		}
		if !p.ownsSlot(uintptr(slot)) {
			return errors.Errorf("free slot %d at %#x does not lie on a slot boundary inside any of the pool's blocks", freeLength, uintptr(slot))
		}
		freeLength++
	}
	if freeLength != p.freeCount {
		return errors.Errorf("the free list has %d slots, but %d slots were deallocated", freeLength, p.freeCount)
	}

	return nil
}

func (p *Pool[T]) ownsSlot(address uintptr) bool {
	owned := false
	p.visitBlocks(func(index int, blockPtr unsafe.Pointer) {
		base := uintptr(blockPtr)
		padding, slotCount := p.layout.carve(base)
		first := base + uintptr(p.layout.HeaderSize+padding)
		end := first + uintptr(slotCount*p.layout.SlotSize)
		if blockPtr == p.currentBlock {
			end = base + uintptr(p.currentSlot)
		}

		if address >= first && address < end && (address-first)%uintptr(p.layout.SlotSize) == 0 {
			owned = true
		}
	})
	return owned
}
