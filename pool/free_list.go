package pool

import "unsafe"

// Free slots hold the address of the next free slot in their first word. The link is written
// as a uintptr so that no write barrier ever inspects the element bytes it overwrites, and
// read back as an unsafe.Pointer. Blocks are kept alive by their source, so the address stays
// valid for as long as the slot is on the list.

// release pushes slot onto the free list. A nil slot is ignored.
func (p *Pool[T]) release(slot unsafe.Pointer) {
	if slot == nil {
		return
	}

	*(*uintptr)(slot) = uintptr(p.freeSlots)
	p.freeSlots = slot
	p.freeCount++
	p.allocationCount--
}

// reserve pops the free list if it is non-empty, and bump allocates from the current block
// otherwise, acquiring a new block first if the current one is exhausted.
func (p *Pool[T]) reserve() (unsafe.Pointer, error) {
	if p.freeSlots != nil {
		slot := p.freeSlots
		p.freeSlots = *(*unsafe.Pointer)(slot)
		p.freeCount--
		p.allocationCount++
		return slot, nil
	}

	if p.currentSlot == p.lastSlot {
		err := p.acquireBlock()
		if err != nil {
			return nil, err
		}
	}

	slot := unsafe.Add(p.currentBlock, p.currentSlot)
	p.currentSlot += p.layout.SlotSize
	p.allocationCount++
	return slot, nil
}
