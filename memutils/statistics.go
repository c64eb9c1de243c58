package memutils

import "math"

// Statistics summarizes the blocks owned by a pool and the slots currently handed out from them.
type Statistics struct {
	// BlockCount is the number of raw blocks in the pool's chain
	BlockCount int
	// AllocationCount is the number of slots that have been allocated and not yet deallocated
	AllocationCount int
	// BlockBytes is the number of raw bytes held by the pool's blocks
	BlockBytes int
	// AllocationBytes is the number of slot bytes currently handed out
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.BlockCount = 0
	s.AllocationCount = 0
	s.BlockBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.BlockCount += other.BlockCount
	s.AllocationCount += other.AllocationCount
	s.BlockBytes += other.BlockBytes
	s.AllocationBytes += other.AllocationBytes
}

// DetailedStatistics extends Statistics with a breakdown of where the unallocated bytes of a
// pool's blocks are.
type DetailedStatistics struct {
	Statistics
	// FreeSlotCount is the number of deallocated slots waiting on the free list
	FreeSlotCount int
	// UnusedSlotCount is the number of slots in the current block the bump cursor has not reached
	UnusedSlotCount int
	// OverheadBytes is the number of block bytes that can never hold a slot: headers,
	// alignment padding and the tail left over after the last whole slot
	OverheadBytes int
	// SlotsPerBlockMin is the smallest number of slots carved from any single block
	SlotsPerBlockMin int
	// SlotsPerBlockMax is the largest number of slots carved from any single block
	SlotsPerBlockMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeSlotCount = 0
	s.UnusedSlotCount = 0
	s.OverheadBytes = 0
	s.SlotsPerBlockMin = math.MaxInt
	s.SlotsPerBlockMax = 0
}

// AddBlock records a block of blockSize bytes that was carved into slotCount slots with
// overhead unusable bytes.
func (s *DetailedStatistics) AddBlock(blockSize, slotCount, overhead int) {
	s.BlockCount++
	s.BlockBytes += blockSize
	s.OverheadBytes += overhead

	if slotCount < s.SlotsPerBlockMin {
		s.SlotsPerBlockMin = slotCount
	}

	if slotCount > s.SlotsPerBlockMax {
		s.SlotsPerBlockMax = slotCount
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeSlotCount += other.FreeSlotCount
	s.UnusedSlotCount += other.UnusedSlotCount
	s.OverheadBytes += other.OverheadBytes

	if other.SlotsPerBlockMin < s.SlotsPerBlockMin {
		s.SlotsPerBlockMin = other.SlotsPerBlockMin
	}

	if other.SlotsPerBlockMax > s.SlotsPerBlockMax {
		s.SlotsPerBlockMax = other.SlotsPerBlockMax
	}
}
