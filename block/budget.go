package block

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/memutils"
	"go.uber.org/atomic"
)

// BudgetSource wraps another Source and refuses to hold more than a fixed number of bytes
// at once. Requests that would exceed the budget fail with ErrOutOfMemory without reaching
// the wrapped Source.
//
// BudgetSource is safe for use by several pools at once, as long as the wrapped Source is.
type BudgetSource struct {
	source Source
	limit  int64

	blockCount *atomic.Int32
	blockBytes *atomic.Int64
}

var _ Source = &BudgetSource{}

// NewBudgetSource wraps source so that no more than limit bytes of blocks are held at once
func NewBudgetSource(source Source, limit int) *BudgetSource {
	return &BudgetSource{
		source:     source,
		limit:      int64(limit),
		blockCount: atomic.NewInt32(0),
		blockBytes: atomic.NewInt64(0),
	}
}

func (s *BudgetSource) Acquire(size int) (unsafe.Pointer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}

	for {
		currentVal := s.blockBytes.Load()
		targetVal := currentVal + int64(size)

		if targetVal > s.limit {
			return nil, errors.Wrapf(ErrOutOfMemory, "acquiring %d bytes would exceed the budget of %d bytes with %d in use", size, s.limit, currentVal)
		}

		if s.blockBytes.CompareAndSwap(currentVal, targetVal) {
			break
		}
	}

	block, err := s.source.Acquire(size)
	if err != nil {
		// Roll back the reservation
		s.blockBytes.Sub(int64(size))
		return nil, err
	}

	s.blockCount.Inc()
	return block, nil
}

func (s *BudgetSource) Release(block unsafe.Pointer, size int) error {
	err := s.source.Release(block, size)
	if err != nil {
		return err
	}

	newVal := s.blockBytes.Sub(int64(size))
	if newVal < 0 {
		panic(fmt.Sprintf("block bytes budget went negative: %d", newVal))
	}

	newCountVal := s.blockCount.Dec()
	if newCountVal < 0 {
		panic(fmt.Sprintf("block count budget went negative: %d", newCountVal))
	}

	return nil
}

// Remaining returns the number of bytes that can still be acquired before the budget is exhausted
func (s *BudgetSource) Remaining() int {
	return int(s.limit - s.blockBytes.Load())
}

// AddStatistics sums the blocks currently held through this source into stats
func (s *BudgetSource) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount += int(s.blockCount.Load())
	stats.BlockBytes += int(s.blockBytes.Load())
}
