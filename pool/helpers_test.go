package pool_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	mock_block "github.com/vkngwrapper/slotpool/block/mocks"
	"github.com/vkngwrapper/slotpool/memutils"
	"github.com/vkngwrapper/slotpool/pool"
	"go.uber.org/mock/gomock"
)

// alignedBlocks backs a mock source with 8-byte aligned Go memory, so the padding of every
// block is known in advance, and keeps each block reachable for the length of the test.
type alignedBlocks struct {
	blocks [][]uint64
}

func (b *alignedBlocks) Count() int {
	return len(b.blocks)
}

func (b *alignedBlocks) Base(index int) uintptr {
	return uintptr(unsafe.Pointer(&b.blocks[index][0]))
}

func (b *alignedBlocks) Pointer(index int) unsafe.Pointer {
	return unsafe.Pointer(&b.blocks[index][0])
}

func expectAlignedBlocks(source *mock_block.MockSource, blockSize int) *alignedBlocks {
	blocks := &alignedBlocks{}
	source.EXPECT().Acquire(blockSize).DoAndReturn(func(size int) (unsafe.Pointer, error) {
		data := make([]uint64, size/8)
		blocks.blocks = append(blocks.blocks, data)
		return unsafe.Pointer(&data[0]), nil
	}).AnyTimes()
	return blocks
}

func newMockPool[T any](t *testing.T, blockSize int) (*pool.Pool[T], *alignedBlocks) {
	ctrl := gomock.NewController(t)
	source := mock_block.NewMockSource(ctrl)
	blocks := expectAlignedBlocks(source, blockSize)

	p, err := pool.New[T](nil, pool.CreateOptions{
		BlockSize: blockSize,
		Source:    source,
	})
	require.NoError(t, err)
	return p, blocks
}

func newHeapPool[T any](t require.TestingT, blockSize int) *pool.Pool[T] {
	p, err := pool.New[T](nil, pool.CreateOptions{BlockSize: blockSize})
	require.NoError(t, err)
	return p
}

func detailedStats[T any](p *pool.Pool[T]) memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	p.AddDetailedStatistics(&stats)
	return stats
}
