package pool_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

var errCopy = errors.New("copy refused")

type checkedValue struct {
	Value int64
	Fail  bool
}

func (v checkedValue) CopyTo(dst *checkedValue) error {
	if v.Fail {
		return errCopy
	}

	dst.Value = v.Value * 10
	dst.Fail = false
	return nil
}

var errFinalize = errors.New("finalize refused")

// finalizeCount counts calls to trackedValue.Finalize. Elements cannot hold pointers, so the
// counter is global and reset by every test that reads it.
var finalizeCount int

type trackedValue struct {
	Value int64
	Fail  bool
}

func (v *trackedValue) Finalize() error {
	if v.Fail {
		return errFinalize
	}

	finalizeCount++
	v.Value = -1
	return nil
}

func TestConstructPlainValue(t *testing.T) {
	p := newHeapPool[[2]int32](t, 64)

	ptr, err := p.Allocate(1)
	require.NoError(t, err)
	require.NoError(t, p.Construct(ptr, [2]int32{3, 4}))
	require.Equal(t, [2]int32{3, 4}, *ptr)

	// Destroying a type without a Finalize method does nothing, including returning storage
	require.NoError(t, p.Destroy(ptr))
	require.Equal(t, [2]int32{3, 4}, *ptr)
	require.Zero(t, detailedStats(p).FreeSlotCount)

	// The same storage takes a new value
	require.NoError(t, p.Construct(ptr, [2]int32{5, 6}))
	require.Equal(t, [2]int32{5, 6}, *ptr)

	stats := detailedStats(p)
	require.Equal(t, 1, stats.AllocationCount)
	require.Zero(t, stats.FreeSlotCount)
}

func TestConstructUsesCopier(t *testing.T) {
	p := newHeapPool[checkedValue](t, 64)

	ptr, err := p.Allocate(1)
	require.NoError(t, err)

	require.NoError(t, p.Construct(ptr, checkedValue{Value: 7}))
	require.Equal(t, int64(70), ptr.Value)

	err = p.Construct(ptr, checkedValue{Value: 8, Fail: true})
	require.Equal(t, errCopy, err)

	// A failed construction does not touch the pool's bookkeeping
	stats := detailedStats(p)
	require.Equal(t, 1, stats.AllocationCount)
	require.Zero(t, stats.FreeSlotCount)
}

func TestNewElementRecyclesOnConstructFailure(t *testing.T) {
	p, blocks := newMockPool[checkedValue](t, 128)

	first, err := p.NewElement(checkedValue{Value: 1})
	require.NoError(t, err)

	ptr, err := p.NewElement(checkedValue{Value: 2, Fail: true})
	require.Nil(t, ptr)
	require.Equal(t, errCopy, err)

	stats := detailedStats(p)
	require.Equal(t, 1, stats.AllocationCount)
	require.Equal(t, 1, stats.FreeSlotCount)
	require.NoError(t, p.Validate())

	// The slot that failed construction is the next one handed out
	second, err := p.NewElement(checkedValue{Value: 3})
	require.NoError(t, err)
	require.Equal(t, p.AddressOf(first)+uintptr(p.Layout().SlotSize), p.AddressOf(second))
	require.Equal(t, int64(30), second.Value)
	require.Equal(t, int64(10), first.Value)
	require.Equal(t, 1, blocks.Count())
}

func TestDeleteElementFinalizes(t *testing.T) {
	finalizeCount = 0
	p := newHeapPool[trackedValue](t, 128)

	ptr, err := p.NewElement(trackedValue{Value: 5})
	require.NoError(t, err)
	require.Equal(t, int64(5), ptr.Value)

	require.NoError(t, p.DeleteElement(ptr))
	require.Equal(t, 1, finalizeCount)

	stats := detailedStats(p)
	require.Zero(t, stats.AllocationCount)
	require.Equal(t, 1, stats.FreeSlotCount)

	// The storage is reused by the next element
	again, err := p.NewElement(trackedValue{Value: 6})
	require.NoError(t, err)
	require.Same(t, ptr, again)
	require.Equal(t, int64(6), again.Value)
	require.NoError(t, p.Validate())
}

func TestDeleteElementKeepsStorageOnFinalizeFailure(t *testing.T) {
	finalizeCount = 0
	p := newHeapPool[trackedValue](t, 128)

	ptr, err := p.NewElement(trackedValue{Value: 5, Fail: true})
	require.NoError(t, err)

	err = p.DeleteElement(ptr)
	require.Equal(t, errFinalize, err)
	require.Zero(t, finalizeCount)

	stats := detailedStats(p)
	require.Equal(t, 1, stats.AllocationCount)
	require.Zero(t, stats.FreeSlotCount)
	require.Equal(t, int64(5), ptr.Value)

	// Once the element can be finalized, deleting it works as usual
	ptr.Fail = false
	require.NoError(t, p.DeleteElement(ptr))
	require.Equal(t, 1, finalizeCount)
	require.Equal(t, 1, detailedStats(p).FreeSlotCount)
}

func TestDeallocateDoesNotFinalize(t *testing.T) {
	finalizeCount = 0
	p := newHeapPool[trackedValue](t, 128)

	ptr, err := p.NewElement(trackedValue{Value: 5})
	require.NoError(t, err)
	require.NoError(t, p.Deallocate(ptr, 1))
	require.Zero(t, finalizeCount)
}

func TestReleaseAllDoesNotFinalize(t *testing.T) {
	finalizeCount = 0
	p := newHeapPool[trackedValue](t, 128)

	for i := 0; i < 20; i++ {
		_, err := p.NewElement(trackedValue{Value: int64(i)})
		require.NoError(t, err)
	}

	require.NoError(t, p.ReleaseAll())
	require.Zero(t, finalizeCount)
}
