package memutils_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slotpool/memutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(1, "one"))
	require.NoError(t, memutils.CheckPow2(uint(4096), "page"))
	require.NoError(t, memutils.CheckPow2(uintptr(8), "pointer"))

	err := memutils.CheckPow2(24, "slot")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.ErrNotPowerOfTwo))
	require.Contains(t, err.Error(), "slot is 24")

	require.Error(t, memutils.CheckPow2(0, "zero"))
	require.Error(t, memutils.CheckPow2(-8, "negative"))
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, memutils.AlignUp(0, 8))
	require.Equal(t, 8, memutils.AlignUp(1, 8))
	require.Equal(t, 8, memutils.AlignUp(8, 8))
	require.Equal(t, 4096, memutils.AlignUp(4000, 4096))
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 24, memutils.RoundUp(17, 24))
	require.Equal(t, 48, memutils.RoundUp(48, 24))
	require.Equal(t, uintptr(16), memutils.RoundUp(uintptr(12), uintptr(8)))
	require.Equal(t, uint(3), memutils.RoundUp(uint(3), uint(1)))
}

func TestPadPointer(t *testing.T) {
	require.Equal(t, uintptr(0), memutils.PadPointer(64, 8))
	require.Equal(t, uintptr(7), memutils.PadPointer(65, 8))
	require.Equal(t, uintptr(1), memutils.PadPointer(71, 8))

	// Slot sizes are not always powers of two
	require.Equal(t, uintptr(0), memutils.PadPointer(48, 24))
	require.Equal(t, uintptr(16), memutils.PadPointer(56, 24))

	// The top of the address range must not overflow
	require.Equal(t, uintptr(0), memutils.PadPointer(^uintptr(0)-7, 8))
	require.Equal(t, uintptr(1), memutils.PadPointer(^uintptr(0)-8, 8))

	for address := uintptr(1000); address < 1100; address++ {
		padding := memutils.PadPointer(address, 24)
		require.Less(t, padding, uintptr(24))
		require.Zero(t, (address+padding)%24)
	}
}
