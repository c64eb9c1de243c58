package memutils

import (
	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// CheckPow2 returns an error wrapping ErrNotPowerOfTwo unless number is a positive power of two.
// name identifies the value in the error message.
func CheckPow2[T constraints.Integer](number T, name string) error {
	if number <= 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(ErrNotPowerOfTwo, "%s is %d", name, number)
	}
	return nil
}

// AlignUp rounds value up to the next multiple of alignment, which must be a power of two.
func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// RoundUp rounds value up to the next multiple of multiple. Unlike AlignUp, multiple
// does not need to be a power of two. multiple must be greater than zero.
func RoundUp[T constraints.Integer](value, multiple T) T {
	remainder := value % multiple
	if remainder == 0 {
		return value
	}
	return value + multiple - remainder
}

// PadPointer returns the number of bytes that must be added to address so that it becomes
// a multiple of alignment. It returns 0 for addresses that are already aligned. The arithmetic
// is unsigned and modular, so it is valid across the whole address range and for alignments
// that are not powers of two.
func PadPointer(address uintptr, alignment uintptr) uintptr {
	return (alignment - address%alignment) % alignment
}
