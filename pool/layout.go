package pool

import (
	"reflect"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slotpool/memutils"
)

const (
	// linkSize is the size of the free-list link stored in free slots, and of the block header
	linkSize      = unsafe.Sizeof(uintptr(0))
	linkAlignment = unsafe.Alignof(uintptr(0))
)

// SlotLayout describes how a pool divides each of its blocks.
//
// Every block starts with a HeaderSize-byte header holding the link to the previously
// acquired block. The header is followed by however much padding is needed to put the first
// slot on a multiple of SlotSize, and then by as many whole SlotSize-byte slots as fit.
type SlotLayout struct {
	// SlotSize is the size of a slot: large enough for either one element or a free-list link,
	// rounded up to SlotAlignment
	SlotSize int
	// SlotAlignment is the strictest alignment required by the element or the link
	SlotAlignment int
	// HeaderSize is the size of the block header
	HeaderSize int
	// BlockSize is the size of every block
	BlockSize int
}

func newSlotLayout[T any](blockSize int) (SlotLayout, error) {
	elementType := reflect.TypeOf((*T)(nil)).Elem()
	if typeHasPointers(elementType) {
		return SlotLayout{}, errors.Wrapf(ErrPointerElement, "%s cannot be stored in a pool", elementType)
	}

	var zero T
	alignment := max(unsafe.Alignof(zero), linkAlignment)
	memutils.DebugCheckPow2(alignment, "slot alignment")
	size := memutils.RoundUp(max(unsafe.Sizeof(zero), linkSize), alignment)

	layout := SlotLayout{
		SlotSize:      int(size),
		SlotAlignment: int(alignment),
		HeaderSize:    int(linkSize),
		BlockSize:     blockSize,
	}

	minimum := layout.HeaderSize + (layout.SlotSize - 1) + layout.SlotSize
	if blockSize < minimum {
		return SlotLayout{}, errors.Wrapf(ErrBlockTooSmall, "%d byte blocks cannot hold %s slots, which need at least %d bytes", blockSize, elementType, minimum)
	}

	return layout, nil
}

// MinSlotsPerBlock returns the number of slots a block holds when its base address needs the
// most padding possible. Every block holds at least this many slots.
func (l SlotLayout) MinSlotsPerBlock() int {
	return (l.BlockSize - l.HeaderSize - (l.SlotSize - 1)) / l.SlotSize
}

// carve returns the padding between the header and the first slot of a block at base, and
// the number of whole slots that fit after it.
func (l SlotLayout) carve(base uintptr) (padding int, slotCount int) {
	padding = int(memutils.PadPointer(base+uintptr(l.HeaderSize), uintptr(l.SlotSize)))
	slotCount = (l.BlockSize - l.HeaderSize - padding) / l.SlotSize
	return padding, slotCount
}

func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	}

	// Pointers, unsafe pointers, slices, strings, maps, channels, funcs and interfaces
	return true
}
