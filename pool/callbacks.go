package pool

import "unsafe"

// AllocateBlockCallback is called after the pool acquires a block from its source
type AllocateBlockCallback func(
	block unsafe.Pointer,
	size int,
	userData any,
)

// FreeBlockCallback is called after the pool returns a block to its source
type FreeBlockCallback func(
	block unsafe.Pointer,
	size int,
	userData any,
)

// MemoryCallbackOptions is an optional set of callbacks that are executed whenever a pool
// acquires a block from its source or returns one to it.
type MemoryCallbackOptions struct {
	Allocate AllocateBlockCallback
	Free     FreeBlockCallback
	UserData any
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
}

func (c *memoryCallbacks) Allocate(block unsafe.Pointer, size int) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(block, size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Free(block unsafe.Pointer, size int) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(block, size, c.Callbacks.UserData)
	}
}
