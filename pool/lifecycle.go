package pool

import "unsafe"

// Copier is implemented by element types whose copy into pool storage needs more than an
// assignment and can fail. Construct calls CopyTo on the value being stored.
type Copier[T any] interface {
	CopyTo(dst *T) error
}

// Finalizer is implemented by element types that must release something before their storage
// is reused. Destroy calls Finalize on the stored element.
type Finalizer interface {
	Finalize() error
}

// Construct initializes the storage at ptr with a copy of value. If T implements Copier[T],
// value.CopyTo(ptr) performs the copy and its error is returned unmodified. Construct never
// changes which slots the pool considers allocated.
func (p *Pool[T]) Construct(ptr *T, value T) error {
	if p.copier {
		return any(value).(Copier[T]).CopyTo(ptr)
	}

	*ptr = value
	return nil
}

// Destroy finalizes the element at ptr without returning its storage to the pool. If *T
// implements Finalizer, Finalize is called and its error is returned unmodified.
func (p *Pool[T]) Destroy(ptr *T) error {
	if p.finalizer {
		return any(ptr).(Finalizer).Finalize()
	}

	return nil
}

// NewElement allocates storage for one element and constructs a copy of value in it.
//
// Unlike a failed Construct, which leaves the pool's bookkeeping alone, a failed construction
// here puts the storage back on the free list, since the caller never receives the pointer.
// The error from CopyTo is returned unmodified.
func (p *Pool[T]) NewElement(value T) (*T, error) {
	slot, err := p.reserve()
	if err != nil {
		return nil, err
	}

	ptr := (*T)(slot)
	err = p.Construct(ptr, value)
	if err != nil {
		p.release(slot)
		return nil, err
	}

	return ptr, nil
}

// DeleteElement destroys the element at ptr and returns its storage to the pool. A nil ptr
// is ignored.
//
// If finalization fails, the storage is not returned to the pool and the error from Finalize
// is returned unmodified.
func (p *Pool[T]) DeleteElement(ptr *T) error {
	if ptr == nil {
		return nil
	}

	err := p.Destroy(ptr)
	if err != nil {
		return err
	}

	p.release(unsafe.Pointer(ptr))
	return nil
}
