package memutils

// Validatable is implemented by allocator structures that can check their own bookkeeping.
// Validate walks the structure and returns the first inconsistency it finds.
type Validatable interface {
	Validate() error
}
