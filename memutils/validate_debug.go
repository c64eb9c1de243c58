//go:build debug_mem_utils

package memutils

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// DebugValidate panics if validatable reports an inconsistency. Builds without the
// debug_mem_utils tag compile it away.
func DebugValidate(validatable Validatable) {
	if err := validatable.Validate(); err != nil {
		panic(errors.Wrapf(err, "%T failed validation", validatable))
	}
}

// DebugCheckPow2 panics unless value is a power of two. Builds without the debug_mem_utils
// tag compile it away.
func DebugCheckPow2[T constraints.Integer](value T, name string) {
	if err := CheckPow2(value, name); err != nil {
		panic(err)
	}
}
