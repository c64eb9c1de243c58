//go:build !debug_mem_utils

package memutils

import "golang.org/x/exp/constraints"

func DebugValidate(Validatable) {}

func DebugCheckPow2[T constraints.Integer](T, string) {}
