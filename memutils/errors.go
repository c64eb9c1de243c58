package memutils

import "github.com/pkg/errors"

// ErrNotPowerOfTwo is returned by CheckPow2 for zero, negative and non-power-of-two values
var ErrNotPowerOfTwo = errors.New("value is not a power of two")
