//go:build !cspice

package spice

import "github.com/mshafiee/spice/internal/pool"

// DefaultToolkit returns the process-wide toolkit used by LoadKernel.
// Without the cspice build tag this is the built-in native engine.
func DefaultToolkit() Toolkit {
	return pool.Default()
}
