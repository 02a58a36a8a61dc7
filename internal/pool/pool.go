// ./internal/pool/pool.go

/*
Package pool is a native Go stand-in for the parts of the NAIF SPICE toolkit
that load kernels: the kernel registry, the text kernel variable pool and the
global error subsystem.

It honours the same calling contract as CSPICE. Failures are never returned;
they are signalled into a process-wide error state that callers inspect with
Failed, read with Getmsg and clear with Reset. The error action chosen with
Erract decides what signalling does:

  - ABORT / DEFAULT: record the failure and panic with *Abort.
  - RETURN: record the failure; loading entry points then return immediately
    until Reset is called.
  - REPORT: record the failure and keep going.
  - IGNORE: do not record anything.

Only the first failure after a Reset keeps its messages.

Kernel formats are recognised from their leading bytes. Text kernels (KPL/)
are parsed into the variable pool, meta-kernels load the files named by
KERNELS_TO_LOAD, JPL DE binary ephemerides have their header read and checked,
and DAF/DAS binary kernels are registered without being parsed.

License:
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.

Authorship:
Mohammad Shafiee authored this Go code.
*/

// Package pool is a native Go stand-in for the kernel loading parts of the SPICE toolkit.
package pool

import (
	"sync"
)

// Kernel architectures.
const (
	ArchText = "KPL" // Text kernel
	ArchDAF  = "DAF" // Double precision array file (SPK, CK, binary PCK)
	ArchDAS  = "DAS" // Direct access segregated file (DSK, EK)
	ArchDE   = "DE"  // JPL DE binary ephemeris
)

// Kernel describes one loaded kernel.
type Kernel struct {
	Path   string     // Path as given to Furnsh (trailing blanks removed)
	Arch   string     // One of the Arch* constants
	Type   string     // Kernel type from the file ID word, e.g. "LSK", "SPK", "MK"; "?" if absent
	Source string     // Meta-kernel that loaded this kernel, "" if loaded directly
	DE     *Ephemeris // Header summary, set for ArchDE only

	assignments []assignment // Text kernel assignments, replayed when the pool is rebuilt
	id          int          // Unique per load
	owner       int          // id of the loading meta-kernel, 0 if loaded directly
}

// Variable is a kernel pool variable. Exactly one of Numbers and Strings is non-empty.
type Variable struct {
	Name    string
	Numbers []float64
	Strings []string
}

// Engine is a native toolkit instance. The zero value is not usable; call New.
// Each exported method locks the engine, so an Engine is safe for concurrent
// use, but a sequence of calls is not atomic.
type Engine struct {
	mu sync.Mutex

	action string
	failed bool
	short  string
	long   string

	kernels []Kernel
	vars    map[string]*Variable
	loading []string // Meta-kernels currently being processed
	lastID  int
}

// New returns an engine with the error action ABORT, as the toolkit starts.
func New() *Engine {
	return &Engine{
		action: ActionAbort,
		vars:   make(map[string]*Variable),
	}
}

// std is the process-wide engine.
var std = New()

// Default returns the process-wide engine.
func Default() *Engine {
	return std
}

// Loaded returns the loaded kernels in load order.
func (e *Engine) Loaded() []Kernel {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Kernel, len(e.kernels))
	copy(out, e.kernels)
	return out
}

// Count returns the number of loaded kernels.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.kernels)
}

// Variable returns a copy of the named kernel pool variable.
func (e *Engine) Variable(name string) (Variable, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.vars[name]
	if !ok {
		return Variable{}, false
	}
	return Variable{
		Name:    v.Name,
		Numbers: append([]float64(nil), v.Numbers...),
		Strings: append([]string(nil), v.Strings...),
	}, true
}

// Unload removes a kernel, and every kernel it loaded if it is a
// meta-kernel, then rebuilds the variable pool from the text kernels left.
// Unloading a path that is not loaded does nothing.
func (e *Engine) Unload(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.returnMode() {
		return
	}
	e.unload(trimName(path))
}

// Clear unloads every kernel and empties the variable pool.
// It does not touch the error state.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kernels = nil
	e.vars = make(map[string]*Variable)
}

func (e *Engine) unload(path string) {
	// Kernels loaded by a dropped meta-kernel follow it in load order.
	drop := make(map[int]bool)
	kept := e.kernels[:0]
	removed := false
	for _, k := range e.kernels {
		if (k.Path == path && k.owner == 0) || drop[k.owner] {
			drop[k.id] = true
			removed = true
			continue
		}
		kept = append(kept, k)
	}
	e.kernels = kept
	if removed {
		e.rebuild()
	}
}

// rebuild replays the assignments of every loaded text kernel in load order.
func (e *Engine) rebuild() {
	e.vars = make(map[string]*Variable)
	for _, k := range e.kernels {
		// Assignments were validated when the kernel was loaded.
		_ = applyAssignments(e.vars, k.assignments)
	}
}

// loaded reports whether path was loaded directly (not through a meta-kernel).
func (e *Engine) loaded(path string) bool {
	for _, k := range e.kernels {
		if k.Path == path && k.owner == 0 {
			return true
		}
	}
	return false
}
