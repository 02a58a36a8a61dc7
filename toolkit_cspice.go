//go:build cspice

package spice

/*
#cgo LDFLAGS: -lcspice -lm

#include <stdlib.h>
#include <string.h>
#include "SpiceUsr.h"
*/
import "C"

import "unsafe"

// cspiceToolkit calls straight into the CSPICE library.
// CSPICE keeps its error state in process globals, so the type carries none.
type cspiceToolkit struct{}

// DefaultToolkit returns the process-wide toolkit used by LoadKernel.
// With the cspice build tag this is CSPICE itself.
func DefaultToolkit() Toolkit {
	return cspiceToolkit{}
}

func (cspiceToolkit) Erract(op string, lenout int, action string) {
	cop := C.CString(op)
	defer C.free(unsafe.Pointer(cop))

	// action is an in/out buffer of lenout bytes.
	size := lenout
	if size < len(action)+1 {
		size = len(action) + 1
	}
	buf := (*C.char)(C.malloc(C.size_t(size)))
	defer C.free(unsafe.Pointer(buf))
	caction := C.CString(action)
	defer C.free(unsafe.Pointer(caction))
	C.strcpy(buf, caction)

	C.erract_c(cop, C.SpiceInt(size), buf)
}

func (cspiceToolkit) Furnsh(file string) {
	cfile := C.CString(file)
	defer C.free(unsafe.Pointer(cfile))
	C.furnsh_c(cfile)
}

func (cspiceToolkit) Failed() bool {
	return C.failed_c() != C.SPICEFALSE
}

func (cspiceToolkit) Getmsg(option string, lenout int) string {
	if lenout < 2 {
		return ""
	}
	copt := C.CString(option)
	defer C.free(unsafe.Pointer(copt))

	buf := (*C.char)(C.calloc(C.size_t(lenout), 1))
	defer C.free(unsafe.Pointer(buf))

	C.getmsg_c(copt, C.SpiceInt(lenout), buf)
	return C.GoString(buf)
}

func (cspiceToolkit) Reset() {
	C.reset_c()
}
