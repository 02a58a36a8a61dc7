// ./api.go

/*
Package spice loads SPICE kernels and reports failures as typed Go errors.

The NAIF SPICE toolkit signals failures through a process-wide error flag
instead of return values. This package drives that error subsystem around the
toolkit's kernel loader so callers get an ordinary Go error back.

Key Features:
  - One call per kernel: LoadKernel returns nil or a LoadError value.
  - Failures are classified into a small closed set of kinds (Kind).
  - The toolkit error state is reset before a failure is returned, so one
    failed load never leaks into the next call.
  - Works against CSPICE (build tag cspice) or the built-in native engine.

Usage:

 1. Load a kernel with the default toolkit:
    ```go
    if err := spice.LoadKernel("naif0012.tls"); err != nil {
        log.Fatal(err) // prints the toolkit's long-form message
    }
    ```

 2. Branch on the cause:
    ```go
    err := spice.LoadKernel(path)
    var le spice.LoadError
    if errors.As(err, &le) && le.Kind == spice.NoSuchFile {
        fmt.Println("missing kernel:", le.Detail)
    }
    if errors.Is(err, spice.ErrEmptyString) {
        fmt.Println("no kernel name given")
    }
    ```

 3. Drive another toolkit implementation:
    ```go
    loader := spice.NewLoader(myToolkit)
    err := loader.LoadKernel("meta.tm")
    ```

Concurrency:
The toolkit error state is global to the process. Loader does no locking;
callers must serialize access to the toolkit.

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

// Package spice loads SPICE kernels and reports failures as typed Go errors.
package spice

// Toolkit is the slice of the SPICE toolkit API the loader depends on.
// Failures are signalled through a global flag rather than return values.
type Toolkit interface {
	// Erract sets (op "SET") or reads (op "GET") the error action.
	Erract(op string, lenout int, action string)
	// Furnsh loads a kernel or meta-kernel.
	Furnsh(file string)
	// Failed reports whether an error has been signalled and not yet reset.
	Failed() bool
	// Getmsg returns the SHORT, LONG or EXPLAIN message of the current error,
	// truncated to lenout-1 characters.
	Getmsg(option string, lenout int) string
	// Reset clears the failure flag and stored messages.
	Reset()
}

// Loader loads kernels through a Toolkit and translates its error state.
// A Loader holds no state of its own between calls.
type Loader struct {
	tk Toolkit
}

// NewLoader returns a Loader driving the given toolkit.
func NewLoader(tk Toolkit) *Loader {
	return &Loader{tk: tk}
}

// std is the loader behind the package-level LoadKernel.
var std = NewLoader(DefaultToolkit())

// LoadKernel loads a kernel or meta-kernel with the default toolkit.
// See Loader.LoadKernel.
func LoadKernel(path string) error {
	return std.LoadKernel(path)
}

// LoadKernel loads one kernel or meta-kernel.
//
// The toolkit error action is set to RETURN on every call, since any other
// code in the process may have changed it. The path is passed through
// untouched; an empty path is rejected by the toolkit, not here.
//
// Returns:
//   - nil when the toolkit did not flag a failure. The toolkit error state is
//     left alone on this path.
//   - a LoadError value otherwise. Its Kind is classified from the SHORT
//     message and its Detail is the LONG message. The toolkit error state has
//     been reset before returning.
//
// A single attempt is made; retrying is up to the caller.
func (l *Loader) LoadKernel(path string) error {
	l.tk.Erract(ErractSet, MaxLenOut, ActionReturn)
	l.tk.Furnsh(path)
	if !l.tk.Failed() {
		return nil
	}

	defer l.tk.Reset()
	short := l.tk.Getmsg(MsgShort, MaxLenOut)
	long := l.tk.Getmsg(MsgLong, MaxLenOut)
	return LoadError{
		Kind:   ParseKind(short),
		Detail: long,
	}
}
