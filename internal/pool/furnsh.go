package pool

/*
Package pool provides kernel loading for the native toolkit engine.

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

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// idWordSize is how many leading bytes are inspected to identify a kernel.
const idWordSize = 84

// Furnsh loads a kernel or meta-kernel. Failures are signalled, not returned.
//
// Loading a path that is already loaded unloads it first, so it moves to the
// end of the load order. In RETURN mode with a pending failure, Furnsh does
// nothing.
func (e *Engine) Furnsh(file string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.returnMode() {
		return
	}
	if file == "" {
		e.signal(fail(codeEmptyString, `String "file" has length zero.`))
		return
	}
	e.load(trimName(file), nil)
}

// trimName drops the trailing blanks the toolkit ignores in file names.
func trimName(file string) string {
	return strings.TrimRight(file, " ")
}

// load loads one file on behalf of the meta-kernel parent (nil for a direct
// load) and signals any failure. Callers hold e.mu.
func (e *Engine) load(path string, parent *Kernel) {
	if strings.TrimSpace(path) == "" {
		e.signal(fail(codeBlankFileName, "The input filename is blank."))
		return
	}
	if parent == nil && e.loaded(path) {
		e.unload(path)
	}

	k, err := identify(path)
	if err != nil {
		e.signal(asFailure(err))
		return
	}
	e.lastID++
	k.id = e.lastID
	if parent != nil {
		k.Source = parent.Path
		k.owner = parent.id
	}

	switch k.Arch {
	case ArchText:
		e.loadText(k)
	case ArchDE:
		de, err := readEphemeris(path)
		if err != nil {
			e.signal(asFailure(err))
			return
		}
		k.DE = de
		e.kernels = append(e.kernels, k)
	default:
		e.kernels = append(e.kernels, k)
	}
}

// identify opens path and works out its architecture and type from the
// leading bytes of the file.
func identify(path string) (Kernel, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Kernel{}, fail(codeNoSuchFile,
				`The attempt to load "%s" by the routine FURNSH failed. It could not be located.`, path)
		}
		return Kernel{}, fail(codeFileOpenFailed, `The file "%s" could not be opened: %v`, path, err)
	}
	if info.IsDir() {
		return Kernel{}, fail(codeFileOpenFailed, `The file "%s" is a directory and cannot be loaded as a kernel.`, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Kernel{}, fail(codeFileOpenFailed, `The file "%s" could not be opened: %v`, path, err)
	}
	defer f.Close()

	head := make([]byte, idWordSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Kernel{}, fail(codeFileReadFailed, `The file "%s" could not be read: %v`, path, err)
	}
	head = head[:n]

	k := Kernel{Path: path, Type: "?"}
	switch {
	case bytes.HasPrefix(head, []byte("KPL/")):
		k.Arch = ArchText
		k.Type = idType(head[4:])
	case bytes.HasPrefix(head, []byte("NAIF/DAF")):
		k.Arch = ArchDAF
	case bytes.HasPrefix(head, []byte("DAF/")):
		k.Arch = ArchDAF
		k.Type = idType(head[4:])
	case bytes.HasPrefix(head, []byte("DAS/")):
		k.Arch = ArchDAS
		k.Type = idType(head[4:])
	case bytes.HasPrefix(head, []byte(deTitlePrefix)), bytes.HasPrefix(head, []byte(inpopTitlePrefix)):
		k.Arch = ArchDE
		k.Type = "SPK"
	default:
		// Text kernels are not required to start with an ID word.
		rest, err := io.ReadAll(f)
		if err != nil {
			return Kernel{}, fail(codeFileReadFailed, `The file "%s" could not be read: %v`, path, err)
		}
		if !bytes.Contains(append(head, rest...), []byte(beginData)) {
			return Kernel{}, fail(codeUnknownKernelType,
				`The file "%s" is not a recognized kernel type. Its ID word could not be determined.`, path)
		}
		k.Arch = ArchText
	}
	return k, nil
}

// idType returns the kernel type that follows the architecture in an ID word.
func idType(b []byte) string {
	end := bytes.IndexAny(b, " \t\r\n\x00")
	if end >= 0 {
		b = b[:end]
	}
	if len(b) == 0 {
		return "?"
	}
	return string(b)
}

// loadText parses a text kernel, merges its assignments into the pool,
// registers it and, if it is a meta-kernel, loads the kernels it names.
// Callers hold e.mu.
func (e *Engine) loadText(k Kernel) {
	data, err := os.ReadFile(k.Path)
	if err != nil {
		e.signal(fail(codeFileReadFailed, `The file "%s" could not be read: %v`, k.Path, err))
		return
	}
	assigns, err := parseText(k.Path, data)
	if err != nil {
		e.signal(asFailure(err))
		return
	}

	pooled, meta := splitMeta(assigns)
	staged := cloneVars(e.vars)
	if err := applyAssignments(staged, pooled); err != nil {
		e.signal(asFailure(err))
		return
	}
	e.vars = staged
	k.assignments = pooled
	if meta.isMeta() && k.Type == "?" {
		k.Type = "MK"
	}
	e.kernels = append(e.kernels, k)

	if meta.isMeta() {
		e.loadMeta(k, meta)
	}
}

// asFailure converts a loading error into a failure to signal.
func asFailure(err error) *failure {
	var f *failure
	if errors.As(err, &f) {
		return f
	}
	return fail(codeFileReadFailed, "%v", err)
}
