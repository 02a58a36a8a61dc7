package pool

/*
Package pool provides meta-kernel loading for the native toolkit engine.

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
	"slices"
	"strings"
)

// Meta-kernel variables. They are consumed by the loader and never enter the pool.
const (
	varKernelsToLoad = "KERNELS_TO_LOAD"
	varPathSymbols   = "PATH_SYMBOLS"
	varPathValues    = "PATH_VALUES"
)

type metaVars struct {
	kernels []string
	symbols []string
	values  []string
}

func (m metaVars) isMeta() bool {
	return len(m.kernels) > 0
}

// splitMeta separates the meta-kernel variables from ordinary assignments.
func splitMeta(assigns []assignment) ([]assignment, metaVars) {
	var pooled []assignment
	var m metaVars
	for _, a := range assigns {
		var dst *[]string
		switch a.name {
		case varKernelsToLoad:
			dst = &m.kernels
		case varPathSymbols:
			dst = &m.symbols
		case varPathValues:
			dst = &m.values
		default:
			pooled = append(pooled, a)
			continue
		}
		if !a.appendTo {
			*dst = nil
		}
		*dst = append(*dst, a.strings...)
	}
	return pooled, m
}

// loadMeta loads the kernels named by a meta-kernel, in order, stopping at
// the first failure. Callers hold e.mu.
func (e *Engine) loadMeta(k Kernel, m metaVars) {
	path := k.Path
	if slices.Contains(e.loading, path) {
		e.signal(fail(codeRecursiveLoading,
			`The meta-kernel "%s" is already being loaded; a meta-kernel may not load itself.`, path))
		return
	}
	if len(m.symbols) != len(m.values) {
		e.signal(fail(codePathMismatch,
			`The meta-kernel "%s" defines %d PATH_SYMBOLS but %d PATH_VALUES.`, path, len(m.symbols), len(m.values)))
		return
	}

	e.loading = append(e.loading, path)
	defer func() { e.loading = e.loading[:len(e.loading)-1] }()

	for _, name := range joinContinued(m.kernels) {
		file, missing, ok := substitute(name, m.symbols, m.values)
		if !ok {
			e.signal(fail(codeNoTranslation,
				`The path symbol '$%s' used in KERNELS_TO_LOAD of the meta-kernel "%s" has no translation.`, missing, path))
			return
		}
		e.load(trimName(file), &k)
		if e.failed {
			return
		}
	}
}

// joinContinued joins entries ending in '+' with the entry that follows.
func joinContinued(entries []string) []string {
	var out []string
	var cur strings.Builder
	pending := false
	for _, s := range entries {
		if strings.HasSuffix(s, "+") {
			cur.WriteString(strings.TrimSuffix(s, "+"))
			pending = true
			continue
		}
		cur.WriteString(s)
		out = append(out, cur.String())
		cur.Reset()
		pending = false
	}
	if pending {
		out = append(out, cur.String())
	}
	return out
}

// substitute replaces each $SYMBOL in name with its PATH_VALUES entry.
// On failure it returns the symbol that has no translation.
func substitute(name string, symbols, values []string) (string, string, bool) {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] != '$' {
			b.WriteByte(name[i])
			continue
		}
		j := i + 1
		for j < len(name) && isSymbolChar(name[j]) {
			j++
		}
		sym := name[i+1 : j]
		idx := slices.Index(symbols, sym)
		if idx < 0 {
			return "", sym, false
		}
		b.WriteString(values[idx])
		i = j - 1
	}
	return b.String(), "", true
}

func isSymbolChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
