package pool

/*
Package pool provides the text kernel parser of the native toolkit engine.

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
	"strconv"
	"strings"
)

// Text kernel layout:
//
// Only lines between a "\begindata" marker and the next "\begintext" marker
// carry data; everything else is commentary. Markers must stand alone on
// their line. Data is a sequence of assignments:
//
//	NAME  = value
//	NAME  = ( value, value
//	          value )
//	NAME += ( value )
//
// Values are numbers (Fortran D exponents allowed), single-quoted strings
// ('' inside a string is a literal quote) or @-prefixed calendar dates, which
// are kept as strings without the '@'. Commas and blanks both separate list
// items. One assignment holds values of a single type. "+=" appends to an
// existing variable of the same type or creates it.

const (
	beginData = `\begindata`
	beginText = `\begintext`

	// maxVarName is the longest kernel variable name accepted.
	maxVarName = 32
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokAssign
	tokAppend
	tokOpen
	tokClose
	tokNumber
	tokString
)

type token struct {
	kind tokenKind
	text string
	num  float64
	line int
}

// assignment is one parsed NAME = values statement.
type assignment struct {
	name     string
	appendTo bool
	numbers  []float64
	strings  []string
	line     int
}

// parseText extracts the assignments of a text kernel.
func parseText(path string, data []byte) ([]assignment, error) {
	toks, err := tokenize(path, string(data))
	if err != nil {
		return nil, err
	}

	var out []assignment
	for i := 0; i < len(toks); {
		name := toks[i]
		if name.kind != tokName {
			return nil, badAssign(path, name.line, "Expected a variable name but found '%s'.", name.text)
		}
		if len(name.text) > maxVarName {
			return nil, fail(codeBadVarName,
				`The variable name "%s" on line %d of the text kernel "%s" is longer than %d characters.`,
				name.text, name.line, path, maxVarName)
		}
		i++
		if i >= len(toks) || (toks[i].kind != tokAssign && toks[i].kind != tokAppend) {
			return nil, badAssign(path, name.line, "The variable %s is not followed by '=' or '+='.", name.text)
		}
		a := assignment{name: name.text, appendTo: toks[i].kind == tokAppend, line: name.line}
		i++
		if i >= len(toks) {
			return nil, badAssign(path, name.line, "The assignment to %s has no value.", name.text)
		}

		var vals []token
		if toks[i].kind == tokOpen {
			i++
			for i < len(toks) && toks[i].kind != tokClose {
				vals = append(vals, toks[i])
				i++
			}
			if i >= len(toks) {
				return nil, badAssign(path, name.line, "The value list of %s is missing its closing parenthesis.", name.text)
			}
			i++
		} else {
			vals = append(vals, toks[i])
			i++
		}
		if len(vals) == 0 {
			return nil, badAssign(path, name.line, "The assignment to %s has no value.", name.text)
		}

		for _, v := range vals {
			switch v.kind {
			case tokNumber:
				a.numbers = append(a.numbers, v.num)
			case tokString:
				a.strings = append(a.strings, v.text)
			default:
				return nil, badAssign(path, v.line, "'%s' is not a valid value for %s.", v.text, name.text)
			}
		}
		if len(a.numbers) > 0 && len(a.strings) > 0 {
			return nil, fail(codeTypeMismatch,
				`The assignment to %s on line %d of the text kernel "%s" mixes numeric and string values.`,
				name.text, name.line, path)
		}
		out = append(out, a)
	}
	return out, nil
}

func badAssign(path string, line int, format string, args ...any) error {
	f := fail(codeBadVarAssign, format, args...)
	f.long = "A kernel variable assignment on line " + strconv.Itoa(line) +
		` of the text kernel "` + path + `" could not be parsed. ` + f.long
	return f
}

// tokenize splits the data sections of a text kernel into tokens.
func tokenize(path, src string) ([]token, error) {
	var toks []token
	inData := false
	for n, line := range strings.Split(src, "\n") {
		lineNo := n + 1
		line = strings.TrimRight(line, "\r")
		switch strings.TrimSpace(line) {
		case beginData:
			inData = true
			continue
		case beginText:
			inData = false
			continue
		}
		if !inData {
			continue
		}

		for i := 0; i < len(line); {
			c := line[i]
			switch {
			case c == ' ' || c == '\t' || c == ',':
				i++
			case c == '=':
				toks = append(toks, token{kind: tokAssign, text: "=", line: lineNo})
				i++
			case c == '+' && i+1 < len(line) && line[i+1] == '=':
				toks = append(toks, token{kind: tokAppend, text: "+=", line: lineNo})
				i += 2
			case c == '(':
				toks = append(toks, token{kind: tokOpen, text: "(", line: lineNo})
				i++
			case c == ')':
				toks = append(toks, token{kind: tokClose, text: ")", line: lineNo})
				i++
			case c == '\'':
				s, next, ok := quoted(line, i)
				if !ok {
					return nil, badAssign(path, lineNo, "A quoted string is not terminated.")
				}
				toks = append(toks, token{kind: tokString, text: s, line: lineNo})
				i = next
			default:
				j := i
				for j < len(line) && !strings.ContainsRune(" \t,=()'", rune(line[j])) &&
					!(line[j] == '+' && j+1 < len(line) && line[j+1] == '=') {
					j++
				}
				toks = append(toks, bare(line[i:j], lineNo))
				i = j
			}
		}
	}
	return toks, nil
}

// quoted reads a single-quoted string starting at line[start].
func quoted(line string, start int) (string, int, bool) {
	var b strings.Builder
	for i := start + 1; i < len(line); i++ {
		if line[i] != '\'' {
			b.WriteByte(line[i])
			continue
		}
		if i+1 < len(line) && line[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), i + 1, true
	}
	return "", len(line), false
}

// bare classifies an unquoted word as a number, a date or a name.
func bare(word string, line int) token {
	if strings.HasPrefix(word, "@") && len(word) > 1 {
		return token{kind: tokString, text: word[1:], line: line}
	}
	if isDecimal(word) {
		if v, err := strconv.ParseFloat(strings.NewReplacer("D", "E", "d", "e").Replace(word), 64); err == nil {
			return token{kind: tokNumber, text: word, num: v, line: line}
		}
	}
	return token{kind: tokName, text: word, line: line}
}

// isDecimal reports whether word is a decimal number with an optional E or D
// exponent. ParseFloat alone would also take INF, NaN and hex floats.
func isDecimal(word string) bool {
	i := 0
	if i < len(word) && (word[i] == '+' || word[i] == '-') {
		i++
	}
	digits, dot := 0, false
	for ; i < len(word); i++ {
		c := word[i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
	}
	if digits == 0 {
		return false
	}
	if i == len(word) {
		return true
	}
	if !strings.ContainsRune("EeDd", rune(word[i])) {
		return false
	}
	i++
	if i < len(word) && (word[i] == '+' || word[i] == '-') {
		i++
	}
	if i == len(word) {
		return false
	}
	for ; i < len(word); i++ {
		if word[i] < '0' || word[i] > '9' {
			return false
		}
	}
	return true
}

// applyAssignments merges assignments into vars in order.
func applyAssignments(vars map[string]*Variable, assigns []assignment) error {
	for _, a := range assigns {
		cur, ok := vars[a.name]
		if !a.appendTo || !ok {
			vars[a.name] = &Variable{
				Name:    a.name,
				Numbers: append([]float64(nil), a.numbers...),
				Strings: append([]string(nil), a.strings...),
			}
			continue
		}
		if (len(cur.Numbers) > 0 && len(a.strings) > 0) || (len(cur.Strings) > 0 && len(a.numbers) > 0) {
			return fail(codeTypeMismatch,
				"The values appended to %s on line %d do not match the type of its existing values.", a.name, a.line)
		}
		cur.Numbers = append(cur.Numbers, a.numbers...)
		cur.Strings = append(cur.Strings, a.strings...)
	}
	return nil
}

// cloneVars deep-copies the pool so a failed load leaves it untouched.
func cloneVars(vars map[string]*Variable) map[string]*Variable {
	out := make(map[string]*Variable, len(vars))
	for name, v := range vars {
		out[name] = &Variable{
			Name:    v.Name,
			Numbers: append([]float64(nil), v.Numbers...),
			Strings: append([]string(nil), v.Strings...),
		}
	}
	return out
}
