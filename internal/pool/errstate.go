package pool

/*
Package pool provides the error subsystem of the native toolkit engine.

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
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error actions understood by Erract.
const (
	ActionAbort   = "ABORT"
	ActionReturn  = "RETURN"
	ActionReport  = "REPORT"
	ActionIgnore  = "IGNORE"
	ActionDefault = "DEFAULT"
)

// Short error codes signalled by the engine.
const (
	codeEmptyString       = "SPICE(EMPTYSTRING)"
	codeBlankFileName     = "SPICE(BLANKFILENAME)"
	codeNoSuchFile        = "SPICE(NOSUCHFILE)"
	codeFileOpenFailed    = "SPICE(FILEOPENFAILED)"
	codeFileReadFailed    = "SPICE(FILEREADFAILED)"
	codeUnknownKernelType = "SPICE(UNKNOWNKERNELTYPE)"
	codeInvalidFormat     = "SPICE(INVALIDFORMAT)"
	codeBadVarAssign      = "SPICE(BADVARASSIGN)"
	codeBadVarName        = "SPICE(BADVARNAME)"
	codeTypeMismatch      = "SPICE(TYPEMISMATCH)"
	codeNoTranslation     = "SPICE(NOTRANSLATION)"
	codePathMismatch      = "SPICE(PATHMISMATCH)"
	codeRecursiveLoading  = "SPICE(RECURSIVELOADING)"
	codeInvalidAction     = "SPICE(INVALIDACTION)"
	codeInvalidOperation  = "SPICE(INVALIDOPERATION)"
	codeInvalidMsgType    = "SPICE(INVALIDMSGTYPE)"
)

// explanations holds the EXPLAIN text for each short code the engine signals.
var explanations = map[string]string{
	codeEmptyString:       "Input string is empty",
	codeBlankFileName:     "File name is blank",
	codeNoSuchFile:        "No file by that name exists",
	codeFileOpenFailed:    "The file could not be opened",
	codeFileReadFailed:    "The file could not be read",
	codeUnknownKernelType: "The file is not a recognized kernel type",
	codeInvalidFormat:     "The file contents are not in the expected format",
	codeBadVarAssign:      "A kernel variable assignment is malformed",
	codeBadVarName:        "A kernel variable name is invalid",
	codeTypeMismatch:      "Values of different types were assigned to one variable",
	codeNoTranslation:     "A path symbol has no translation",
	codePathMismatch:      "PATH_SYMBOLS and PATH_VALUES differ in length",
	codeRecursiveLoading:  "A meta-kernel loads itself",
	codeInvalidAction:     "Invalid error action",
	codeInvalidOperation:  "Invalid operation",
	codeInvalidMsgType:    "Invalid message type",
}

// Abort is the panic value raised when a failure is signalled while the
// error action is ABORT or DEFAULT.
type Abort struct {
	Short string
	Long  string
}

func (a *Abort) Error() string {
	return fmt.Sprintf("%s -- %s", a.Short, a.Long)
}

// failure is a toolkit error produced by a loading helper, waiting to be
// signalled by the engine.
type failure struct {
	short string
	long  string
}

func (f *failure) Error() string {
	return f.short + ": " + f.long
}

func fail(short, format string, args ...any) *failure {
	return &failure{short: short, long: fmt.Sprintf(format, args...)}
}

// Erract sets the error action when op is SET. GET is accepted and ignored;
// use Action to read the current action. lenout is unused by the engine.
func (e *Engine) Erract(op string, lenout int, action string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch strings.ToUpper(strings.TrimSpace(op)) {
	case "GET":
		return
	case "SET":
	default:
		e.signal(fail(codeInvalidOperation,
			"The operation '%s' is not recognized. Valid operations are 'GET' and 'SET'.", op))
		return
	}

	a := strings.ToUpper(strings.TrimSpace(action))
	switch a {
	case ActionAbort, ActionReturn, ActionReport, ActionIgnore, ActionDefault:
		e.action = a
	default:
		e.signal(fail(codeInvalidAction,
			"The action specified, '%s', is not one of ABORT, RETURN, REPORT, IGNORE or DEFAULT.", action))
	}
}

// Action returns the current error action.
func (e *Engine) Action() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.action
}

// Failed reports whether an error was signalled and not yet reset.
func (e *Engine) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failed
}

// Getmsg returns the SHORT, LONG or EXPLAIN message of the current error,
// truncated to lenout-1 characters. An unknown option signals
// SPICE(INVALIDMSGTYPE) and returns "".
func (e *Engine) Getmsg(option string, lenout int) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var msg string
	switch strings.ToUpper(strings.TrimSpace(option)) {
	case "SHORT":
		msg = e.short
	case "LONG":
		msg = e.long
	case "EXPLAIN":
		msg = explanations[e.short]
	default:
		e.signal(fail(codeInvalidMsgType,
			"The option '%s' is not one of SHORT, LONG or EXPLAIN.", option))
		return ""
	}
	return truncate(msg, lenout-1)
}

// Reset clears the failure flag and the stored messages.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = false
	e.short = ""
	e.long = ""
}

// signal records f according to the current action. The first failure
// signalled since the last Reset keeps its messages. Callers hold e.mu.
func (e *Engine) signal(f *failure) {
	if e.action == ActionIgnore {
		return
	}
	if !e.failed {
		e.failed = true
		e.short = f.short
		e.long = f.long
	}
	if e.action == ActionAbort || e.action == ActionDefault {
		panic(&Abort{Short: e.short, Long: e.long})
	}
}

// returnMode reports whether loading entry points must return without
// doing anything. Callers hold e.mu.
func (e *Engine) returnMode() bool {
	return e.failed && e.action == ActionReturn
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
