package spice

/*
Package spice provides constants for driving the toolkit error subsystem.

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

// MaxLenOut is the output buffer length handed to the toolkit when setting the
// error action and when retrieving messages. It includes room for the C string
// terminator, so retrieved messages hold at most MaxLenOut-1 characters.
const MaxLenOut = 256

// Operations accepted by Toolkit.Erract.
const (
	ErractSet = "SET" // Set the error action
	ErractGet = "GET" // Read back the error action
)

// Error actions accepted by Toolkit.Erract.
const (
	ActionAbort   = "ABORT"   // Print messages and stop the program
	ActionReturn  = "RETURN"  // Record the failure and return from toolkit routines immediately
	ActionReport  = "REPORT"  // Record the failure and keep executing
	ActionIgnore  = "IGNORE"  // Do not record the failure at all
	ActionDefault = "DEFAULT" // Same as ABORT
)

// Message options accepted by Toolkit.Getmsg.
const (
	MsgShort   = "SHORT"   // Machine-matchable code, e.g. SPICE(NOSUCHFILE)
	MsgLong    = "LONG"    // Human-readable diagnostic
	MsgExplain = "EXPLAIN" // One-line explanation of the short code
)

// Short error codes this package classifies. Any other code maps to Unknown.
const (
	CodeNoSuchFile     = "SPICE(NOSUCHFILE)"
	CodeEmptyString    = "SPICE(EMPTYSTRING)"
	CodeUnknownFrame   = "SPICE(UNKNOWNFRAME)"
	CodeIDCodeNotFound = "SPICE(IDCODENOTFOUND)"
)
