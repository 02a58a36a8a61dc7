package spice

/*
Package spice provides typed errors for failed kernel loads.

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

import "errors"

// ErrEmptyString is the sentinel wrapped by a LoadError of kind EmptyString.
var ErrEmptyString = errors.New("kernel name is an empty string")

// ErrNoSuchFile is the sentinel wrapped by a LoadError of kind NoSuchFile.
var ErrNoSuchFile = errors.New("kernel file does not exist")

// ErrUnknownFrame is the sentinel wrapped by a LoadError of kind UnknownFrame.
var ErrUnknownFrame = errors.New("reference frame is not recognized")

// ErrIDCodeNotFound is the sentinel wrapped by a LoadError of kind IDCodeNotFound.
var ErrIDCodeNotFound = errors.New("body or frame ID code not found")

// ErrUnknown is the sentinel wrapped by a LoadError whose short code is not classified.
var ErrUnknown = errors.New("unclassified toolkit failure")

// Kind classifies the cause of a failed kernel load.
type Kind int

const (
	// Unknown is any short code outside the classified set, including codes
	// introduced by newer toolkit versions.
	Unknown Kind = iota
	// EmptyString means the kernel name was blank.
	EmptyString
	// NoSuchFile means the kernel file could not be located.
	NoSuchFile
	// UnknownFrame means a frame referenced by the kernel is not known.
	UnknownFrame
	// IDCodeNotFound means a body or frame name has no ID code.
	IDCodeNotFound
)

// shortCodes maps the exact short message emitted by the toolkit to its Kind.
var shortCodes = map[string]Kind{
	CodeNoSuchFile:     NoSuchFile,
	CodeEmptyString:    EmptyString,
	CodeUnknownFrame:   UnknownFrame,
	CodeIDCodeNotFound: IDCodeNotFound,
}

// ParseKind classifies a short error message by exact match.
// Unrecognized messages, including the empty string, yield Unknown.
func ParseKind(short string) Kind {
	if k, ok := shortCodes[short]; ok {
		return k
	}
	return Unknown
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case EmptyString:
		return "EmptyString"
	case NoSuchFile:
		return "NoSuchFile"
	case UnknownFrame:
		return "UnknownFrame"
	case IDCodeNotFound:
		return "IDCodeNotFound"
	default:
		return "Unknown"
	}
}

// Code returns the short message the kind is matched from, or "" for Unknown.
func (k Kind) Code() string {
	switch k {
	case EmptyString:
		return CodeEmptyString
	case NoSuchFile:
		return CodeNoSuchFile
	case UnknownFrame:
		return CodeUnknownFrame
	case IDCodeNotFound:
		return CodeIDCodeNotFound
	default:
		return ""
	}
}

// sentinel returns the package error value matching the kind.
func (k Kind) sentinel() error {
	switch k {
	case EmptyString:
		return ErrEmptyString
	case NoSuchFile:
		return ErrNoSuchFile
	case UnknownFrame:
		return ErrUnknownFrame
	case IDCodeNotFound:
		return ErrIDCodeNotFound
	default:
		return ErrUnknown
	}
}

// LoadError describes a kernel load the toolkit reported as failed.
// It is only built after the toolkit failure flag was observed set, and the
// toolkit error state has already been reset by the time a caller sees it.
type LoadError struct {
	// Kind is the classified cause.
	Kind Kind
	// Detail is the long-form message retrieved from the toolkit.
	Detail string
}

// Error returns the toolkit's long-form message unchanged.
func (e LoadError) Error() string {
	return e.Detail
}

// Unwrap returns the sentinel error for the kind, so that
// errors.Is(err, ErrNoSuchFile) and friends work on a LoadError.
func (e LoadError) Unwrap() error {
	return e.Kind.sentinel()
}
