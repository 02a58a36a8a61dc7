// ./internal/pool/binary_reader.go
package pool

/*
Package pool provides helper functions for reading binary kernel data.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.

Authorship:
Mohammad Shafiee authored this Go code.
*/

import (
	"encoding/binary"
	"io"
	"math"
)

// fileByteOrder is the byte order JPL DE files are written in on the
// platforms NAIF distributes them for. Files in the other order are detected
// from their header and read with swappedOrder instead.
var fileByteOrder binary.ByteOrder = binary.LittleEndian

// swappedOrder returns the byte order opposite to order.
func swappedOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.ByteOrder(binary.BigEndian) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// readFloat64s reads len(dst) doubles from r in the given byte order.
func readFloat64s(r io.Reader, order binary.ByteOrder, dst []float64) error {
	return binary.Read(r, order, dst)
}

// uint32At decodes a uint32 at b[off:off+4].
func uint32At(b []byte, off int, order binary.ByteOrder) uint32 {
	return order.Uint32(b[off : off+4])
}

// float64At decodes a double at b[off:off+8].
func float64At(b []byte, off int, order binary.ByteOrder) float64 {
	return math.Float64frombits(order.Uint64(b[off : off+8]))
}
