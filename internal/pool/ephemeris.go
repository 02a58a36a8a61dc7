// ./internal/pool/ephemeris.go
package pool

/*
Package pool provides the JPL DE binary ephemeris header reader.

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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// File structure notes:
//
// Bytes 0-251:     Three 84-byte title lines; the first reads
//                  "JPL Planetary Ephemeris DExxx/LExxx" (or "INPOPxx...").
// Bytes 252-2651:  Names of constants 0-399, 6 bytes each.
// Bytes 2652-2855: Numerical header (headerSize bytes):
//                  start JED, end JED, step (days) as doubles,
//                  ncon as uint32, AU in km and Earth/Moon mass ratio as
//                  doubles, then 40 uint32: ipt[0..11] (36 values), the DE
//                  number and the lunar libration pointers (3 values).
// Bytes 2856-:     Names of constants 400 and up, then ipt[13..14] for
//                  DE430 and later.
// Byte recsize:    ncon constant values as doubles.
//
// Only the header is read; the Chebyshev records that follow are not.

const (
	deTitlePrefix    = "JPL Planetary Ephemeris"
	inpopTitlePrefix = "INPOP"

	titleSize     = 84
	headerOffset  = 2652
	headerSize    = 5*8 + 41*4 // Numerical header, including ncon
	namesOffset   = titleSize * 3
	extraNamesOff = namesOffset + 400*6 + headerSize

	// Earth/Moon mass ratio bounds of every published DE; a value outside
	// them means the header is not what it claims to be.
	minEMRat = 81.30055
	maxEMRat = 81.3008

	// A constant count above this means the file is in the other byte order.
	maxPlausibleNcon = 65536
)

// Ephemeris summarizes the header of a JPL DE binary ephemeris.
type Ephemeris struct {
	Name      string             // Ephemeris name from the title, e.g. "DE405/LE405"
	Version   int64              // DE number, e.g. 405
	StartJD   float64            // First Julian Ephemeris Date covered
	EndJD     float64            // Last Julian Ephemeris Date covered
	StepDays  float64            // Span of one data record in days
	AU        float64            // Astronomical unit in km
	EMRat     float64            // Earth/Moon mass ratio
	RecSize   uint32             // Data record size in bytes
	Swapped   bool               // File is in the non-native byte order
	Constants map[string]float64 // Named header constants
}

// quantityDimension returns the number of components of quantity idx in the
// ipt table: nutations have two, TT-TDB one, everything else three.
func quantityDimension(idx int) uint32 {
	switch idx {
	case 11:
		return 2
	case 14:
		return 1
	default:
		return 3
	}
}

// readEphemeris reads and checks the header of a JPL DE binary ephemeris.
// Any structural problem is reported as SPICE(INVALIDFORMAT).
func readEphemeris(path string) (*Ephemeris, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(codeFileOpenFailed, `The file "%s" could not be opened: %v`, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fail(codeFileReadFailed, `The file "%s" could not be read: %v`, path, err)
	}
	eph, err := decodeEphemeris(f, info.Size())
	if err != nil {
		return nil, fail(codeInvalidFormat, `The JPL ephemeris file "%s" has an invalid header: %v`, path, err)
	}
	return eph, nil
}

// decodeEphemeris reads the header from r, a file of size bytes. Every count
// taken from the header is checked against size before anything is allocated.
func decodeEphemeris(r io.ReadSeeker, size int64) (*Ephemeris, error) {
	title := make([]byte, titleSize)
	if _, err := io.ReadFull(r, title); err != nil {
		return nil, fmt.Errorf("read title failed: %w", err)
	}
	if _, err := r.Seek(headerOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to header failed: %w", err)
	}
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read header failed: %w", err)
	}

	order := fileByteOrder
	ncon := uint32At(header, 24, order)
	if ncon > maxPlausibleNcon {
		order = swappedOrder(order)
		ncon = uint32At(header, 24, order)
	}
	if ncon > maxPlausibleNcon {
		return nil, fmt.Errorf("implausible constant count %d", ncon)
	}

	eph := &Ephemeris{
		StartJD:  float64At(header, 0, order),
		EndJD:    float64At(header, 8, order),
		StepDays: float64At(header, 16, order),
		AU:       float64At(header, 28, order),
		EMRat:    float64At(header, 36, order),
		Swapped:  order != fileByteOrder,
	}

	name, version, err := parseTitle(title)
	if err != nil {
		return nil, err
	}
	eph.Name = name
	eph.Version = version

	if eph.EMRat > maxEMRat || eph.EMRat < minEMRat {
		return nil, fmt.Errorf("Earth/Moon mass ratio out of range: %f", eph.EMRat)
	}
	if eph.EndJD <= eph.StartJD || eph.StepDays <= 0 {
		return nil, fmt.Errorf("bad time coverage: %f to %f step %f", eph.StartJD, eph.EndJD, eph.StepDays)
	}

	var ipt [15][3]uint32
	for i := 0; i < 40; i++ {
		ipt[i/3][i%3] = uint32At(header, 44+i*4, order)
	}
	// The 37th value is the DE number; the libration pointers follow it.
	ipt[12][0] = ipt[12][1]
	ipt[12][1] = ipt[12][2]
	ipt[12][2] = ipt[13][0]
	ipt[13][0] = 0

	if version >= 430 && ncon != 400 {
		if ncon > 400 {
			if _, err := r.Seek(int64(ncon-400)*6, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("seek past constant names failed: %w", err)
			}
		}
		extra := make([]byte, 6*4)
		if _, err := io.ReadFull(r, extra); err != nil {
			return nil, fmt.Errorf("read ipt[13..14] failed: %w", err)
		}
		for i := 0; i < 6; i++ {
			ipt[13+i/3][i%3] = uint32At(extra, i*4, order)
		}
	}
	// ipt[13..14] only count when they continue the table.
	if ipt[13][0] != ipt[12][0]+ipt[12][1]*ipt[12][2]*3 ||
		ipt[14][0] != ipt[13][0]+ipt[13][1]*ipt[13][2]*3 {
		ipt[13], ipt[14] = [3]uint32{}, [3]uint32{}
	}

	// Sizes are summed in uint64; each product of two uint32 fits, and any
	// term larger than the file is rejected before it can grow further.
	kernelSize := uint64(4)
	for i := 0; i < 15; i++ {
		coeffs := uint64(ipt[i][1]) * uint64(ipt[i][2])
		if coeffs > uint64(size) {
			return nil, fmt.Errorf("ipt[%d] claims %d coefficients in a %d-byte file", i, coeffs, size)
		}
		kernelSize += 2 * coeffs * uint64(quantityDimension(i))
	}
	recSize := kernelSize * 4
	if recSize > math.MaxUint32 {
		return nil, fmt.Errorf("record size %d out of range", recSize)
	}
	if need := recSize + uint64(ncon)*8; need > uint64(size) {
		return nil, fmt.Errorf("header needs %d bytes but the file has %d", need, size)
	}
	eph.RecSize = uint32(recSize)

	consts, err := readConstants(r, order, ncon, eph.RecSize)
	if err != nil {
		return nil, err
	}
	eph.Constants = consts
	return eph, nil
}

// parseTitle extracts the ephemeris name and DE number from the first title line.
func parseTitle(title []byte) (string, int64, error) {
	nameStart, nameEnd, verStart := 24, 54, 26
	if bytes.HasPrefix(title, []byte(inpopTitlePrefix)) {
		nameStart, nameEnd, verStart = 0, 30, 5
	} else if !bytes.HasPrefix(title, []byte(deTitlePrefix)) {
		return "", 0, errors.New("title is not a JPL ephemeris title")
	}

	verStr := strings.TrimLeft(string(title[verStart:nameEnd]), " ")
	i := 0
	for i < len(verStr) && verStr[i] >= '0' && verStr[i] <= '9' {
		i++
	}
	version, err := strconv.ParseInt(verStr[:i], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("parse DE version from %q failed: %w", verStr, err)
	}

	nameBytes := title[nameStart:nameEnd]
	if nul := bytes.IndexByte(nameBytes, 0); nul != -1 {
		nameBytes = nameBytes[:nul]
	}
	name := ""
	if parts := strings.Fields(string(nameBytes)); len(parts) > 0 {
		name = parts[0]
	}
	return name, version, nil
}

// readConstants reads the names and values of the header constants.
func readConstants(r io.ReadSeeker, order binary.ByteOrder, ncon, recsize uint32) (map[string]float64, error) {
	if ncon == 0 {
		return map[string]float64{}, nil
	}
	names := make([]string, ncon)
	buf := make([]byte, 6)
	for i := uint32(0); i < ncon; i++ {
		off := int64(namesOffset) + int64(i)*6
		if i >= 400 {
			off = int64(extraNamesOff) + int64(i-400)*6
		}
		if _, err := r.Seek(off, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to constant name %d failed: %w", i, err)
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read constant name %d failed: %w", i, err)
		}
		names[i] = strings.TrimRight(string(buf), " \x00")
	}

	if _, err := r.Seek(int64(recsize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to constant values failed: %w", err)
	}
	vals := make([]float64, ncon)
	if err := readFloat64s(r, order, vals); err != nil {
		return nil, fmt.Errorf("read constant values failed: %w", err)
	}

	consts := make(map[string]float64, ncon)
	for i, n := range names {
		if n != "" {
			consts[n] = vals[i]
		}
	}
	return consts, nil
}
