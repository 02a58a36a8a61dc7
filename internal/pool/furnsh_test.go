package pool

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// deRecSize is the record size implied by the ipt table writeDE emits:
// (4 + 2*14*40*3) * 4 bytes.
const deRecSize = 13456

// writeDE writes a minimal JPL DE405-style binary header with three constants.
func writeDE(t *testing.T, dir, name string, order binary.ByteOrder, emrat float64) string {
	t.Helper()
	buf := make([]byte, deRecSize+3*8)
	copy(buf, "JPL Planetary Ephemeris DE405/LE405")
	copy(buf[titleSize:], "Start Epoch: JED=  2305424.5 1599 DEC 09 00:00:00")
	copy(buf[2*titleSize:], "Final Epoch: JED=  2525008.5 2201 FEB 20 00:00:00")
	for i, n := range []string{"DENUM ", "AU    ", "EMRAT "} {
		copy(buf[namesOffset+i*6:], n)
	}

	h := buf[headerOffset:]
	order.PutUint64(h[0:], math.Float64bits(2305424.5))
	order.PutUint64(h[8:], math.Float64bits(2525008.5))
	order.PutUint64(h[16:], math.Float64bits(32))
	order.PutUint32(h[24:], 3)
	order.PutUint64(h[28:], math.Float64bits(149597870.691))
	order.PutUint64(h[36:], math.Float64bits(emrat))
	order.PutUint32(h[44:], 3)
	order.PutUint32(h[48:], 14)
	order.PutUint32(h[52:], 40)
	order.PutUint32(h[44+36*4:], 405)

	for i, v := range []float64{405, 149597870.691, emrat} {
		order.PutUint64(buf[deRecSize+i*8:], math.Float64bits(v))
	}
	return writeFile(t, dir, name, string(buf))
}

func newReturning() *Engine {
	e := New()
	e.Erract("SET", 0, ActionReturn)
	return e
}

func TestFurnsh_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := writeFile(t, dir, "garbage.bin", "this is not a kernel at all")
	empty := writeFile(t, dir, "empty.bin", "")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty string", "", codeEmptyString},
		{"blank name", "    ", codeBlankFileName},
		{"missing file", "/nonexistent/path/kernel.bsp", codeNoSuchFile},
		{"directory", dir, codeFileOpenFailed},
		{"unrecognized contents", garbage, codeUnknownKernelType},
		{"empty file", empty, codeUnknownKernelType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newReturning()
			e.Furnsh(tt.path)
			require.True(t, e.Failed())
			assert.Equal(t, tt.want, e.Getmsg("SHORT", 256))
			assert.NotEmpty(t, e.Getmsg("LONG", 256))
			assert.Zero(t, e.Count())
		})
	}
}

func TestFurnsh_NoSuchFileMessageNamesPath(t *testing.T) {
	e := newReturning()
	e.Furnsh("/nonexistent/path/kernel.bsp")
	assert.Equal(t,
		`The attempt to load "/nonexistent/path/kernel.bsp" by the routine FURNSH failed. It could not be located.`,
		e.Getmsg("LONG", 256))
}

func TestFurnsh_BinaryKernelsAreRegistered(t *testing.T) {
	dir := t.TempDir()
	spk := writeFile(t, dir, "de.bsp", "DAF/SPK \x00\x00\x00")
	ck := writeFile(t, dir, "old.bc", "NAIF/DAF\x00\x00")
	dsk := writeFile(t, dir, "phobos.bds", "DAS/DSK ")

	e := newReturning()
	for _, p := range []string{spk, ck, dsk} {
		e.Furnsh(p)
		require.False(t, e.Failed(), e.Getmsg("LONG", 256))
	}

	loaded := e.Loaded()
	require.Len(t, loaded, 3)
	want := []struct{ path, arch, typ string }{
		{spk, ArchDAF, "SPK"},
		{ck, ArchDAF, "?"},
		{dsk, ArchDAS, "DSK"},
	}
	for i, w := range want {
		assert.Equal(t, w.path, loaded[i].Path)
		assert.Equal(t, w.arch, loaded[i].Arch)
		assert.Equal(t, w.typ, loaded[i].Type)
		assert.Empty(t, loaded[i].Source)
		assert.Nil(t, loaded[i].DE)
	}
}

func TestFurnsh_TrailingBlanksIgnored(t *testing.T) {
	dir := t.TempDir()
	lsk := writeFile(t, dir, "naif.tls", "KPL/LSK\n\\begindata\nDELTET/K = 1.657D-3\n")

	e := newReturning()
	e.Furnsh(lsk + "   ")

	require.False(t, e.Failed())
	assert.Equal(t, lsk, e.Loaded()[0].Path)
}

func TestFurnsh_ReloadMovesToEnd(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tpc", "KPL/PCK\n\\begindata\nBODY399_RADII = ( 6378.1366 6378.1366 6356.7519 )\n")
	b := writeFile(t, dir, "b.tls", "KPL/LSK\n\\begindata\nDELTET/K = 1.657D-3\n")

	e := newReturning()
	e.Furnsh(a)
	e.Furnsh(b)
	e.Furnsh(a)

	require.False(t, e.Failed())
	loaded := e.Loaded()
	require.Len(t, loaded, 2)
	assert.Equal(t, b, loaded[0].Path)
	assert.Equal(t, a, loaded[1].Path)
}

func TestFurnsh_JPLEphemeris(t *testing.T) {
	dir := t.TempDir()
	path := writeDE(t, dir, "lnxp1600p2200.405", binary.LittleEndian, 81.30056)

	e := newReturning()
	e.Furnsh(path)
	require.False(t, e.Failed(), e.Getmsg("LONG", 256))

	loaded := e.Loaded()
	require.Len(t, loaded, 1)
	k := loaded[0]
	assert.Equal(t, ArchDE, k.Arch)
	require.NotNil(t, k.DE)
	assert.Equal(t, "DE405/LE405", k.DE.Name)
	assert.Equal(t, int64(405), k.DE.Version)
	assert.Equal(t, 2305424.5, k.DE.StartJD)
	assert.Equal(t, 2525008.5, k.DE.EndJD)
	assert.Equal(t, 32.0, k.DE.StepDays)
	assert.Equal(t, uint32(deRecSize), k.DE.RecSize)
	assert.False(t, k.DE.Swapped)
	assert.Equal(t, map[string]float64{
		"DENUM": 405,
		"AU":    149597870.691,
		"EMRAT": 81.30056,
	}, k.DE.Constants)
}

func TestFurnsh_JPLEphemerisOtherByteOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeDE(t, dir, "unxp1600p2200.405", binary.BigEndian, 81.30056)

	e := newReturning()
	e.Furnsh(path)
	require.False(t, e.Failed(), e.Getmsg("LONG", 256))

	de := e.Loaded()[0].DE
	require.NotNil(t, de)
	assert.True(t, de.Swapped)
	assert.Equal(t, 149597870.691, de.AU)
	assert.Equal(t, 405.0, de.Constants["DENUM"])
}

// patchDE overwrites bytes of a written DE file at off.
func patchDE(t *testing.T, path string, off int, patch []byte) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	copy(b[off:], patch)
	require.NoError(t, os.WriteFile(path, b, 0o600))
}

func TestFurnsh_CorruptEphemeris(t *testing.T) {
	dir := t.TempDir()
	badRatio := writeDE(t, dir, "bad.405", binary.LittleEndian, 12.0)
	truncated := writeFile(t, dir, "short.405", "JPL Planetary Ephemeris DE405/LE405")

	// A constant count that is implausible in both byte orders.
	hugeNcon := writeDE(t, dir, "ncon.405", binary.BigEndian, 81.30056)
	patchDE(t, hugeNcon, headerOffset+24, []byte{0x7F, 0xFF, 0xFF, 0x7F})

	// ipt[0] coefficient counts whose product overflows 32 bits.
	hugeIpt := writeDE(t, dir, "ipt.405", binary.LittleEndian, 81.30056)
	patchDE(t, hugeIpt, headerOffset+48, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})

	// Constants that would lie past the end of the file.
	manyConsts := writeDE(t, dir, "consts.405", binary.LittleEndian, 81.30056)
	patchDE(t, manyConsts, headerOffset+24, []byte{0x00, 0x01, 0x00, 0x00})

	for _, p := range []string{badRatio, truncated, hugeNcon, hugeIpt, manyConsts} {
		e := newReturning()
		e.Furnsh(p)
		require.True(t, e.Failed())
		assert.Equal(t, codeInvalidFormat, e.Getmsg("SHORT", 256))
		assert.Zero(t, e.Count())
	}
}

func TestUnloadAndClear(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tpc", "KPL/PCK\n\\begindata\nBODY399_GM = 398600.435\n")
	b := writeFile(t, dir, "b.tpc", "KPL/PCK\n\\begindata\nBODY399_GM = 398600.4415\nBODY301_GM = 4902.8\n")

	e := newReturning()
	e.Furnsh(a)
	e.Furnsh(b)
	v, ok := e.Variable("BODY399_GM")
	require.True(t, ok)
	assert.Equal(t, []float64{398600.4415}, v.Numbers)

	e.Unload(b)
	assert.Equal(t, 1, e.Count())
	v, ok = e.Variable("BODY399_GM")
	require.True(t, ok)
	assert.Equal(t, []float64{398600.435}, v.Numbers, "pool is rebuilt from the remaining kernels")
	_, ok = e.Variable("BODY301_GM")
	assert.False(t, ok)

	e.Unload("/not/loaded.tpc")
	assert.Equal(t, 1, e.Count())

	e.Clear()
	assert.Zero(t, e.Count())
	_, ok = e.Variable("BODY399_GM")
	assert.False(t, ok)
}
