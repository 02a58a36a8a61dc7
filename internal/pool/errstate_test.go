package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsInAbortMode(t *testing.T) {
	e := New()
	assert.Equal(t, ActionAbort, e.Action())
	assert.False(t, e.Failed())
}

func TestErract(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		action string
		want   string
	}{
		{"set return", "SET", "RETURN", ActionReturn},
		{"lower case and blanks", " set ", " report ", ActionReport},
		{"ignore", "SET", "IGNORE", ActionIgnore},
		{"default", "SET", "DEFAULT", ActionDefault},
		{"get leaves action alone", "GET", "IGNORE", ActionReturn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.Erract("SET", 0, ActionReturn)
			e.Erract(tt.op, 256, tt.action)
			assert.Equal(t, tt.want, e.Action())
			assert.False(t, e.Failed())
		})
	}
}

func TestErract_InvalidActionSignals(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReturn)

	e.Erract("SET", 0, "EXPLODE")

	require.True(t, e.Failed())
	assert.Equal(t, codeInvalidAction, e.Getmsg("SHORT", 256))
	assert.Equal(t, ActionReturn, e.Action())
}

func TestErract_InvalidOperationSignals(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReturn)

	e.Erract("TOGGLE", 0, ActionReport)

	require.True(t, e.Failed())
	assert.Equal(t, codeInvalidOperation, e.Getmsg("SHORT", 256))
}

func TestSignal_AbortPanics(t *testing.T) {
	e := New()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		abort, ok := r.(*Abort)
		require.True(t, ok, "panic value should be *Abort, got %T", r)
		assert.Equal(t, codeEmptyString, abort.Short)
		assert.Contains(t, abort.Error(), codeEmptyString)
		assert.True(t, e.Failed())
	}()
	e.Furnsh("")
}

func TestSignal_IgnoreRecordsNothing(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionIgnore)

	e.Furnsh("")

	assert.False(t, e.Failed())
	assert.Empty(t, e.Getmsg("SHORT", 256))
}

func TestSignal_FirstErrorWins(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReport)

	e.Furnsh("")
	e.Furnsh("/nonexistent/path/kernel.bsp")

	require.True(t, e.Failed())
	assert.Equal(t, codeEmptyString, e.Getmsg("SHORT", 256))
}

func TestReturnMode_SkipsLoadsUntilReset(t *testing.T) {
	dir := t.TempDir()
	lsk := writeFile(t, dir, "naif.tls", "KPL/LSK\n\\begindata\nDELTET/DELTA_T_A = 32.184\n")

	e := New()
	e.Erract("SET", 0, ActionReturn)
	e.Furnsh("")
	require.True(t, e.Failed())

	e.Furnsh(lsk)
	assert.Equal(t, 0, e.Count(), "loads are skipped while an error is pending")
	assert.Equal(t, codeEmptyString, e.Getmsg("SHORT", 256))

	e.Reset()
	e.Furnsh(lsk)
	assert.False(t, e.Failed())
	assert.Equal(t, 1, e.Count())
}

func TestGetmsg(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReturn)
	e.Furnsh("")
	require.True(t, e.Failed())

	assert.Equal(t, codeEmptyString, e.Getmsg("SHORT", 256))
	assert.Equal(t, `String "file" has length zero.`, e.Getmsg("long", 256))
	assert.Equal(t, "Input string is empty", e.Getmsg("EXPLAIN", 256))
	assert.Equal(t, "SPICE(", e.Getmsg("SHORT", 7))
	assert.Empty(t, e.Getmsg("SHORT", 1))
	assert.Empty(t, e.Getmsg("SHORT", 0))
}

func TestGetmsg_InvalidOption(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReturn)

	assert.Empty(t, e.Getmsg("TRACEBACK", 256))
	require.True(t, e.Failed())
	assert.Equal(t, codeInvalidMsgType, e.Getmsg("SHORT", 256))
}

func TestReset_ClearsState(t *testing.T) {
	e := New()
	e.Erract("SET", 0, ActionReturn)
	e.Furnsh("")
	require.True(t, e.Failed())

	e.Reset()

	assert.False(t, e.Failed())
	assert.Empty(t, e.Getmsg("SHORT", 256))
	assert.Empty(t, e.Getmsg("LONG", 256))
	assert.Equal(t, ActionReturn, e.Action(), "reset does not change the action")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "hé", truncate("héllo", 2))
}
