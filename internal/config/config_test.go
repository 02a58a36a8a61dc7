package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
kernels:
  - naif0012.tls
  - /data/spk/de440.bsp
  - sub/mission.tm
keep_going: true
log_level: debug
`)
	dir := filepath.Dir(path)

	s, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "naif0012.tls"),
		"/data/spk/de440.bsp",
		filepath.Join(dir, "sub", "mission.tm"),
	}, s.Kernels)
	assert.True(t, s.KeepGoing)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, zapcore.DebugLevel, s.Level())
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(writeConfig(t, "kernels: []\n"))

	require.NoError(t, err)
	assert.Empty(t, s.Kernels)
	assert.False(t, s.KeepGoing)
	assert.Equal(t, DefaultLogLevel, s.LogLevel)
	assert.Equal(t, zapcore.InfoLevel, s.Level())
}

func TestLoad_BlankKernelKeptAsIs(t *testing.T) {
	s, err := Load(writeConfig(t, "kernels: ['']\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{""}, s.Kernels)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.ErrorCode
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
			code: errors.CodeNotFound,
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
			code: errors.CodeInvalidConfig,
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string { return writeConfig(t, "kernels: [a, b\n") },
			code: errors.CodeInvalidConfig,
		},
		{
			name: "wrong type",
			path: func(t *testing.T) string { return writeConfig(t, "kernels: 5\n") },
			code: errors.CodeInvalidConfig,
		},
		{
			name: "unknown log level",
			path: func(t *testing.T) string { return writeConfig(t, "log_level: chatty\n") },
			code: errors.CodeInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoad_UnknownLogLevelCarriesPath(t *testing.T) {
	path := writeConfig(t, "log_level: chatty\n")

	_, err := Load(path)

	var pe errors.PlatformError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Context()["path"])
	assert.Contains(t, err.Error(), "chatty")
}
