// ./internal/config/config.go
package config

/*
Package config reads the kernel list and run options of the kload command.

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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultLogLevel is used when the file does not set log_level.
const DefaultLogLevel = "info"

// Settings is the content of a kload configuration file.
// Field names match snake_case YAML keys.
type Settings struct {
	Kernels   []string `yaml:"kernels"`
	KeepGoing bool     `yaml:"keep_going"`
	LogLevel  string   `yaml:"log_level"`
}

// Load reads the YAML file at path.
//
// Relative kernel paths are resolved against the directory holding the file,
// so a configuration can sit next to the kernels it names. Kernel names are
// otherwise passed on untouched, including blank ones.
//
// Errors:
//   - CodeNotFound if the file does not exist.
//   - CodeInvalidConfig if it cannot be read, parsed or validated.
func Load(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, errors.Wrapf(err, errors.CodeNotFound, "config file %s not found", path)
		}
		return Settings{}, errors.Wrapf(err, errors.CodeInvalidConfig, "read config file %s", path)
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, errors.Wrapf(err, errors.CodeInvalidConfig, "parse config file %s", path)
	}
	if err := s.validate(); err != nil {
		return Settings{}, errors.WithContext(err, "path", path)
	}

	dir := filepath.Dir(path)
	for i, k := range s.Kernels {
		if strings.TrimSpace(k) != "" && !filepath.IsAbs(k) {
			s.Kernels[i] = filepath.Join(dir, k)
		}
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return errors.Newf(errors.CodeInvalidConfig, "unknown log_level %q", s.LogLevel)
	}
	return nil
}

// Level returns the configured log level.
func (s Settings) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(s.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
