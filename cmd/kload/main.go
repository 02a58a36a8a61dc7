// ./cmd/kload/main.go
package main

/*
Command kload loads SPICE kernels and reports each failure by kind.

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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mshafiee/spice"
	"github.com/mshafiee/spice/internal/config"
)

// errLoadFailed is returned once the failures have already been logged.
var errLoadFailed = errors.New("kernel loading failed")

// kernelLoader is satisfied by *spice.Loader.
type kernelLoader interface {
	LoadKernel(path string) error
}

// cli holds what the commands share. Tests replace loader and logger.
type cli struct {
	out    io.Writer
	loader kernelLoader
	logger *zap.Logger

	configPath string
	keepGoing  bool
	verbose    bool
}

func main() {
	c := &cli{out: os.Stdout, loader: spice.NewLoader(spice.DefaultToolkit())}
	if err := c.rootCmd().Execute(); err != nil {
		if !errors.Is(err, errLoadFailed) {
			fmt.Fprintf(os.Stderr, "kload: %v\n", err)
		}
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kload [flags] [kernel...]",
		Short: "Load SPICE kernels and report failures",
		Long: `kload loads each kernel or meta-kernel in turn, kernels named in the
configuration file first, then those given as arguments.

Every load is logged with its outcome. A failed load is logged with its
kind (EmptyString, NoSuchFile, UnknownFrame, IDCodeNotFound or Unknown) and
the toolkit's long message. kload stops at the first failure unless
--keep-going is set, and exits non-zero if any load failed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: c.runLoad,
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")
	root.Flags().StringVarP(&c.configPath, "config", "c", "", "YAML file listing kernels to load")
	root.Flags().BoolVarP(&c.keepGoing, "keep-going", "k", false, "Keep loading after a failure")

	root.AddCommand(c.classifyCmd())
	root.AddCommand(c.massesCmd())
	return root
}

// initLogger builds the production logger unless one was injected.
func (c *cli) initLogger(level zapcore.Level) error {
	if c.logger != nil {
		return nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	if c.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

func (c *cli) runLoad(cmd *cobra.Command, args []string) error {
	settings := config.Settings{LogLevel: config.DefaultLogLevel}
	if c.configPath != "" {
		s, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		settings = s
	}
	if err := c.initLogger(settings.Level()); err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()

	kernels := append(append([]string(nil), settings.Kernels...), args...)
	if len(kernels) == 0 {
		return errors.New("no kernels to load; name them as arguments or in --config")
	}
	keepGoing := c.keepGoing || settings.KeepGoing

	failed := 0
	for i, path := range kernels {
		c.logger.Debug("loading kernel", zap.String("path", path), zap.Int("index", i))
		err := c.loader.LoadKernel(path)
		if err == nil {
			c.logger.Info("kernel loaded", zap.String("path", path))
			continue
		}

		failed++
		var le spice.LoadError
		if errors.As(err, &le) {
			c.logger.Error("kernel load failed",
				zap.String("path", path),
				zap.Stringer("kind", le.Kind),
				zap.String("detail", le.Detail))
		} else {
			c.logger.Error("kernel load failed", zap.String("path", path), zap.Error(err))
		}
		if !keepGoing {
			break
		}
	}

	c.logger.Info("done",
		zap.Int("requested", len(kernels)),
		zap.Int("failed", failed))
	if failed > 0 {
		return errLoadFailed
	}
	return nil
}

func (c *cli) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <SHORT>",
		Short: "Print the failure kind for a toolkit short message",
		Long: `classify maps a short message such as SPICE(NOSUCHFILE) to the kind
LoadKernel reports for it. Matching is exact; anything outside the
classified set is Unknown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, spice.ParseKind(args[0]))
			return err
		},
	}
}
