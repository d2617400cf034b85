// Package cli implements the gridmerge command-line interface.
//
// The CLI is a thin caller of the gridmerge library: it decodes tile files,
// merges them and encodes the canvas. It is built on cobra and logs through
// charmbracelet/log; the same logger is installed into the library so engine
// timings show up with --verbose.
//
// # Commands
//
//   - merge: merge tile images into one grid image
//   - plan: print the layout for a tile count without touching pixels
//   - version: print the version
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gogpu/gridmerge"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stderr  io.Writer
	closers []io.Closer
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases log files opened by --log-file and detaches the library
// logger.
func (c *CLI) Close() error {
	gridmerge.SetLogger(nil)
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gridmerge",
		Short:        "Merge same-size images into one grid image",
		Long:         `gridmerge places many same-size tile images on a grid and writes them out as a single image. Tiles are copied in parallel, row by row, without resizing or blending.`,
		Version:      gridmerge.Version,
		SilenceUsage: true,
	}

	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// startRun tags the logger with a fresh run id and installs it as the
// library logger.
func (c *CLI) startRun() *log.Logger {
	l := c.Logger.With("run", uuid.NewString()[:8])
	gridmerge.SetLogger(slog.New(l))
	return l
}
