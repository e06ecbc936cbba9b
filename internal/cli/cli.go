// Package cli implements the ptplot command-line interface.
//
// # Commands
//
//   - render: draw a plot spec over tracking data and write html, svg, png, json or dot
//   - play: play an animated plot in the terminal
//   - plan: draw the composition plan of a plot as a diagram
//   - filter: cut tracking data down to the rows between two events
//   - plots: list, show and remove renders saved with render --save
//   - cache: manage the render cache
//   - serve: run the HTTP render server
//   - ssh: serve the terminal player over SSH
//
// All commands accept --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/buildinfo"
	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/storage"
)

// appName names the cache and data directories.
const appName = "ptplot"

// envRedisURL selects a shared Redis render cache instead of the local one.
const envRedisURL = "PTPLOT_REDIS_URL"

// Log levels exported for main.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "ptplot draws and animates player-tracking plays",
		Long:         `ptplot turns player-tracking data into faceted, team-colored and animated plots of plays, described by a declarative plot spec.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.plotsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sshCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache returns the Redis cache named by PTPLOT_REDIS_URL, or the file
// cache under the user cache directory.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newPlotStore opens the local store for saved renders.
func newPlotStore() (*storage.FileStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(filepath.Join(dir, "plots"))
}

// cacheDir returns the cache directory per XDG (~/.cache/ptplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory per XDG (~/.local/share/ptplot/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
