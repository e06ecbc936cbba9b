package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/plot"
	"github.com/matzehuels/ptplot/pkg/plotspec"
)

type playOpts struct {
	spec     string
	frame    string
	headless bool
	noCache  bool
}

func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [tracking.csv]",
		Short: "Play an animated plot in the terminal",
		Long: `Play draws the plot described by --spec and plays it back in the terminal.
Space toggles playback, the arrow keys step one frame and tab switches
between facets.

With --headless the plot plays once from the start (or --frame) to the
last frame, logging every frame instead of drawing it.`,
		Example: `  ptplot play week1.csv --spec play56.toml
  ptplot play week1.csv --spec play56.toml --headless`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, spec, err := c.loadAndDraw(cmd.Context(), args[0], opts.spec, opts.noCache)
			if err != nil {
				return err
			}
			if opts.frame != "" {
				if err := pipeline.SeekFrame(res, opts.frame); err != nil {
					return err
				}
			}
			if opts.headless {
				return playHeadless(cmd.Context(), res)
			}
			title := spec.Title
			if title == "" {
				title = filepath.Base(args[0])
			}
			_, err = tea.NewProgram(NewPlayerModel(res, title), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "plot spec file (required)")
	cmd.Flags().StringVar(&opts.frame, "frame", "", "frame label to start at")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "play once without a terminal UI, logging frames")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the filter cache")
	_ = cmd.MarkFlagRequired("spec")
	completeSpec(cmd)

	return cmd
}

// loadAndDraw reads tracking data, applies the spec's filter and draws the
// plot without rendering it.
func (c *CLI) loadAndDraw(ctx context.Context, input, specPath string, noCache bool) (*plot.Result, *plotspec.Spec, error) {
	logger := loggerFromContext(ctx)
	spinner := newSpinnerWithContext(ctx, "Loading "+filepath.Base(input)+"...")
	spinner.Start()
	prog := newProgress(logger)

	data, spec, hit, err := c.loadData(ctx, input, specPath, noCache)
	if err != nil {
		spinner.Stop()
		return nil, nil, err
	}
	spinner.SetMessage("Drawing " + plural(data.Len(), "row") + "...")
	res, err := pipeline.Draw(ctx, spec, data)
	spinner.Stop()
	if err != nil {
		return nil, nil, err
	}

	msg := "Drew " + plural(len(res.Grid.Figures), "figure") + " from " + plural(data.Len(), "row")
	if hit {
		msg += " (cached filter)"
	}
	prog.done(msg)
	for _, w := range res.Warnings {
		printWarning("%s", w.Message)
	}
	return res, spec, nil
}

// loadData reads and filters tracking data for the spec at specPath,
// reporting whether the filtered rows came from the cache.
func (c *CLI) loadData(ctx context.Context, input, specPath string, noCache bool) (*dataset.Frame, *plotspec.Spec, bool, error) {
	spec, err := plotspec.Load(specPath)
	if err != nil {
		return nil, nil, false, err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, nil, false, err
	}
	defer runner.Close()

	opts := pipeline.Options{DataPath: input, Spec: spec}
	raw, err := pipeline.ReadData(opts)
	if err != nil {
		return nil, nil, false, err
	}
	data, hit, err := runner.Load(ctx, raw, cache.Hash(raw), opts)
	if err != nil {
		return nil, nil, false, err
	}
	return data, spec, hit, nil
}

// playHeadless plays the control once, logging each frame.
func playHeadless(ctx context.Context, res *plot.Result) error {
	logger := loggerFromContext(ctx)
	if res.Control == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot has no animation layer")
	}
	remove := res.Control.Observe(func(s animation.State) {
		logger.Info("frame", "index", s.Index, "label", s.Label, "playing", s.Playing)
	})
	defer remove()
	prog := newProgress(logger)
	if err := animation.PlayOnce(ctx, res.Control); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Played %d frames", len(res.Control.Frames())))
	return nil
}
