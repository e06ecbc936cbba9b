package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/plotspec"
	"github.com/matzehuels/ptplot/pkg/storage"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	spec     string   // plot spec file (.toml, .yaml, .json)
	output   string   // output file, or base path for several formats
	formats  []string // html, svg, png, json, dot
	frame    string   // frame label for static formats
	scale    float64  // PNG scale factor
	tooltips bool     // hover tooltips in svg and html
	detailed bool     // detailed plan diagram (dot)
	noCache  bool
	refresh  bool
	save     bool // keep the render in the local plot store
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [tracking.csv]",
		Short: "Render a plot spec over tracking data",
		Long: `Render draws the plot described by --spec over a tracking CSV and writes
one file per format. Static formats (svg, png) show one frame, the first
unless --frame names another; html carries every frame with playback
controls.`,
		Example: `  ptplot render week1.csv --spec play56.toml
  ptplot render week1.csv --spec play56.toml -f svg,png --frame 40 -o play56`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "plot spec file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), svg, png, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.frame, "frame", "", "frame label shown by svg and png")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", false, "add hover tooltips to svg and html")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "detailed plan diagram (dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the render to the local plot store")
	_ = cmd.MarkFlagRequired("spec")
	completeSpec(cmd, pipeline.ValidFormats...)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	spec, err := plotspec.Load(opts.spec)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		DataPath: input,
		Spec:     spec,
		Formats:  opts.formats,
		Frame:    opts.frame,
		Scale:    opts.scale,
		Tooltips: opts.tooltips,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered " + strings.Join(opts.formats, ", "))

	printSuccess("Rendered %s", filepath.Base(input))
	printStats(result.Stats.Rows, result.Stats.Figures, result.Stats.Frames, result.CacheInfo.RenderHit)
	for _, w := range result.Warnings {
		printWarning("%s", w.Message)
	}

	base := basePath(opts.output, input)
	single := len(opts.formats) == 1 && opts.output != ""
	for _, format := range opts.formats {
		path := outputPath(base, format, single, opts.output)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(path)
	}

	if opts.save {
		return c.saveRenders(ctx, spec, result, opts.formats)
	}
	return nil
}

// saveRenders stores each artifact in the local plot store.
func (c *CLI) saveRenders(ctx context.Context, spec *plotspec.Spec, result *pipeline.Result, formats []string) error {
	store, err := newPlotStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	for _, format := range formats {
		p := storage.New(format, result.Artifacts[format], 0)
		p.Title = spec.Title
		p.DataHash = result.DataHash
		p.SpecHash = result.SpecHash
		p.Frames = result.Stats.Frames
		p.Layers = specLayers(spec)
		if err := store.Put(ctx, p); err != nil {
			return fmt.Errorf("save %s: %w", format, err)
		}
		printDetail("saved %s as %s", format, p.ID)
	}
	printNextStep("List saved renders", "ptplot plots list")
	return nil
}

// specLayers names the layers a spec composes, in build order.
func specLayers(s *plotspec.Spec) []string {
	var names []string
	if s.Field != nil {
		names = append(names, "field")
	}
	for range s.Tracks {
		names = append(names, "tracks")
	}
	for range s.Positions {
		names = append(names, "positions")
	}
	for range s.Hover {
		names = append(names, "hover")
	}
	if s.Facet != nil {
		names = append(names, "facet")
	}
	if s.Aesthetics != nil {
		names = append(names, "aesthetics")
	}
	if s.Animation != nil {
		names = append(names, "animation")
	}
	return names
}

// basePath strips the extension from output, or derives a base from the
// input file name.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

// outputPath names the file for one format. A single format written to an
// explicit output keeps that exact path.
func outputPath(base, format string, single bool, output string) string {
	if single {
		return output
	}
	return base + "." + format
}
