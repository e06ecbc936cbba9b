package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/render/nodelink"
)

type planOpts struct {
	spec     string
	output   string
	format   string
	detailed bool
	scale    float64
}

func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{format: "svg", scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "plan [tracking.csv]",
		Short: "Draw the composition plan of a plot",
		Long: `Plan draws how a plot was composed: the plot, its facet panels and the
aesthetic groups inside each panel. With --detailed nodes also show the
layers, row counts and animation adapters.`,
		Example: `  ptplot plan week1.csv --spec play56.toml
  ptplot plan week1.csv --spec play56.toml -f png --detailed -o plan.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, _, err := c.loadAndDraw(ctx, args[0], opts.spec, false)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(res.Plan, nodelink.Options{Detailed: opts.detailed})
			var out []byte
			switch strings.ToLower(opts.format) {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = nodelink.RenderSVG(ctx, dot)
			case "png":
				out, err = nodelink.RenderPNG(ctx, dot, opts.scale)
			default:
				return perrors.New(perrors.ErrCodeInvalidFormat, "plan format %q (want svg, png or dot)", opts.format)
			}
			if err != nil {
				return fmt.Errorf("render plan: %w", err)
			}

			path := opts.output
			if path == "" {
				path = basePath("", args[0]) + ".plan." + strings.ToLower(opts.format)
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return err
			}
			printSuccess("Plan of %s: %s, %s", filepath.Base(args[0]),
				plural(len(res.Plan.Facets), "facet"), plural(res.Plan.Groups(), "group"))
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "plot spec file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png or dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show layers, rows and adapters")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	_ = cmd.MarkFlagRequired("spec")
	completeSpec(cmd, "svg", "png", "dot")

	return cmd
}
