package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/dataset"
	"github.com/matzehuels/ptplot/pkg/filter"
	"github.com/matzehuels/ptplot/pkg/mapping"
)

type filterOpts struct {
	start, end  string
	event, time string
	output      string
	head        int
}

func (c *CLI) filterCommand() *cobra.Command {
	opts := filterOpts{event: "event", time: "time", head: 10}

	cmd := &cobra.Command{
		Use:   "filter [tracking.csv]",
		Short: "Keep the rows between two events",
		Long: `Filter keeps the tracking rows timestamped between the start event and the
end event, both inclusive. Each event must be tagged at exactly one moment.

Without --output the first rows are printed as a table.`,
		Example: `  ptplot filter week1.csv --start ball_snap --end pass_forward -o snap.csv
  ptplot filter week1.csv --start ball_snap --end tackle --event event --time time`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "start event (required)")
	cmd.Flags().StringVar(&opts.end, "end", "", "end event (required)")
	cmd.Flags().StringVar(&opts.event, "event", opts.event, "event column or expression")
	cmd.Flags().StringVar(&opts.time, "time", opts.time, "time column or expression")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the filtered rows as CSV")
	cmd.Flags().IntVar(&opts.head, "head", opts.head, "rows to preview without --output")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runFilter(cmd *cobra.Command, input string, opts filterOpts) error {
	prog := newProgress(loggerFromContext(cmd.Context()))
	data, err := dataset.ReadCSVFile(input)
	if err != nil {
		return err
	}
	out, err := filter.BetweenEvents(data, opts.start, opts.end, mapping.Of(opts.event), mapping.Of(opts.time))
	if err != nil {
		return err
	}
	prog.done("Filtered " + plural(data.Len(), "row"))
	printSuccess("Kept %s between %s and %s", plural(out.Len(), "row"), opts.start, opts.end)

	if opts.output == "" {
		dataset.Fprint(cmd.OutOrStdout(), preview(out, opts.head))
		return nil
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(f, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}

// preview returns the first n rows of f.
func preview(f *dataset.Frame, n int) *dataset.Frame {
	if n <= 0 || f.Len() <= n {
		return f
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.Take(rows)
}
