package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ptplot/pkg/storage"
)

// plotsCommand manages renders saved with render --save.
func (c *CLI) plotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Manage saved renders",
	}

	cmd.AddCommand(c.plotsListCommand())
	cmd.AddCommand(c.plotsShowCommand())
	cmd.AddCommand(c.plotsRemoveCommand())
	cmd.AddCommand(c.plotsCleanupCommand())

	return cmd
}

func (c *CLI) plotsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved renders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newPlotStore()
			if err != nil {
				return err
			}
			plots, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(plots) == 0 {
				printInfo("No saved renders")
				printNextStep("Save one", "ptplot render DATA --spec SPEC --save")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), plotTable(plots))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum renders to list (0 for all)")
	return cmd
}

// plotTable renders saved plot records as a table.
func plotTable(plots []*storage.Plot) string {
	rows := make([][]string, len(plots))
	for i, p := range plots {
		title := p.Title
		if title == "" {
			title = "-"
		}
		rows[i] = []string{
			p.ID,
			truncate(title, 32),
			p.Format,
			fmt.Sprint(p.Frames),
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "TITLE", "FORMAT", "FRAMES", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Foreground(colorGray).Bold(true)
			case col == 0:
				return base.Foreground(colorCyan)
			default:
				return base.Foreground(colorWhite)
			}
		}).
		Render()
}

func (c *CLI) plotsShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved render, or write its content with -o",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newPlotStore()
			if err != nil {
				return err
			}
			p, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, p.Content, 0o644); err != nil {
					return err
				}
				printFile(output)
				return nil
			}
			printKeyValue("ID", p.ID)
			printKeyValue("Title", p.Title)
			printKeyValue("Format", p.Format)
			printKeyValue("Size", fmt.Sprintf("%d bytes", len(p.Content)))
			printKeyValue("Frames", fmt.Sprint(p.Frames))
			printKeyValue("Layers", fmt.Sprint(p.Layers))
			printKeyValue("Created", p.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Data", StyleDim.Render(p.DataHash))
			printKeyValue("Spec", StyleDim.Render(p.SpecHash))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the render content to a file")
	return cmd
}

func (c *CLI) plotsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id...]",
		Short: "Remove saved renders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newPlotStore()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					printError("%s: %v", id, err)
					continue
				}
				printSuccess("Removed %s", id)
			}
			return nil
		},
	}
}

func (c *CLI) plotsCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newPlotStore()
			if err != nil {
				return err
			}
			if err := store.Cleanup(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Removed expired renders")
			printDetail("Directory: %s", store.Path())
			return nil
		},
	}
}
