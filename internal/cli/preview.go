package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cvperrors "github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/render/sink"
)

const (
	defaultPreviewCols = 60
	defaultPreviewRows = 16

	clearScreen = "\033[H\033[2J"
)

// previewCommand creates the preview command for drawing the chart in the
// terminal.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags    chartFlags
		cols     int
		rows     int
		noLegend bool
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the CVP chart in the terminal",
		Long: `Draw the CVP chart in the terminal using colored cells.

Each block is filled with its palette color and labeled when it is wide
enough. The break-even point is marked with a vertical line. Losses extend the
chart below the sales baseline, so the drawing may be taller than --rows.

With --watch the chart is redrawn whenever the scenario file changes.`,
		Example: `  cvpchart preview --sales 1000 --variable 600 --fixed 300
  cvpchart preview -s fy2024.toml --cols 80 --rows 20
  cvpchart preview -s fy2024.toml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			draw := func() error {
				spec, err := flags.resolve(cmd)
				if err != nil {
					return err
				}
				return c.drawPreview(cmd.Context(), out, spec, cols, rows, !noLegend)
			}
			if !watch {
				return draw()
			}
			if flags.scenario == "" {
				return cvperrors.New(cvperrors.ErrCodeInvalidOption, "--watch needs --scenario")
			}
			err := watchFile(cmd.Context(), flags.scenario, func() error {
				fmt.Fprint(out, clearScreen)
				return draw()
			}, func(err error) { printError(cmd.ErrOrStderr(), "%s", cvperrors.UserMessage(err)) })
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd, true)
	cmd.Flags().IntVar(&cols, "cols", defaultPreviewCols, "chart width in terminal columns")
	cmd.Flags().IntVar(&rows, "rows", defaultPreviewRows, "chart height in terminal rows for sales")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "hide the legend")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "redraw when the scenario file changes")

	return cmd
}

func (c *CLI) drawPreview(ctx context.Context, out io.Writer, spec chartSpec, cols, rows int, legend bool) error {
	runner := c.newRunner(true)
	calc, warnings, err := runner.Calculate(ctx, spec.Input)
	if err != nil {
		return err
	}
	layout := runner.Layout(ctx, spec.Input, calc, spec.Display)

	var opts []sink.TerminalOption
	if legend {
		opts = append(opts, sink.WithLegend(spec.Display.Locale))
	}
	if spec.Title != "" {
		fmt.Fprintln(out, StyleTitle.Render(spec.Title))
	}
	fmt.Fprintln(out, sink.RenderTerminal(layout, cols, rows, opts...))
	printWarnings(out, warnings)
	return nil
}
