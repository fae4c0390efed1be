package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/pipeline"
)

// layoutCommand creates the layout command for computing treemap layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   chartFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the treemap layout as JSON",
		Long: `Compute the treemap layout as JSON.

The layout holds every block in unit coordinates (x and width as a fraction
of the chart width, y and height as a fraction of sales), the break-even
annotation, the resolved palette and the metrics. It is the same document as
'render -f json' and can be drawn later with 'render --from'.

Without --output the layout is written to stdout.`,
		Example: `  cvpchart layout --sales 1000 --variable 600 --fixed 300
  cvpchart layout -s fy2024.toml -o fy2024.layout.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Input:   spec.Input,
				Display: spec.Display,
				Formats: []string{pipeline.FormatJSON},
				Style:   spec.Style,
				Title:   spec.Title,
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), opts, output, noCache)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, stdout io.Writer, opts pipeline.Options, output string, noCache bool) error {
	result, err := c.newRunner(noCache).Execute(ctx, opts)
	if err != nil {
		return err
	}
	data := result.Artifacts[pipeline.FormatJSON]

	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess(stdout, "Layout written")
	printFile(stdout, output)
	printRunSummary(stdout, result)
	printWarnings(stdout, result.Warnings)
	printNextStep(stdout, "Render it", "cvpchart render --from "+output)
	return nil
}
