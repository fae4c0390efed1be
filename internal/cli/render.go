package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/pipeline"
)

// renderFlags are the output flags of the render and layout commands.
type renderFlags struct {
	output     string
	formats    string
	width      float64
	height     float64
	showValues bool
	scale      float64
	font       string
	noCache    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output path or stem (default: <scenario> or cvpchart)")
	flags.StringVarP(&f.formats, "format", "f", "", "output formats, comma-separated: "+strings.Join(pipeline.FormatNames(), ", "))
	flags.Float64Var(&f.width, "width", pipeline.DefaultWidth, "chart width in pixels")
	flags.Float64Var(&f.height, "height", pipeline.DefaultHeight, "chart height in pixels (grows for losses)")
	flags.BoolVar(&f.showValues, "values", false, "print amounts inside blocks")
	flags.Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	flags.StringVar(&f.font, "font", "", "TTF font for non-Latin PDF labels")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
}

func (f *renderFlags) options(spec chartSpec) pipeline.Options {
	return pipeline.Options{
		Input:      spec.Input,
		Display:    spec.Display,
		Formats:    parseFormats(f.formats),
		Width:      f.width,
		Height:     f.height,
		Style:      spec.Style,
		Title:      spec.Title,
		ShowValues: f.showValues,
		Scale:      f.scale,
		FontPath:   f.font,
	}
}

// renderCommand creates the render command for producing chart files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags chartFlags
		out   renderFlags
		from  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a CVP chart to SVG, PNG, PDF, JSON or XLSX",
		Long: `Render a CVP chart to SVG, PNG, PDF, JSON or XLSX.

The input comes from --sales/--variable/--fixed or a scenario file. With
--from, a layout written by 'cvpchart layout' (or 'render -f json') is drawn
again without recomputing it.

PNG output requires rsvg-convert on the PATH. PDF labels outside Latin-1
(for example --locale ja) need a TrueType font passed with --font.

Rendered artifacts are cached locally; --no-cache disables the cache.
With --watch the files are rendered again whenever the scenario changes.`,
		Example: `  cvpchart render --sales 1000 --variable 600 --fixed 300
  cvpchart render -s fy2024.toml -f svg,pdf,xlsx -o report
  cvpchart render --from fy2024.layout.json -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				opts := out.options(chartSpec{Style: flags.style, Title: flags.title})
				return c.runRenderFromLayout(cmd.Context(), cmd.OutOrStdout(), from, opts, out)
			}
			base := out.output
			if base == "" {
				base = outputBase(flags.scenario)
			}
			render := func() error {
				spec, err := flags.resolve(cmd)
				if err != nil {
					return err
				}
				return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), out.options(spec), base, out.noCache)
			}
			if !watch {
				return render()
			}
			if flags.scenario == "" {
				return errors.New(errors.ErrCodeInvalidOption, "--watch needs --scenario")
			}
			err := watchFile(cmd.Context(), flags.scenario, render, func(err error) {
				printError(cmd.ErrOrStderr(), "%s", errors.UserMessage(err))
			})
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd, true)
	out.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "render a saved layout JSON file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "render again when the scenario file changes")

	return cmd
}

// runRender executes the pipeline and writes one file per format. A stage
// spinner runs on stderr when a format shells out or embeds fonts.
func (c *CLI) runRender(ctx context.Context, stdout, stderr io.Writer, opts pipeline.Options, base string, noCache bool) error {
	runner := c.newRunner(noCache)
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *stageSpinner
	if slices.Contains(opts.Formats, pipeline.FormatPNG) || slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spinner = startStageSpinner(ctx, stderr)
		opts.Progress = spinner.setStage
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess(stdout, "Rendered chart %s", StyleDim.Render(result.ChartID))
	for _, p := range paths {
		printFile(stdout, p)
	}
	printRunSummary(stdout, result)
	printWarnings(stdout, result.Warnings)
	return nil
}

func (c *CLI) runRenderFromLayout(ctx context.Context, stdout io.Writer, path string, opts pipeline.Options, out renderFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}

	artifacts, err := c.newRunner(out.noCache).RenderFromLayoutData(ctx, data, opts)
	if err != nil {
		return err
	}

	base := out.output
	if base == "" {
		base = outputBase(path)
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess(stdout, "Rendered %s", path)
	for _, p := range paths {
		printFile(stdout, p)
	}
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(base, format, len(formats) == 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
