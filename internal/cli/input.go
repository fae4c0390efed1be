package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cvpchart/pkg/cvp"
	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/locale"
	"github.com/matzehuels/cvpchart/pkg/palette"
	"github.com/matzehuels/cvpchart/pkg/render/styles"
	"github.com/matzehuels/cvpchart/pkg/scenario"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

// chartFlags are the input and display flags shared by every command that
// draws or computes a chart. Flags that were set explicitly override the
// values from --scenario.
type chartFlags struct {
	scenario string

	sales    float64
	variable float64
	fixed    float64
	label    string

	lossMode    string
	scheme      string
	locale      string
	bep         bool
	bepLabel    string
	bepPosition string
	bepLine     string
	style       string
	title       string
}

// chartSpec is the resolved result of chartFlags.
type chartSpec struct {
	Input        cvp.Input
	Display      treemap.Options
	Style        string
	Title        string
	TargetProfit *float64
}

// register adds the input flags to cmd. Display flags are added only when
// display is true.
func (f *chartFlags) register(cmd *cobra.Command, display bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.scenario, "scenario", "s", "", "scenario file (.toml, .yaml, .json)")
	flags.Float64Var(&f.sales, "sales", 0, "sales revenue")
	flags.Float64Var(&f.variable, "variable", 0, "variable costs")
	flags.Float64Var(&f.fixed, "fixed", 0, "fixed costs")
	flags.StringVar(&f.label, "label", "", "period label (e.g. FY2024)")
	flags.StringVar(&f.locale, "locale", "", "label and number locale: en (default), ja")

	if !display {
		return
	}
	flags.StringVar(&f.lossMode, "loss-mode", "", "loss display: negative-bar (default), separate")
	flags.StringVar(&f.scheme, "scheme", "", "color scheme: "+strings.Join(palette.Names(), ", "))
	flags.BoolVar(&f.bep, "bep", true, "draw the break-even line")
	flags.StringVar(&f.bepLabel, "bep-label", "", "break-even label: value (default), ratio, both")
	flags.StringVar(&f.bepPosition, "bep-position", "", "break-even label position: top (default), bottom")
	flags.StringVar(&f.bepLine, "bep-line", "", "break-even line style: dashed (default), solid, dotted")
	flags.StringVar(&f.style, "style", "", "visual style: "+strings.Join(styles.Names(), ", "))
	flags.StringVar(&f.title, "title", "", "chart title")
}

// resolve builds the chart input from the scenario file and the flags.
func (f *chartFlags) resolve(cmd *cobra.Command) (chartSpec, error) {
	spec := chartSpec{Display: treemap.DefaultOptions()}
	changed := cmd.Flags().Changed

	if f.scenario != "" {
		sc, err := scenario.Load(f.scenario)
		if err != nil {
			return spec, err
		}
		spec.Input = sc.Input()
		if spec.Display, err = sc.Options(); err != nil {
			return spec, err
		}
		if spec.Style, err = sc.StyleName(); err != nil {
			return spec, err
		}
		spec.Title = sc.Display.Title
		spec.TargetProfit = sc.TargetProfit
	} else if !changed("sales") {
		return spec, errors.New(errors.ErrCodeInvalidInput, "either --scenario or --sales is required")
	}

	if changed("sales") {
		spec.Input.Sales = f.sales
	}
	if changed("variable") {
		spec.Input.VariableCosts = f.variable
	}
	if changed("fixed") {
		spec.Input.FixedCosts = f.fixed
	}
	if changed("label") {
		spec.Input.Label = f.label
	}

	if f.locale != "" {
		l, err := locale.Parse(f.locale)
		if err != nil {
			return spec, err
		}
		spec.Display.Locale = l
	}
	if err := f.applyDisplay(cmd, &spec); err != nil {
		return spec, err
	}
	return spec, nil
}

func (f *chartFlags) applyDisplay(cmd *cobra.Command, spec *chartSpec) error {
	d := &spec.Display
	if f.lossMode != "" {
		m, err := treemap.ParseLossMode(f.lossMode)
		if err != nil {
			return err
		}
		d.LossMode = m
	}
	if f.scheme != "" {
		s, err := palette.ParseScheme(f.scheme)
		if err != nil {
			return err
		}
		d.Scheme = s
	}
	if cmd.Flags().Changed("bep") {
		d.ShowBEPLine = f.bep
	}
	if f.bepLabel != "" {
		c, err := treemap.ParseLabelContent(f.bepLabel)
		if err != nil {
			return err
		}
		d.BEP.LabelContent = c
	}
	if f.bepPosition != "" {
		p, err := treemap.ParseLabelPosition(f.bepPosition)
		if err != nil {
			return err
		}
		d.BEP.LabelPosition = p
	}
	if f.bepLine != "" {
		ls, err := treemap.ParseLineStyle(f.bepLine)
		if err != nil {
			return err
		}
		d.BEP.LineStyle = ls
	}
	if f.style != "" {
		st, err := styles.Parse(f.style)
		if err != nil {
			return err
		}
		spec.Style = st.Name()
	}
	if f.title != "" {
		spec.Title = f.title
	}
	return nil
}
