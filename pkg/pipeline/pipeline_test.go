package pipeline

import (
	"testing"

	"github.com/matzehuels/cvpchart/pkg/errors"
	"github.com/matzehuels/cvpchart/pkg/treemap"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"xlsx", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"outline", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestFormatNames(t *testing.T) {
	got := FormatNames()
	want := []string{"json", "pdf", "png", "svg", "xlsx"}
	if len(got) != len(want) {
		t.Fatalf("FormatNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FormatNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for f := range ValidFormats {
		if ContentTypes[f] == "" {
			t.Errorf("format %q has no content type", f)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid after defaults: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if opts.Display.LossMode != treemap.LossNegativeBar {
		t.Errorf("Display.LossMode = %q, want negative-bar", opts.Display.LossMode)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"style", Options{Style: "sketch"}, errors.ErrCodeInvalidStyle},
		{"negative width", Options{Width: -10}, errors.ErrCodeInvalidOption},
		{"huge height", Options{Height: 1e6}, errors.ErrCodeInvalidOption},
		{"scale", Options{Scale: 20}, errors.ErrCodeInvalidOption},
		{"loss mode", Options{Display: treemap.Options{LossMode: "stacked"}}, errors.ErrCodeInvalidLossMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ValidateAndSetDefaults() code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, FontPath: "/fonts/noto.ttf"}
	opts.SetDefaults()

	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 || k.Font != "" {
		t.Errorf("png key = %+v, want scale only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPDF); k.Font != "/fonts/noto.ttf" || k.Scale != 0 {
		t.Errorf("pdf key = %+v, want font only", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Locale != "en" || k.Style != DefaultStyle {
		t.Errorf("svg key = %+v", k)
	}
}
