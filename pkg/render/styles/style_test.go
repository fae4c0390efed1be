package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantErr  bool
	}{
		{"", NameSimple, false},
		{"simple", NameSimple, false},
		{"Outline", NameOutline, false},
		{"handdrawn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Errorf("error code = %s, want INVALID_STYLE", errors.GetCode(err))
				}
				return
			}
			if s.Name() != tt.wantName {
				t.Errorf("Parse(%q).Name() = %q, want %q", tt.in, s.Name(), tt.wantName)
			}
		})
	}
}

func TestDashArray(t *testing.T) {
	tests := map[string]string{"solid": "", "dashed": "6 4", "dotted": "2 3", "": ""}
	for in, want := range tests {
		if got := DashArray(in); got != want {
			t.Errorf("DashArray(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf)

	// Simple style has no defs
	if buf.Len() != 0 {
		t.Errorf("RenderDefs() wrote %d bytes, want 0", buf.Len())
	}
}

func TestSimpleRenderBlock(t *testing.T) {
	tests := []struct {
		name     string
		block    Block
		contains []string
	}{
		{
			name:  "basic block",
			block: Block{ID: "sales", X: 10, Y: 20, W: 100, H: 50, Fill: "#3B82F6"},
			contains: []string{
				`<rect`,
				`id="block-sales"`,
				`class="block"`,
				`x="10.00"`,
				`y="20.00"`,
				`width="100.00"`,
				`height="50.00"`,
				`fill="#3B82F6"`,
			},
		},
		{
			name:     "detached block",
			block:    Block{ID: "loss", W: 10, H: 10, Detached: true},
			contains: []string{`class="block detached"`},
		},
		{
			name:     "special chars in ID",
			block:    Block{ID: "a<b>", W: 50, H: 50},
			contains: []string{`id="block-a&lt;b&gt;"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Simple{}.RenderBlock(&buf, tt.block)
			output := buf.String()

			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("RenderBlock() output missing %q\nGot: %s", want, output)
				}
			}
		})
	}
}

func TestSimpleRenderText(t *testing.T) {
	b := Block{
		ID: "profit", Label: "Operating Profit", Value: "$30 (30.0%)",
		X: 0, Y: 0, W: 200, H: 100, CX: 100, CY: 50, TextColor: "#FFFFFF",
	}

	var buf bytes.Buffer
	Simple{}.RenderText(&buf, b)
	out := buf.String()

	for _, want := range []string{`class="block-text"`, `Operating Profit`, `class="block-value"`, `$30 (30.0%)`, `fill="#FFFFFF"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() output missing %q\nGot: %s", want, out)
		}
	}
}

func TestRenderTextSkipsTinyBlocks(t *testing.T) {
	b := Block{ID: "profit", Label: "Operating Profit", W: 200, H: 3, CX: 100, CY: 1.5}

	var buf bytes.Buffer
	Simple{}.RenderText(&buf, b)
	if buf.Len() != 0 {
		t.Errorf("RenderText() wrote %q for a 3px block", buf.String())
	}
}

func TestRenderTextDropsValueWhenShort(t *testing.T) {
	b := Block{ID: "fixed", Label: "Fixed", Value: "$10", W: 200, H: 14, CX: 100, CY: 7}

	var buf bytes.Buffer
	Simple{}.RenderText(&buf, b)
	out := buf.String()
	if !strings.Contains(out, "Fixed") {
		t.Errorf("label missing: %s", out)
	}
	if strings.Contains(out, "block-value") {
		t.Errorf("value should be dropped when only one line fits: %s", out)
	}
}

func TestRenderAnnotation(t *testing.T) {
	a := Annotation{X: 150, Y1: 20, Y2: 420, Label: "Break-even point: $50", Top: true, Dash: "6 4", Color: "#1F2937"}

	var buf bytes.Buffer
	Simple{}.RenderAnnotation(&buf, a)
	out := buf.String()

	for _, want := range []string{`class="bep-line"`, `x1="150.00"`, `stroke-dasharray="6 4"`, `Break-even point: $50`, `y="14.00"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderAnnotation() output missing %q\nGot: %s", want, out)
		}
	}

	buf.Reset()
	a.Dash, a.Top = "", false
	Simple{}.RenderAnnotation(&buf, a)
	if strings.Contains(buf.String(), "stroke-dasharray") {
		t.Error("solid line should not have a dash array")
	}
	if !strings.Contains(buf.String(), `y="434.00"`) {
		t.Errorf("bottom label misplaced: %s", buf.String())
	}
}

func TestOutlineRenderBlock(t *testing.T) {
	var buf bytes.Buffer
	Outline{}.RenderDefs(&buf)
	if !strings.Contains(buf.String(), `id="hatch"`) {
		t.Error("Outline defs should declare the hatch pattern")
	}

	buf.Reset()
	Outline{}.RenderBlock(&buf, Block{ID: "loss", W: 100, H: 40, Fill: "#EF4444", ExtendsBelow: true})
	out := buf.String()
	if !strings.Contains(out, `fill="url(#hatch)"`) || !strings.Contains(out, `stroke="#EF4444"`) {
		t.Errorf("RenderBlock() = %s", out)
	}
}
