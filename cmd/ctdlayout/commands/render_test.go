package commands

import (
	"strings"
	"testing"

	"github.com/agiangrant/ctdlayout/geom"
)

func TestCanvasBox(t *testing.T) {
	tests := []struct {
		name                     string
		cols, rows               int
		left, top, right, bottom int
		want                     string
	}{
		{"full", 5, 3, 0, 0, 4, 2, "+---+\n|   |\n+---+\n"},
		{"inset", 6, 4, 1, 1, 4, 2, "\n +--+\n +--+\n\n"},
		{"single cell", 3, 1, 1, 0, 1, 0, " +\n"},
		{"clipped", 4, 2, 2, 0, 6, 3, "  +-\n  |\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(tt.cols, tt.rows)
			c.Box(tt.left, tt.top, tt.right, tt.bottom)
			if got := c.String(); got != tt.want {
				t.Errorf("String() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestCanvasText(t *testing.T) {
	tests := []struct {
		name  string
		x     int
		s     string
		width int
		want  string
	}{
		{"fits", 1, "abc", 5, " abc\n"},
		{"truncated", 0, "abcdefgh", 4, "abc~\n"},
		{"no room", 0, "abc", 0, "\n"},
		{"clipped by canvas", 4, "abcdef", 10, "    ab\n"},
		{"wide runes", 0, "日本", 4, "日本\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(6, 1)
			c.Text(tt.x, 0, tt.s, tt.width)
			if got := c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	r := Result{
		Window: WindowConfig{Width: 20, Height: 10},
		Rows: []Row{
			{Depth: 0, Name: "root", Area: geom.BoxFromCorner(0, 0, 20, 10), Visible: true},
			{Depth: 1, Text: "ok", Area: geom.BoxFromCorner(2, 4, 6, 4), Visible: true},
			{Depth: 1, Name: "gone", Area: geom.BoxFromCorner(10, 4, 6, 4), Visible: false},
			{Depth: 1, Name: "empty", Visible: true},
		},
	}

	want := strings.Join([]string{
		"+------------------+",
		"|root              |",
		"| +ok--+           |",
		"| +----+           |",
		"+------------------+",
		"",
	}, "\n")
	if got := Preview(r, 20, false); got != want {
		t.Errorf("Preview() =\n%s\nwant\n%s", got, want)
	}

	if got := Preview(r, 20, true); !strings.Contains(got, "gone") {
		t.Errorf("Preview(showHidden) should draw the hidden widget:\n%s", got)
	}
}

func TestScaleBox(t *testing.T) {
	l, tp, r, b := scaleBox(geom.BoxFromCorner(10, 20, 30, 40), 0.5, 0.25)
	if l != 5 || tp != 5 || r != 19 || b != 14 {
		t.Errorf("scaleBox() = %d,%d,%d,%d; want 5,5,19,14", l, tp, r, b)
	}
	// A box narrower than a cell still covers one.
	l, tp, r, b = scaleBox(geom.BoxFromCorner(3.25, 3.25, 0.5, 0.5), 1, 1)
	if l != 3 || r != 3 || tp != 3 || b != 3 {
		t.Errorf("scaleBox(tiny) = %d,%d,%d,%d; want 3,3,3,3", l, tp, r, b)
	}
}
