package commands

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

const defaultPreviewColumns = 80

// Render implements the 'ctdlayout render' command
func Render(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cols := fs.Int("cols", 0, "Preview width in cells (default: terminal width)")
	width := fs.Float64("width", 0, "Window width (overrides the scene)")
	height := fs.Float64("height", 0, "Window height (overrides the scene)")
	hidden := fs.Bool("hidden", false, "Draw hidden widgets too")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: ctdlayout render [options] <scene.toml>")
	}

	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := config.Theme.Apply(); err != nil {
		return errors.Wrap(err, "theme")
	}
	logger, err := NewLogger(os.Stderr, config.Log)
	if err != nil {
		return err
	}

	columns := *cols
	if columns <= 0 {
		columns = config.Render.Columns
	}
	if columns <= 0 {
		columns = terminalColumns(os.Stdout)
	}

	override := WindowConfig{Width: float32(*width), Height: float32(*height)}
	results, err := ComputeScenes(context.Background(), fs.Args(), config, override, 1, logger)
	if err != nil {
		return err
	}
	r := results[0]
	if r.Rows == nil {
		return r.Err
	}

	fmt.Fprint(os.Stdout, Preview(r, columns, *hidden || config.Render.ShowHidden))
	return r.Err
}

// terminalColumns returns the width of f when it is a terminal.
func terminalColumns(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultPreviewColumns
	}
	return w
}

// Preview draws the widgets of r as nested ASCII boxes, scaled so the
// window spans cols cells. Cells are about twice as tall as wide, so rows
// are halved to keep proportions.
func Preview(r Result, cols int, showHidden bool) string {
	cols = max(cols, 2)
	sx := float32(cols) / r.Window.Width
	rows := max(int(math.Round(float64(r.Window.Height*sx/2))), 2)
	sy := float32(rows) / r.Window.Height

	c := NewCanvas(cols, rows)
	for _, row := range visibleRows(r.Rows, showHidden) {
		if row.Area.IsEmpty() {
			continue
		}
		left, top, right, bottom := scaleBox(row.Area, sx, sy)
		c.Box(left, top, right, bottom)

		label := row.Text
		if label == "" {
			label = row.Name
		}
		if bottom-top >= 2 {
			c.Text(left+1, top+1, label, right-left-1)
		} else {
			c.Text(left+1, top, label, right-left-1)
		}
	}
	return c.String()
}

// scaleBox maps b to inclusive cell coordinates.
func scaleBox(b geom.Box, sx, sy float32) (left, top, right, bottom int) {
	left = int(math.Floor(float64(b.Left() * sx)))
	top = int(math.Floor(float64(b.Top() * sy)))
	right = int(math.Ceil(float64(b.Right()*sx))) - 1
	bottom = int(math.Ceil(float64(b.Bottom()*sy))) - 1
	return left, top, max(right, left), max(bottom, top)
}

// Canvas is a grid of terminal cells.
type Canvas struct {
	cols, rows int
	cells      [][]rune
}

// wideTail marks the cell covered by the second half of a wide rune.
const wideTail rune = -1

// NewCanvas returns a blank cols×rows canvas.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", cols))
	}
	return c
}

func (c *Canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = r
}

// Box draws the outline of the inclusive cell rectangle.
func (c *Canvas) Box(left, top, right, bottom int) {
	for x := left + 1; x < right; x++ {
		c.set(x, top, '-')
		c.set(x, bottom, '-')
	}
	for y := top + 1; y < bottom; y++ {
		c.set(left, y, '|')
		c.set(right, y, '|')
	}
	for _, p := range [][2]int{{left, top}, {right, top}, {left, bottom}, {right, bottom}} {
		c.set(p[0], p[1], '+')
	}
}

// Text writes s at (x, y), truncated to width cells.
func (c *Canvas) Text(x, y int, s string, width int) {
	if width <= 0 || s == "" {
		return
	}
	s = runewidth.Truncate(s, width, "~")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(x, y, r)
		if w == 2 {
			c.set(x+1, y, wideTail)
		}
		x += w
	}
}

// String returns the canvas with trailing spaces trimmed from each line.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, line := range c.cells {
		var l strings.Builder
		for _, r := range line {
			if r != wideTail {
				l.WriteRune(r)
			}
		}
		b.WriteString(strings.TrimRight(l.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
