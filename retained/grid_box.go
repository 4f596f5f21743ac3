package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// EmptyCell is the item id of a cell no item covers.
const EmptyCell = -1

// Cell is one slot of a GridBox.
//
// Every item covers a rectangle of cells whose top-left cell is the master.
// Only the master records the span; the others point back at it through
// MasterX/MasterY. An empty cell is its own single-cell master.
type Cell struct {
	ItemID  int
	Master  bool
	Multi   bool
	MasterX int
	MasterY int
	SpanX   int
	SpanY   int

	// Box is the area the last layout pass gave this cell.
	Box geom.Box
}

// Empty reports whether no item covers the cell.
func (c Cell) Empty() bool {
	return c.ItemID == EmptyCell
}

// GridBox is the occupancy table of a GridLayout: W columns by H rows.
// It is not safe for concurrent use; GridLayout guards it.
type GridBox struct {
	w, h  int
	cells []Cell
}

// NewGridBox creates an empty w×h table.
func NewGridBox(w, h int) (*GridBox, error) {
	if w < 1 || h < 1 {
		return nil, errors.Wrapf(ErrInvalidGrid, "%dx%d", w, h)
	}
	g := &GridBox{w: w, h: h, cells: make([]Cell, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.cells[g.index(x, y)] = emptyCell(x, y)
		}
	}
	return g, nil
}

func emptyCell(x, y int) Cell {
	return Cell{ItemID: EmptyCell, Master: true, MasterX: x, MasterY: y, SpanX: 1, SpanY: 1}
}

// Width returns the number of columns.
func (g *GridBox) Width() int { return g.w }

// Height returns the number of rows.
func (g *GridBox) Height() int { return g.h }

func (g *GridBox) index(x, y int) int {
	return y*g.w + x
}

func (g *GridBox) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// Cell returns the cell at (x, y).
func (g *GridBox) Cell(x, y int) (Cell, error) {
	if !g.inside(x, y) {
		return Cell{}, errors.Wrapf(ErrIndexOutOfRange, "cell (%d,%d) in %dx%d grid", x, y, g.w, g.h)
	}
	return g.cells[g.index(x, y)], nil
}

// Master returns the master cell of the rectangle covering (x, y).
func (g *GridBox) Master(x, y int) (Cell, error) {
	c, err := g.Cell(x, y)
	if err != nil {
		return Cell{}, err
	}
	return g.cells[g.index(c.MasterX, c.MasterY)], nil
}

// checkSpan validates a placement against the bounds. Both axes use the
// same exclusive convention: x+spanX ≤ W and y+spanY ≤ H.
func (g *GridBox) checkSpan(x, y, spanX, spanY int) error {
	if x < 0 || y < 0 || spanX < 1 || spanY < 1 || x+spanX > g.w || y+spanY > g.h {
		return errors.Wrapf(ErrSpanOutOfBounds, "(%d,%d) span %dx%d in %dx%d grid", x, y, spanX, spanY, g.w, g.h)
	}
	return nil
}

// Insert places item id over the rectangle at (x, y) spanning spanX×spanY.
// The table is untouched when the placement is rejected.
func (g *GridBox) Insert(id, x, y, spanX, spanY int) error {
	if id < 0 {
		return errors.Wrapf(ErrItemNotFound, "invalid item id %d", id)
	}
	if err := g.checkSpan(x, y, spanX, spanY); err != nil {
		return err
	}
	if _, _, _, _, ok := g.Span(id); ok {
		return errors.Wrapf(ErrDuplicateItem, "item id %d", id)
	}
	for cy := y; cy < y+spanY; cy++ {
		for cx := x; cx < x+spanX; cx++ {
			if c := g.cells[g.index(cx, cy)]; !c.Empty() {
				return errors.Wrapf(ErrCellOccupied, "cell (%d,%d) holds item %d", cx, cy, c.ItemID)
			}
		}
	}

	multi := spanX > 1 || spanY > 1
	for cy := y; cy < y+spanY; cy++ {
		for cx := x; cx < x+spanX; cx++ {
			c := &g.cells[g.index(cx, cy)]
			*c = Cell{ItemID: id, Multi: multi, MasterX: x, MasterY: y, Box: c.Box}
		}
	}
	m := &g.cells[g.index(x, y)]
	m.Master = true
	m.SpanX, m.SpanY = spanX, spanY
	return nil
}

// Remove frees every cell covered by item id.
func (g *GridBox) Remove(id int) error {
	x, y, sx, sy, ok := g.Span(id)
	if !ok {
		return errors.Wrapf(ErrItemNotFound, "item id %d", id)
	}
	for cy := y; cy < y+sy; cy++ {
		for cx := x; cx < x+sx; cx++ {
			c := &g.cells[g.index(cx, cy)]
			box := c.Box
			*c = emptyCell(cx, cy)
			c.Box = box
		}
	}
	return nil
}

// Span returns the rectangle covered by item id.
func (g *GridBox) Span(id int) (x, y, spanX, spanY int, ok bool) {
	if id == EmptyCell {
		return 0, 0, 0, 0, false
	}
	for _, c := range g.cells {
		if c.ItemID == id && c.Master {
			return c.MasterX, c.MasterY, c.SpanX, c.SpanY, true
		}
	}
	return 0, 0, 0, 0, false
}

// FirstEmpty returns the first free cell in row-major order.
func (g *GridBox) FirstEmpty() (x, y int, ok bool) {
	for i, c := range g.cells {
		if c.Empty() {
			return i % g.w, i / g.w, true
		}
	}
	return 0, 0, false
}

// Resize changes the table to w×h, keeping every placement. It fails,
// leaving the table untouched, if an item would no longer fit.
func (g *GridBox) Resize(w, h int) error {
	if w < 1 || h < 1 {
		return errors.Wrapf(ErrInvalidGrid, "%dx%d", w, h)
	}
	for _, c := range g.cells {
		if c.Empty() || !c.Master {
			continue
		}
		if c.MasterX+c.SpanX > w || c.MasterY+c.SpanY > h {
			return errors.Wrapf(ErrSpanOutOfBounds, "item %d at (%d,%d) span %dx%d does not fit %dx%d",
				c.ItemID, c.MasterX, c.MasterY, c.SpanX, c.SpanY, w, h)
		}
	}

	cells := make([]Cell, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.inside(x, y) {
				cells[y*w+x] = g.cells[g.index(x, y)]
			} else {
				cells[y*w+x] = emptyCell(x, y)
			}
		}
	}
	g.w, g.h, g.cells = w, h, cells
	return nil
}

// SetCellBox records the area a pass gave the cell at (x, y).
func (g *GridBox) SetCellBox(x, y int, b geom.Box) error {
	if !g.inside(x, y) {
		return errors.Wrapf(ErrIndexOutOfRange, "cell (%d,%d) in %dx%d grid", x, y, g.w, g.h)
	}
	g.cells[g.index(x, y)].Box = b
	return nil
}
