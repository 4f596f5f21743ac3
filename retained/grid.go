package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// gridSpan is the cell rectangle an item covers.
type gridSpan struct {
	x, y, spanX, spanY int
}

func (s gridSpan) start(a geom.Axis) int {
	if a == geom.Vertical {
		return s.y
	}
	return s.x
}

func (s gridSpan) length(a geom.Axis) int {
	if a == geom.Vertical {
		return s.spanY
	}
	return s.spanX
}

// track holds the constraints set on one column or row.
type track struct {
	min     float32
	max     float32
	stretch float32
}

func newTracks(n int) []track {
	ts := make([]track, n)
	for i := range ts {
		ts[i].max = geom.Unbounded
	}
	return ts
}

func resizeTracks(ts []track, n int) []track {
	if n <= len(ts) {
		return ts[:n]
	}
	return append(ts, newTracks(n-len(ts))...)
}

// GridLayout places items on a table of columns and rows. Items may span
// several cells. Column widths and row heights are negotiated like the
// items of a LinearLayout, then every item is fitted into its cell area.
type GridLayout struct {
	layoutBase

	grid   *GridBox
	ids    []int // parallel to items
	nextID int
	cols   []track
	rows   []track
}

// NewGridLayout creates a columns×rows grid.
func NewGridLayout(columns, rows int, cfg Config) (*GridLayout, error) {
	grid, err := NewGridBox(columns, rows)
	if err != nil {
		return nil, err
	}
	return &GridLayout{
		layoutBase: newLayoutBase(cfg),
		grid:       grid,
		cols:       newTracks(columns),
		rows:       newTracks(rows),
	}, nil
}

// Columns returns the number of columns.
func (g *GridLayout) Columns() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Width()
}

// Rows returns the number of rows.
func (g *GridLayout) Rows() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Height()
}

// AddItem places item in the first free cell, scanning row by row.
func (g *GridLayout) AddItem(item LayoutItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	x, y, ok := g.grid.FirstEmpty()
	if !ok {
		return errors.Wrapf(ErrGridFull, "%dx%d", g.grid.Width(), g.grid.Height())
	}
	return g.addLocked(item, x, y, 1, 1)
}

// AddItemAt places item at column x, row y, covering spanX columns and spanY rows.
func (g *GridLayout) AddItemAt(item LayoutItem, x, y, spanX, spanY int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addLocked(item, x, y, spanX, spanY)
}

func (g *GridLayout) addLocked(item LayoutItem, x, y, spanX, spanY int) error {
	if item == nil {
		return errors.Wrap(ErrItemNotFound, "nil item")
	}
	if g.indexOfLocked(item) >= 0 {
		return errors.Wrapf(ErrDuplicateItem, "%T", item)
	}
	id := g.nextID
	if err := g.grid.Insert(id, x, y, spanX, spanY); err != nil {
		return err
	}
	if err := g.insertLocked(len(g.items), item); err != nil {
		_ = g.grid.Remove(id)
		return err
	}
	g.nextID++
	g.ids = append(g.ids, id)
	return nil
}

// RemoveItem frees the cells of item and returns the index it had.
func (g *GridLayout) RemoveItem(item LayoutItem) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, err := g.removeLocked(item)
	if err != nil {
		return -1, err
	}
	if err := g.grid.Remove(g.ids[i]); err != nil {
		return -1, err
	}
	g.ids = append(g.ids[:i], g.ids[i+1:]...)
	return i, nil
}

// CellOf returns the placement of item.
func (g *GridLayout) CellOf(item LayoutItem) (x, y, spanX, spanY int, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.indexOfLocked(item)
	if i < 0 {
		return 0, 0, 0, 0, errors.Wrapf(ErrItemNotFound, "%T", item)
	}
	x, y, spanX, spanY, _ = g.grid.Span(g.ids[i])
	return x, y, spanX, spanY, nil
}

// Cell returns the cell at (x, y), including the box of the last pass.
func (g *GridLayout) Cell(x, y int) (Cell, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Cell(x, y)
}

// Resize changes the table dimensions. Track constraints of surviving
// columns and rows are kept.
func (g *GridLayout) Resize(columns, rows int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.grid.Resize(columns, rows); err != nil {
		return err
	}
	g.cols = resizeTracks(g.cols, columns)
	g.rows = resizeTracks(g.rows, rows)
	return nil
}

// ============================================================================
// Track Constraints
// ============================================================================

func (g *GridLayout) trackLocked(a geom.Axis, i int) (*track, error) {
	ts := g.cols
	if a == geom.Vertical {
		ts = g.rows
	}
	if i < 0 || i >= len(ts) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "%s track %d of %d", a, i, len(ts))
	}
	return &ts[i], nil
}

func (g *GridLayout) setTrack(a geom.Axis, i int, fn func(t *track) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, err := g.trackLocked(a, i)
	if err != nil {
		return err
	}
	return fn(t)
}

func setStretch(s float32) func(t *track) error {
	return func(t *track) error {
		if s < 0 {
			return errors.Wrapf(ErrInvalidPolicy, "negative stretch %v", s)
		}
		t.stretch = s
		return nil
	}
}

func setMin(v float32) func(t *track) error {
	return func(t *track) error {
		if v < 0 || v > t.max {
			return errors.Wrapf(ErrInvalidSizeRange, "track min %v with max %v", v, t.max)
		}
		t.min = v
		return nil
	}
}

func setMax(v float32) func(t *track) error {
	return func(t *track) error {
		if v < t.min {
			return errors.Wrapf(ErrInvalidSizeRange, "track max %v below min %v", v, t.min)
		}
		t.max = v
		return nil
	}
}

// SetColumnStretch sets the share weight column c gets when space is split.
func (g *GridLayout) SetColumnStretch(c int, stretch float32) error {
	return g.setTrack(geom.Horizontal, c, setStretch(stretch))
}

// SetRowStretch sets the share weight row r gets when space is split.
func (g *GridLayout) SetRowStretch(r int, stretch float32) error {
	return g.setTrack(geom.Vertical, r, setStretch(stretch))
}

// SetColumnMinSize sets the minimum width of column c.
func (g *GridLayout) SetColumnMinSize(c int, v float32) error {
	return g.setTrack(geom.Horizontal, c, setMin(v))
}

// SetColumnMaxSize sets the maximum width of column c.
func (g *GridLayout) SetColumnMaxSize(c int, v float32) error {
	return g.setTrack(geom.Horizontal, c, setMax(v))
}

// SetRowMinSize sets the minimum height of row r.
func (g *GridLayout) SetRowMinSize(r int, v float32) error {
	return g.setTrack(geom.Vertical, r, setMin(v))
}

// SetRowMaxSize sets the maximum height of row r.
func (g *GridLayout) SetRowMaxSize(r int, v float32) error {
	return g.setTrack(geom.Vertical, r, setMax(v))
}

// ============================================================================
// Geometry
// ============================================================================

// gridPass is the state a pass copies under the lock.
type gridPass struct {
	items []LayoutItem
	spans []gridSpan
	cols  []track
	rows  []track
}

func (g *GridLayout) snapshotPass() gridPass {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := gridPass{
		items: acquireItemSlice(len(g.items)),
		spans: make([]gridSpan, len(g.items)),
		cols:  append([]track(nil), g.cols...),
		rows:  append([]track(nil), g.rows...),
	}
	copy(p.items, g.items)
	for i, id := range g.ids {
		x, y, sx, sy, _ := g.grid.Span(id)
		p.spans[i] = gridSpan{x, y, sx, sy}
	}
	return p
}

func (p gridPass) tracks(a geom.Axis) []track {
	if a == geom.Vertical {
		return p.rows
	}
	return p.cols
}

// ComputeGeometry sizes the columns and rows for window, then fits every
// item into the area of the cells it spans and centers it there.
func (g *GridLayout) ComputeGeometry(window geom.Size) error {
	p := g.snapshotPass()
	defer releaseItemSlice(p.items)

	infos, err := computeWidgetsInfo(p.items)
	if err != nil {
		return errors.WithMessage(err, "grid layout")
	}
	defer releaseInfoSlice(infos)

	inner := g.internalSize(window)
	spacing := g.cfg.Spacing

	// Phase A: every item is offered its span share of the usable area.
	assigned := acquireSizeSlice(len(p.items))
	defer releaseSizeSlice(assigned)
	for i, info := range infos {
		var desired geom.Size
		for _, a := range axes {
			n := len(p.tracks(a))
			usable := max(inner.Dim(a)-float32(n-1)*spacing, 0)
			span := p.spans[i].length(a)
			desired = desired.WithDim(a, usable/float32(n)*float32(span)+float32(span-1)*spacing)
		}
		if assigned[i], err = computeSizeFromPolicy(desired, info); err != nil {
			return errors.WithMessagef(err, "grid layout: item %d", i)
		}
	}

	// Phase B: negotiate the tracks on each axis.
	var starts, extents [2][]float32
	for _, a := range axes {
		ts := p.tracks(a)
		trackInfos, err := resolveTracks(a, ts, p.spans, infos, assigned, spacing)
		if err != nil {
			return errors.WithMessage(err, "grid layout")
		}
		sizes := make([]geom.Size, len(ts))
		usable := inner.Dim(a) - float32(len(ts)-1)*spacing
		n := newNegotiator(a, trackInfos, sizes, usable, 0, g.cfg.tolerance())
		n.weighted = true
		if err := n.run(); err != nil {
			return errors.WithMessage(err, "grid layout")
		}
		n.report(g.cfg.logger(), "grid")

		starts[a] = make([]float32, len(ts))
		extents[a] = make([]float32, len(ts))
		offset := g.cfg.Margin
		for t := range ts {
			starts[a][t] = offset
			extents[a][t] = sizes[t].Dim(a)
			offset += extents[a][t] + spacing
		}
	}

	boxes := make([]geom.Box, len(p.items))
	for i, info := range infos {
		if !info.Visible {
			continue
		}
		var area geom.Size
		var origin [2]float32
		for _, a := range axes {
			s, n := p.spans[i].start(a), p.spans[i].length(a)
			origin[a] = starts[a][s]
			end := starts[a][s+n-1] + extents[a][s+n-1]
			area = area.WithDim(a, end-origin[a])
		}
		size, err := computeSizeFromPolicy(area, info)
		if err != nil {
			return errors.WithMessagef(err, "grid layout: item %d", i)
		}
		var b geom.Box
		for _, a := range axes {
			b = b.WithAxis(a, centerIn(origin[a], area.Dim(a), size.Dim(a)), size.Dim(a))
		}
		boxes[i] = b
	}

	if err := g.recordCells(len(p.cols), len(p.rows), starts, extents); err != nil {
		return errors.WithMessage(err, "grid layout")
	}
	assignRenderingAreas(p.items, boxes)
	return nil
}

// recordCells stores the cell boxes unless the table changed shape mid-pass.
func (g *GridLayout) recordCells(cols, rows int, starts, extents [2][]float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.grid.Width() != cols || g.grid.Height() != rows {
		return nil
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b := geom.BoxFromCorner(starts[geom.Horizontal][x], starts[geom.Vertical][y],
				extents[geom.Horizontal][x], extents[geom.Vertical][y])
			if err := g.grid.SetCellBox(x, y, b); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveTracks turns the columns (or rows) into negotiable items.
//
// A track's min is the largest of its own min and its members' mins; its
// hint is the largest size phase A gave a member; its max is the largest
// member max capped at the track max. Items spanning several tracks spread
// whatever the spanned tracks lack evenly over them. A track grows when it
// stretches or holds a member that grows. Other tracks, empty ones
// included, are lenient: they take space only once nothing else can.
func resolveTracks(a geom.Axis, ts []track, spans []gridSpan, infos []ItemInfo, assigned []geom.Size, spacing float32) ([]ItemInfo, error) {
	out := make([]ItemInfo, len(ts))
	members := make([]int, len(ts))
	grows := make([]bool, len(ts))
	shrinks := make([]bool, len(ts))
	expands := make([]bool, len(ts))
	memberMax := make([]float32, len(ts))

	for i, info := range infos {
		if !info.Visible || spans[i].length(a) != 1 {
			continue
		}
		t := spans[i].start(a)
		members[t]++
		out[t].Min = out[t].Min.WithDim(a, max(out[t].Min.Dim(a), info.Min.Dim(a)))
		out[t].Hint = out[t].Hint.WithDim(a, max(out[t].Hint.Dim(a), assigned[i].Dim(a)))
		memberMax[t] = max(memberMax[t], info.Max.Dim(a))
		grows[t] = grows[t] || info.canGrow(a)
		shrinks[t] = shrinks[t] || info.canShrink(a)
		expands[t] = expands[t] || info.Policy.Expands(a)
	}

	for t, tr := range ts {
		lo := max(tr.min, out[t].Min.Dim(a))
		if lo > tr.max {
			return nil, errors.Wrapf(ErrInvalidSizeRange, "%s track %d max %v below member min %v", a, t, tr.max, lo)
		}
		hi := tr.max
		if members[t] > 0 {
			hi = min(max(memberMax[t], lo), tr.max)
		}
		out[t].Min = geom.Size{}.WithDim(a, lo)
		out[t].Hint = geom.Size{}.WithDim(a, geom.Clamp(out[t].Hint.Dim(a), lo, hi))
		out[t].Max = geom.Size{}.WithDim(a, hi)
	}

	// Multi-span members spread their deficit over the spanned tracks.
	for i, info := range infos {
		n := spans[i].length(a)
		if !info.Visible || n == 1 {
			continue
		}
		s := spans[i].start(a)
		gaps := float32(n-1) * spacing
		var sumMin, sumHint float32
		for t := s; t < s+n; t++ {
			sumMin += out[t].Min.Dim(a)
			sumHint += out[t].Hint.Dim(a)
			grows[t] = grows[t] || info.canGrow(a)
			expands[t] = expands[t] || info.Policy.Expands(a)
		}
		minDeficit := max(info.Min.Dim(a)-gaps-sumMin, 0) / float32(n)
		hintDeficit := max(assigned[i].Dim(a)-gaps-sumHint, 0) / float32(n)
		for t := s; t < s+n; t++ {
			lo := out[t].Min.Dim(a) + minDeficit
			hi := max(out[t].Max.Dim(a), lo)
			if ts[t].max < lo {
				return nil, errors.Wrapf(ErrInvalidSizeRange, "%s track %d max %v below spanning min %v", a, t, ts[t].max, lo)
			}
			hint := geom.Clamp(out[t].Hint.Dim(a)+hintDeficit, lo, hi)
			out[t].Min = out[t].Min.WithDim(a, lo)
			out[t].Hint = out[t].Hint.WithDim(a, hint)
			out[t].Max = out[t].Max.WithDim(a, hi)
		}
	}

	for t, tr := range ts {
		grow := grows[t] || tr.stretch > 0
		shrink := shrinks[t]
		var p Policy
		switch {
		case expands[t] || (grow && shrink):
			p = PolicyExpanding
		case grow:
			p = PolicyMinimum
		case shrink:
			p = PolicyMaximum
		default:
			p = PolicyPreferred
		}
		out[t].Policy = SizePolicy{}.WithPolicy(a, p).WithPolicy(a.Other(), PolicyFixed)
		if a == geom.Vertical {
			out[t].Policy.VerticalStretch = tr.stretch
		} else {
			out[t].Policy.HorizontalStretch = tr.stretch
		}
		out[t].Visible = true
	}
	return out, nil
}

// Measure sums the resolved track hints as if every item sat at its hint.
func (g *GridLayout) Measure() Measurement {
	p := g.snapshotPass()
	defer releaseItemSlice(p.items)

	infos := make([]ItemInfo, len(p.items))
	hints := make([]geom.Size, len(p.items))
	for i, item := range p.items {
		infos[i] = snapshotItem(item)
		hints[i] = infos[i].Hint
	}

	var m Measurement
	for _, a := range axes {
		ts := p.tracks(a)
		pad := 2*g.cfg.Margin + float32(len(ts)-1)*g.cfg.Spacing
		trackInfos, err := resolveTracks(a, ts, p.spans, infos, hints, g.cfg.Spacing)
		if err != nil {
			m.Min = m.Min.WithDim(a, pad)
			m.Hint = m.Hint.WithDim(a, pad)
			m.Max = m.Max.WithDim(a, geom.Unbounded)
			continue
		}
		lo, hint, hi := pad, pad, pad
		for _, ti := range trackInfos {
			lo = geom.SatAdd(lo, ti.Min.Dim(a))
			hint = geom.SatAdd(hint, ti.Hint.Dim(a))
			if ti.canGrow(a) {
				hi = geom.SatAdd(hi, ti.Max.Dim(a))
			} else {
				hi = geom.SatAdd(hi, ti.Hint.Dim(a))
			}
		}
		m.Min = m.Min.WithDim(a, lo)
		m.Hint = m.Hint.WithDim(a, hint)
		m.Max = m.Max.WithDim(a, hi)
	}
	return m
}
