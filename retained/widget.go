// Package retained provides a retained-mode widget tree whose geometry is
// negotiated by layouts.
//
// Every container widget owns a Layout. When a widget receives a new
// rendering area it runs its layout over that area, which posts areas to
// the children, which run their own layouts, and so on depth-first.
//
// Widgets are safe for concurrent property updates. A layout pass over one
// tree runs on the goroutine that started it.
package retained

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/agiangrant/ctdlayout/tw"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

// WidgetID uniquely identifies a widget in the tree.
type WidgetID uint64

var nextWidgetID atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(nextWidgetID.Add(1))
}

// WidgetKind identifies the type of widget.
type WidgetKind string

const (
	KindContainer    WidgetKind = "container"
	KindVStack       WidgetKind = "vstack"
	KindHStack       WidgetKind = "hstack"
	KindGrid         WidgetKind = "grid"
	KindStack        WidgetKind = "stack"
	KindLabel        WidgetKind = "label"
	KindButton       WidgetKind = "button"
	KindCheckbox     WidgetKind = "checkbox"
	KindTextBox      WidgetKind = "text_box"
	KindScrollBar    WidgetKind = "scroll_bar"
	KindScrollArea   WidgetKind = "scroll_area"
	KindTabContainer WidgetKind = "tab_container"
	KindSelectionBox WidgetKind = "selection_box"
	KindCustom       WidgetKind = "custom"
)

// Property change flags for dirty tracking
const (
	DirtyPosition uint64 = 1 << iota
	DirtySize
	DirtyVisible
	DirtyText
	DirtyChildren
	DirtyLayout // Layout needs recomputation
)

// Widget is a node of the retained tree. It implements LayoutItem so a
// parent's layout can negotiate with it.
type Widget struct {
	mu sync.RWMutex

	id       WidgetID
	kind     WidgetKind
	name     string
	parent   *Widget
	children []*Widget
	layout   Layout
	logger   *slog.Logger

	// Explicit sizes override what the layout or content would report.
	minSize geom.Size
	hint    geom.Size
	maxSize geom.Size
	hasMin  [2]bool
	hasHint [2]bool
	hasMax  [2]bool
	policy  SizePolicy
	visible bool
	box     geom.Box

	// Grid placement used when the parent lays out on a grid
	cell    [4]int // x, y, spanX, spanY
	hasCell bool

	// Overrides for the widget's own layout, from p-* and gap-*
	layoutMargin  *float32
	layoutSpacing *float32

	// Content
	text     string
	fontSize float32
	chrome   geom.Size // padding around the text, per kind
	classes  string

	checked bool

	// Composite widgets that place their parts by hand measure and
	// arrange themselves through these instead of a Layout.
	measure  func() Measurement
	onResize func(box geom.Box)

	dirty     bool
	dirtyMask uint64
	layoutErr error
	buildErr  error
}

// NewWidget creates a widget with default values: visible, Preferred on
// both axes, unbounded max.
func NewWidget(kind WidgetKind) *Widget {
	return &Widget{
		id:       newWidgetID(),
		kind:     kind,
		visible:  true,
		fontSize: 14,
		maxSize:  geom.UnboundedSize(),
		policy:   NewSizePolicy(PolicyPreferred, PolicyPreferred),
	}
}

// ID returns the widget's unique identifier.
func (w *Widget) ID() WidgetID {
	return w.id
}

// Kind returns the widget type.
func (w *Widget) Kind() WidgetKind {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.kind
}

// Name returns the widget's name, used to look it up in a tree.
func (w *Widget) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// SetName sets the widget's name.
func (w *Widget) SetName(name string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
	return w
}

// SetLogger sets where layout failures of this widget are reported.
func (w *Widget) SetLogger(logger *slog.Logger) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
	return w
}

func (w *Widget) loggerLocked() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.Default()
}

// ============================================================================
// Tree Structure
// ============================================================================

// Parent returns the widget's parent, or nil if it's the root.
func (w *Widget) Parent() *Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.parent
}

// Children returns a copy of the widget's children slice.
func (w *Widget) Children() []*Widget {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Widget, len(w.children))
	copy(result, w.children)
	return result
}

// Layout returns the widget's layout, or nil for a leaf.
func (w *Widget) Layout() Layout {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.layout
}

// SetLayout installs the layout that places the children. Children already
// added are handed to it in order.
func (w *Widget) SetLayout(l Layout) error {
	w.mu.Lock()
	children := make([]*Widget, len(w.children))
	copy(children, w.children)
	w.layout = l
	w.markDirty(DirtyLayout)
	w.mu.Unlock()

	if l == nil {
		return nil
	}
	for _, child := range children {
		if err := addToLayout(l, child); err != nil {
			return err
		}
	}
	return nil
}

// AddChild appends a child and adds it to the layout. A child with a grid
// placement goes to that cell of a grid layout; otherwise it takes the
// next free slot. A child that belongs to another widget is moved here.
func (w *Widget) AddChild(child *Widget) error {
	if child == nil {
		return errors.Wrap(ErrItemNotFound, "nil child")
	}
	if child == w {
		return errors.Wrap(ErrDuplicateItem, "widget cannot contain itself")
	}
	old := child.Parent()
	if old == w {
		return errors.Wrapf(ErrDuplicateItem, "%s %q is already a child", child.Kind(), child.Name())
	}
	l := w.Layout()
	if l != nil {
		if err := addToLayout(l, child); err != nil {
			return err
		}
	}
	if old != nil {
		old.RemoveChild(child)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	child.mu.Lock()
	child.parent = w
	child.mu.Unlock()

	w.children = append(w.children, child)
	w.markDirty(DirtyChildren)
	return nil
}

// RemoveChild removes a child by reference.
func (w *Widget) RemoveChild(child *Widget) bool {
	w.mu.Lock()
	l := w.layout
	found := false
	for i, c := range w.children {
		if c == child {
			w.children = append(w.children[:i], w.children[i+1:]...)
			found = true
			break
		}
	}
	if found {
		w.markDirty(DirtyChildren)
	}
	w.mu.Unlock()

	if !found {
		return false
	}
	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()

	if l != nil {
		if _, err := l.RemoveItem(child); err != nil {
			w.mu.RLock()
			logger := w.loggerLocked()
			w.mu.RUnlock()
			logger.Warn("child missing from layout",
				slog.String("kind", string(child.Kind())),
				slog.String("name", child.Name()),
				slog.Any("error", err))
		}
	}
	return true
}

func addToLayout(l Layout, child *Widget) error {
	if g, ok := l.(*GridLayout); ok {
		if x, y, sx, sy, ok := child.Cell(); ok {
			return g.AddItemAt(child, x, y, sx, sy)
		}
	}
	return l.AddItem(child)
}

// Find returns the first widget named name in the subtree, depth-first.
func (w *Widget) Find(name string) *Widget {
	if w.Name() == name {
		return w
	}
	for _, c := range w.Children() {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for w and its descendants, parents first, with the depth of
// each widget. Returning false skips the widget's children.
func (w *Widget) Walk(fn func(w *Widget, depth int) bool) {
	w.walk(fn, 0)
}

func (w *Widget) walk(fn func(w *Widget, depth int) bool, depth int) {
	if !fn(w, depth) {
		return
	}
	for _, c := range w.Children() {
		c.walk(fn, depth+1)
	}
}

// ============================================================================
// Property Setters (all thread-safe, trigger dirty tracking)
// ============================================================================

func (w *Widget) markDirty(flags uint64) {
	w.dirty = true
	w.dirtyMask |= flags
}

// IsDirty reports whether anything changed since ClearDirty.
func (w *Widget) IsDirty() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirty
}

// DirtyMask returns the accumulated change flags.
func (w *Widget) DirtyMask() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dirtyMask
}

// ClearDirty resets the change flags.
func (w *Widget) ClearDirty() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = false
	w.dirtyMask = 0
}

func (w *Widget) setAxes(dst *geom.Size, has *[2]bool, s geom.Size) {
	*dst = s
	*has = [2]bool{true, true}
	w.markDirty(DirtySize | DirtyLayout)
}

func (w *Widget) setAxis(dst *geom.Size, has *[2]bool, a geom.Axis, v float32) {
	*dst = dst.WithDim(a, v)
	has[a] = true
	w.markDirty(DirtySize | DirtyLayout)
}

// SetMinSize sets an explicit minimum on both axes.
func (w *Widget) SetMinSize(s geom.Size) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setAxes(&w.minSize, &w.hasMin, s)
	return w
}

// SetSizeHint sets an explicit preferred size on both axes.
func (w *Widget) SetSizeHint(s geom.Size) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setAxes(&w.hint, &w.hasHint, s)
	return w
}

// SetMaxSize sets an explicit maximum on both axes.
func (w *Widget) SetMaxSize(s geom.Size) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setAxes(&w.maxSize, &w.hasMax, s)
	return w
}

// SetFixedSize pins min, hint and max to s and the policy to Fixed.
func (w *Widget) SetFixedSize(s geom.Size) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setAxes(&w.minSize, &w.hasMin, s)
	w.setAxes(&w.hint, &w.hasHint, s)
	w.setAxes(&w.maxSize, &w.hasMax, s)
	w.policy = NewSizePolicy(PolicyFixed, PolicyFixed)
	return w
}

// SetSizePolicy replaces the policy.
func (w *Widget) SetSizePolicy(p SizePolicy) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.policy != p {
		w.policy = p
		w.markDirty(DirtyLayout)
	}
	return w
}

// SetCell sets the grid placement used when the parent lays out on a grid.
func (w *Widget) SetCell(x, y, spanX, spanY int) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cell = [4]int{x, y, spanX, spanY}
	w.hasCell = true
	return w
}

// Cell returns the grid placement, if one was set.
func (w *Widget) Cell() (x, y, spanX, spanY int, ok bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cell[0], w.cell[1], w.cell[2], w.cell[3], w.hasCell
}

// SetText sets the text content. Text widgets derive their hint from it.
func (w *Widget) SetText(text string) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.text != text {
		w.text = text
		w.markDirty(DirtyText | DirtyLayout)
	}
	return w
}

// Text returns the text content.
func (w *Widget) Text() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.text
}

// SetFontSize sets the font size used for text metrics.
func (w *Widget) SetFontSize(size float32) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fontSize != size {
		w.fontSize = size
		w.markDirty(DirtyText | DirtyLayout)
	}
	return w
}

// Classes returns the class string last applied.
func (w *Widget) Classes() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.classes
}

// ============================================================================
// Text Metrics
// ============================================================================

// lineHeightFactor is the line height as a multiple of the font size.
const lineHeightFactor = 1.2

// measureTextWidthFunc is the function used to measure text width.
// This can be swapped out by a renderer with real font metrics.
var measureTextWidthFunc = defaultMeasureTextWidth

// defaultMeasureTextWidth estimates width from terminal cell width, so wide
// runes count double.
func defaultMeasureTextWidth(text string, fontSize float32) float32 {
	return float32(runewidth.StringWidth(text)) * fontSize * 0.6
}

// SetMeasureTextWidthFunc allows setting a custom text measurement function.
func SetMeasureTextWidthFunc(fn func(text string, fontSize float32) float32) {
	if fn == nil {
		fn = defaultMeasureTextWidth
	}
	measureTextWidthFunc = fn
}

// contentSizeLocked is the text extent plus the kind's chrome.
func (w *Widget) contentSizeLocked() geom.Size {
	if w.text == "" && w.chrome == (geom.Size{}) {
		return geom.Size{}
	}
	var text geom.Size
	if w.text != "" {
		text = geom.NewSize(measureTextWidthFunc(w.text, w.fontSize), w.fontSize*lineHeightFactor)
	}
	return text.Add(w.chrome)
}

// ============================================================================
// LayoutItem
// ============================================================================

// Sizes resolves min, hint and max from a single measurement. Explicit
// values win per axis; the rest come from the layout's measurement, or the
// content for leaves. Derived values are clamped into the explicit ones.
func (w *Widget) Sizes() (lo, hint, hi geom.Size) {
	w.mu.RLock()
	l, measure := w.layout, w.measure
	explicitMin, explicitHint, explicitMax := w.minSize, w.hint, w.maxSize
	hasMin, hasHint, hasMax := w.hasMin, w.hasHint, w.hasMax
	content := w.contentSizeLocked()
	chrome := w.chrome
	textual := w.text != ""
	lineH := w.fontSize * lineHeightFactor
	w.mu.RUnlock()

	var m Measurement
	switch {
	case measure != nil:
		m = measure()
	case l != nil:
		m = l.Measure()
	default:
		m = Measurement{Hint: content, Max: geom.UnboundedSize()}
		if textual {
			m.Min = geom.NewSize(chrome.W, lineH+chrome.H)
		}
	}

	for _, a := range axes {
		mn, ht, mx := m.Min.Dim(a), m.Hint.Dim(a), m.Max.Dim(a)
		if hasMax[a] {
			mx = explicitMax.Dim(a)
		}
		if hasMin[a] {
			mn = explicitMin.Dim(a)
		} else {
			mn = min(mn, mx)
		}
		if !hasMax[a] {
			mx = max(mx, mn)
		}
		if hasHint[a] {
			ht = explicitHint.Dim(a)
		} else {
			ht = geom.Clamp(ht, mn, mx)
		}
		lo = lo.WithDim(a, mn)
		hint = hint.WithDim(a, ht)
		hi = hi.WithDim(a, mx)
	}
	return lo, hint, hi
}

// MinSize returns the smallest acceptable size.
func (w *Widget) MinSize() geom.Size {
	lo, _, _ := w.Sizes()
	return lo
}

// SizeHint returns the preferred size.
func (w *Widget) SizeHint() geom.Size {
	_, hint, _ := w.Sizes()
	return hint
}

// MaxSize returns the largest acceptable size.
func (w *Widget) MaxSize() geom.Size {
	_, _, hi := w.Sizes()
	return hi
}

// SizePolicy returns how the widget may deviate from its hint.
func (w *Widget) SizePolicy() SizePolicy {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.policy
}

// Visible reports whether the widget takes part in layout.
func (w *Widget) Visible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// SetVisible shows or hides the widget.
func (w *Widget) SetVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible != visible {
		w.visible = visible
		w.markDirty(DirtyVisible)
	}
}

// RenderingArea returns the area the parent's layout gave the widget,
// relative to the parent's top-left corner.
func (w *Widget) RenderingArea() geom.Box {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.box
}

// AbsoluteArea returns the rendering area in root coordinates.
func (w *Widget) AbsoluteArea() geom.Box {
	w.mu.RLock()
	box, parent := w.box, w.parent
	w.mu.RUnlock()
	if parent == nil {
		return box
	}
	origin := parent.AbsoluteArea()
	return box.Translate(geom.Vec2{X: origin.Left(), Y: origin.Top()})
}

// LayoutError returns the error of the widget's last layout pass, if any.
func (w *Widget) LayoutError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.layoutErr
}

// PostEvent handles notifications from the parent's layout. A resize stores
// the new area and, for a visible container, lays out the children in it
// before returning.
func (w *Widget) PostEvent(e Event) {
	switch ev := e.(type) {
	case *ResizeEvent:
		w.mu.Lock()
		if w.box != ev.Box {
			w.box = ev.Box
			w.markDirty(DirtyPosition | DirtySize)
		}
		l, visible, hook := w.layout, w.visible, w.onResize
		w.mu.Unlock()

		if hook != nil {
			hook(ev.Box)
		}
		if l != nil && visible {
			w.relayout(l, ev.Box.Size())
		}
	case *VisibilityEvent:
		w.mu.Lock()
		w.markDirty(DirtyVisible)
		w.mu.Unlock()
	}
}

// relayout runs the widget's layout over size. A failure keeps the children
// where the last successful pass put them.
func (w *Widget) relayout(l Layout, size geom.Size) {
	err := l.ComputeGeometry(size)

	w.mu.Lock()
	w.layoutErr = err
	logger, kind, name := w.loggerLocked(), w.kind, w.name
	w.mu.Unlock()

	if err != nil {
		logger.Warn("layout pass failed",
			slog.String("kind", string(kind)),
			slog.String("name", name),
			slog.Any("error", err))
	}
}

// ComputeLayout gives root a width×height area at the origin and lays out
// the whole tree. It returns the error of root's own pass; failures deeper
// down are logged and kept on the failing widget.
func ComputeLayout(root *Widget, width, height float32) error {
	if root == nil {
		return errors.Wrap(ErrItemNotFound, "nil root")
	}
	e := NewResizeEvent(geom.BoxFromCorner(0, 0, width, height), root.RenderingArea())
	root.PostEvent(e)
	e.Release()
	return root.LayoutError()
}

// ============================================================================
// Classes
// ============================================================================

// ApplyClasses sets size properties from a class string such as
// "w-24 min-h-8 expand-x stretch-x-2 col-span-2".
func (w *Widget) ApplyClasses(classes string) error {
	return w.applyProperties(classes, tw.Parse(classes))
}

// ApplyClassesForWidth is ApplyClasses with responsive variants resolved
// for a window width.
func (w *Widget) ApplyClassesForWidth(classes string, width float32) error {
	cs := tw.ParseClasses(classes)
	return w.applyProperties(classes, cs.ResolveForWidth(width, tw.GetBreakpoints()))
}

func (w *Widget) applyProperties(classes string, p tw.SizeProperties) error {
	policy := w.SizePolicy()
	if p.PolicyX != nil {
		pol, err := ParsePolicy(*p.PolicyX)
		if err != nil {
			return err
		}
		policy = policy.WithPolicy(geom.Horizontal, pol)
	}
	if p.PolicyY != nil {
		pol, err := ParsePolicy(*p.PolicyY)
		if err != nil {
			return err
		}
		policy = policy.WithPolicy(geom.Vertical, pol)
	}
	if p.StretchX != nil {
		policy.HorizontalStretch = *p.StretchX
	}
	if p.StretchY != nil {
		policy.VerticalStretch = *p.StretchY
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.classes = classes
	w.policy = policy
	sizes := []struct {
		v   *float32
		dst *geom.Size
		has *[2]bool
		a   geom.Axis
	}{
		{p.Width, &w.hint, &w.hasHint, geom.Horizontal},
		{p.Height, &w.hint, &w.hasHint, geom.Vertical},
		{p.MinWidth, &w.minSize, &w.hasMin, geom.Horizontal},
		{p.MinHeight, &w.minSize, &w.hasMin, geom.Vertical},
		{p.MaxWidth, &w.maxSize, &w.hasMax, geom.Horizontal},
		{p.MaxHeight, &w.maxSize, &w.hasMax, geom.Vertical},
	}
	for _, s := range sizes {
		if s.v != nil {
			w.setAxis(s.dst, s.has, s.a, *s.v)
		}
	}

	if p.Column != nil || p.Row != nil || p.ColSpan != nil || p.RowSpan != nil {
		if !w.hasCell {
			w.cell = [4]int{0, 0, 1, 1}
			w.hasCell = true
		}
		for i, v := range []*int{p.Column, p.Row, p.ColSpan, p.RowSpan} {
			if v != nil {
				w.cell[i] = *v
			}
		}
	}
	if p.Hidden != nil && w.visible == *p.Hidden {
		w.visible = !*p.Hidden
		w.markDirty(DirtyVisible)
	}
	if p.Margin != nil {
		w.layoutMargin = p.Margin
	}
	if p.Spacing != nil {
		w.layoutSpacing = p.Spacing
	}
	w.markDirty(DirtyLayout)
	return nil
}

// LayoutConfig returns base with the margin and spacing the widget's
// classes set, for building the widget's own layout.
func (w *Widget) LayoutConfig(base Config) Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.layoutMargin != nil {
		base.Margin = *w.layoutMargin
	}
	if w.layoutSpacing != nil {
		base.Spacing = *w.layoutSpacing
	}
	if w.logger != nil && base.Logger == nil {
		base.Logger = w.logger
	}
	return base
}
