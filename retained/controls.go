package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// Control widgets: Label, Button, Checkbox, TextBox, and the composites
// ScrollArea, TabContainer and SelectionBox.
// Leaf controls derive their hint from their text; composites arrange
// their parts with layouts, using virtual items for the parts that are
// not widgets.

// ============================================================================
// Leaf Controls
// ============================================================================

// Chrome added around the text of each control, in pixels.
var (
	buttonChrome   = geom.NewSize(16, 8)
	checkboxChrome = geom.NewSize(checkboxBoxSize+6, 0)
	textBoxChrome  = geom.NewSize(12, 8)
)

const checkboxBoxSize float32 = 18

// NewLabel creates a text label. It keeps its text size unless its parent
// has nowhere else to put space.
func NewLabel(text string, classes string) *Widget {
	w := NewWidget(KindLabel)
	w.text = text
	w.applyBuildClasses(classes)
	return w
}

// NewButton creates a push button. It may widen but keeps its height.
func NewButton(text string, classes string) *Widget {
	w := NewWidget(KindButton)
	w.text = text
	w.chrome = buttonChrome
	w.policy = NewSizePolicy(PolicyMinimum, PolicyFixed)
	w.applyBuildClasses(classes)
	return w
}

// NewCheckbox creates a checkbox with a label. Its height is at least the box.
func NewCheckbox(label string, classes string) *Widget {
	w := NewWidget(KindCheckbox)
	w.text = label
	w.chrome = checkboxChrome
	w.policy = NewSizePolicy(PolicyPreferred, PolicyFixed)
	w.minSize = geom.NewSize(checkboxBoxSize, checkboxBoxSize)
	w.hasMin[geom.Vertical] = true
	w.applyBuildClasses(classes)
	return w
}

// NewTextBox creates a single-line text input showing placeholder until
// text is set. It takes all the width it can get.
func NewTextBox(placeholder string, classes string) *Widget {
	w := NewWidget(KindTextBox)
	w.text = placeholder
	w.chrome = textBoxChrome
	w.policy = NewSizePolicy(PolicyExpanding, PolicyFixed)
	w.applyBuildClasses(classes)
	return w
}

// Checked returns whether the checkbox is checked.
func (w *Widget) Checked() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.checked
}

// SetChecked sets the checked state.
func (w *Widget) SetChecked(checked bool) *Widget {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.checked != checked {
		w.checked = checked
		w.markDirty(DirtyText)
	}
	return w
}

// Toggle flips the checked state and returns the new value.
func (w *Widget) Toggle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.checked = !w.checked
	w.markDirty(DirtyText)
	return w.checked
}

// ============================================================================
// ScrollArea
// ============================================================================

// DefaultScrollBarThickness is the width of a vertical scroll bar.
const DefaultScrollBarThickness float32 = 12

// ScrollArea shows a content widget through a viewport, with scroll bars
// when the content does not fit.
//
// The area is split by a 2×2 grid of virtual items: viewport, vertical bar,
// horizontal bar and corner. The bars are managed along their long axis
// only; their thickness is written directly so it never depends on how the
// grid shares the space.
type ScrollArea struct {
	*Widget

	content *Widget
	vbar    *Widget
	hbar    *Widget

	grid     *GridLayout
	viewport *VirtualLayoutItem
	vslot    *VirtualLayoutItem
	hslot    *VirtualLayoutItem
	corner   *VirtualLayoutItem

	thickness float32
	scrollX   float32
	scrollY   float32
	view      geom.Size
	extent    geom.Size
}

// NewScrollArea wraps content in a scroll area.
func NewScrollArea(cfg Config, content *Widget, classes string) (*ScrollArea, error) {
	if content == nil {
		return nil, errors.Wrap(ErrItemNotFound, "nil content")
	}
	t := DefaultScrollBarThickness
	a := &ScrollArea{
		Widget:    NewWidget(KindScrollArea),
		content:   content,
		vbar:      NewWidget(KindScrollBar).SetName("vertical"),
		hbar:      NewWidget(KindScrollBar).SetName("horizontal"),
		viewport:  NewVirtualLayoutItem(geom.Size{}, NewSizePolicy(PolicyExpanding, PolicyExpanding)),
		vslot:     NewVirtualLayoutItem(geom.NewSize(t, 0), NewSizePolicy(PolicyFixed, PolicyExpanding)),
		hslot:     NewVirtualLayoutItem(geom.NewSize(0, t), NewSizePolicy(PolicyExpanding, PolicyFixed)),
		corner:    NewVirtualLayoutItem(geom.NewSize(t, t), NewSizePolicy(PolicyFixed, PolicyFixed)),
		thickness: t,
	}
	a.vslot.SetManaged(geom.Horizontal, false)
	a.hslot.SetManaged(geom.Vertical, false)

	grid, err := NewGridLayout(2, 2, cfg.WithMargins(0, 0))
	if err != nil {
		return nil, err
	}
	placements := []struct {
		item LayoutItem
		x, y int
	}{
		{a.viewport, 0, 0},
		{a.vslot, 1, 0},
		{a.hslot, 0, 1},
		{a.corner, 1, 1},
	}
	for _, p := range placements {
		if err := grid.AddItemAt(p.item, p.x, p.y, 1, 1); err != nil {
			return nil, err
		}
	}
	a.grid = grid

	a.applyBuildClasses(classes)
	a.measure = a.measureArea
	a.onResize = a.arrange
	for _, child := range []*Widget{content, a.vbar, a.hbar} {
		if err := a.AddChild(child); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Content returns the scrolled widget.
func (a *ScrollArea) Content() *Widget { return a.content }

// VerticalBar returns the vertical scroll bar widget.
func (a *ScrollArea) VerticalBar() *Widget { return a.vbar }

// HorizontalBar returns the horizontal scroll bar widget.
func (a *ScrollArea) HorizontalBar() *Widget { return a.hbar }

// Viewport returns the area the content is seen through, relative to the
// scroll area.
func (a *ScrollArea) Viewport() geom.Box { return a.viewport.RenderingArea() }

// measureArea lets the area shrink to the bars alone and prefer the
// content's hint.
func (a *ScrollArea) measureArea() Measurement {
	t := a.thickness
	_, hint, hi := a.content.Sizes()
	return Measurement{
		Min:  geom.NewSize(t*2, t*2),
		Hint: hint.Max(geom.NewSize(t*2, t*2)),
		Max:  hi.Add(geom.NewSize(t, t)),
	}
}

// arrange splits box between viewport and bars, then places the content
// under the viewport shifted by the scroll offset.
func (a *ScrollArea) arrange(box geom.Box) {
	t := a.thickness
	size := box.Size()
	lo, want, hi := a.content.Sizes()

	needV := want.H > size.H
	needH := want.W > size.W-barIf(needV, t)
	if needH && !needV {
		needV = want.H > size.H-t
	}
	a.vslot.SetVisible(needV)
	a.hslot.SetVisible(needH)
	a.corner.SetVisible(needV && needH)

	err := a.viewport.SetSizes(geom.Size{}, geom.Size{}, geom.UnboundedSize())
	if err == nil {
		err = a.viewport.UpdateMaxSize(hi)
	}
	if err == nil {
		err = a.grid.ComputeGeometry(size)
	}
	if err != nil {
		a.mu.Lock()
		a.layoutErr = err
		a.mu.Unlock()
		return
	}
	a.vslot.SetExtent(geom.Horizontal, size.W-t/2, t)
	a.hslot.SetExtent(geom.Vertical, size.H-t/2, t)

	view := a.viewport.RenderingArea()
	extent := geom.NewSize(
		geom.Clamp(max(want.W, view.W), lo.W, hi.W),
		geom.Clamp(max(want.H, view.H), lo.H, hi.H))

	a.mu.Lock()
	a.view, a.extent = view.Size(), extent
	a.clampScrollLocked()
	sx, sy := a.scrollX, a.scrollY
	a.layoutErr = nil
	a.mu.Unlock()

	a.vbar.SetVisible(needV)
	a.hbar.SetVisible(needH)
	post(a.vbar, barBox(needV, a.vslot.RenderingArea()))
	post(a.hbar, barBox(needH, a.hslot.RenderingArea()))
	post(a.content, geom.BoxFromCorner(view.Left()-sx, view.Top()-sy, extent.W, extent.H))
}

func barIf(shown bool, t float32) float32 {
	if shown {
		return t
	}
	return 0
}

func barBox(shown bool, b geom.Box) geom.Box {
	if !shown {
		return geom.Box{}
	}
	return b
}

// post delivers a resize to a widget outside a layout pass.
func post(w *Widget, box geom.Box) {
	e := NewResizeEvent(box, w.RenderingArea())
	w.PostEvent(e)
	e.Release()
}

// ScrollOffset returns the current scroll position.
func (a *ScrollArea) ScrollOffset() geom.Vec2 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return geom.Vec2{X: a.scrollX, Y: a.scrollY}
}

// ScrollTo moves the content so (x, y) of it shows at the viewport's
// top-left, clamped to the content. The content is moved right away when
// the area has been laid out.
func (a *ScrollArea) ScrollTo(x, y float32) {
	a.mu.Lock()
	a.scrollX, a.scrollY = x, y
	a.clampScrollLocked()
	sx, sy := a.scrollX, a.scrollY
	extent := a.extent
	a.markDirty(DirtyPosition)
	a.mu.Unlock()

	view := a.viewport.RenderingArea()
	if extent != (geom.Size{}) {
		post(a.content, geom.BoxFromCorner(view.Left()-sx, view.Top()-sy, extent.W, extent.H))
	}
}

// ScrollBy moves the scroll position by (dx, dy).
func (a *ScrollArea) ScrollBy(dx, dy float32) {
	off := a.ScrollOffset()
	a.ScrollTo(off.X+dx, off.Y+dy)
}

func (a *ScrollArea) clampScrollLocked() {
	a.scrollX = geom.Clamp(a.scrollX, 0, max(a.extent.W-a.view.W, 0))
	a.scrollY = geom.Clamp(a.scrollY, 0, max(a.extent.H-a.view.H, 0))
}

// ============================================================================
// TabContainer
// ============================================================================

// TabContainer shows a row of tab buttons above a stack of pages, one page
// at a time.
type TabContainer struct {
	*Widget

	bar   *Widget
	pages *Widget
	stack *SelectorLayout
}

// NewTabContainer creates an empty tab container.
func NewTabContainer(cfg Config, classes string) *TabContainer {
	tc := &TabContainer{Widget: NewWidget(KindTabContainer)}
	tc.applyBuildClasses(classes)

	cfg = tc.LayoutConfig(cfg)
	tc.bar = HStack(cfg.WithMargins(0, cfg.Spacing), "").SetName("tabs")
	tc.bar.SetSizePolicy(NewSizePolicy(PolicyExpanding, PolicyFixed))

	tc.stack = NewSelectorLayout(cfg.WithMargins(0, 0))
	tc.pages = NewWidget(KindStack).SetName("pages")
	tc.pages.SetSizePolicy(NewSizePolicy(PolicyExpanding, PolicyExpanding))
	tc.pages.buildWith(tc.stack, nil)

	tc.buildWith(NewColumn(cfg), []*Widget{tc.bar, tc.pages})
	return tc
}

// AddTab appends a page with a tab button titled title.
func (tc *TabContainer) AddTab(title string, page *Widget) error {
	if page == nil {
		return errors.Wrap(ErrItemNotFound, "nil page")
	}
	if err := tc.pages.AddChild(page); err != nil {
		return err
	}
	if err := tc.bar.AddChild(NewButton(title, "")); err != nil {
		tc.pages.RemoveChild(page)
		return err
	}
	tc.syncButtons()
	return nil
}

// RemoveTab removes the tab at index and its page.
func (tc *TabContainer) RemoveTab(index int) error {
	item, err := tc.stack.ItemAt(index)
	if err != nil {
		return err
	}
	tc.pages.RemoveChild(item.(*Widget))
	tc.bar.RemoveChild(tc.bar.Children()[index])
	tc.syncButtons()
	return nil
}

// SetCurrentTab shows the page at index.
func (tc *TabContainer) SetCurrentTab(index int) error {
	if err := tc.stack.SetActiveItem(index); err != nil {
		return err
	}
	tc.syncButtons()
	return nil
}

// CurrentTab returns the index of the shown page, or -1 with no tabs.
func (tc *TabContainer) CurrentTab() int {
	return tc.stack.ActiveItem()
}

// TabCount returns the number of tabs.
func (tc *TabContainer) TabCount() int {
	return tc.stack.Len()
}

// Page returns the page at index, or nil.
func (tc *TabContainer) Page(index int) *Widget {
	item, err := tc.stack.ItemAt(index)
	if err != nil {
		return nil
	}
	return item.(*Widget)
}

// TabButton returns the tab button at index, or nil.
func (tc *TabContainer) TabButton(index int) *Widget {
	buttons := tc.bar.Children()
	if index < 0 || index >= len(buttons) {
		return nil
	}
	return buttons[index]
}

// syncButtons marks the button of the current tab as checked.
func (tc *TabContainer) syncButtons() {
	current := tc.stack.ActiveItem()
	for i, b := range tc.bar.Children() {
		b.SetChecked(i == current)
	}
}

// ============================================================================
// SelectionBox
// ============================================================================

// selectionArrowSize is the square reserved for each arrow.
const selectionArrowSize float32 = 16

// SelectionBox shows one option at a time between a previous and a next
// arrow. The arrows are virtual items: the box reserves their space and
// reports their areas, and drawing them is up to the renderer.
type SelectionBox struct {
	*Widget

	prev    *VirtualLayoutItem
	next    *VirtualLayoutItem
	options *Widget
	stack   *SelectorLayout
}

// NewSelectionBox creates a selection box over options, the first selected.
func NewSelectionBox(cfg Config, classes string, options ...string) (*SelectionBox, error) {
	sb := &SelectionBox{Widget: NewWidget(KindSelectionBox)}
	sb.policy = NewSizePolicy(PolicyMinimum, PolicyFixed)
	sb.applyBuildClasses(classes)

	arrow := geom.NewSize(selectionArrowSize, selectionArrowSize)
	sb.prev = NewVirtualLayoutItem(arrow, NewSizePolicy(PolicyFixed, PolicyFixed))
	sb.next = NewVirtualLayoutItem(arrow, NewSizePolicy(PolicyFixed, PolicyFixed))

	cfg = sb.LayoutConfig(cfg)
	sb.stack = NewSelectorLayout(cfg.WithMargins(0, 0))
	sb.options = NewWidget(KindStack).SetName("options")
	sb.options.SetSizePolicy(NewSizePolicy(PolicyExpanding, PolicyPreferred))
	if err := sb.options.SetLayout(sb.stack); err != nil {
		return nil, err
	}

	row := NewRow(cfg)
	if err := sb.SetLayout(row); err != nil {
		return nil, err
	}
	if err := row.AddItem(sb.prev); err != nil {
		return nil, err
	}
	if err := sb.AddChild(sb.options); err != nil {
		return nil, err
	}
	if err := row.AddItem(sb.next); err != nil {
		return nil, err
	}

	for _, opt := range options {
		if err := sb.AddOption(opt); err != nil {
			return nil, err
		}
	}
	return sb, nil
}

// AddOption appends an option.
func (sb *SelectionBox) AddOption(text string) error {
	return sb.options.AddChild(NewLabel(text, ""))
}

// Next selects the following option, wrapping around.
func (sb *SelectionBox) Next() {
	sb.stack.SwitchToNext()
}

// Prev selects the preceding option, wrapping around.
func (sb *SelectionBox) Prev() {
	sb.stack.SwitchToPrevious()
}

// Selected returns the index and text of the selected option, or -1 and ""
// with no options.
func (sb *SelectionBox) Selected() (int, string) {
	i := sb.stack.ActiveItem()
	if i < 0 {
		return -1, ""
	}
	item, err := sb.stack.ItemAt(i)
	if err != nil {
		return -1, ""
	}
	return i, item.(*Widget).Text()
}

// ArrowAreas returns the areas reserved for the previous and next arrows.
func (sb *SelectionBox) ArrowAreas() (prev, next geom.Box) {
	return sb.prev.RenderingArea(), sb.next.RenderingArea()
}
