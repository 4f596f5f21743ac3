package retained

import (
	"testing"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

func TestCheckboxToggle(t *testing.T) {
	cb := NewCheckbox("Remember me", "")
	if cb.Checked() {
		t.Fatal("new checkbox should be unchecked")
	}
	if !cb.Toggle() || !cb.Checked() {
		t.Error("Toggle() should check the box")
	}
	cb.SetChecked(false)
	if cb.Checked() {
		t.Error("SetChecked(false) did not uncheck")
	}
}

// ============================================================================
// ScrollArea
// ============================================================================

func newScrollArea(t *testing.T, contentW, contentH float32) (*ScrollArea, *Widget) {
	t.Helper()
	content := NewWidget(KindContainer).WithSizeHint(contentW, contentH)
	a, err := NewScrollArea(DefaultConfig(), content, "")
	if err != nil {
		t.Fatalf("NewScrollArea() error = %v", err)
	}
	return a, content
}

func TestScrollAreaOverflow(t *testing.T) {
	a, content := newScrollArea(t, 400, 300)
	if err := ComputeLayout(a.Widget, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	tests := []struct {
		name string
		got  geom.Box
		want geom.Box
	}{
		{"viewport", a.Viewport(), geom.NewBox(94, 44, 188, 88)},
		{"vertical bar", a.VerticalBar().RenderingArea(), geom.NewBox(194, 44, 12, 88)},
		{"horizontal bar", a.HorizontalBar().RenderingArea(), geom.NewBox(94, 94, 188, 12)},
		{"content", content.RenderingArea(), geom.BoxFromCorner(0, 0, 400, 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !boxNear(tt.got, tt.want) {
				t.Errorf("area = %+v, want %+v", tt.got, tt.want)
			}
		})
	}
	if !a.VerticalBar().Visible() || !a.HorizontalBar().Visible() {
		t.Error("both bars should be shown")
	}
}

func TestScrollAreaFits(t *testing.T) {
	a, content := newScrollArea(t, 100, 50)
	if err := ComputeLayout(a.Widget, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	if a.VerticalBar().Visible() || a.HorizontalBar().Visible() {
		t.Error("bars should be hidden when the content fits")
	}
	if want := geom.NewBox(100, 50, 200, 100); !boxNear(a.Viewport(), want) {
		t.Errorf("Viewport() = %+v, want %+v", a.Viewport(), want)
	}
	// The content is stretched to the viewport.
	if want := geom.BoxFromCorner(0, 0, 200, 100); !boxNear(content.RenderingArea(), want) {
		t.Errorf("content area = %+v, want %+v", content.RenderingArea(), want)
	}
	if a.VerticalBar().RenderingArea() != (geom.Box{}) {
		t.Errorf("hidden bar area = %+v, want zero", a.VerticalBar().RenderingArea())
	}
}

func TestScrollAreaOneBar(t *testing.T) {
	a, _ := newScrollArea(t, 100, 300)
	if err := ComputeLayout(a.Widget, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if !a.VerticalBar().Visible() || a.HorizontalBar().Visible() {
		t.Errorf("bars = %v, %v; want only the vertical one",
			a.VerticalBar().Visible(), a.HorizontalBar().Visible())
	}
	if want := geom.NewBox(94, 50, 188, 100); !boxNear(a.Viewport(), want) {
		t.Errorf("Viewport() = %+v, want %+v", a.Viewport(), want)
	}
}

func TestScrollAreaScrolling(t *testing.T) {
	a, content := newScrollArea(t, 400, 300)
	if err := ComputeLayout(a.Widget, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	tests := []struct {
		name    string
		op      func()
		wantOff geom.Vec2
	}{
		{"to", func() { a.ScrollTo(30, 40) }, geom.Vec2{X: 30, Y: 40}},
		{"clamped past end", func() { a.ScrollTo(1000, 50) }, geom.Vec2{X: 212, Y: 50}},
		{"by", func() { a.ScrollBy(-12, -100) }, geom.Vec2{X: 200, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.op()
			off := a.ScrollOffset()
			if !geom.FuzzyEqual(off.X, tt.wantOff.X, 0.01) || !geom.FuzzyEqual(off.Y, tt.wantOff.Y, 0.01) {
				t.Errorf("ScrollOffset() = %+v, want %+v", off, tt.wantOff)
			}
			want := geom.BoxFromCorner(-off.X, -off.Y, 400, 300)
			if !boxNear(content.RenderingArea(), want) {
				t.Errorf("content area = %+v, want %+v", content.RenderingArea(), want)
			}
		})
	}

	// A new pass keeps the offset.
	if err := ComputeLayout(a.Widget, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if off := a.ScrollOffset(); off.X != 200 {
		t.Errorf("ScrollOffset().X = %v after relayout, want 200", off.X)
	}
}

func TestScrollAreaSizes(t *testing.T) {
	a, _ := newScrollArea(t, 400, 300)
	if want := geom.NewSize(400, 300); a.SizeHint() != want {
		t.Errorf("SizeHint() = %v, want %v", a.SizeHint(), want)
	}
	if want := geom.NewSize(24, 24); a.MinSize() != want {
		t.Errorf("MinSize() = %v, want %v", a.MinSize(), want)
	}
	if _, err := NewScrollArea(DefaultConfig(), nil, ""); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("NewScrollArea(nil) error = %v, want ErrItemNotFound", err)
	}
}

// ============================================================================
// TabContainer
// ============================================================================

func TestTabContainer(t *testing.T) {
	tc := NewTabContainer(DefaultConfig(), "")
	one := NewLabel("first page", "").WithPolicy(PolicyExpanding, PolicyExpanding)
	two := NewLabel("second page", "").WithPolicy(PolicyExpanding, PolicyExpanding)

	if tc.CurrentTab() != -1 || tc.TabCount() != 0 {
		t.Fatalf("empty container: current %d, count %d", tc.CurrentTab(), tc.TabCount())
	}
	if err := tc.AddTab("One", one); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}
	if err := tc.AddTab("Two", two); err != nil {
		t.Fatalf("AddTab() error = %v", err)
	}
	if err := tc.AddTab("Three", nil); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("AddTab(nil) error = %v, want ErrItemNotFound", err)
	}

	if tc.CurrentTab() != 0 || !one.Visible() || two.Visible() {
		t.Errorf("current %d, visible %v/%v; want the first page", tc.CurrentTab(), one.Visible(), two.Visible())
	}
	if !tc.TabButton(0).Checked() || tc.TabButton(1).Checked() {
		t.Error("only the first tab button should be checked")
	}

	if err := tc.SetCurrentTab(1); err != nil {
		t.Fatalf("SetCurrentTab() error = %v", err)
	}
	if one.Visible() || !two.Visible() || !tc.TabButton(1).Checked() || tc.TabButton(0).Checked() {
		t.Error("second tab should be current")
	}
	if tc.Page(1) != two || tc.TabButton(1).Text() != "Two" {
		t.Error("Page(1) or TabButton(1) mismatch")
	}

	if err := ComputeLayout(tc.Widget, 300, 200); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	page := two.AbsoluteArea()
	bar := tc.TabButton(1).AbsoluteArea()
	if page.IsEmpty() || bar.IsEmpty() {
		t.Fatalf("page %+v or tab button %+v not laid out", page, bar)
	}
	if page.Top() < bar.Bottom() {
		t.Errorf("page top %v overlaps the tab bar bottom %v", page.Top(), bar.Bottom())
	}

	if err := tc.SetCurrentTab(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetCurrentTab(5) error = %v, want ErrIndexOutOfRange", err)
	}

	if err := tc.RemoveTab(1); err != nil {
		t.Fatalf("RemoveTab() error = %v", err)
	}
	if tc.TabCount() != 1 || tc.CurrentTab() != 0 || !one.Visible() {
		t.Errorf("after RemoveTab count %d current %d", tc.TabCount(), tc.CurrentTab())
	}
	if !tc.TabButton(0).Checked() || tc.TabButton(1) != nil {
		t.Error("remaining tab button should be checked and alone")
	}
	if tc.Page(3) != nil {
		t.Error("Page(3) should be nil")
	}
}

// ============================================================================
// SelectionBox
// ============================================================================

func TestSelectionBox(t *testing.T) {
	sb, err := NewSelectionBox(DefaultConfig(), "", "Red", "Green", "Blue")
	if err != nil {
		t.Fatalf("NewSelectionBox() error = %v", err)
	}

	steps := []struct {
		name     string
		op       func()
		wantIdx  int
		wantText string
	}{
		{"initial", func() {}, 0, "Red"},
		{"next", sb.Next, 1, "Green"},
		{"prev", sb.Prev, 0, "Red"},
		{"prev wraps", sb.Prev, 2, "Blue"},
		{"next wraps", sb.Next, 0, "Red"},
	}
	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			tt.op()
			i, text := sb.Selected()
			if i != tt.wantIdx || text != tt.wantText {
				t.Errorf("Selected() = %d, %q; want %d, %q", i, text, tt.wantIdx, tt.wantText)
			}
		})
	}
}

func TestSelectionBoxGeometry(t *testing.T) {
	sb, err := NewSelectionBox(DefaultConfig(), "", "Red", "Green")
	if err != nil {
		t.Fatalf("NewSelectionBox() error = %v", err)
	}
	if err := ComputeLayout(sb.Widget, 200, 30); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	prev, next := sb.ArrowAreas()
	if want := geom.NewBox(12, 15, 16, 16); !boxNear(prev, want) {
		t.Errorf("prev arrow = %+v, want %+v", prev, want)
	}
	if want := geom.NewBox(188, 15, 16, 16); !boxNear(next, want) {
		t.Errorf("next arrow = %+v, want %+v", next, want)
	}

	// The options take what the arrows leave.
	opts := sb.Find("options").RenderingArea()
	if !geom.FuzzyEqual(opts.W, 152, 0.01) || !geom.FuzzyEqual(opts.X, 100, 0.01) {
		t.Errorf("options area = %+v, want width 152 centered at 100", opts)
	}
}

func TestSelectionBoxEmpty(t *testing.T) {
	sb, err := NewSelectionBox(DefaultConfig(), "")
	if err != nil {
		t.Fatalf("NewSelectionBox() error = %v", err)
	}
	if i, text := sb.Selected(); i != -1 || text != "" {
		t.Errorf("Selected() = %d, %q; want -1, \"\"", i, text)
	}
	sb.Next()
	if err := sb.AddOption("Only"); err != nil {
		t.Fatalf("AddOption() error = %v", err)
	}
	if i, text := sb.Selected(); i != 0 || text != "Only" {
		t.Errorf("Selected() = %d, %q; want 0, Only", i, text)
	}
}
