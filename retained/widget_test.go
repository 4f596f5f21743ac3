package retained

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

func sizeNear(a, b geom.Size) bool {
	return a.FuzzyEqual(b, 0.01)
}

// withFixedTextMetrics makes every rune 10 wide for the duration of a test.
func withFixedTextMetrics(t *testing.T) {
	t.Helper()
	SetMeasureTextWidthFunc(func(text string, _ float32) float32 {
		return float32(len([]rune(text))) * 10
	})
	t.Cleanup(func() { SetMeasureTextWidthFunc(nil) })
}

func TestWidgetCreation(t *testing.T) {
	tests := []struct {
		name       string
		widget     *Widget
		wantKind   WidgetKind
		wantPolicy SizePolicy
	}{
		{"container", Container(""), KindContainer, NewSizePolicy(PolicyPreferred, PolicyPreferred)},
		{"spacer", Spacer(), KindContainer, NewSizePolicy(PolicyExpanding, PolicyExpanding)},
		{"label", NewLabel("Hi", ""), KindLabel, NewSizePolicy(PolicyPreferred, PolicyPreferred)},
		{"button", NewButton("OK", ""), KindButton, NewSizePolicy(PolicyMinimum, PolicyFixed)},
		{"checkbox", NewCheckbox("On", ""), KindCheckbox, NewSizePolicy(PolicyPreferred, PolicyFixed)},
		{"text box", NewTextBox("Name", ""), KindTextBox, NewSizePolicy(PolicyExpanding, PolicyFixed)},
		{"vstack", VStack(DefaultConfig(), ""), KindVStack, NewSizePolicy(PolicyPreferred, PolicyPreferred)},
	}

	seen := make(map[WidgetID]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.widget.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", tt.widget.Kind(), tt.wantKind)
			}
			if tt.widget.SizePolicy() != tt.wantPolicy {
				t.Errorf("SizePolicy() = %v, want %v", tt.widget.SizePolicy(), tt.wantPolicy)
			}
			if !tt.widget.Visible() {
				t.Error("new widget should be visible")
			}
			if seen[tt.widget.ID()] {
				t.Errorf("duplicate ID %d", tt.widget.ID())
			}
			seen[tt.widget.ID()] = true
		})
	}
}

// ============================================================================
// Sizes
// ============================================================================

func TestWidgetSizes(t *testing.T) {
	withFixedTextMetrics(t)
	lineH := float32(14) * lineHeightFactor

	tests := []struct {
		name     string
		widget   *Widget
		wantMin  geom.Size
		wantHint geom.Size
		wantMax  geom.Size
	}{
		{
			name:     "empty leaf",
			widget:   NewWidget(KindCustom),
			wantMax:  geom.UnboundedSize(),
		},
		{
			name:     "label from text",
			widget:   NewLabel("abcd", ""),
			wantMin:  geom.NewSize(0, lineH),
			wantHint: geom.NewSize(40, lineH),
			wantMax:  geom.UnboundedSize(),
		},
		{
			name:     "button adds chrome",
			widget:   NewButton("ab", ""),
			wantMin:  geom.NewSize(16, lineH+8),
			wantHint: geom.NewSize(36, lineH+8),
			wantMax:  geom.UnboundedSize(),
		},
		{
			name:     "explicit hint wins",
			widget:   NewLabel("abcd", "").WithSizeHint(70, 30),
			wantMin:  geom.NewSize(0, lineH),
			wantHint: geom.NewSize(70, 30),
			wantMax:  geom.UnboundedSize(),
		},
		{
			name:     "derived hint clamped by explicit max",
			widget:   NewLabel("abcdef", "").WithMaxSize(30, 100),
			wantMin:  geom.NewSize(0, lineH),
			wantHint: geom.NewSize(30, lineH),
			wantMax:  geom.NewSize(30, 100),
		},
		{
			name:     "derived hint raised to explicit min",
			widget:   NewLabel("a", "").WithMinSize(50, 0),
			wantMin:  geom.NewSize(50, 0),
			wantHint: geom.NewSize(50, lineH),
			wantMax:  geom.UnboundedSize(),
		},
		{
			name:     "fixed size",
			widget:   NewButton("long label", "").WithFixedSize(20, 10),
			wantMin:  geom.NewSize(20, 10),
			wantHint: geom.NewSize(20, 10),
			wantMax:  geom.NewSize(20, 10),
		},
		{
			name:     "checkbox keeps box height",
			widget:   NewCheckbox("x", "").SetFontSize(5),
			wantMin:  geom.NewSize(24, 18),
			wantHint: geom.NewSize(34, 18),
			wantMax:  geom.UnboundedSize(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.widget.MinSize(); !sizeNear(got, tt.wantMin) {
				t.Errorf("MinSize() = %v, want %v", got, tt.wantMin)
			}
			if got := tt.widget.SizeHint(); !sizeNear(got, tt.wantHint) {
				t.Errorf("SizeHint() = %v, want %v", got, tt.wantHint)
			}
			if got := tt.widget.MaxSize(); !sizeNear(got, tt.wantMax) {
				t.Errorf("MaxSize() = %v, want %v", got, tt.wantMax)
			}
		})
	}
}

func TestContainerSizesFollowLayout(t *testing.T) {
	cfg := DefaultConfig().WithMargins(2, 3)
	row := HStack(cfg, "",
		NewWidget(KindCustom).WithSizeHint(10, 20),
		NewWidget(KindCustom).WithSizeHint(30, 5),
	)
	if err := row.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if want := geom.NewSize(10+30+3+4, 20+4); row.SizeHint() != want {
		t.Errorf("SizeHint() = %v, want %v", row.SizeHint(), want)
	}

	row.WithSizeHint(100, 100)
	if want := geom.NewSize(100, 100); row.SizeHint() != want {
		t.Errorf("explicit SizeHint() = %v, want %v", row.SizeHint(), want)
	}
}

// ============================================================================
// Layout Passes
// ============================================================================

func TestNestedStacksMeasureOnce(t *testing.T) {
	for _, depth := range []int{1, 2, 6, 10} {
		w := NewLabel("leaf", "")
		for range depth {
			w = VStack(DefaultConfig(), "", w)
		}

		calls := 0
		SetMeasureTextWidthFunc(func(text string, _ float32) float32 {
			calls++
			return float32(len(text)) * 10
		})
		t.Cleanup(func() { SetMeasureTextWidthFunc(nil) })

		if err := ComputeLayout(w, 200, 100); err != nil {
			t.Fatalf("depth %d: ComputeLayout() error = %v", depth, err)
		}
		// Each stack measures the subtree below it once per pass.
		if calls != depth {
			t.Errorf("depth %d: text measured %d times, want %d", depth, calls, depth)
		}

		lo, hint, hi := w.Sizes()
		if lo != w.MinSize() || hint != w.SizeHint() || hi != w.MaxSize() {
			t.Errorf("depth %d: Sizes() = %v, %v, %v disagrees with the single queries", depth, lo, hint, hi)
		}
	}
}

func TestComputeLayoutRecursion(t *testing.T) {
	cfg := bareConfig()
	a := NewWidget(KindCustom).WithName("a").WithPolicy(PolicyExpanding, PolicyExpanding)
	b := NewWidget(KindCustom).WithName("b").WithPolicy(PolicyExpanding, PolicyExpanding)
	row := HStack(cfg, "", a, b).WithPolicy(PolicyExpanding, PolicyExpanding)
	footer := NewWidget(KindCustom).WithName("footer").WithFixedSize(200, 40)
	root := VStack(cfg, "", row, footer)

	if err := ComputeLayout(root, 200, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}

	tests := []struct {
		name     string
		widget   *Widget
		relative geom.Box
		absolute geom.Box
	}{
		{"row", row, geom.NewBox(100, 30, 200, 60), geom.NewBox(100, 30, 200, 60)},
		{"a", a, geom.NewBox(50, 30, 100, 60), geom.NewBox(50, 30, 100, 60)},
		{"b", b, geom.NewBox(150, 30, 100, 60), geom.NewBox(150, 30, 100, 60)},
		{"footer", footer, geom.NewBox(100, 80, 200, 40), geom.NewBox(100, 80, 200, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.widget.RenderingArea(); !boxNear(got, tt.relative) {
				t.Errorf("RenderingArea() = %+v, want %+v", got, tt.relative)
			}
			if got := tt.widget.AbsoluteArea(); !boxNear(got, tt.absolute) {
				t.Errorf("AbsoluteArea() = %+v, want %+v", got, tt.absolute)
			}
		})
	}
}

func TestAbsoluteAreaOffsetsByParent(t *testing.T) {
	cfg := DefaultConfig().WithMargins(10, 0)
	leaf := NewWidget(KindCustom).WithPolicy(PolicyExpanding, PolicyExpanding)
	inner := VStack(cfg, "", leaf).WithPolicy(PolicyExpanding, PolicyExpanding)
	root := VStack(cfg, "", inner)

	if err := ComputeLayout(root, 100, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	// inner spans 10..90 of root; leaf spans 10..70 of inner.
	if want := geom.NewBox(40, 40, 60, 60); !boxNear(leaf.RenderingArea(), want) {
		t.Errorf("RenderingArea() = %+v, want %+v", leaf.RenderingArea(), want)
	}
	if want := geom.NewBox(50, 50, 60, 60); !boxNear(leaf.AbsoluteArea(), want) {
		t.Errorf("AbsoluteArea() = %+v, want %+v", leaf.AbsoluteArea(), want)
	}
}

func TestComputeLayoutReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	bad := NewWidget(KindCustom).WithMinSize(50, 50).WithMaxSize(10, 10)
	good := NewWidget(KindCustom).WithPolicy(PolicyExpanding, PolicyExpanding)
	root := VStack(DefaultConfig(), "", good, bad).WithName("root")
	root.SetLogger(logger)

	err := ComputeLayout(root, 100, 100)
	if !errors.Is(err, ErrInvalidSizeRange) {
		t.Fatalf("ComputeLayout() error = %v, want ErrInvalidSizeRange", err)
	}
	if root.LayoutError() == nil {
		t.Error("LayoutError() should keep the failure")
	}
	if good.RenderingArea() != (geom.Box{}) {
		t.Errorf("good child was placed by a failed pass: %+v", good.RenderingArea())
	}
	if out := buf.String(); !strings.Contains(out, "layout pass failed") || !strings.Contains(out, "name=root") {
		t.Errorf("log = %q, want the failed pass reported", out)
	}

	// Fixing the child clears the error on the next pass.
	bad.SetMaxSize(geom.NewSize(60, 60))
	if err := ComputeLayout(root, 100, 100); err != nil {
		t.Errorf("ComputeLayout() after fix error = %v", err)
	}
	if root.LayoutError() != nil {
		t.Errorf("LayoutError() = %v after a good pass", root.LayoutError())
	}
}

func TestHiddenContainerSkipsLayout(t *testing.T) {
	leaf := NewWidget(KindCustom).WithPolicy(PolicyExpanding, PolicyExpanding)
	inner := VStack(bareConfig(), "", leaf).Hidden()
	root := VStack(bareConfig(), "", inner)

	if err := ComputeLayout(root, 100, 100); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if leaf.RenderingArea() != (geom.Box{}) {
		t.Errorf("child of hidden container was laid out: %+v", leaf.RenderingArea())
	}
}

func TestOnResizeHook(t *testing.T) {
	var got geom.Box
	w := NewWidget(KindCustom)
	w.onResize = func(b geom.Box) { got = b }

	if err := ComputeLayout(w, 30, 20); err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	if want := geom.BoxFromCorner(0, 0, 30, 20); got != want {
		t.Errorf("hook box = %+v, want %+v", got, want)
	}
}

func TestComputeLayoutNilRoot(t *testing.T) {
	if err := ComputeLayout(nil, 10, 10); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("ComputeLayout(nil) error = %v, want ErrItemNotFound", err)
	}
}

// ============================================================================
// Tree
// ============================================================================

func TestWidgetTree(t *testing.T) {
	leaf := NewLabel("deep", "").WithName("leaf")
	mid := HStack(DefaultConfig(), "", leaf).WithName("mid")
	root := VStack(DefaultConfig(), "", mid, NewLabel("side", "").WithName("side")).WithName("root")

	if root.Find("leaf") != leaf {
		t.Error("Find(leaf) did not return the leaf")
	}
	if root.Find("nope") != nil {
		t.Error("Find(nope) should be nil")
	}
	if leaf.Parent() != mid || mid.Parent() != root {
		t.Error("parents not set")
	}

	var names []string
	var depths []int
	root.Walk(func(w *Widget, depth int) bool {
		names = append(names, w.Name())
		depths = append(depths, depth)
		return true
	})
	if got := strings.Join(names, ","); got != "root,mid,leaf,side" {
		t.Errorf("Walk order = %s", got)
	}
	if depths[2] != 2 {
		t.Errorf("leaf depth = %d, want 2", depths[2])
	}

	var pruned []string
	root.Walk(func(w *Widget, _ int) bool {
		pruned = append(pruned, w.Name())
		return w.Name() != "mid"
	})
	if got := strings.Join(pruned, ","); got != "root,mid,side" {
		t.Errorf("pruned Walk = %s", got)
	}

	if !root.RemoveChild(mid) {
		t.Fatal("RemoveChild(mid) = false")
	}
	if root.RemoveChild(mid) {
		t.Error("second RemoveChild(mid) = true")
	}
	if mid.Parent() != nil || root.Layout().Len() != 1 {
		t.Errorf("after removal parent = %v, layout Len = %d", mid.Parent(), root.Layout().Len())
	}
}

func TestAddChildErrors(t *testing.T) {
	root := VStack(DefaultConfig(), "")
	if err := root.AddChild(nil); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("AddChild(nil) error = %v, want ErrItemNotFound", err)
	}
	if err := root.AddChild(root); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("AddChild(self) error = %v, want ErrDuplicateItem", err)
	}
	child := NewWidget(KindCustom)
	_ = root.AddChild(child)
	if err := root.AddChild(child); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("AddChild(twice) error = %v, want ErrDuplicateItem", err)
	}
	if n := len(root.Children()); n != 1 {
		t.Errorf("len(Children()) = %d, want 1", n)
	}
}

func TestAddChildMovesWidget(t *testing.T) {
	cfg := DefaultConfig()
	from, to := VStack(cfg, "").WithName("from"), HStack(cfg, "").WithName("to")
	child := NewWidget(KindCustom)
	if err := from.AddChild(child); err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	if err := to.AddChild(child); err != nil {
		t.Fatalf("moving AddChild() error = %v", err)
	}
	if child.Parent() != to {
		t.Error("Parent() is not the new parent")
	}
	if n, l := len(from.Children()), from.Layout().Len(); n != 0 || l != 0 {
		t.Errorf("old parent keeps %d children, %d layout items", n, l)
	}
	if n, l := len(to.Children()), to.Layout().Len(); n != 1 || l != 1 {
		t.Errorf("new parent has %d children, %d layout items, want 1 and 1", n, l)
	}

	// A move the new layout refuses leaves the child where it was.
	full := Grid(cfg, 1, 1, "", NewWidget(KindCustom))
	if err := full.AddChild(child); err == nil {
		t.Fatal("AddChild() into a full grid expected error")
	}
	if child.Parent() != to || to.Layout().Len() != 1 {
		t.Error("a failed move detached the child")
	}

	plain := Container("")
	leaf := NewWidget(KindCustom)
	_ = plain.AddChild(leaf)
	if err := plain.AddChild(leaf); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("AddChild(twice) without a layout error = %v, want ErrDuplicateItem", err)
	}
}

func TestRemoveChildLogsLayoutMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := VStack(DefaultConfig(), "").WithName("list")
	w.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	child := NewWidget(KindCustom)
	_ = w.AddChild(child)
	if _, err := w.Layout().RemoveItem(child); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}

	if !w.RemoveChild(child) {
		t.Fatal("RemoveChild() = false")
	}
	if out := buf.String(); !strings.Contains(out, "child missing from layout") {
		t.Errorf("expected a warning, got %q", out)
	}
}

func TestSetLayoutAdoptsChildren(t *testing.T) {
	w := NewWidget(KindContainer)
	a, b := NewWidget(KindCustom), NewWidget(KindCustom)
	_ = w.AddChild(a)
	_ = w.AddChild(b)

	l := NewColumn(DefaultConfig())
	if err := w.SetLayout(l); err != nil {
		t.Fatalf("SetLayout() error = %v", err)
	}
	if items := l.Items(); len(items) != 2 || items[0] != a || items[1] != b {
		t.Errorf("layout items = %v, want [a b]", items)
	}
}

func TestDirtyTracking(t *testing.T) {
	w := NewLabel("a", "")
	w.ClearDirty()
	if w.IsDirty() {
		t.Fatal("IsDirty() after ClearDirty")
	}

	w.SetText("a")
	if w.IsDirty() {
		t.Error("setting the same text should not mark dirty")
	}
	w.SetText("b")
	if mask := w.DirtyMask(); mask&DirtyText == 0 || mask&DirtyLayout == 0 {
		t.Errorf("DirtyMask() = %b, want text and layout", mask)
	}

	w.ClearDirty()
	w.SetVisible(false)
	if w.DirtyMask() != DirtyVisible {
		t.Errorf("DirtyMask() = %b, want visible only", w.DirtyMask())
	}
}

// ============================================================================
// Classes
// ============================================================================

func TestApplyClasses(t *testing.T) {
	w := NewWidget(KindCustom)
	if err := w.ApplyClasses("w-24 h-[30px] min-w-4 expand-x stretch-x-2 col-2 row-1 col-span-2 p-2 gap-[6px]"); err != nil {
		t.Fatalf("ApplyClasses() error = %v", err)
	}

	if want := geom.NewSize(96, 30); w.SizeHint() != want {
		t.Errorf("SizeHint() = %v, want %v", w.SizeHint(), want)
	}
	if got := w.MinSize().W; got != 16 {
		t.Errorf("MinSize().W = %v, want 16", got)
	}
	p := w.SizePolicy()
	if p.Horizontal != PolicyExpanding || p.Vertical != PolicyPreferred || p.HorizontalStretch != 2 {
		t.Errorf("SizePolicy() = %+v", p)
	}
	if x, y, sx, sy, ok := w.Cell(); !ok || x != 2 || y != 1 || sx != 2 || sy != 1 {
		t.Errorf("Cell() = %d,%d %dx%d %v; want 2,1 2x1", x, y, sx, sy, ok)
	}
	cfg := w.LayoutConfig(DefaultConfig())
	if cfg.Margin != 8 || cfg.Spacing != 6 {
		t.Errorf("LayoutConfig() margin %v spacing %v, want 8 and 6", cfg.Margin, cfg.Spacing)
	}
	if w.Classes() == "" {
		t.Error("Classes() should keep the class string")
	}
}

func TestApplyClassesVisibility(t *testing.T) {
	w := NewWidget(KindCustom)
	_ = w.ApplyClasses("hidden")
	if w.Visible() {
		t.Error("hidden class should hide the widget")
	}
	_ = w.ApplyClasses("visible")
	if !w.Visible() {
		t.Error("visible class should show the widget")
	}
}

func TestApplyClassesForWidth(t *testing.T) {
	tests := []struct {
		width float32
		want  float32
	}{
		{500, 40},
		{700, 60},
		{800, 80},
		{2000, 80},
	}

	for _, tt := range tests {
		w := NewWidget(KindCustom)
		if err := w.ApplyClassesForWidth("w-10 sm:w-15 md:w-20", tt.width); err != nil {
			t.Fatalf("ApplyClassesForWidth() error = %v", err)
		}
		if got := w.SizeHint().W; got != tt.want {
			t.Errorf("width %v: SizeHint().W = %v, want %v", tt.width, got, tt.want)
		}
	}
}

// ============================================================================
// Builders
// ============================================================================

func TestGridBuilder(t *testing.T) {
	placed := NewWidget(KindCustom).WithCell(1, 1, 1, 1)
	free := NewWidget(KindCustom)
	g := Grid(DefaultConfig(), 2, 2, "", placed, free)
	if err := g.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	gl := g.Layout().(*GridLayout)
	if x, y, _, _, _ := gl.CellOf(placed); x != 1 || y != 1 {
		t.Errorf("placed child at %d,%d, want 1,1", x, y)
	}
	if x, y, _, _, _ := gl.CellOf(free); x != 0 || y != 0 {
		t.Errorf("free child at %d,%d, want 0,0", x, y)
	}

	classes := NewWidget(KindCustom).WithClasses("col-1 row-0")
	g.WithChildren(classes)
	if x, y, _, _, _ := gl.CellOf(classes); x != 1 || y != 0 {
		t.Errorf("class-placed child at %d,%d, want 1,0", x, y)
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Widget
		wantErr error
	}{
		{
			name: "span out of bounds",
			build: func() *Widget {
				return Grid(DefaultConfig(), 3, 3, "", NewWidget(KindCustom).WithCell(2, 0, 2, 1))
			},
			wantErr: ErrSpanOutOfBounds,
		},
		{
			name:    "invalid grid",
			build:   func() *Widget { return Grid(DefaultConfig(), 0, 2, "") },
			wantErr: ErrInvalidGrid,
		},
		{
			name: "error in a nested child",
			build: func() *Widget {
				full := Grid(DefaultConfig(), 1, 1, "", NewWidget(KindCustom), NewWidget(KindCustom))
				return VStack(DefaultConfig(), "", full)
			},
			wantErr: ErrGridFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build().Err(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Err() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStackBuilder(t *testing.T) {
	a, b := NewLabel("a", ""), NewLabel("b", "")
	s := Stack(DefaultConfig(), "", a, b)
	if !a.Visible() || b.Visible() {
		t.Errorf("visible = %v, %v; want only the first", a.Visible(), b.Visible())
	}

	sel := s.Layout().(*SelectorLayout)
	sel.SwitchToNext()
	if a.Visible() || !b.Visible() {
		t.Errorf("after switch visible = %v, %v; want only the second", a.Visible(), b.Visible())
	}
	if b.DirtyMask()&DirtyVisible == 0 {
		t.Error("shown page should be marked dirty")
	}
}

func TestLayoutConfigInheritsLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	w := NewWidget(KindContainer).SetLogger(logger)
	if cfg := w.LayoutConfig(DefaultConfig()); cfg.Logger != logger {
		t.Error("LayoutConfig() should carry the widget's logger")
	}
	own := slog.Default()
	base := DefaultConfig()
	base.Logger = own
	if cfg := w.LayoutConfig(base); cfg.Logger != own {
		t.Error("LayoutConfig() should keep an explicit logger")
	}
}
