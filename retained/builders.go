package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
)

// Builder helpers for common widget patterns.
// These provide a fluent API for constructing UI trees. Errors (a bad
// class, a child that does not fit its grid) are kept on the widget that
// hit them; check the root with Err once the tree is built.

// Container creates a widget with no layout of its own.
func Container(classes string) *Widget {
	w := NewWidget(KindContainer)
	w.applyBuildClasses(classes)
	return w
}

// Spacer creates an empty widget that takes whatever space is left.
func Spacer() *Widget {
	w := NewWidget(KindContainer)
	w.SetSizePolicy(NewSizePolicy(PolicyExpanding, PolicyExpanding))
	return w
}

// VStack creates a vertical stack container.
// Children are laid out top-to-bottom.
func VStack(cfg Config, classes string, children ...*Widget) *Widget {
	w := NewWidget(KindVStack)
	w.applyBuildClasses(classes)
	w.buildWith(NewColumn(w.LayoutConfig(cfg)), children)
	return w
}

// HStack creates a horizontal stack container.
// Children are laid out left-to-right.
func HStack(cfg Config, classes string, children ...*Widget) *Widget {
	w := NewWidget(KindHStack)
	w.applyBuildClasses(classes)
	w.buildWith(NewRow(w.LayoutConfig(cfg)), children)
	return w
}

// Grid creates a columns×rows grid container. Children with a placement
// (SetCell, col-*/row-* classes) take that cell; the rest fill the first
// free cells in row-major order.
func Grid(cfg Config, columns, rows int, classes string, children ...*Widget) *Widget {
	w := NewWidget(KindGrid)
	w.applyBuildClasses(classes)
	g, err := NewGridLayout(columns, rows, w.LayoutConfig(cfg))
	if err != nil {
		w.setBuildErr(err)
		return w
	}
	w.buildWith(g, children)
	return w
}

// Stack creates a container showing one child at a time, the first one
// until SetActiveItem picks another.
func Stack(cfg Config, classes string, children ...*Widget) *Widget {
	w := NewWidget(KindStack)
	w.applyBuildClasses(classes)
	w.buildWith(NewSelectorLayout(w.LayoutConfig(cfg)), children)
	return w
}

func (w *Widget) buildWith(l Layout, children []*Widget) {
	if err := w.SetLayout(l); err != nil {
		w.setBuildErr(err)
		return
	}
	for _, child := range children {
		if err := w.AddChild(child); err != nil {
			w.setBuildErr(err)
		}
	}
}

func (w *Widget) applyBuildClasses(classes string) {
	if classes == "" {
		return
	}
	if err := w.ApplyClasses(classes); err != nil {
		w.setBuildErr(err)
	}
}

func (w *Widget) setBuildErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buildErr == nil {
		w.buildErr = err
	}
}

// Err returns the first error recorded while building the subtree.
func (w *Widget) Err() error {
	var first error
	w.Walk(func(c *Widget, _ int) bool {
		c.mu.RLock()
		err := c.buildErr
		c.mu.RUnlock()
		if err != nil && first == nil {
			first = err
		}
		return first == nil
	})
	return first
}

// ============================================================================
// Fluent Modifiers
// ============================================================================

// With applies a function to the widget and returns it.
func (w *Widget) With(fn func(*Widget)) *Widget {
	fn(w)
	return w
}

// WithChildren adds children to the widget.
func (w *Widget) WithChildren(children ...*Widget) *Widget {
	for _, child := range children {
		if err := w.AddChild(child); err != nil {
			w.setBuildErr(err)
		}
	}
	return w
}

// WithName sets the widget's name.
func (w *Widget) WithName(name string) *Widget {
	return w.SetName(name)
}

// WithText sets the text content.
func (w *Widget) WithText(text string) *Widget {
	return w.SetText(text)
}

// WithSizeHint sets the preferred size.
func (w *Widget) WithSizeHint(width, height float32) *Widget {
	return w.SetSizeHint(geom.NewSize(width, height))
}

// WithMinSize sets the minimum size.
func (w *Widget) WithMinSize(width, height float32) *Widget {
	return w.SetMinSize(geom.NewSize(width, height))
}

// WithMaxSize sets the maximum size.
func (w *Widget) WithMaxSize(width, height float32) *Widget {
	return w.SetMaxSize(geom.NewSize(width, height))
}

// WithFixedSize pins the size and the policy.
func (w *Widget) WithFixedSize(width, height float32) *Widget {
	return w.SetFixedSize(geom.NewSize(width, height))
}

// WithPolicy sets the policy on each axis, keeping the stretch factors.
func (w *Widget) WithPolicy(horizontal, vertical Policy) *Widget {
	p := w.SizePolicy()
	p.Horizontal, p.Vertical = horizontal, vertical
	return w.SetSizePolicy(p)
}

// WithStretch sets the stretch factors.
func (w *Widget) WithStretch(horizontal, vertical float32) *Widget {
	return w.SetSizePolicy(w.SizePolicy().WithStretch(horizontal, vertical))
}

// WithCell sets the grid placement.
func (w *Widget) WithCell(x, y, spanX, spanY int) *Widget {
	return w.SetCell(x, y, spanX, spanY)
}

// WithClasses applies a class string.
func (w *Widget) WithClasses(classes string) *Widget {
	w.applyBuildClasses(classes)
	return w
}

// Hidden hides the widget.
func (w *Widget) Hidden() *Widget {
	w.SetVisible(false)
	return w
}
