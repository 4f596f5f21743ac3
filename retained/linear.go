package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// LinearLayout places items one after another along an axis (a row or a
// column), negotiating their flow extents and centering them across it.
type LinearLayout struct {
	layoutBase
	axis geom.Axis
}

// NewLinearLayout creates a layout flowing along axis.
func NewLinearLayout(axis geom.Axis, cfg Config) (*LinearLayout, error) {
	if !axis.Valid() {
		return nil, errors.Wrapf(ErrInvalidAxis, "%d", axis)
	}
	return &LinearLayout{layoutBase: newLayoutBase(cfg), axis: axis}, nil
}

// NewRow is shorthand for a horizontal LinearLayout.
func NewRow(cfg Config) *LinearLayout {
	return &LinearLayout{layoutBase: newLayoutBase(cfg), axis: geom.Horizontal}
}

// NewColumn is shorthand for a vertical LinearLayout.
func NewColumn(cfg Config) *LinearLayout {
	return &LinearLayout{layoutBase: newLayoutBase(cfg), axis: geom.Vertical}
}

// Axis returns the flow axis.
func (l *LinearLayout) Axis() geom.Axis {
	return l.axis
}

// AddItem appends item at the end of the flow.
func (l *LinearLayout) AddItem(item LayoutItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insertLocked(len(l.items), item)
}

// InsertItem inserts item before the item at index. index == Len() appends.
func (l *LinearLayout) InsertItem(index int, item LayoutItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insertLocked(index, item)
}

// RemoveItem removes item and returns the index it had.
func (l *LinearLayout) RemoveItem(item LayoutItem) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeLocked(item)
}

// ComputeGeometry negotiates the flow extents for window and posts the boxes.
// Nothing is posted when the pass fails.
func (l *LinearLayout) ComputeGeometry(window geom.Size) error {
	items := l.snapshot()
	defer releaseItemSlice(items)

	infos, err := computeWidgetsInfo(items)
	if err != nil {
		return errors.WithMessage(err, "linear layout")
	}
	defer releaseInfoSlice(infos)

	sizes := acquireSizeSlice(len(items))
	defer releaseSizeSlice(sizes)

	visible := 0
	for _, info := range infos {
		if info.Visible {
			visible++
		}
	}

	a, other := l.axis, l.axis.Other()
	margin, spacing := l.cfg.Margin, l.cfg.Spacing
	inner := l.internalSize(window)
	flow := inner.Dim(a) - float32(max(visible-1, 0))*spacing
	perp := inner.Dim(other)

	n := newNegotiator(a, infos, sizes, flow, perp, l.cfg.tolerance())
	n.weighted = l.cfg.StretchWeighted
	if err := n.run(); err != nil {
		return errors.WithMessage(err, "linear layout")
	}
	n.report(l.cfg.logger(), "linear")

	boxes := make([]geom.Box, len(items))
	offset := margin
	for i, info := range infos {
		if !info.Visible {
			continue
		}
		fs, ps := sizes[i].Dim(a), sizes[i].Dim(other)
		boxes[i] = geom.Box{}.
			WithAxis(a, offset+fs/2, fs).
			WithAxis(other, centerIn(margin, perp, ps), ps)
		offset += fs + spacing
	}

	assignRenderingAreas(items, boxes)
	return nil
}

// Measure sums the visible items along the flow axis and takes the largest
// across it, then adds spacing and margins.
func (l *LinearLayout) Measure() Measurement {
	items := l.snapshot()
	defer releaseItemSlice(items)

	a, other := l.axis, l.axis.Other()
	var m Measurement
	visible := 0
	for _, item := range items {
		if !item.Visible() {
			continue
		}
		visible++
		lo, hint, hi := itemSizes(item)
		m.Min = m.Min.WithDim(a, geom.SatAdd(m.Min.Dim(a), lo.Dim(a))).
			WithDim(other, max(m.Min.Dim(other), lo.Dim(other)))
		m.Hint = m.Hint.WithDim(a, geom.SatAdd(m.Hint.Dim(a), hint.Dim(a))).
			WithDim(other, max(m.Hint.Dim(other), hint.Dim(other)))
		m.Max = m.Max.WithDim(a, geom.SatAdd(m.Max.Dim(a), hi.Dim(a))).
			WithDim(other, max(m.Max.Dim(other), hi.Dim(other)))
	}
	if visible == 0 {
		m.Max = geom.UnboundedSize()
	}

	gaps := float32(max(visible-1, 0)) * l.cfg.Spacing
	pad := geom.NewSize(2*l.cfg.Margin, 2*l.cfg.Margin)
	flowPad := pad.WithDim(a, pad.Dim(a)+gaps)
	m.Min = m.Min.Add(flowPad)
	m.Hint = m.Hint.Add(flowPad)
	m.Max = m.Max.Add(flowPad)
	return m
}
