package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// VirtualLayoutItem is a sizing placeholder with no widget behind it.
// Composite controls use it to reserve space (a scrollbar track, an arrow
// button) and then read the area a layout gave it.
//
// Each axis is either managed, so resize events overwrite it, or unmanaged,
// so only SetExtent writes it. It is not safe for concurrent use; the
// owning control drives it from a single goroutine.
type VirtualLayoutItem struct {
	min     geom.Size
	hint    geom.Size
	max     geom.Size
	policy  SizePolicy
	visible bool
	managed [2]bool
	area    geom.Box
}

// NewVirtualLayoutItem creates a visible placeholder managed on both axes.
// Max defaults to unbounded and hint to min.
func NewVirtualLayoutItem(minSize geom.Size, policy SizePolicy) *VirtualLayoutItem {
	return &VirtualLayoutItem{
		min:     minSize,
		hint:    minSize,
		max:     geom.UnboundedSize(),
		policy:  policy,
		visible: true,
		managed: [2]bool{true, true},
	}
}

// SetSizes replaces min, hint and max together.
func (v *VirtualLayoutItem) SetSizes(minSize, hint, maxSize geom.Size) error {
	info := ItemInfo{Min: minSize, Hint: hint, Max: maxSize, Policy: v.policy}
	if err := info.Validate(); err != nil {
		return err
	}
	v.min, v.hint, v.max = minSize, hint, maxSize
	return nil
}

// SetSizePolicy replaces the policy.
func (v *VirtualLayoutItem) SetSizePolicy(p SizePolicy) {
	v.policy = p
}

// SetManaged chooses whether resize events overwrite axis a.
func (v *VirtualLayoutItem) SetManaged(a geom.Axis, managed bool) {
	v.managed[a] = managed
}

// Managed reports whether resize events overwrite axis a.
func (v *VirtualLayoutItem) Managed(a geom.Axis) bool {
	return v.managed[a]
}

// SetExtent writes the center and extent of axis a directly.
func (v *VirtualLayoutItem) SetExtent(a geom.Axis, pos, size float32) {
	v.area = v.area.WithAxis(a, pos, size)
}

// UpdateMaxSize lowers max to at most upper on each axis, pulling the hint
// down with it. It fails, changing nothing, if min exceeds upper.
func (v *VirtualLayoutItem) UpdateMaxSize(upper geom.Size) error {
	if v.min.W > upper.W || v.min.H > upper.H {
		return errors.Wrapf(ErrInvalidSizeRange, "min %v exceeds max %v", v.min, upper)
	}
	v.max = v.max.Min(upper)
	v.hint = v.hint.Min(v.max)
	return nil
}

func (v *VirtualLayoutItem) MinSize() geom.Size      { return v.min }
func (v *VirtualLayoutItem) SizeHint() geom.Size     { return v.hint }
func (v *VirtualLayoutItem) MaxSize() geom.Size      { return v.max }
func (v *VirtualLayoutItem) SizePolicy() SizePolicy  { return v.policy }
func (v *VirtualLayoutItem) Visible() bool           { return v.visible }
func (v *VirtualLayoutItem) SetVisible(visible bool) { v.visible = visible }
func (v *VirtualLayoutItem) RenderingArea() geom.Box { return v.area }

// PostEvent applies resize events to the managed axes. Other events are ignored.
func (v *VirtualLayoutItem) PostEvent(e Event) {
	re, ok := e.(*ResizeEvent)
	if !ok {
		return
	}
	for _, a := range axes {
		if v.managed[a] {
			v.area = v.area.WithAxis(a, re.Box.Pos(a), re.Box.Dim(a))
		}
	}
}
