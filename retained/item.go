package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// LayoutItem is the capability set a layout negotiates with. Widgets and
// VirtualLayoutItems both implement it.
type LayoutItem interface {
	// MinSize returns the smallest acceptable size.
	MinSize() geom.Size

	// SizeHint returns the preferred size.
	SizeHint() geom.Size

	// MaxSize returns the largest acceptable size; geom.Unbounded means no limit.
	MaxSize() geom.Size

	// SizePolicy returns how the item may deviate from its hint.
	SizePolicy() SizePolicy

	// Visible reports whether the item takes part in layout.
	Visible() bool

	// SetVisible shows or hides the item.
	SetVisible(visible bool)

	// RenderingArea returns the last box the item was given.
	RenderingArea() geom.Box

	// PostEvent delivers a notification. Events may be pooled, so
	// implementations must not keep them after returning.
	PostEvent(e Event)
}

// ItemInfo is the per-pass snapshot of one LayoutItem.
type ItemInfo struct {
	Min     geom.Size
	Hint    geom.Size
	Max     geom.Size
	Policy  SizePolicy
	Visible bool

	// Relaxed lets a lenient (Preferred) policy move along that axis.
	// Set by the negotiation once strict candidates are exhausted.
	Relaxed [2]bool
}

// sizer is implemented by items that resolve min, hint and max in one go.
// A container answers each of the three by measuring its whole subtree, so
// asking separately multiplies the work at every level.
type sizer interface {
	Sizes() (lo, hint, hi geom.Size)
}

// itemSizes returns the min, hint and max of item.
func itemSizes(item LayoutItem) (lo, hint, hi geom.Size) {
	if s, ok := item.(sizer); ok {
		return s.Sizes()
	}
	return item.MinSize(), item.SizeHint(), item.MaxSize()
}

// snapshotItem copies the sizing state of item.
func snapshotItem(item LayoutItem) ItemInfo {
	lo, hint, hi := itemSizes(item)
	return ItemInfo{
		Min:     lo,
		Hint:    hint,
		Max:     hi,
		Policy:  item.SizePolicy(),
		Visible: item.Visible(),
	}
}

func (info ItemInfo) canGrow(a geom.Axis) bool {
	return info.Policy.CanGrow(a) || (info.Relaxed[a] && info.Policy.Lenient(a))
}

func (info ItemInfo) canShrink(a geom.Axis) bool {
	return info.Policy.CanShrink(a) || (info.Relaxed[a] && info.Policy.Lenient(a))
}

// upperBound is the largest size the item accepts along a under its policy.
func (info ItemInfo) upperBound(a geom.Axis) float32 {
	if info.canGrow(a) {
		return info.Max.Dim(a)
	}
	return info.Hint.Dim(a)
}

// lowerBound is the smallest size the item accepts along a under its policy.
func (info ItemInfo) lowerBound(a geom.Axis) float32 {
	if info.canShrink(a) {
		return info.Min.Dim(a)
	}
	return info.Hint.Dim(a)
}

// Validate checks that min ≤ hint ≤ max on both axes and that the policy is known.
func (info ItemInfo) Validate() error {
	if err := info.Policy.Validate(); err != nil {
		return err
	}
	for _, a := range [...]geom.Axis{geom.Horizontal, geom.Vertical} {
		lo, hint, hi := info.Min.Dim(a), info.Hint.Dim(a), info.Max.Dim(a)
		if lo < 0 {
			return errors.Wrapf(ErrInvalidSizeRange, "%s min %v is negative", a, lo)
		}
		if lo > hi {
			return errors.Wrapf(ErrInvalidSizeRange, "%s min %v exceeds max %v", a, lo, hi)
		}
		if hint < lo || hint > hi {
			return errors.Wrapf(ErrInvalidSizeRange, "%s hint %v outside [%v, %v]", a, hint, lo, hi)
		}
	}
	return nil
}

// computeWidgetsInfo snapshots every item once for the pass and validates it.
// The returned slice comes from the info pool; release it with releaseInfoSlice.
func computeWidgetsInfo(items []LayoutItem) ([]ItemInfo, error) {
	infos := acquireInfoSlice(len(items))
	for i, item := range items {
		infos[i] = snapshotItem(item)
		if !infos[i].Visible {
			continue
		}
		if err := infos[i].Validate(); err != nil {
			releaseInfoSlice(infos)
			return nil, errors.WithMessagef(err, "item %d", i)
		}
	}
	return infos, nil
}
