package geom

// Box is an axis-aligned rectangle stored by its center.
// X and Y are the center; W and H the extents.
type Box struct {
	X, Y float32
	W, H float32
}

// NewBox creates a box from its center and size.
func NewBox(x, y, w, h float32) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// BoxFromCorner creates a box from its top-left corner and size.
func BoxFromCorner(left, top, w, h float32) Box {
	return Box{X: left + w/2, Y: top + h/2, W: w, H: h}
}

// BoxFromSize creates a box of size s whose top-left corner is the origin.
func BoxFromSize(s Size) Box {
	return BoxFromCorner(0, 0, s.W, s.H)
}

// Center returns the center point.
func (b Box) Center() Vec2 {
	return Vec2{X: b.X, Y: b.Y}
}

// Size returns the extents.
func (b Box) Size() Size {
	return Size{W: b.W, H: b.H}
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float32 { return b.X - b.W/2 }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float32 { return b.X + b.W/2 }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float32 { return b.Y - b.H/2 }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float32 { return b.Y + b.H/2 }

// Start returns the leading edge along axis a.
func (b Box) Start(a Axis) float32 {
	if a == Vertical {
		return b.Top()
	}
	return b.Left()
}

// Pos returns the center coordinate along axis a.
func (b Box) Pos(a Axis) float32 {
	if a == Vertical {
		return b.Y
	}
	return b.X
}

// Dim returns the extent along axis a.
func (b Box) Dim(a Axis) float32 {
	if a == Vertical {
		return b.H
	}
	return b.W
}

// WithAxis returns a copy of b whose center and extent along a are replaced.
func (b Box) WithAxis(a Axis, pos, dim float32) Box {
	if a == Vertical {
		b.Y, b.H = pos, dim
	} else {
		b.X, b.W = pos, dim
	}
	return b
}

// IsEmpty reports whether the box has zero or negative area.
func (b Box) IsEmpty() bool {
	return b.W <= 0 || b.H <= 0
}

// Contains reports whether p lies inside the box.
// The left and top edges are inside; the right and bottom edges are outside.
func (b Box) Contains(p Vec2) bool {
	return p.X >= b.Left() && p.X < b.Right() && p.Y >= b.Top() && p.Y < b.Bottom()
}

// ContainsBox reports whether o lies entirely inside b.
func (b Box) ContainsBox(o Box) bool {
	if o.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	return o.Left() >= b.Left() && o.Top() >= b.Top() &&
		o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Translate returns b moved by d.
func (b Box) Translate(d Vec2) Box {
	b.X += d.X
	b.Y += d.Y
	return b
}

// Intersect returns the overlap of b and o, or the zero Box when they do not overlap.
func (b Box) Intersect(o Box) Box {
	left := max(b.Left(), o.Left())
	top := max(b.Top(), o.Top())
	right := min(b.Right(), o.Right())
	bottom := min(b.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Box{}
	}
	return BoxFromCorner(left, top, right-left, bottom-top)
}

// Intersects reports whether b and o overlap. Touching edges do not count.
func (b Box) Intersects(o Box) bool {
	return !b.Intersect(o).IsEmpty()
}

// Union returns the smallest box containing both. Empty boxes are ignored.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	left := min(b.Left(), o.Left())
	top := min(b.Top(), o.Top())
	right := max(b.Right(), o.Right())
	bottom := max(b.Bottom(), o.Bottom())
	return BoxFromCorner(left, top, right-left, bottom-top)
}

// FuzzyEqual compares center and extents within tol.
func (b Box) FuzzyEqual(o Box, tol float32) bool {
	return FuzzyEqual(b.X, o.X, tol) && FuzzyEqual(b.Y, o.Y, tol) &&
		FuzzyEqual(b.W, o.W, tol) && FuzzyEqual(b.H, o.H, tol)
}
