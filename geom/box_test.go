package geom

import "testing"

func TestBoxFromCorner(t *testing.T) {
	b := BoxFromCorner(10, 20, 100, 50)
	if b.X != 60 || b.Y != 45 {
		t.Errorf("center = (%v, %v), want (60, 45)", b.X, b.Y)
	}
	if b.Left() != 10 || b.Top() != 20 || b.Right() != 110 || b.Bottom() != 70 {
		t.Errorf("edges = %v %v %v %v, want 10 20 110 70", b.Left(), b.Top(), b.Right(), b.Bottom())
	}
}

func TestBox_Contains(t *testing.T) {
	b := BoxFromCorner(0, 0, 10, 10)
	tests := map[string]struct {
		p    Vec2
		want bool
	}{
		"top-left corner":  {Vec2{0, 0}, true},
		"inside":           {Vec2{5, 5}, true},
		"right edge":       {Vec2{10, 5}, false},
		"bottom edge":      {Vec2{5, 10}, false},
		"outside negative": {Vec2{-1, 5}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBox_Intersect(t *testing.T) {
	tests := map[string]struct {
		a, b Box
		want Box
	}{
		"overlap": {
			a:    BoxFromCorner(0, 0, 10, 10),
			b:    BoxFromCorner(5, 5, 10, 10),
			want: BoxFromCorner(5, 5, 5, 5),
		},
		"touching edges": {
			a:    BoxFromCorner(0, 0, 10, 10),
			b:    BoxFromCorner(10, 0, 10, 10),
			want: Box{},
		},
		"contained": {
			a:    BoxFromCorner(0, 0, 10, 10),
			b:    BoxFromCorner(2, 2, 3, 3),
			want: BoxFromCorner(2, 2, 3, 3),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBox_UnionAndContainsBox(t *testing.T) {
	a := BoxFromCorner(0, 0, 10, 10)
	b := BoxFromCorner(20, 5, 10, 10)
	u := a.Union(b)
	if u != BoxFromCorner(0, 0, 30, 15) {
		t.Errorf("Union = %+v, want corner box 0,0 30x15", u)
	}
	if !u.ContainsBox(a) || !u.ContainsBox(b) {
		t.Error("union should contain both inputs")
	}
	if got := a.Union(Box{}); got != a {
		t.Errorf("Union with empty = %+v, want %+v", got, a)
	}
}

func TestBox_Axis(t *testing.T) {
	b := BoxFromCorner(0, 0, 40, 20)
	if b.Dim(Horizontal) != 40 || b.Dim(Vertical) != 20 {
		t.Errorf("Dim = %v/%v, want 40/20", b.Dim(Horizontal), b.Dim(Vertical))
	}
	if b.Start(Vertical) != 0 || b.Pos(Horizontal) != 20 {
		t.Errorf("Start/Pos = %v/%v, want 0/20", b.Start(Vertical), b.Pos(Horizontal))
	}
	moved := b.WithAxis(Vertical, 50, 10)
	if moved.Y != 50 || moved.H != 10 || moved.X != b.X || moved.W != b.W {
		t.Errorf("WithAxis = %+v", moved)
	}
}

func TestSatAdd(t *testing.T) {
	if got := SatAdd(Unbounded, 10); got != Unbounded {
		t.Errorf("SatAdd(Unbounded, 10) = %v, want Unbounded", got)
	}
	if got := SatAdd(Unbounded/2, Unbounded); got != Unbounded {
		t.Errorf("SatAdd overflow = %v, want Unbounded", got)
	}
	if got := SatAdd(1, 2); got != 3 {
		t.Errorf("SatAdd(1, 2) = %v, want 3", got)
	}
}

func TestSize_Helpers(t *testing.T) {
	s := NewSize(10, 20)
	if s.WithDim(Horizontal, 5) != NewSize(5, 20) {
		t.Error("WithDim(Horizontal) should replace W")
	}
	if got := UnboundedSize().Sub(NewSize(5, 5)); got != UnboundedSize() {
		t.Errorf("Unbounded.Sub = %+v, want unbounded", got)
	}
	if got := NewSize(-3, 4).NonNegative(); got != NewSize(0, 4) {
		t.Errorf("NonNegative = %+v, want {0 4}", got)
	}
	if !NewSize(10, 10).FuzzyEqual(NewSize(10.5, 9.2), 1) {
		t.Error("sizes within tolerance should be fuzzy equal")
	}
	if NewSize(10, 10).FuzzyEqual(NewSize(12, 10), 1) {
		t.Error("sizes outside tolerance should not be fuzzy equal")
	}
}
