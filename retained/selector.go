package retained

import (
	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

// SelectorLayout shows exactly one of its items, the active one, over the
// whole internal area; the others are hidden. It backs stacked pages such
// as tab contents and option pickers.
//
// Items are stored in the order they were added. Logical indices, the ones
// callers see, go through idsToPosition so InsertItem can place an item
// anywhere without moving the stored ones.
type SelectorLayout struct {
	layoutBase

	idsToPosition []int
	active        int
}

// NewSelectorLayout creates an empty selector. ActiveItem is -1 until an
// item is added.
func NewSelectorLayout(cfg Config) *SelectorLayout {
	return &SelectorLayout{layoutBase: newLayoutBase(cfg), active: -1}
}

// AddItem appends item at the last logical index.
func (s *SelectorLayout) AddItem(item LayoutItem) error {
	s.mu.Lock()
	err := s.insertLogicalLocked(len(s.idsToPosition), item)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.applyVisibility()
	return nil
}

// InsertItem inserts item at logical index. An insertion at or before the
// active item keeps the same item active.
func (s *SelectorLayout) InsertItem(index int, item LayoutItem) error {
	s.mu.Lock()
	err := s.insertLogicalLocked(index, item)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.applyVisibility()
	return nil
}

func (s *SelectorLayout) insertLogicalLocked(index int, item LayoutItem) error {
	if index < 0 || index > len(s.idsToPosition) {
		return errors.Wrapf(ErrIndexOutOfRange, "insert at %d with %d items", index, len(s.idsToPosition))
	}
	pos := len(s.items)
	if err := s.insertLocked(pos, item); err != nil {
		return err
	}
	s.idsToPosition = append(s.idsToPosition, 0)
	copy(s.idsToPosition[index+1:], s.idsToPosition[index:])
	s.idsToPosition[index] = pos

	switch {
	case s.active < 0:
		s.active = 0
	case index <= s.active:
		s.active++
	}
	return nil
}

// RemoveItem removes item and returns its logical index. Removing the active
// item activates the one before it, wrapping to the last.
func (s *SelectorLayout) RemoveItem(item LayoutItem) (int, error) {
	s.mu.Lock()
	pos, err := s.removeLocked(item)
	if err != nil {
		s.mu.Unlock()
		return -1, err
	}

	index := -1
	for i, p := range s.idsToPosition {
		if p == pos {
			index = i
			break
		}
	}
	s.idsToPosition = append(s.idsToPosition[:index], s.idsToPosition[index+1:]...)
	for i, p := range s.idsToPosition {
		if p > pos {
			s.idsToPosition[i] = p - 1
		}
	}

	count := len(s.idsToPosition)
	switch {
	case count == 0:
		s.active = -1
	case index < s.active:
		s.active--
	case index == s.active:
		s.active = (s.active - 1 + count) % count
	}
	s.mu.Unlock()

	s.applyVisibility()
	return index, nil
}

// Items returns the items in logical order.
func (s *SelectorLayout) Items() []LayoutItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LayoutItem, len(s.idsToPosition))
	for i, p := range s.idsToPosition {
		out[i] = s.items[p]
	}
	return out
}

// IndexOf returns the logical index of item, or -1.
func (s *SelectorLayout) IndexOf(item LayoutItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.indexOfLocked(item)
	for i, p := range s.idsToPosition {
		if p == pos {
			return i
		}
	}
	return -1
}

// ItemAt returns the item at logical index.
func (s *SelectorLayout) ItemAt(index int) (LayoutItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.idsToPosition) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "item %d of %d", index, len(s.idsToPosition))
	}
	return s.items[s.idsToPosition[index]], nil
}

// ActiveItem returns the logical index of the active item, or -1 when empty.
func (s *SelectorLayout) ActiveItem() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveLayoutItem returns the active item, or nil when empty.
func (s *SelectorLayout) ActiveLayoutItem() LayoutItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active < 0 {
		return nil
	}
	return s.items[s.idsToPosition[s.active]]
}

// SetActiveItem makes the item at logical index the only visible one.
func (s *SelectorLayout) SetActiveItem(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.idsToPosition) {
		n := len(s.idsToPosition)
		s.mu.Unlock()
		return errors.Wrapf(ErrIndexOutOfRange, "active %d of %d", index, n)
	}
	s.active = index
	s.mu.Unlock()

	s.applyVisibility()
	return nil
}

// SwitchToNext activates the following item, wrapping to the first.
func (s *SelectorLayout) SwitchToNext() {
	s.step(1)
}

// SwitchToPrevious activates the preceding item, wrapping to the last.
func (s *SelectorLayout) SwitchToPrevious() {
	s.step(-1)
}

func (s *SelectorLayout) step(d int) {
	s.mu.Lock()
	count := len(s.idsToPosition)
	if count == 0 {
		s.mu.Unlock()
		return
	}
	s.active = (s.active + d + count) % count
	s.mu.Unlock()

	s.applyVisibility()
}

// applyVisibility shows the active item and hides the rest. Items are
// updated outside the layout lock since they may lock themselves.
func (s *SelectorLayout) applyVisibility() {
	s.mu.Lock()
	items := acquireItemSlice(len(s.idsToPosition))
	for i, p := range s.idsToPosition {
		items[i] = s.items[p]
	}
	active := s.active
	s.mu.Unlock()
	defer releaseItemSlice(items)

	for i, item := range items {
		visible := i == active
		if item.Visible() == visible {
			continue
		}
		item.SetVisible(visible)
		item.PostEvent(NewVisibilityEvent(visible))
	}
}

// ComputeGeometry gives the active item the internal area, clamped by its
// policy and centered, and zero boxes to the hidden items.
func (s *SelectorLayout) ComputeGeometry(window geom.Size) error {
	s.mu.Lock()
	items := acquireItemSlice(len(s.idsToPosition))
	for i, p := range s.idsToPosition {
		items[i] = s.items[p]
	}
	active := s.active
	s.mu.Unlock()
	defer releaseItemSlice(items)

	infos, err := computeWidgetsInfo(items)
	if err != nil {
		return errors.WithMessage(err, "selector layout")
	}
	defer releaseInfoSlice(infos)

	boxes := make([]geom.Box, len(items))
	if active >= 0 && infos[active].Visible {
		inner := s.internalSize(window)
		size, err := computeSizeFromPolicy(inner, infos[active])
		if err != nil {
			return errors.WithMessagef(err, "selector layout: item %d", active)
		}
		m := s.cfg.Margin
		boxes[active] = geom.NewBox(
			centerIn(m, inner.W, size.W),
			centerIn(m, inner.H, size.H),
			size.W, size.H)
	}

	assignRenderingAreas(items, boxes)
	return nil
}

// Measure returns the envelope of every item so switching pages does not
// change the owner's size.
func (s *SelectorLayout) Measure() Measurement {
	items := s.snapshot()
	defer releaseItemSlice(items)

	var m Measurement
	if len(items) == 0 {
		m.Max = geom.UnboundedSize()
	}
	for _, item := range items {
		lo, hint, hi := itemSizes(item)
		m.Min = m.Min.Max(lo)
		m.Hint = m.Hint.Max(hint)
		m.Max = m.Max.Max(hi)
	}
	pad := geom.NewSize(2*s.cfg.Margin, 2*s.cfg.Margin)
	m.Min = m.Min.Add(pad)
	m.Hint = m.Hint.Add(pad)
	m.Max = m.Max.Add(pad)
	return m
}
