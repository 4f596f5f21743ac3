package retained

import (
	"log/slog"
	"sync"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/pkg/errors"
)

var axes = [...]geom.Axis{geom.Horizontal, geom.Vertical}

// ============================================================================
// Layout Interface
// ============================================================================

// Measurement is the aggregate size range of a layout's content, margins included.
type Measurement struct {
	Min  geom.Size
	Hint geom.Size
	Max  geom.Size
}

// Layout distributes an owning widget's area among its items.
// Structural changes (AddItem, RemoveItem) happen between passes; a pass
// works on a snapshot of the item list taken when it starts.
type Layout interface {
	// AddItem appends an item. Grid layouts place it in the first free cell.
	AddItem(item LayoutItem) error

	// RemoveItem removes an item and returns the logical index it had.
	RemoveItem(item LayoutItem) (int, error)

	// ComputeGeometry runs one pass over window, the owning widget's size,
	// and posts a ResizeEvent to every item. Boxes are relative to the owner.
	ComputeGeometry(window geom.Size) error

	// Items returns the items in logical order.
	Items() []LayoutItem

	// Len returns the number of items.
	Len() int

	// Measure returns the min/hint/max the content needs, margins included.
	Measure() Measurement
}

// ============================================================================
// Policy Resolution
// ============================================================================

// computeSizeFromPolicy returns the size an item accepts when offered desired.
// Each axis is resolved independently; invisible items are zero-sized.
func computeSizeFromPolicy(desired geom.Size, info ItemInfo) (geom.Size, error) {
	if !info.Visible {
		return geom.Size{}, nil
	}
	var out geom.Size
	for _, a := range axes {
		lo, hint, hi := info.Min.Dim(a), info.Hint.Dim(a), info.Max.Dim(a)
		if lo > hi {
			return geom.Size{}, errors.Wrapf(ErrInvalidSizeRange, "%s min %v exceeds max %v", a, lo, hi)
		}
		out = out.WithDim(a, resolveAxis(desired.Dim(a), lo, hint, hi, info.canGrow(a), info.canShrink(a)))
	}
	return out, nil
}

func resolveAxis(desired, lo, hint, hi float32, grow, shrink bool) float32 {
	if desired < 0 {
		desired = 0
	}
	if lo == hi && hi == hint {
		return hint
	}
	switch {
	case desired > hint:
		if !grow {
			return hint
		}
		return min(desired, hi)
	case desired < hint:
		if !shrink {
			return hint
		}
		return max(desired, lo)
	}
	return desired
}

// computeSizeOfWidgets sums the extents of sizes along a.
func computeSizeOfWidgets(sizes []geom.Size, a geom.Axis) float32 {
	var total float32
	for _, s := range sizes {
		total = geom.SatAdd(total, s.Dim(a))
	}
	return total
}

// assignRenderingAreas posts the final boxes. Call only once every box of
// the pass is known, so a failing pass never commits partial results.
func assignRenderingAreas(items []LayoutItem, boxes []geom.Box) {
	for i, item := range items {
		e := NewResizeEvent(boxes[i], item.RenderingArea())
		item.PostEvent(e)
		e.Release()
	}
}

// ============================================================================
// Negotiation
// ============================================================================

type direction int8

const (
	directionShrink direction = -1
	directionNone   direction = 0
	directionGrow   direction = 1
)

func (d direction) String() string {
	switch d {
	case directionShrink:
		return "shrink"
	case directionGrow:
		return "grow"
	case directionNone:
		return "none"
	}
	return "invalid"
}

// shrinkOrGrow maps the space still to distribute to a direction.
func shrinkOrGrow(delta float32) direction {
	switch {
	case delta > 0:
		return directionGrow
	case delta < 0:
		return directionShrink
	}
	return directionNone
}

type negotiationState uint8

const (
	stateInit negotiationState = iota
	stateDistribute
	stateMeasure
	stateReconcile
	stateDone
)

// negotiator distributes target along axis among infos. Sizes along the
// other axis are resolved against perp. It is driven as a state machine:
//
//	Init → Distribute → Measure → (Done | Reconcile → Distribute ...)
//
// The first Distribute splits target over every visible item. Later rounds
// only hand out what is still missing (or in excess), and only in the
// direction Reconcile chose, so an item never moves back. A round either
// meets the target or pins at least one item at its bound; Reconcile then
// drops pinned items, relaxes lenient policies once, or ends the pass.
type negotiator struct {
	axis      geom.Axis
	infos     []ItemInfo
	sizes     []geom.Size
	target    float32
	perp      float32
	tolerance float32
	weighted  bool

	adjustable []bool
	achieved   float32
	dir        direction
	relaxed    bool
	rounds     int
	satisfied  bool
}

func newNegotiator(a geom.Axis, infos []ItemInfo, sizes []geom.Size, target, perp, tolerance float32) *negotiator {
	return &negotiator{
		axis:       a,
		infos:      infos,
		sizes:      sizes,
		target:     max(target, 0),
		perp:       max(perp, 0),
		tolerance:  tolerance,
		adjustable: make([]bool, len(infos)),
	}
}

func (n *negotiator) maxRounds() int {
	return 2*len(n.infos) + 2
}

// run drives the state machine to Done. It only fails on configuration
// errors; an unsatisfiable layout ends with satisfied == false.
func (n *negotiator) run() error {
	state := stateInit
	for state != stateDone {
		var err error
		switch state {
		case stateInit:
			state = n.init()
		case stateDistribute:
			state, err = n.distribute()
		case stateMeasure:
			state = n.measure()
		case stateReconcile:
			state, err = n.reconcile()
		default:
			return errors.Wrapf(ErrInvalidDirection, "negotiation state %d", state)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *negotiator) init() negotiationState {
	visible := false
	n.dir = directionNone
	for i, info := range n.infos {
		n.sizes[i] = geom.Size{}
		n.adjustable[i] = info.Visible
		visible = visible || info.Visible
	}
	if !visible {
		n.satisfied = true
		return stateDone
	}
	return stateDistribute
}

func (n *negotiator) weight(i int) float32 {
	if !n.weighted {
		return 1
	}
	if s := n.infos[i].Policy.Stretch(n.axis); s > 0 {
		return s
	}
	return 1
}

func (n *negotiator) distribute() (negotiationState, error) {
	var total float32
	for i := range n.infos {
		if n.adjustable[i] {
			total += n.weight(i)
		}
	}
	if total == 0 {
		return stateMeasure, nil
	}
	n.rounds++
	if n.dir == directionNone {
		return stateMeasure, n.distributeTarget(total)
	}
	n.distributeDelta(total)
	return stateMeasure, nil
}

// distributeTarget offers every adjustable item its share of the target.
func (n *negotiator) distributeTarget(total float32) error {
	for i := range n.infos {
		if !n.adjustable[i] {
			continue
		}
		share := n.target * n.weight(i) / total
		desired := geom.Size{}.WithDim(n.axis, share).WithDim(n.axis.Other(), n.perp)
		s, err := computeSizeFromPolicy(desired, n.infos[i])
		if err != nil {
			return errors.WithMessagef(err, "item %d", i)
		}
		n.sizes[i] = s
	}
	return nil
}

// distributeDelta moves the adjustable items by their share of the gap
// between target and achieved, stopping each at its bound for n.dir.
func (n *negotiator) distributeDelta(total float32) {
	delta := n.target - n.achieved
	for i, info := range n.infos {
		if !n.adjustable[i] {
			continue
		}
		next := n.sizes[i].Dim(n.axis) + delta*n.weight(i)/total
		if n.dir == directionGrow {
			next = min(next, info.upperBound(n.axis))
		} else {
			next = max(next, info.lowerBound(n.axis))
		}
		n.sizes[i] = n.sizes[i].WithDim(n.axis, next)
	}
}

func (n *negotiator) measure() negotiationState {
	n.achieved = computeSizeOfWidgets(n.sizes, n.axis)
	if geom.FuzzyEqual(n.achieved, n.target, n.tolerance) {
		n.satisfied = true
		return stateDone
	}
	return stateReconcile
}

func (n *negotiator) reconcile() (negotiationState, error) {
	if n.rounds >= n.maxRounds() {
		return stateDone, nil
	}
	dir := shrinkOrGrow(n.target - n.achieved)
	found, err := n.selectAdjustable(dir)
	if err != nil {
		return stateDone, err
	}
	if !found && !n.relaxed {
		n.relax()
		if found, err = n.selectAdjustable(dir); err != nil {
			return stateDone, err
		}
	}
	if !found {
		return stateDone, nil
	}
	n.dir = dir
	return stateDistribute, nil
}

// selectAdjustable rebuilds the adjustable set for dir and reports whether
// it is non-empty. When growing, expanding items are served first.
func (n *negotiator) selectAdjustable(dir direction) (bool, error) {
	if dir != directionGrow && dir != directionShrink {
		return false, errors.Wrapf(ErrInvalidDirection, "direction %s (%d)", dir, dir)
	}
	count, expanding := 0, 0
	for i, info := range n.infos {
		n.adjustable[i] = false
		if !info.Visible {
			continue
		}
		size := n.sizes[i].Dim(n.axis)
		movable := false
		if dir == directionGrow {
			movable = size < info.upperBound(n.axis)
		} else {
			movable = size > info.lowerBound(n.axis)
		}
		if !movable {
			continue
		}
		n.adjustable[i] = true
		count++
		if dir == directionGrow && info.Policy.Expands(n.axis) {
			expanding++
		}
	}
	if expanding > 0 && expanding < count {
		for i, info := range n.infos {
			if n.adjustable[i] && !info.Policy.Expands(n.axis) {
				n.adjustable[i] = false
			}
		}
	}
	return count > 0, nil
}

func (n *negotiator) relax() {
	n.relaxed = true
	for i := range n.infos {
		n.infos[i].Relaxed[n.axis] = true
	}
}

// report logs an unsatisfiable pass. Cramped layouts are an expected
// steady state, so this is a diagnostic, not an error.
func (n *negotiator) report(logger *slog.Logger, kind string) {
	if n.satisfied {
		return
	}
	logger.Debug("could not satisfy constraints",
		slog.String("layout", kind),
		slog.String("axis", n.axis.String()),
		slog.Float64("target", float64(n.target)),
		slog.Float64("achieved", float64(n.achieved)),
		slog.Int("rounds", n.rounds))
}

// ============================================================================
// Layout Base
// ============================================================================

// layoutBase owns the item list shared by every layout strategy.
type layoutBase struct {
	mu    sync.Mutex
	cfg   Config
	items []LayoutItem
}

func newLayoutBase(cfg Config) layoutBase {
	return layoutBase{cfg: cfg}
}

// Config returns the settings the layout was built with.
func (b *layoutBase) Config() Config {
	return b.cfg
}

// Items returns a copy of the items in insertion order.
func (b *layoutBase) Items() []LayoutItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LayoutItem, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of items.
func (b *layoutBase) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IndexOf returns the insertion index of item, or -1.
func (b *layoutBase) IndexOf(item LayoutItem) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexOfLocked(item)
}

func (b *layoutBase) indexOfLocked(item LayoutItem) int {
	for i, it := range b.items {
		if it == item {
			return i
		}
	}
	return -1
}

// insertLocked validates before touching the list.
func (b *layoutBase) insertLocked(index int, item LayoutItem) error {
	if item == nil {
		return errors.Wrap(ErrItemNotFound, "nil item")
	}
	if index < 0 || index > len(b.items) {
		return errors.Wrapf(ErrIndexOutOfRange, "insert at %d with %d items", index, len(b.items))
	}
	if b.indexOfLocked(item) >= 0 {
		return errors.Wrapf(ErrDuplicateItem, "%T", item)
	}
	b.items = append(b.items, nil)
	copy(b.items[index+1:], b.items[index:])
	b.items[index] = item
	return nil
}

func (b *layoutBase) removeLocked(item LayoutItem) (int, error) {
	i := b.indexOfLocked(item)
	if i < 0 {
		return -1, errors.Wrapf(ErrItemNotFound, "%T", item)
	}
	copy(b.items[i:], b.items[i+1:])
	b.items[len(b.items)-1] = nil
	b.items = b.items[:len(b.items)-1]
	return i, nil
}

// snapshot copies the item list so structural changes made during the pass
// are not seen by it. Release with releaseItemSlice.
func (b *layoutBase) snapshot() []LayoutItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := acquireItemSlice(len(b.items))
	copy(items, b.items)
	return items
}

// internalSize is window minus the outer margin on both sides, never negative.
func (b *layoutBase) internalSize(window geom.Size) geom.Size {
	m := 2 * b.cfg.Margin
	return window.Sub(geom.NewSize(m, m)).NonNegative()
}

// centerIn places size inside the slot starting at start with extent avail.
// Smaller items are centered; larger ones start at the slot edge.
func centerIn(start, avail, size float32) float32 {
	if size < avail {
		return start + (avail-size)/2 + size/2
	}
	return start + size/2
}
