package retained

import (
	"sync"

	"github.com/agiangrant/ctdlayout/geom"
)

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event.
type EventType uint8

const (
	// EventResize carries a new rendering area computed by a layout pass.
	EventResize EventType = iota + 1

	// EventVisibility reports that a layout showed or hid an item.
	EventVisibility
)

func (t EventType) String() string {
	switch t {
	case EventResize:
		return "resize"
	case EventVisibility:
		return "visibility"
	default:
		return "unknown"
	}
}

// ============================================================================
// Event Interface and Base
// ============================================================================

// Event is the interface for notifications pushed into layout items.
// Layouts post events fire-and-forget; nothing is returned to the sender.
type Event interface {
	// Type returns the event type.
	Type() EventType
}

type eventBase struct {
	eventType EventType
}

func (e *eventBase) Type() EventType { return e.eventType }

// ============================================================================
// Resize Event
// ============================================================================

// ResizeEvent tells an item its new rendering area, relative to the widget
// that owns the layout.
type ResizeEvent struct {
	eventBase

	// Box is the new rendering area.
	Box geom.Box

	// Previous is the area the item had before this pass.
	Previous geom.Box
}

// NewResizeEvent creates a resize event. Uses an object pool since every
// layout pass posts one per item.
func NewResizeEvent(box, previous geom.Box) *ResizeEvent {
	e := resizeEventPool.Get().(*ResizeEvent)
	e.eventType = EventResize
	e.Box = box
	e.Previous = previous
	return e
}

// Release returns the event to the pool. Call when done processing.
func (e *ResizeEvent) Release() {
	*e = ResizeEvent{}
	resizeEventPool.Put(e)
}

var resizeEventPool = sync.Pool{
	New: func() any {
		return &ResizeEvent{}
	},
}

// ============================================================================
// Visibility Event
// ============================================================================

// VisibilityEvent reports a visibility change made by a layout.
type VisibilityEvent struct {
	eventBase

	Visible bool
}

// NewVisibilityEvent creates a visibility event.
func NewVisibilityEvent(visible bool) *VisibilityEvent {
	return &VisibilityEvent{
		eventBase: eventBase{eventType: EventVisibility},
		Visible:   visible,
	}
}
