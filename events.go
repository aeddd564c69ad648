package meshloop

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// EventKind identifies a window event. Lower kinds are handled first
// within one polled batch.
type EventKind int

const (
	// EventClose asks the loop to stop.
	EventClose EventKind = iota
	// EventResize reports a new drawable size in physical pixels.
	EventResize
	// EventKey reports a key press.
	EventKey
	// EventRedraw asks for one frame.
	EventRedraw
)

func (k EventKind) String() string {
	switch k {
	case EventClose:
		return "close"
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	case EventRedraw:
		return "redraw"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one window event.
type Event struct {
	Kind EventKind

	// Width and Height are set for EventResize.
	Width, Height int

	// Key is set for EventKey.
	Key gpucontext.Key
}

// CloseEvent returns an EventClose.
func CloseEvent() Event { return Event{Kind: EventClose} }

// ResizeEvent returns an EventResize for a width x height drawable.
func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// KeyEvent returns an EventKey for k.
func KeyEvent(k gpucontext.Key) Event { return Event{Kind: EventKey, Key: k} }

// RedrawEvent returns an EventRedraw.
func RedrawEvent() Event { return Event{Kind: EventRedraw} }

// EventSource is the window the loop reads events from.
type EventSource interface {
	// PollEvents returns the events that arrived since the last call.
	// It may block until at least one event is available.
	PollEvents() []Event

	// RequestRedraw schedules an EventRedraw.
	RequestRedraw()
}

// sortEvents orders a batch by kind, keeping arrival order within a kind.
func sortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.Kind, b.Kind)
	})
}
