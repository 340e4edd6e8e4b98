package event

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cder-viz/cder/internal/particle"
)

// ErrInvalidSelection is returned by Select for an unnamed selection, a nil
// predicate, or one that keeps no events.
var ErrInvalidSelection = errors.New("invalid event selection")

// NoSelection names the selection that keeps every event.
const NoSelection = "No selection"

// Predicate decides whether an event survives a selection.
type Predicate func(*Event) bool

// HasObject keeps events with at least n objects of type t above minPt (MeV).
func HasObject(t particle.ObjectType, n int, minPt float64) Predicate {
	return func(e *Event) bool {
		found := 0
		for _, o := range e.Objects {
			if o.Type == t && o.Pt() >= minPt {
				found++
			}
		}
		return found >= n
	}
}

// History is a cursor over a fixed sample of events. Navigation works on
// the events surviving the current selection.
//
// The cursor starts before the first event. Next past the last event and
// Previous before the first one report false and leave the cursor where it
// is, so the viewer keeps showing the current event.
type History struct {
	all      []*Event
	view     []*Event
	selected string
	history  []string
	cursor   int
	rng      *rand.Rand
}

// NewHistory wraps events. seed drives Random.
func NewHistory(events []*Event, seed int64) *History {
	return &History{
		all:      events,
		view:     events,
		selected: NoSelection,
		cursor:   -1,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Len is the number of events in the current selection.
func (h *History) Len() int { return len(h.view) }

// Total is the number of events before selection.
func (h *History) Total() int { return len(h.all) }

// Cursor is the index of the current event in the selection, or -1.
func (h *History) Cursor() int { return h.cursor }

// Current returns the event under the cursor, or nil before the first move.
func (h *History) Current() *Event {
	if h.cursor < 0 || h.cursor >= len(h.view) {
		return nil
	}
	return h.view[h.cursor]
}

// Next moves to the following event.
func (h *History) Next() (*Event, bool) {
	if h.cursor+1 >= len(h.view) {
		return nil, false
	}
	h.cursor++
	return h.view[h.cursor], true
}

// Previous moves to the preceding event.
func (h *History) Previous() (*Event, bool) {
	if h.cursor <= 0 {
		return nil, false
	}
	h.cursor--
	return h.view[h.cursor], true
}

// Random jumps to a uniformly chosen event of the selection.
func (h *History) Random() (*Event, bool) {
	if len(h.view) == 0 {
		return nil, false
	}
	h.cursor = h.rng.Intn(len(h.view))
	return h.view[h.cursor], true
}

// Select narrows navigation to events accepted by keep and rewinds the
// cursor. A selection that keeps nothing is refused and the previous one
// stays in place. The name is remembered, most recent first.
func (h *History) Select(name string, keep Predicate) (int, error) {
	if name == "" || keep == nil {
		return len(h.view), fmt.Errorf("%w: unnamed or nil", ErrInvalidSelection)
	}

	var view []*Event
	for _, e := range h.all {
		if keep(e) {
			view = append(view, e)
		}
	}
	h.history = append([]string{name}, h.history...)
	if len(view) == 0 {
		logf("selection %q keeps no events, keeping %q", name, h.selected)
		return len(h.view), fmt.Errorf("%w: %q keeps no events", ErrInvalidSelection, name)
	}

	h.view = view
	h.selected = name
	h.cursor = -1
	logf("selection %q keeps %d of %d events", name, len(view), len(h.all))
	return len(view), nil
}

// ClearSelection restores the full sample and rewinds the cursor.
func (h *History) ClearSelection() {
	h.view = h.all
	h.selected = NoSelection
	h.cursor = -1
}

// Selection names the current selection.
func (h *History) Selection() string { return h.selected }

// SelectionHistory lists every selection tried, most recent first.
func (h *History) SelectionHistory() []string {
	return append([]string(nil), h.history...)
}

// Status is the footer line printed under the event table.
func (h *History) Status() string {
	return fmt.Sprintf("Events : %d   selection : %s", len(h.view), h.selected)
}
