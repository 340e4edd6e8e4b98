package event

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/particle"
	"github.com/cder-viz/cder/internal/units"
)

// Event is one collision: the reconstructed objects and any scalar extras
// worth printing next to them.
type Event struct {
	ID      uuid.UUID
	Number  int
	Objects []*particle.Object
	Extra   map[string]float64
}

// Particles flattens every object's particles in object order.
func (e *Event) Particles() []*particle.Particle {
	var out []*particle.Particle
	for _, o := range e.Objects {
		out = append(out, o.Particles...)
	}
	return out
}

// Deposits returns Particles as calorimeter.Particle values.
func (e *Event) Deposits() []calorimeter.Particle {
	ps := e.Particles()
	out := make([]calorimeter.Particle, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// Count returns how many objects of type t the event holds.
func (e *Event) Count(t particle.ObjectType) int {
	n := 0
	for _, o := range e.Objects {
		if o.Type == t {
			n++
		}
	}
	return n
}

// ClearHits forgets which calorimeters each particle has deposited in, so
// the event can be energized again after a Reset.
func (e *Event) ClearHits() {
	for _, p := range e.Particles() {
		p.ClearHits()
	}
}

const rule = "========================================================"

// Summary renders the event kinematics as a fixed-width table, pt in GeV.
// Missing energy has no eta column.
func (e *Event) Summary() string {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "| %-10s | %-39d|\n", "Event", e.Number)
	fmt.Fprintln(&b, strings.Repeat("-", len(rule)))
	fmt.Fprintf(&b, "| %-10s | %-12s| %-12s| %-12s|\n", "object", "pt [GeV]", "eta", "phi")
	fmt.Fprintln(&b, strings.Repeat("-", len(rule)))

	for _, o := range e.Objects {
		pt := units.FromMeV(o.Pt(), units.GeV)
		if o.Type == particle.METObject {
			fmt.Fprintf(&b, "| %-10s | %-12.2f| %-12s| %-12.2f|\n", o.Type, pt, "----", o.Phi())
			continue
		}
		fmt.Fprintf(&b, "| %-10s | %-12.2f| %-12.2f| %-12.2f|\n", o.Type, pt, o.Eta(), o.Phi())
	}
	fmt.Fprintln(&b, rule)

	if len(e.Extra) > 0 {
		keys := make([]string, 0, len(e.Extra))
		for k := range e.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(&b)
		for _, k := range keys {
			fmt.Fprintf(&b, "| %-14s| %-14.6g |\n", k, e.Extra[k])
		}
	}
	return b.String()
}
