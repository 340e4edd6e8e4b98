package calorimeter

import (
	"fmt"
	"math"
	"time"

	"github.com/cder-viz/cder/internal/coords"
	"github.com/cder-viz/cder/internal/monitoring"
)

const (
	// EtaSelectDivisor and PhiSelectDivisor scale a cell's widths into the
	// separation a particle must stay under to deposit in it.
	EtaSelectDivisor = 1.7
	PhiSelectDivisor = 1.8

	// DefaultBaseOpacity is the opacity of a cell with no deposit.
	DefaultBaseOpacity = 0.05
)

// DefaultCeiling returns the opacity a cell of kind k saturates towards.
func DefaultCeiling(k Kind) float64 {
	if k == HAD {
		return 0.2
	}
	return 0.4
}

var logf = monitoring.Component("Calorimeter")

// Particle is what Energize needs to know about an incoming particle.
type Particle interface {
	Pt() float64
	Eta() float64
	Phi() float64

	IsEM() bool
	IsHAD() bool
	// InEndcap reports whether the particle leaves the barrel through an
	// endcap face rather than the barrel's inner radius.
	InEndcap() bool

	DeltaR(c *Cell) float64
	DeltaEta(c *Cell) float64
	DeltaPhi(c *Cell) float64

	HasHit(k Kind) bool
	MarkHit(k Kind)
}

// Options tune a Calorimeter beyond its rings.
type Options struct {
	// BaseOpacity is restored by Reset. Nil means DefaultBaseOpacity.
	BaseOpacity *float64
	// Ceiling is the opacity energized cells approach. Zero means
	// DefaultCeiling(kind).
	Ceiling float64
	// Assemble parks every ring and implodes each one once its
	// RingSpec.StartDelay has elapsed in Update.
	Assemble bool
}

// Calorimeter is an ordered stack of rings along the beam axis: one endcap,
// the barrel rings, then the opposite endcap.
type Calorimeter struct {
	kind  Kind
	rings []*Ring

	baseOpacity float64
	ceiling     float64

	thetaCamera float64
	rCamera     float64
	phiCamera   float64

	energized   []*Cell
	energizedIx map[*Cell]struct{}

	elapsed    time.Duration
	assembling bool
	started    []bool
}

// NewCalorimeter assembles rings into a calorimeter of the given kind.
func NewCalorimeter(kind Kind, rings []*Ring, opts Options) (*Calorimeter, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("%w: unknown calorimeter kind %v", ErrInvalidGeometryParameters, kind)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: calorimeter needs at least one ring", ErrInvalidPhysicalQuantity)
	}

	c := &Calorimeter{
		kind:        kind,
		rings:       rings,
		baseOpacity: DefaultBaseOpacity,
		ceiling:     opts.Ceiling,
		energizedIx: make(map[*Cell]struct{}),
		started:     make([]bool, len(rings)),
	}
	if opts.BaseOpacity != nil {
		c.baseOpacity = *opts.BaseOpacity
	}
	if c.ceiling == 0 {
		c.ceiling = DefaultCeiling(kind)
	}
	if c.baseOpacity < 0 || c.baseOpacity > 1 || c.ceiling < 0 || c.ceiling > 1 {
		return nil, fmt.Errorf("%w: base opacity %g, ceiling %g", ErrInvalidPhysicalQuantity, c.baseOpacity, c.ceiling)
	}

	if opts.Assemble {
		for _, r := range rings {
			r.Park()
		}
		c.assembling = true
	}
	return c, nil
}

// Kind reports which particles the calorimeter absorbs.
func (c *Calorimeter) Kind() Kind { return c.kind }

// Rings returns the rings in stack order. The slice is shared.
func (c *Calorimeter) Rings() []*Ring { return c.rings }

// BaseOpacity is the opacity Reset restores.
func (c *Calorimeter) BaseOpacity() float64 { return c.baseOpacity }

// Ceiling is the opacity energized cells approach.
func (c *Calorimeter) Ceiling() float64 { return c.ceiling }

// Assembling reports whether some ring is still waiting for its start delay.
func (c *Calorimeter) Assembling() bool { return c.assembling }

// Cells returns every cell, ring by ring.
func (c *Calorimeter) Cells() []*Cell {
	var n int
	for _, r := range c.rings {
		n += len(r.cells)
	}
	cells := make([]*Cell, 0, n)
	for _, r := range c.rings {
		cells = append(cells, r.cells...)
	}
	return cells
}

// EnergizedCells returns the cells modified since the last Reset, in the
// order they were first energized.
func (c *Calorimeter) EnergizedCells() []*Cell {
	out := make([]*Cell, len(c.energized))
	copy(out, c.energized)
	return out
}

// SetViewer sets the viewer's polar angle, distance and azimuth used by
// DrawOrder and Draw.
func (c *Calorimeter) SetViewer(theta, r, phi float64) {
	c.thetaCamera = theta
	c.rCamera = r
	c.phiCamera = phi
}

// Viewer returns the angles last passed to SetViewer.
func (c *Calorimeter) Viewer() (theta, r, phi float64) {
	return c.thetaCamera, c.rCamera, c.phiCamera
}

// DrawOrder returns every ring exactly once, far rings first.
//
// For each ring a split angle is computed from the viewer elevation. Rings
// above the split are drawn in stack order, rings below it in reverse, and
// rings lying exactly on the split (the middle ring seen square from the
// side) last.
func (c *Calorimeter) DrawOrder() []*Ring {
	a := math.Abs(c.thetaCamera) - math.Pi/2
	split := func(r *Ring) float64 {
		return math.Atan2(r.OuterRadius(), -c.rCamera*math.Sin(a)) - math.Pi/2
	}

	order := make([]*Ring, 0, len(c.rings))
	for _, r := range c.rings {
		if r.YAngle() > split(r) {
			order = append(order, r)
		}
	}
	for i := len(c.rings) - 1; i >= 0; i-- {
		if r := c.rings[i]; r.YAngle() < split(r) {
			order = append(order, r)
		}
	}
	for _, r := range c.rings {
		if r.YAngle() == split(r) {
			order = append(order, r)
		}
	}
	return order
}

// Draw draws every ring in DrawOrder.
func (c *Calorimeter) Draw(canvas Canvas) {
	for _, r := range c.DrawOrder() {
		r.Draw(canvas, c.phiCamera)
	}
}

// Update advances assembly and ring animations by dt.
func (c *Calorimeter) Update(dt time.Duration) {
	if c.assembling && dt > 0 {
		c.elapsed += dt
		pending := 0
		for i, r := range c.rings {
			if c.started[i] {
				continue
			}
			if c.elapsed >= r.spec.StartDelay {
				r.SetInMotion()
				c.started[i] = true
				continue
			}
			pending++
		}
		if pending == 0 {
			c.assembling = false
			logf("%s: all %d rings in motion after %v", c.kind, len(c.rings), c.elapsed)
		}
	}

	for _, r := range c.rings {
		r.Update(dt)
	}
}

func validParticle(p Particle) error {
	pt := p.Pt()
	if math.IsNaN(pt) || math.IsInf(pt, 0) || pt <= 0 {
		return fmt.Errorf("%w: pt %g", ErrInvalidPhysicalQuantity, pt)
	}
	eta, phi := p.Eta(), p.Phi()
	if math.IsNaN(eta) || math.IsInf(eta, 0) || math.IsNaN(phi) || math.IsInf(phi, 0) {
		return fmt.Errorf("%w: eta %g phi %g", ErrInvalidPhysicalQuantity, eta, phi)
	}
	return nil
}

func (c *Calorimeter) absorbs(p Particle) bool {
	if c.kind == HAD {
		return p.IsHAD()
	}
	return p.IsEM()
}

// selects reports whether p deposits into cell.
//
// Barrel particles match on eta and phi separation. Endcap particles match
// when their radius at the cell's z plane falls inside the cell, their phi
// separation is small, and they are on the same side of the midplane.
func (c *Calorimeter) selects(p Particle, cell *Cell) bool {
	if p.DeltaPhi(cell) >= cell.PhiWidth/PhiSelectDivisor {
		return false
	}
	if !p.InEndcap() {
		return p.DeltaEta(cell) < cell.EtaWidth/EtaSelectDivisor
	}
	if p.Eta()*cell.EtaCenter <= 0 {
		return false
	}
	r := coords.RadiusFromZ(cell.ZCenter, p.Eta())
	return r > cell.InnerRadius && r < cell.OuterRadius
}

// Energize deposits each particle's energy into the cells it crosses.
//
// Every particle is validated before any cell changes; an invalid particle
// aborts the call with ErrInvalidPhysicalQuantity. Particles already hit for
// this calorimeter's kind are skipped, so repeated calls deposit once.
func (c *Calorimeter) Energize(particles []Particle) error {
	for i, p := range particles {
		if err := validParticle(p); err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}

	before := len(c.energized)
	deposited := 0
	for _, p := range particles {
		if !c.absorbs(p) || p.HasHit(c.kind) {
			continue
		}

		l := math.Log(p.Pt()/1000 + 1)
		gain := l / (l + 1)
		for _, r := range c.rings {
			for _, cell := range r.cells {
				if !c.selects(p, cell) {
					continue
				}
				headroom := math.Max(c.ceiling-cell.Opacity(), 0)
				cell.SetOpacity(cell.Opacity() + headroom*gain/(p.DeltaR(cell)+1))
				c.record(cell)
			}
		}
		p.MarkHit(c.kind)
		deposited++
	}

	if deposited > 0 {
		logf("%s: %d particles energized %d new cells (%d total)",
			c.kind, deposited, len(c.energized)-before, len(c.energized))
	}
	return nil
}

func (c *Calorimeter) record(cell *Cell) {
	if _, ok := c.energizedIx[cell]; ok {
		return
	}
	c.energizedIx[cell] = struct{}{}
	c.energized = append(c.energized, cell)
}

// Reset restores every energized cell to the base opacity and empties the
// energized set.
func (c *Calorimeter) Reset() {
	if len(c.energized) == 0 {
		return
	}
	for _, cell := range c.energized {
		cell.SetOpacity(c.baseOpacity)
	}
	logf("%s: reset %d cells", c.kind, len(c.energized))
	c.energized = c.energized[:0]
	clear(c.energizedIx)
}
