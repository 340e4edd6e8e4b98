package calorimeter

import (
	"fmt"
	"math"
	"time"

	"github.com/cder-viz/cder/internal/coords"
)

const (
	// PhiFill is the fraction of each cell's azimuthal slot it occupies.
	PhiFill = 0.9

	// ImplodeDistance is the outward offset a ring starts from when set in
	// motion.
	ImplodeDistance = 10.0

	// ParkedDistance keeps a ring out of view until its assembly starts.
	ParkedDistance = 100.0

	// ReferenceFrame is the frame period at which one decay step is applied
	// per update. Other frame periods scale the step linearly.
	ReferenceFrame = time.Second / 30
)

// RingSpec describes one ring of identical cells.
type RingSpec struct {
	Geometry Geometry
	Section  Section

	InnerRadius float64
	OuterRadius float64
	// AxisCenter and AxisWidth are eta for Projective rings, z for
	// Cylindrical ones.
	AxisCenter float64
	AxisWidth  float64

	Cells int

	InnerColor RGB
	OuterColor RGB
	Opacity    float64

	// StartDelay is when the ring starts imploding during assembly,
	// measured from calorimeter construction.
	StartDelay time.Duration
}

// Ring is a full azimuthal ring of cells sharing radial and axial extents.
type Ring struct {
	spec   RingSpec
	cells  []*Cell
	yAngle float64

	inMotion bool
	distance float64
}

// NewRing validates spec and generates its cells.
func NewRing(spec RingSpec) (*Ring, error) {
	if spec.Cells <= 0 {
		return nil, fmt.Errorf("%w: ring cell count %d", ErrInvalidPhysicalQuantity, spec.Cells)
	}
	if !spec.Geometry.valid() {
		return nil, fmt.Errorf("%w: unknown geometry %v", ErrInvalidGeometryParameters, spec.Geometry)
	}

	r := &Ring{spec: spec}
	if err := r.generateCells(); err != nil {
		return nil, err
	}

	zCenter := spec.AxisCenter
	if spec.Geometry == Projective {
		zCenter = coords.ZFromEta(spec.OuterRadius, spec.AxisCenter)
	}
	if math.Abs(zCenter) > 1e-10 {
		r.yAngle = math.Atan2(zCenter, spec.OuterRadius)
	}
	return r, nil
}

func (r *Ring) generateCells() error {
	slot := 2 * math.Pi / float64(r.spec.Cells)
	width := PhiFill * slot

	r.cells = make([]*Cell, 0, r.spec.Cells)
	for i := 0; i < r.spec.Cells; i++ {
		c, err := NewCell([]float64{
			r.spec.InnerRadius,
			r.spec.OuterRadius,
			r.spec.AxisCenter,
			r.spec.AxisWidth,
			float64(i) * slot,
			width,
		}, r.spec.Geometry, r.spec.InnerColor, r.spec.OuterColor, r.spec.Opacity)
		if err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
		r.cells = append(r.cells, c)
	}
	return nil
}

// Spec returns the parameters the ring was built from.
func (r *Ring) Spec() RingSpec { return r.spec }

// Cells returns the ring's cells in phi order. The slice is shared.
func (r *Ring) Cells() []*Cell { return r.cells }

// OuterRadius is a shorthand for Spec().OuterRadius.
func (r *Ring) OuterRadius() float64 { return r.spec.OuterRadius }

// YAngle is the elevation of the ring centre seen from the origin, zero for
// a ring centred on the midplane.
func (r *Ring) YAngle() float64 { return r.yAngle }

// InMotion reports whether the ring is imploding.
func (r *Ring) InMotion() bool { return r.inMotion }

// Distance is the current assembly offset.
func (r *Ring) Distance() float64 { return r.distance }

// SetInMotion starts the implosion from ImplodeDistance.
func (r *Ring) SetInMotion() {
	r.distance = ImplodeDistance
	r.inMotion = true
}

// Park moves the ring out to ParkedDistance at rest, ahead of assembly.
func (r *Ring) Park() {
	r.distance = ParkedDistance
	r.inMotion = false
}

// Update advances the implosion by dt. The decay step ln(1.001+0.2d) is
// applied once per ReferenceFrame of elapsed time.
func (r *Ring) Update(dt time.Duration) {
	if !r.inMotion || dt <= 0 {
		return
	}

	scale := float64(dt) / float64(ReferenceFrame)
	r.distance -= math.Log(1.001+0.2*r.distance) * scale
	if r.distance <= 0 {
		r.distance = 0
		r.inMotion = false
	}
}

// startIndex finds the first cell, scanning from index 0, whose phi range
// contains viewerPhi. Viewers in an inter-cell gap get the nearest cell.
func (r *Ring) startIndex(viewerPhi float64) int {
	nearest, best := 0, math.Inf(1)
	for i, c := range r.cells {
		d := coords.AngularDifference(c.PhiCenter, viewerPhi)
		if d <= c.PhiWidth/2 {
			return i
		}
		if d < best {
			nearest, best = i, d
		}
	}
	return nearest
}

// DrawOrder returns every cell once, starting from the cell facing
// viewerPhi and alternating outwards: 0, +1, -1, +2, -2, ...
func (r *Ring) DrawOrder(viewerPhi float64) []*Cell {
	n := len(r.cells)
	start := r.startIndex(viewerPhi)

	order := make([]*Cell, 0, n)
	for i := 0; i < n; i++ {
		a := (i + 1) / 2
		if i%2 == 0 {
			a = -a
		}
		order = append(order, r.cells[((start+a)%n+n)%n])
	}
	return order
}

// Draw propagates the ring distance to its cells and draws them in DrawOrder.
func (r *Ring) Draw(canvas Canvas, viewerPhi float64) {
	for _, c := range r.DrawOrder(viewerPhi) {
		c.SetDistance(r.distance)
		c.Draw(canvas)
	}
}
