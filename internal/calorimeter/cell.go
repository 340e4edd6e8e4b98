package calorimeter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/coords"
)

// CellParameters is the number of values that define a cell:
// inner radius, outer radius, axis center, axis width, phi center, phi width.
const CellParameters = 6

// Cell is one calorimeter segment, an eight-cornered slab between two radii.
//
// For Projective cells the axis coordinate is eta; for Cylindrical cells it
// is z. The other pair is derived at the mean radius so both are always
// available to the energize algorithm.
type Cell struct {
	Geometry Geometry

	InnerRadius float64
	OuterRadius float64
	EtaCenter   float64
	EtaWidth    float64
	ZCenter     float64
	ZWidth      float64
	PhiCenter   float64
	PhiWidth    float64

	// Corners in Cartesian space, ordered (axis-, phi-), (axis+, phi-),
	// (axis+, phi+), (axis-, phi+).
	Outer [4]r3.Vec
	Inner [4]r3.Vec

	InnerColor RGB
	OuterColor RGB

	opacity  float64
	distance float64
	mesh     Mesh
}

// NewCell builds a cell from its six defining parameters and compiles its
// mesh. Opacity is clamped to [0,1].
func NewCell(params []float64, geometry Geometry, inner, outer RGB, opacity float64) (*Cell, error) {
	if len(params) != CellParameters {
		return nil, fmt.Errorf("%w: got %d parameters, want %d", ErrInvalidGeometryParameters, len(params), CellParameters)
	}
	if !geometry.valid() {
		return nil, fmt.Errorf("%w: unknown geometry %v", ErrInvalidGeometryParameters, geometry)
	}
	for i, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: parameter %d is %v", ErrInvalidPhysicalQuantity, i, v)
		}
	}

	c := &Cell{
		Geometry:    geometry,
		InnerRadius: params[0],
		OuterRadius: params[1],
		PhiCenter:   params[4],
		PhiWidth:    params[5],
		InnerColor:  inner,
		OuterColor:  outer,
		opacity:     clamp01(opacity),
	}
	axisCenter, axisWidth := params[2], params[3]

	if c.InnerRadius < 0 || c.InnerRadius >= c.OuterRadius {
		return nil, fmt.Errorf("%w: radii [%g, %g]", ErrInvalidPhysicalQuantity, c.InnerRadius, c.OuterRadius)
	}
	if axisWidth <= 0 || c.PhiWidth <= 0 {
		return nil, fmt.Errorf("%w: widths axis=%g phi=%g", ErrInvalidPhysicalQuantity, axisWidth, c.PhiWidth)
	}

	switch geometry {
	case Projective:
		c.EtaCenter, c.EtaWidth = axisCenter, axisWidth
		c.projectiveCorners()
	case Cylindrical:
		c.ZCenter, c.ZWidth = axisCenter, axisWidth
		c.cylindricalCorners()
	}

	c.Build()
	return c, nil
}

func (c *Cell) projectiveCorners() {
	etaLo, etaHi := c.EtaCenter-c.EtaWidth/2, c.EtaCenter+c.EtaWidth/2
	phiLo, phiHi := c.PhiCenter-c.PhiWidth/2, c.PhiCenter+c.PhiWidth/2

	corner := func(r float64) [4]r3.Vec {
		return [4]r3.Vec{
			coords.PseudorapidityToCartesian(r, etaLo, phiLo),
			coords.PseudorapidityToCartesian(r, etaHi, phiLo),
			coords.PseudorapidityToCartesian(r, etaHi, phiHi),
			coords.PseudorapidityToCartesian(r, etaLo, phiHi),
		}
	}
	c.Outer = corner(c.OuterRadius)
	c.Inner = corner(c.InnerRadius)

	mid := (c.InnerRadius + c.OuterRadius) / 2
	c.ZCenter = coords.ZFromEta(mid, c.EtaCenter)
	c.ZWidth = math.Abs(coords.ZFromEta(mid, etaHi) - coords.ZFromEta(mid, etaLo))
}

func (c *Cell) cylindricalCorners() {
	zLo, zHi := c.ZCenter-c.ZWidth/2, c.ZCenter+c.ZWidth/2
	phiLo, phiHi := c.PhiCenter-c.PhiWidth/2, c.PhiCenter+c.PhiWidth/2

	corner := func(r float64) [4]r3.Vec {
		return [4]r3.Vec{
			coords.CylindricalToCartesian(r, zLo, phiLo),
			coords.CylindricalToCartesian(r, zHi, phiLo),
			coords.CylindricalToCartesian(r, zHi, phiHi),
			coords.CylindricalToCartesian(r, zLo, phiHi),
		}
	}
	c.Outer = corner(c.OuterRadius)
	c.Inner = corner(c.InnerRadius)

	mid := (c.InnerRadius + c.OuterRadius) / 2
	c.EtaCenter = coords.EtaFromZ(mid, c.ZCenter)
	c.EtaWidth = math.Abs(coords.EtaFromZ(mid, zHi) - coords.EtaFromZ(mid, zLo))
}

// Build recompiles the cached mesh from the corners, colours and opacity.
// Outer vertices carry the outer colour and inner vertices the inner colour,
// so the side faces shade radially.
func (c *Cell) Build() {
	out := func(i int) Vertex { return Vertex{Pos: c.Outer[i], Color: c.OuterColor.WithAlpha(c.opacity)} }
	in := func(i int) Vertex { return Vertex{Pos: c.Inner[i], Color: c.InnerColor.WithAlpha(c.opacity)} }

	c.mesh.Quads[FaceOuter] = Quad{out(0), out(1), out(2), out(3)}
	c.mesh.Quads[FaceInner] = Quad{in(0), in(1), in(2), in(3)}
	c.mesh.Quads[FaceFront] = Quad{out(0), out(1), in(1), in(0)}
	c.mesh.Quads[FaceBack] = Quad{out(3), out(2), in(2), in(3)}
	c.mesh.Quads[FaceLeft] = Quad{out(0), out(3), in(3), in(0)}
	c.mesh.Quads[FaceRight] = Quad{out(2), out(1), in(1), in(2)}
}

// Mesh returns the cached mesh. Callers must not modify it.
func (c *Cell) Mesh() *Mesh { return &c.mesh }

// Opacity returns the current opacity, which doubles as deposited energy.
func (c *Cell) Opacity() float64 { return c.opacity }

// SetOpacity clamps o to [0,1] and rebuilds the mesh.
func (c *Cell) SetOpacity(o float64) {
	c.opacity = clamp01(o)
	c.Build()
}

// Distance returns the assembly offset applied when drawing.
func (c *Cell) Distance() float64 { return c.distance }

// SetDistance sets the outward assembly offset.
func (c *Cell) SetDistance(d float64) { c.distance = d }

// Offset is the translation applied to the mesh for the current distance,
// outward along the cell's phi center.
func (c *Cell) Offset() r3.Vec {
	return r3.Vec{
		X: c.distance * math.Cos(c.PhiCenter),
		Y: c.distance * math.Sin(c.PhiCenter),
	}
}

// Draw hands the cached mesh to canvas, displaced by the assembly offset.
func (c *Cell) Draw(canvas Canvas) {
	canvas.DrawMesh(&c.mesh, c.Offset())
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
