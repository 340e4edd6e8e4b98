package calorimeter

import "gonum.org/v1/gonum/spatial/r3"

// Face indices into Mesh.Quads.
const (
	FaceOuter = iota
	FaceInner
	FaceFront
	FaceBack
	FaceLeft
	FaceRight

	FacesPerCell
)

// Vertex is a coloured point of a quad.
type Vertex struct {
	Pos   r3.Vec
	Color RGBA
}

// Quad is a planar quadrilateral, vertices in winding order.
type Quad [4]Vertex

// Mesh is the drawable hexahedron of one cell.
type Mesh struct {
	Quads [FacesPerCell]Quad
}

// Canvas receives meshes to draw. Offset is a translation applied to every
// vertex of m for this call only.
type Canvas interface {
	DrawMesh(m *Mesh, offset r3.Vec)
}
