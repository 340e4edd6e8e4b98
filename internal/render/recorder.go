// Package render holds Canvas implementations. The recorder here keeps
// draw calls in memory; package term rasterises them to a terminal.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/calorimeter"
)

// MeshCall is one DrawMesh call.
type MeshCall struct {
	Mesh   *calorimeter.Mesh
	Offset r3.Vec
}

// TrailCall is one DrawTrail call.
type TrailCall struct {
	From, To r3.Vec
	Color    calorimeter.RGBA
	Wide     bool
}

// Recorder is a canvas that keeps every call in order.
type Recorder struct {
	Meshes []MeshCall
	Trails []TrailCall
}

// DrawMesh records m and its offset.
func (r *Recorder) DrawMesh(m *calorimeter.Mesh, offset r3.Vec) {
	r.Meshes = append(r.Meshes, MeshCall{Mesh: m, Offset: offset})
}

// DrawTrail records a particle trajectory.
func (r *Recorder) DrawTrail(from, to r3.Vec, color calorimeter.RGBA, wide bool) {
	r.Trails = append(r.Trails, TrailCall{From: from, To: to, Color: color, Wide: wide})
}

// Reset forgets all calls, keeping capacity.
func (r *Recorder) Reset() {
	r.Meshes = r.Meshes[:0]
	r.Trails = r.Trails[:0]
}

// Fanout draws to every canvas in order. Trails reach only the canvases
// that can draw them.
type Fanout []calorimeter.Canvas

// DrawMesh forwards to every canvas.
func (f Fanout) DrawMesh(m *calorimeter.Mesh, offset r3.Vec) {
	for _, c := range f {
		c.DrawMesh(m, offset)
	}
}

// DrawTrail forwards to every canvas with a DrawTrail method.
func (f Fanout) DrawTrail(from, to r3.Vec, color calorimeter.RGBA, wide bool) {
	for _, c := range f {
		if tc, ok := c.(interface {
			DrawTrail(from, to r3.Vec, color calorimeter.RGBA, wide bool)
		}); ok {
			tc.DrawTrail(from, to, color, wide)
		}
	}
}
