// Package calorimeter models a detector calorimeter as rings of trapezoidal
// cells, deposits particle energy into those cells, and orders rings and cells
// for drawing so that additive blending looks right without a depth test.
//
// Responsibilities: cell geometry and mesh generation, ring assembly
// animation, camera-relative draw ordering, and the energize/reset cycle.
// Key types: Cell, Ring, Calorimeter, Spec.
//
// The package never draws anything itself. Meshes are handed to a Canvas,
// which callers implement (see internal/render).
package calorimeter
