package calorimeter

import "errors"

var (
	// ErrInvalidGeometryParameters is returned when a cell is built from a
	// parameter tuple of the wrong arity or with an unknown geometry.
	ErrInvalidGeometryParameters = errors.New("invalid geometry parameters")

	// ErrInvalidPhysicalQuantity is returned for non-finite inputs, inverted
	// radii, non-positive widths or counts, and particles with pt <= 0.
	ErrInvalidPhysicalQuantity = errors.New("invalid physical quantity")
)
