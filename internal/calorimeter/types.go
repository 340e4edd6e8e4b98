package calorimeter

import "fmt"

// Geometry selects how a cell's axial extent is parameterised.
type Geometry int

const (
	// Projective cells are bounded by constant-eta and constant-phi surfaces.
	Projective Geometry = iota
	// Cylindrical cells are bounded by constant-z and constant-phi planes.
	Cylindrical
)

func (g Geometry) String() string {
	switch g {
	case Projective:
		return "projective"
	case Cylindrical:
		return "cylindrical"
	default:
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
}

func (g Geometry) valid() bool {
	return g == Projective || g == Cylindrical
}

// Kind identifies which particles a calorimeter absorbs.
type Kind int

const (
	EM Kind = iota
	HAD
)

func (k Kind) String() string {
	switch k {
	case EM:
		return "em"
	case HAD:
		return "had"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) valid() bool {
	return k == EM || k == HAD
}

// Section tags a ring as part of the barrel or an endcap.
type Section int

const (
	Barrel Section = iota
	Endcap
)

func (s Section) String() string {
	switch s {
	case Barrel:
		return "barrel"
	case Endcap:
		return "endcap"
	default:
		return fmt.Sprintf("Section(%d)", int(s))
	}
}

// RGB is a colour with components in [0,1].
type RGB struct {
	R, G, B float64
}

// WithAlpha returns the colour with the given alpha.
func (c RGB) WithAlpha(a float64) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// RGBA is a colour with alpha, components in [0,1].
type RGBA struct {
	R, G, B, A float64
}
