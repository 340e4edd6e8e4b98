package calorimeter

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cder-viz/cder/internal/coords"
)

// Spec is everything needed to build a calorimeter.
type Spec struct {
	Kind    Kind
	Rings   []RingSpec
	Options Options
}

// EMGeometry sizes the electromagnetic calorimeter.
type EMGeometry struct {
	InnerRadius     float64
	OuterRadius     float64
	MaxAbsEta       float64
	EtaDivisions    int
	PhiDivisions    int
	EndcapThickness float64 // fraction of the endcap |z|
}

// HADGeometry sizes the hadronic calorimeter.
type HADGeometry struct {
	InnerRadius  float64
	OuterRadius  float64
	MaxAbsZ      float64
	ZDivisions   int
	PhiDivisions int
	// GapSlots are barrel slots left empty between the barrel and the
	// extended barrels.
	GapSlots []int
}

// DefaultEMGeometry returns the stock electromagnetic layout.
func DefaultEMGeometry() EMGeometry {
	return EMGeometry{
		InnerRadius:     1.5,
		OuterRadius:     1.95,
		MaxAbsEta:       1.475,
		EtaDivisions:    13,
		PhiDivisions:    30,
		EndcapThickness: 0.2,
	}
}

// DefaultHADGeometry returns the stock hadronic layout.
func DefaultHADGeometry() HADGeometry {
	return HADGeometry{
		InnerRadius:  2.2,
		OuterRadius:  3.0,
		MaxAbsZ:      4.3,
		ZDivisions:   10,
		PhiDivisions: 15,
		GapSlots:     []int{2, 7},
	}
}

// EndcapInnerZ is the |z| of the electromagnetic endcap's inner face, the
// plane where non-penetrating particles stop if they miss the barrel.
func (g EMGeometry) EndcapInnerZ() float64 {
	return (1 - g.EndcapThickness/2) * coords.ZFromEta(g.OuterRadius, g.MaxAbsEta)
}

// assembly holds the start delays of one calorimeter's assembly animation.
type assembly struct {
	aSide, first, last, cSide time.Duration
}

var (
	emAssembly  = assembly{0, seconds(0.2857), seconds(2.2857), seconds(1.8)}
	hadAssembly = assembly{seconds(3.5), seconds(3.7857), seconds(5.7857), seconds(6.0)}
)

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// barrelDelay spreads barrel start delays from first towards last by slot.
func (a assembly) barrelDelay(slot, slots int) time.Duration {
	return a.first + time.Duration(slot)*(a.last-a.first)/time.Duration(slots)
}

var (
	emInner  = RGB{0.1, 0.2, 0.35}
	emOuter  = RGB{0.2, 0.4, 0.7}
	hadInner = RGB{0.35, 0.2, 0.1}
	hadOuter = RGB{0.7, 0.4, 0.2}
)

// EMSpec lays out the electromagnetic calorimeter: a projective barrel of
// EtaDivisions rings between the A-side endcap (+z) and the C-side endcap.
func EMSpec(g EMGeometry) (Spec, error) {
	if g.EtaDivisions < 2 || g.PhiDivisions < 1 {
		return Spec{}, fmt.Errorf("%w: em divisions eta=%d phi=%d", ErrInvalidPhysicalQuantity, g.EtaDivisions, g.PhiDivisions)
	}

	endcap := RingSpec{
		Geometry:    Cylindrical,
		Section:     Endcap,
		InnerRadius: 0.2 * g.InnerRadius,
		OuterRadius: 0.95 * g.InnerRadius,
		Cells:       g.PhiDivisions,
		InnerColor:  emInner,
		OuterColor:  emOuter,
		Opacity:     DefaultBaseOpacity,
	}
	maxZ := coords.ZFromEta(g.OuterRadius, g.MaxAbsEta)
	endcap.AxisWidth = g.EndcapThickness * maxZ

	rings := make([]RingSpec, 0, g.EtaDivisions+2)

	aSide := endcap
	aSide.AxisCenter = maxZ
	aSide.StartDelay = emAssembly.aSide
	rings = append(rings, aSide)

	step := 2 * g.MaxAbsEta / float64(g.EtaDivisions-1)
	for i := 0; i < g.EtaDivisions; i++ {
		rings = append(rings, RingSpec{
			Geometry:    Projective,
			Section:     Barrel,
			InnerRadius: g.InnerRadius,
			OuterRadius: g.OuterRadius,
			AxisCenter:  g.MaxAbsEta - float64(i)*step,
			AxisWidth:   0.8 * step,
			Cells:       g.PhiDivisions,
			InnerColor:  emInner,
			OuterColor:  emOuter,
			Opacity:     DefaultBaseOpacity,
			StartDelay:  emAssembly.barrelDelay(i, g.EtaDivisions),
		})
	}

	cSide := endcap
	cSide.AxisCenter = -maxZ
	cSide.StartDelay = emAssembly.cSide
	rings = append(rings, cSide)

	return Spec{
		Kind:  EM,
		Rings: rings,
		Options: Options{
			Ceiling: DefaultCeiling(EM),
		},
	}, nil
}

// HADSpec lays out the hadronic calorimeter: a cylindrical barrel with
// gaps at GapSlots, capped by endcaps one slot beyond the barrel ends.
func HADSpec(g HADGeometry) (Spec, error) {
	if g.ZDivisions < 2 || g.PhiDivisions < 1 {
		return Spec{}, fmt.Errorf("%w: had divisions z=%d phi=%d", ErrInvalidPhysicalQuantity, g.ZDivisions, g.PhiDivisions)
	}

	step := 2 * g.MaxAbsZ / float64(g.ZDivisions-1)
	width := 0.9 * step

	endcap := RingSpec{
		Geometry:    Cylindrical,
		Section:     Endcap,
		InnerRadius: 0.2 * g.InnerRadius,
		OuterRadius: g.OuterRadius,
		AxisWidth:   width,
		Cells:       g.PhiDivisions,
		InnerColor:  hadInner,
		OuterColor:  hadOuter,
		Opacity:     DefaultBaseOpacity,
	}
	endZ := g.MaxAbsZ + step

	rings := make([]RingSpec, 0, g.ZDivisions+2)

	aSide := endcap
	aSide.AxisCenter = endZ
	aSide.StartDelay = hadAssembly.aSide
	rings = append(rings, aSide)

	for i := 0; i < g.ZDivisions; i++ {
		if slices.Contains(g.GapSlots, i) {
			continue
		}
		rings = append(rings, RingSpec{
			Geometry:    Cylindrical,
			Section:     Barrel,
			InnerRadius: g.InnerRadius,
			OuterRadius: g.OuterRadius,
			AxisCenter:  g.MaxAbsZ - float64(i)*step,
			AxisWidth:   width,
			Cells:       g.PhiDivisions,
			InnerColor:  hadInner,
			OuterColor:  hadOuter,
			Opacity:     DefaultBaseOpacity,
			StartDelay:  hadAssembly.barrelDelay(i, g.ZDivisions),
		})
	}

	cSide := endcap
	cSide.AxisCenter = -endZ
	cSide.StartDelay = hadAssembly.cSide
	rings = append(rings, cSide)

	return Spec{
		Kind:  HAD,
		Rings: rings,
		Options: Options{
			Ceiling: DefaultCeiling(HAD),
		},
	}, nil
}

// Build creates every ring of s and assembles the calorimeter.
func Build(s Spec) (*Calorimeter, error) {
	rings := make([]*Ring, 0, len(s.Rings))
	for i, rs := range s.Rings {
		r, err := NewRing(rs)
		if err != nil {
			return nil, fmt.Errorf("%s ring %d: %w", s.Kind, i, err)
		}
		rings = append(rings, r)
	}

	c, err := NewCalorimeter(s.Kind, rings, s.Options)
	if err != nil {
		return nil, err
	}
	logf("built %s calorimeter: %d rings, %d cells", s.Kind, len(rings), len(c.Cells()))
	return c, nil
}
