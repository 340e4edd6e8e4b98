// Package particle provides the reconstructed particles that deposit energy
// in the calorimeters, and the physics objects (jets, leptons, photons,
// missing energy) that produce them.
package particle

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/coords"
)

// Flags describe how a particle interacts with the detector.
type Flags uint8

const (
	EM Flags = 1 << iota
	HAD
	// MinIonizing particles cross the calorimeters without stopping.
	MinIonizing
	// Wide particles are drawn as a broad beam.
	Wide
)

// MinIonizingReach scales the envelope for particles that punch through.
const MinIonizingReach = 3.0

// Envelope is the inner boundary of the electromagnetic calorimeter, where
// non-penetrating particles stop.
type Envelope struct {
	InnerRadius  float64
	EndcapInnerZ float64
}

// EnvelopeFor derives the envelope from the electromagnetic geometry.
func EnvelopeFor(g calorimeter.EMGeometry) Envelope {
	return Envelope{
		InnerRadius:  g.InnerRadius,
		EndcapInnerZ: g.EndcapInnerZ(),
	}
}

// DefaultEnvelope is the envelope of the stock electromagnetic calorimeter.
func DefaultEnvelope() Envelope {
	return EnvelopeFor(calorimeter.DefaultEMGeometry())
}

// Particle is a single trajectory from the interaction point. Kinematics
// are carried as a pt/eta/phi/m four-momentum with m = 0.
type Particle struct {
	fmom.PtEtaPhiM

	Flags Flags
	Color calorimeter.RGB

	endRadius float64
	endcap    bool
	hits      [2]bool
}

var _ calorimeter.Particle = (*Particle)(nil)

// New creates a massless particle and works out where it ends inside env.
func New(pt, eta, phi float64, flags Flags, color calorimeter.RGB, env Envelope) *Particle {
	p := &Particle{
		PtEtaPhiM: fmom.NewPtEtaPhiM(pt, eta, phi, 0),
		Flags:     flags,
		Color:     color,
	}
	p.locate(env)
	return p
}

// locate sets the endpoint radius, stopping at the endcap inner face when
// the trajectory reaches it before the barrel inner radius.
func (p *Particle) locate(env Envelope) {
	p.endRadius = env.InnerRadius
	innerZ := env.EndcapInnerZ
	if p.Flags&MinIonizing != 0 {
		p.endRadius *= MinIonizingReach
		innerZ *= MinIonizingReach
	}

	z := math.Abs(coords.ZFromEta(env.InnerRadius, p.Eta()))
	if z >= innerZ {
		p.endcap = true
		p.endRadius = innerZ / z * env.InnerRadius
	}
}

func (p *Particle) IsEM() bool          { return p.Flags&EM != 0 }
func (p *Particle) IsHAD() bool         { return p.Flags&HAD != 0 }
func (p *Particle) IsMinIonizing() bool { return p.Flags&MinIonizing != 0 }
func (p *Particle) IsWide() bool        { return p.Flags&Wide != 0 }

// InEndcap reports whether the particle leaves through an endcap face.
func (p *Particle) InEndcap() bool { return p.endcap }

// EndRadius is the transverse radius at which the trajectory stops.
func (p *Particle) EndRadius() float64 { return p.endRadius }

// Endpoint is the Cartesian end of the trajectory.
func (p *Particle) Endpoint() r3.Vec {
	return coords.PseudorapidityToCartesian(p.endRadius, p.Eta(), p.Phi())
}

// DeltaEta is the unsigned eta separation from the cell centre.
func (p *Particle) DeltaEta(c *calorimeter.Cell) float64 {
	return math.Abs(p.Eta() - c.EtaCenter)
}

// DeltaPhi is the unsigned azimuthal separation from the cell centre.
func (p *Particle) DeltaPhi(c *calorimeter.Cell) float64 {
	return coords.AngularDifference(p.Phi(), c.PhiCenter)
}

// DeltaR combines DeltaEta and DeltaPhi in quadrature.
func (p *Particle) DeltaR(c *calorimeter.Cell) float64 {
	return math.Hypot(p.DeltaEta(c), p.DeltaPhi(c))
}

// HasHit reports whether the particle already deposited in a calorimeter
// of kind k.
func (p *Particle) HasHit(k calorimeter.Kind) bool { return p.hits[k] }

// MarkHit records a deposit in a calorimeter of kind k.
func (p *Particle) MarkHit(k calorimeter.Kind) { p.hits[k] = true }

// ClearHits forgets all deposits so the particle can be shown again.
func (p *Particle) ClearHits() { p.hits = [2]bool{} }
