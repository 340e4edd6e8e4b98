package display

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/coords"
	"github.com/cder-viz/cder/internal/particle"
)

const (
	// DefaultParticleSpeed is the trail growth per reference frame for each
	// unit of ln(pt/GeV).
	DefaultParticleSpeed = 0.01

	// minIonizingBoost speeds up particles that cross the calorimeters so
	// they arrive with the rest.
	minIonizingBoost = 3.0

	// minTravelLog keeps soft particles (pt at or below 1 GeV) moving.
	minTravelLog = 0.1
)

// Trail is a particle's trajectory growing out from the interaction point
// until it reaches the particle's end radius.
type Trail struct {
	Particle *particle.Particle

	radius float64
	speed  float64
}

func newTrail(p *particle.Particle, speed float64) *Trail {
	t := &Trail{Particle: p, speed: speed}
	if speed <= 0 {
		t.radius = p.EndRadius()
	}
	return t
}

// Radius is the transverse radius the trail has reached.
func (t *Trail) Radius() float64 { return t.radius }

// Travelling reports whether the trail is still growing.
func (t *Trail) Travelling() bool { return t.radius < t.Particle.EndRadius() }

// Tip is the Cartesian end of the trail drawn so far.
func (t *Trail) Tip() r3.Vec {
	if !t.Travelling() {
		return t.Particle.Endpoint()
	}
	return coords.PseudorapidityToCartesian(t.radius, t.Particle.Eta(), t.Particle.Phi())
}

// Update grows the trail by a step proportional to ln(pt/GeV), scaled from
// the reference frame to dt.
func (t *Trail) Update(dt time.Duration) {
	if dt <= 0 || !t.Travelling() {
		return
	}
	step := t.speed * math.Max(math.Log(t.Particle.Pt()/1000), minTravelLog)
	if t.Particle.IsMinIonizing() {
		step *= minIonizingBoost
	}
	step *= float64(dt) / float64(calorimeter.ReferenceFrame)
	t.radius = math.Min(t.radius+step, t.Particle.EndRadius())
}
