package calorimeter

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/coords"
)

type drawCall struct {
	mesh   *Mesh
	offset r3.Vec
}

// recorder is a Canvas that keeps every call.
type recorder struct {
	calls []drawCall
}

func (r *recorder) DrawMesh(m *Mesh, offset r3.Vec) {
	r.calls = append(r.calls, drawCall{mesh: m, offset: offset})
}

type stubParticle struct {
	pt, eta, phi float64
	em, had      bool
	endcap       bool
	hits         [2]bool
}

func (p *stubParticle) Pt() float64    { return p.pt }
func (p *stubParticle) Eta() float64   { return p.eta }
func (p *stubParticle) Phi() float64   { return p.phi }
func (p *stubParticle) IsEM() bool     { return p.em }
func (p *stubParticle) IsHAD() bool    { return p.had }
func (p *stubParticle) InEndcap() bool { return p.endcap }

func (p *stubParticle) DeltaEta(c *Cell) float64 { return math.Abs(p.eta - c.EtaCenter) }
func (p *stubParticle) DeltaPhi(c *Cell) float64 { return coords.AngularDifference(p.phi, c.PhiCenter) }
func (p *stubParticle) DeltaR(c *Cell) float64 {
	return math.Hypot(p.DeltaEta(c), p.DeltaPhi(c))
}

func (p *stubParticle) HasHit(k Kind) bool { return p.hits[k] }
func (p *stubParticle) MarkHit(k Kind)     { p.hits[k] = true }

func mustRing(t testing.TB, spec RingSpec) *Ring {
	t.Helper()
	r, err := NewRing(spec)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	return r
}

// cylRing is a cylindrical barrel ring centred at z.
func cylRing(z float64, n int) RingSpec {
	return RingSpec{
		Geometry:    Cylindrical,
		Section:     Barrel,
		InnerRadius: 1,
		OuterRadius: 2,
		AxisCenter:  z,
		AxisWidth:   0.8,
		Cells:       n,
		InnerColor:  RGB{0.1, 0.2, 0.3},
		OuterColor:  RGB{0.4, 0.5, 0.6},
		Opacity:     DefaultBaseOpacity,
	}
}
