package particle

import (
	"fmt"
	"math"
	"math/rand"

	"go-hep.org/x/hep/fmom"

	"github.com/cder-viz/cder/internal/calorimeter"
)

// ObjectType identifies a reconstructed physics object.
type ObjectType int

const (
	JetObject ObjectType = iota
	BJetObject
	TauObject
	ElectronObject
	PhotonObject
	MuonObject
	METObject
)

func (t ObjectType) String() string {
	switch t {
	case JetObject:
		return "jet"
	case BJetObject:
		return "b-jet"
	case TauObject:
		return "tau"
	case ElectronObject:
		return "electron"
	case PhotonObject:
		return "photon"
	case MuonObject:
		return "muon"
	case METObject:
		return "met"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

var (
	jetCharged = calorimeter.RGB{R: 0.65, G: 0.25}
	neutral    = calorimeter.RGB{R: 0.40, G: 0.45, B: 0.50}
	bTagBeam   = calorimeter.RGB{G: 0.06, B: 0.06}
	tauCharged = calorimeter.RGB{R: 0.45, G: 0.45}
	electron   = calorimeter.RGB{R: 0.1, G: 0.1, B: 1}
	muon       = calorimeter.RGB{R: 0.6, B: 0.2}
)

// Object is a reconstructed physics object and the particles it is drawn
// and deposited with.
type Object struct {
	fmom.PtEtaPhiM

	Type      ObjectType
	Particles []*Particle
}

func newObject(t ObjectType, pt, eta, phi float64) (*Object, error) {
	if math.IsNaN(pt) || math.IsInf(pt, 0) || pt <= 0 {
		return nil, fmt.Errorf("%w: %s pt %g", calorimeter.ErrInvalidPhysicalQuantity, t, pt)
	}
	if math.IsNaN(eta) || math.IsInf(eta, 0) || math.IsNaN(phi) || math.IsInf(phi, 0) {
		return nil, fmt.Errorf("%w: %s eta %g phi %g", calorimeter.ErrInvalidPhysicalQuantity, t, eta, phi)
	}
	return &Object{
		PtEtaPhiM: fmom.NewPtEtaPhiM(pt, eta, phi, 0),
		Type:      t,
	}, nil
}

// Deposits returns the particles as calorimeter.Particle values, ready for
// Calorimeter.Energize.
func (o *Object) Deposits() []calorimeter.Particle {
	out := make([]calorimeter.Particle, len(o.Particles))
	for i, p := range o.Particles {
		out[i] = p
	}
	return out
}

// spray splits an object into charged then neutral particles sharing pt
// equally. Each particle is drawn around the object axis with the spread
// given by sigma(i, n); the last one is placed so the eta and phi offsets
// of the whole spray cancel.
func (o *Object) spray(rng *rand.Rand, nCharged, nNeutral int, charged calorimeter.RGB, sigma func(i, n int) float64, env Envelope) {
	n := nCharged + nNeutral
	eta, phi := o.Eta(), o.Phi()
	pt := o.Pt() / float64(n)

	var dEta, dPhi float64
	for i := 0; i < n; i++ {
		var pEta, pPhi float64
		if i < n-1 {
			s := sigma(i, n)
			pEta = rng.NormFloat64()*s + eta + dEta
			pPhi = rng.NormFloat64()*s + phi + dPhi
			dEta += eta - pEta
			dPhi += phi - pPhi
		} else {
			pEta = eta + dEta
			pPhi = phi + dPhi
		}

		if i < nCharged {
			o.Particles = append(o.Particles, New(pt, pEta, pPhi, EM|HAD, charged, env))
		} else {
			o.Particles = append(o.Particles, New(pt, pEta, pPhi, EM, neutral, env))
		}
	}
}

// randInt returns a uniform integer in [lo, hi], or lo when hi < lo.
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// NewJet builds a jet whose constituent count grows with pt and whose
// spread narrows with pt. A b-tagged jet also carries a wide beam along
// its axis.
func NewJet(rng *rand.Rand, pt, eta, phi float64, btag bool, env Envelope) (*Object, error) {
	t := JetObject
	if btag {
		t = BJetObject
	}
	o, err := newObject(t, pt, eta, phi)
	if err != nil {
		return nil, err
	}

	nMax := max(int(math.Log(pt/1000+1)), 2)
	nCharged := randInt(rng, 2, nMax)
	nNeutral := randInt(rng, 1, nMax-nMax/2)
	width := 0.2*math.Exp(-pt/25000+1) + 0.05

	o.spray(rng, nCharged, nNeutral, jetCharged, func(i, n int) float64 {
		return math.Exp(-float64(i)/(float64(n)/3)) * width
	}, env)

	if btag {
		o.Particles = append(o.Particles, New(pt, eta, phi, EM|HAD|Wide, bTagBeam, env))
	}
	return o, nil
}

// tauDecays are the six most common hadronic tau decays as cumulative
// branching fractions, leptonic decays excluded.
var tauDecays = []struct {
	cumulative        float64
	charged, neutrals int
}{
	{0.2531, 1, 1},
	{0.3638, 1, 0},
	{0.4585, 3, 0},
	{0.5506, 1, 2},
	{0.5929, 3, 1},
	{0.6051, 1, 3},
}

// NewTau builds a hadronically decaying tau.
func NewTau(rng *rand.Rand, pt, eta, phi float64, env Envelope) (*Object, error) {
	o, err := newObject(TauObject, pt, eta, phi)
	if err != nil {
		return nil, err
	}

	total := tauDecays[len(tauDecays)-1].cumulative
	u := rng.Float64() * total
	mode := tauDecays[len(tauDecays)-1]
	for _, d := range tauDecays {
		if u < d.cumulative {
			mode = d
			break
		}
	}

	width := 0.049*math.Exp(-pt/25000+1) + 0.01
	o.spray(rng, mode.charged, mode.neutrals, tauCharged, func(i, n int) float64 {
		return float64(n-i) / float64(n) * width
	}, env)
	return o, nil
}

// NewElectron builds an electron, absorbed by the EM calorimeter.
func NewElectron(pt, eta, phi float64, env Envelope) (*Object, error) {
	return single(ElectronObject, pt, eta, phi, EM, electron, env)
}

// NewPhoton builds a photon, absorbed by the EM calorimeter.
func NewPhoton(pt, eta, phi float64, env Envelope) (*Object, error) {
	return single(PhotonObject, pt, eta, phi, EM, neutral, env)
}

// NewMuon builds a muon, which crosses both calorimeters without
// depositing.
func NewMuon(pt, eta, phi float64, env Envelope) (*Object, error) {
	return single(MuonObject, pt, eta, phi, MinIonizing, muon, env)
}

// NewMET builds missing transverse energy: a wide beam in the transverse
// plane whose brightness grows with its magnitude.
func NewMET(pt, phi float64, env Envelope) (*Object, error) {
	intensity := math.Max(0.01*math.Log(pt/1000), 0)
	return single(METObject, pt, 0, phi, Wide, calorimeter.RGB{G: intensity}, env)
}

func single(t ObjectType, pt, eta, phi float64, flags Flags, color calorimeter.RGB, env Envelope) (*Object, error) {
	o, err := newObject(t, pt, eta, phi)
	if err != nil {
		return nil, err
	}
	o.Particles = []*Particle{New(pt, eta, phi, flags, color, env)}
	return o, nil
}
