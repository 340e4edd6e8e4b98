package event

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/cder-viz/cder/internal/monitoring"
	"github.com/cder-viz/cder/internal/particle"
	"github.com/cder-viz/cder/internal/units"
)

var logf = monitoring.Component("Event")

// ErrInvalidGenerator is returned for a generator configuration that cannot
// produce events.
var ErrInvalidGenerator = errors.New("invalid event generator configuration")

// Multiplicity caps how many objects of each type an event may hold. Each
// event draws a uniform count in [0, cap].
type Multiplicity struct {
	Jets      int
	Taus      int
	Electrons int
	Muons     int
	Photons   int
}

// GeneratorConfig drives the synthetic event source. Momenta are in MeV.
type GeneratorConfig struct {
	Seed int64
	Max  Multiplicity

	// BTagProbability is the chance that a jet is b-tagged.
	BTagProbability float64
	// Object pt is MinPt plus an exponential tail with mean PtScale.
	MinPt   float64
	PtScale float64
	// MaxAbsEta bounds object pseudorapidity; phi is uniform.
	MaxAbsEta float64

	Envelope particle.Envelope
}

// DefaultGeneratorConfig returns a busy but readable event mix.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:            1,
		Max:             Multiplicity{Jets: 6, Taus: 2, Electrons: 2, Muons: 2, Photons: 2},
		BTagProbability: 0.2,
		MinPt:           20000,
		PtScale:         40000,
		MaxAbsEta:       2.5,
		Envelope:        particle.DefaultEnvelope(),
	}
}

// Validate reports the first unusable field.
func (c GeneratorConfig) Validate() error {
	m := c.Max
	if m.Jets < 0 || m.Taus < 0 || m.Electrons < 0 || m.Muons < 0 || m.Photons < 0 {
		return fmt.Errorf("%w: negative multiplicity %+v", ErrInvalidGenerator, m)
	}
	if m.Jets+m.Taus+m.Electrons+m.Muons+m.Photons == 0 {
		return fmt.Errorf("%w: all multiplicities are zero", ErrInvalidGenerator)
	}
	if c.BTagProbability < 0 || c.BTagProbability > 1 {
		return fmt.Errorf("%w: btag probability %g not in [0,1]", ErrInvalidGenerator, c.BTagProbability)
	}
	if !(c.MinPt > 0) || c.PtScale < 0 || math.IsInf(c.MinPt, 0) || math.IsInf(c.PtScale, 0) {
		return fmt.Errorf("%w: pt spectrum min=%g scale=%g", ErrInvalidGenerator, c.MinPt, c.PtScale)
	}
	if !(c.MaxAbsEta > 0) || math.IsInf(c.MaxAbsEta, 0) {
		return fmt.Errorf("%w: max |eta| %g", ErrInvalidGenerator, c.MaxAbsEta)
	}
	return nil
}

// Generator produces a reproducible stream of random events.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// NewGenerator validates cfg and seeds the generator.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

func (g *Generator) pt() float64 {
	return g.cfg.MinPt + g.rng.ExpFloat64()*g.cfg.PtScale
}

func (g *Generator) direction() (eta, phi float64) {
	eta = (2*g.rng.Float64() - 1) * g.cfg.MaxAbsEta
	phi = g.rng.Float64() * 2 * math.Pi
	return eta, phi
}

func (g *Generator) count(limit int) int {
	if limit <= 0 {
		return 0
	}
	return g.rng.Intn(limit + 1)
}

// Generate draws the next event. Objects are ordered jets, taus, electrons,
// muons, photons, then the missing energy that balances them in the
// transverse plane. An event always carries at least one visible object.
func (g *Generator) Generate() (*Event, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return nil, fmt.Errorf("event id: %w", err)
	}
	ev := &Event{ID: id, Number: g.next, Extra: make(map[string]float64)}
	g.next++

	m := g.cfg.Max
	nJets, nTaus := g.count(m.Jets), g.count(m.Taus)
	nEl, nMu, nPh := g.count(m.Electrons), g.count(m.Muons), g.count(m.Photons)
	if nJets+nTaus+nEl+nMu+nPh == 0 {
		switch {
		case m.Jets > 0:
			nJets = 1
		case m.Taus > 0:
			nTaus = 1
		case m.Electrons > 0:
			nEl = 1
		case m.Muons > 0:
			nMu = 1
		default:
			nPh = 1
		}
	}

	env := g.cfg.Envelope
	add := func(o *particle.Object, err error) error {
		if err != nil {
			return err
		}
		ev.Objects = append(ev.Objects, o)
		return nil
	}

	for i := 0; i < nJets; i++ {
		eta, phi := g.direction()
		btag := g.rng.Float64() < g.cfg.BTagProbability
		if err := add(particle.NewJet(g.rng, g.pt(), eta, phi, btag, env)); err != nil {
			return nil, fmt.Errorf("event %d jet %d: %w", ev.Number, i, err)
		}
	}
	for i := 0; i < nTaus; i++ {
		eta, phi := g.direction()
		if err := add(particle.NewTau(g.rng, g.pt(), eta, phi, env)); err != nil {
			return nil, fmt.Errorf("event %d tau %d: %w", ev.Number, i, err)
		}
	}
	for i := 0; i < nEl; i++ {
		eta, phi := g.direction()
		if err := add(particle.NewElectron(g.pt(), eta, phi, env)); err != nil {
			return nil, fmt.Errorf("event %d electron %d: %w", ev.Number, i, err)
		}
	}
	for i := 0; i < nMu; i++ {
		eta, phi := g.direction()
		if err := add(particle.NewMuon(g.pt(), eta, phi, env)); err != nil {
			return nil, fmt.Errorf("event %d muon %d: %w", ev.Number, i, err)
		}
	}
	for i := 0; i < nPh; i++ {
		eta, phi := g.direction()
		if err := add(particle.NewPhoton(g.pt(), eta, phi, env)); err != nil {
			return nil, fmt.Errorf("event %d photon %d: %w", ev.Number, i, err)
		}
	}

	var px, py, ht float64
	for _, o := range ev.Objects {
		px += o.Px()
		py += o.Py()
		ht += o.Pt()
	}
	if met := math.Hypot(px, py); met > 0 {
		if err := add(particle.NewMET(met, math.Atan2(-py, -px), env)); err != nil {
			return nil, fmt.Errorf("event %d met: %w", ev.Number, err)
		}
	}

	ev.Extra["ht_gev"] = units.FromMeV(ht, units.GeV)
	ev.Extra["n_particles"] = float64(len(ev.Particles()))
	return ev, nil
}

// GenerateN draws n events in sequence.
func (g *Generator) GenerateN(n int) ([]*Event, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: event count %d", ErrInvalidGenerator, n)
	}
	events := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		ev, err := g.Generate()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	logf("generated %d events (seed %d)", n, g.cfg.Seed)
	return events, nil
}
