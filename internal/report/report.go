// Package report turns energized calorimeters into eta-phi maps and writes
// them as PNG images and HTML pages.
package report

import (
	"errors"
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/coords"
	"github.com/cder-viz/cder/internal/monitoring"
)

var logf = monitoring.Component("Report")

// ErrInvalidBinning is returned for maps with no bins or an empty eta range.
var ErrInvalidBinning = errors.New("invalid binning")

// Binning sets the resolution of an eta-phi map. Phi always spans [0, 2pi).
type Binning struct {
	EtaBins   int
	PhiBins   int
	MaxAbsEta float64
}

// DefaultBinning covers the endcaps of both stock calorimeters.
func DefaultBinning() Binning {
	return Binning{EtaBins: 40, PhiBins: 30, MaxAbsEta: 4}
}

func (b Binning) validate() error {
	if b.EtaBins < 1 || b.PhiBins < 1 {
		return fmt.Errorf("%w: %dx%d bins", ErrInvalidBinning, b.EtaBins, b.PhiBins)
	}
	if !(b.MaxAbsEta > 0) || math.IsInf(b.MaxAbsEta, 0) {
		return fmt.Errorf("%w: max |eta| %g", ErrInvalidBinning, b.MaxAbsEta)
	}
	return nil
}

// EtaPhiMap is the opacity each calorimeter gained above its base, binned by
// cell centre.
type EtaPhiMap struct {
	Binning

	// Hist holds every energized cell, including those outside the eta
	// range, which land in its overflow.
	Hist *hbook.H2D

	z      [][]float64 // [phi][eta]
	excess []float64
	cells  int
}

// EtaPhiHistogram bins the energized cells of calos. Cells at their base
// opacity are left out.
func EtaPhiHistogram(b Binning, calos ...*calorimeter.Calorimeter) (*EtaPhiMap, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	m := &EtaPhiMap{
		Binning: b,
		Hist:    hbook.NewH2D(b.EtaBins, -b.MaxAbsEta, b.MaxAbsEta, b.PhiBins, 0, 2*math.Pi),
		z:       make([][]float64, b.PhiBins),
	}
	for i := range m.z {
		m.z[i] = make([]float64, b.EtaBins)
	}

	for _, calo := range calos {
		base := calo.BaseOpacity()
		for _, cell := range calo.Cells() {
			m.cells++
			w := cell.Opacity() - base
			if w <= 0 {
				continue
			}
			phi := coords.NormalizeTwoPi(cell.PhiCenter)
			m.Hist.Fill(cell.EtaCenter, phi, w)
			m.excess = append(m.excess, w)

			c, r, ok := m.bin(cell.EtaCenter, phi)
			if ok {
				m.z[r][c] += w
			}
		}
	}
	logf("binned %d of %d cells into %dx%d map", len(m.excess), m.cells, b.EtaBins, b.PhiBins)
	return m, nil
}

func (m *EtaPhiMap) bin(eta, phi float64) (c, r int, ok bool) {
	if eta < -m.MaxAbsEta || eta >= m.MaxAbsEta {
		return 0, 0, false
	}
	c = int((eta + m.MaxAbsEta) / (2 * m.MaxAbsEta) * float64(m.EtaBins))
	r = int(phi / (2 * math.Pi) * float64(m.PhiBins))
	return min(c, m.EtaBins-1), min(r, m.PhiBins-1), true
}

// Dims returns the number of eta and phi bins.
func (m *EtaPhiMap) Dims() (c, r int) { return m.EtaBins, m.PhiBins }

// Z returns the summed excess opacity in eta bin c and phi bin r.
func (m *EtaPhiMap) Z(c, r int) float64 { return m.z[r][c] }

// X returns the eta at the centre of bin c.
func (m *EtaPhiMap) X(c int) float64 {
	w := 2 * m.MaxAbsEta / float64(m.EtaBins)
	return -m.MaxAbsEta + (float64(c)+0.5)*w
}

// Y returns the phi at the centre of bin r.
func (m *EtaPhiMap) Y(r int) float64 {
	w := 2 * math.Pi / float64(m.PhiBins)
	return (float64(r) + 0.5) * w
}

// Max returns the largest bin of the map.
func (m *EtaPhiMap) Max() float64 {
	var hi float64
	for _, row := range m.z {
		if len(row) > 0 {
			hi = math.Max(hi, floats.Max(row))
		}
	}
	return hi
}

// Stats describes how much a set of calorimeters lit up.
type Stats struct {
	Cells     int
	Energized int
	Total     float64
	Mean      float64
	Max       float64
	StdDev    float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d cells energized, excess opacity total %.3f mean %.3f max %.3f sd %.3f",
		s.Energized, s.Cells, s.Total, s.Mean, s.Max, s.StdDev)
}

// Summary returns statistics over the excess opacity of the energized cells.
func (m *EtaPhiMap) Summary() Stats {
	s := Stats{Cells: m.cells, Energized: len(m.excess)}
	if s.Energized == 0 {
		return s
	}
	s.Total = floats.Sum(m.excess)
	s.Max = floats.Max(m.excess)
	s.Mean, s.StdDev = stat.MeanStdDev(m.excess, nil)
	if s.Energized == 1 {
		s.StdDev = 0
	}
	return s
}
