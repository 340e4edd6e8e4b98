package calorimeter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cder-viz/cder/internal/coords"
)

func TestEMSpec_Default(t *testing.T) {
	t.Parallel()

	g := DefaultEMGeometry()
	spec, err := EMSpec(g)
	require.NoError(t, err)

	assert.Equal(t, EM, spec.Kind)
	require.Len(t, spec.Rings, g.EtaDivisions+2)

	maxZ := coords.ZFromEta(g.OuterRadius, g.MaxAbsEta)
	a, c := spec.Rings[0], spec.Rings[len(spec.Rings)-1]
	for _, end := range []RingSpec{a, c} {
		assert.Equal(t, Cylindrical, end.Geometry)
		assert.Equal(t, Endcap, end.Section)
		assert.InDelta(t, 0.3, end.InnerRadius, 1e-12)
		assert.InDelta(t, 1.425, end.OuterRadius, 1e-12)
		assert.InDelta(t, 0.2*maxZ, end.AxisWidth, 1e-12)
	}
	assert.InDelta(t, maxZ, a.AxisCenter, 1e-12)
	assert.InDelta(t, -maxZ, c.AxisCenter, 1e-12)
	assert.Equal(t, time.Duration(0), a.StartDelay)
	assert.Equal(t, 1800*time.Millisecond, c.StartDelay)

	barrel := spec.Rings[1 : len(spec.Rings)-1]
	assert.InDelta(t, g.MaxAbsEta, barrel[0].AxisCenter, 1e-12)
	assert.InDelta(t, -g.MaxAbsEta, barrel[len(barrel)-1].AxisCenter, 1e-12)
	for i, r := range barrel {
		assert.Equal(t, Projective, r.Geometry)
		assert.Equal(t, Barrel, r.Section)
		assert.Equal(t, g.PhiDivisions, r.Cells)
		assert.InDelta(t, 0.8*2*g.MaxAbsEta/12, r.AxisWidth, 1e-12)
		if i > 0 {
			assert.Less(t, r.AxisCenter, barrel[i-1].AxisCenter, "barrel runs from +eta to -eta")
			assert.Greater(t, r.StartDelay, barrel[i-1].StartDelay)
		}
	}
	assert.Equal(t, 285700*time.Microsecond, barrel[0].StartDelay)

	assert.Nil(t, spec.Options.BaseOpacity, "base opacity defaults in NewCalorimeter")
	assert.Equal(t, 0.4, spec.Options.Ceiling)
}

func TestHADSpec_Default(t *testing.T) {
	t.Parallel()

	g := DefaultHADGeometry()
	spec, err := HADSpec(g)
	require.NoError(t, err)

	assert.Equal(t, HAD, spec.Kind)
	require.Len(t, spec.Rings, g.ZDivisions-len(g.GapSlots)+2)

	step := 2 * g.MaxAbsZ / float64(g.ZDivisions-1)
	var barrelZ []float64
	for _, r := range spec.Rings[1 : len(spec.Rings)-1] {
		assert.Equal(t, Cylindrical, r.Geometry)
		assert.Equal(t, Barrel, r.Section)
		assert.InDelta(t, 0.9*step, r.AxisWidth, 1e-12)
		barrelZ = append(barrelZ, r.AxisCenter)
	}
	for _, gap := range g.GapSlots {
		for _, z := range barrelZ {
			assert.NotEqual(t, g.MaxAbsZ-float64(gap)*step, z, "slot %d should be empty", gap)
		}
	}

	a, c := spec.Rings[0], spec.Rings[len(spec.Rings)-1]
	assert.InDelta(t, g.MaxAbsZ+step, a.AxisCenter, 1e-12)
	assert.InDelta(t, -(g.MaxAbsZ + step), c.AxisCenter, 1e-12)
	assert.InDelta(t, 0.44, a.InnerRadius, 1e-12)
	assert.Equal(t, g.OuterRadius, a.OuterRadius)
	assert.Equal(t, 3500*time.Millisecond, a.StartDelay)
	assert.Equal(t, 6*time.Second, c.StartDelay)

	assert.Equal(t, 0.2, spec.Options.Ceiling)
}

func TestSpec_InvalidDivisions(t *testing.T) {
	t.Parallel()

	em := DefaultEMGeometry()
	em.EtaDivisions = 1
	_, err := EMSpec(em)
	assert.ErrorIs(t, err, ErrInvalidPhysicalQuantity)

	had := DefaultHADGeometry()
	had.PhiDivisions = 0
	_, err = HADSpec(had)
	assert.ErrorIs(t, err, ErrInvalidPhysicalQuantity)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	emSpec, err := EMSpec(DefaultEMGeometry())
	require.NoError(t, err)
	em, err := Build(emSpec)
	require.NoError(t, err)
	assert.Len(t, em.Cells(), 15*30)
	assert.Equal(t, EM, em.Kind())

	hadSpec, err := HADSpec(DefaultHADGeometry())
	require.NoError(t, err)
	had, err := Build(hadSpec)
	require.NoError(t, err)
	assert.Len(t, had.Cells(), 10*15)

	bad := emSpec
	bad.Rings = append([]RingSpec(nil), emSpec.Rings...)
	bad.Rings[3].InnerRadius = 5
	_, err = Build(bad)
	assert.ErrorIs(t, err, ErrInvalidPhysicalQuantity)
}

func TestEMGeometry_EndcapInnerZ(t *testing.T) {
	t.Parallel()

	g := DefaultEMGeometry()
	assert.InDelta(t, 0.9*coords.ZFromEta(1.95, 1.475), g.EndcapInnerZ(), 1e-12)
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "projective", Projective.String())
	assert.Equal(t, "cylindrical", Cylindrical.String())
	assert.Equal(t, "em", EM.String())
	assert.Equal(t, "had", HAD.String())
	assert.Equal(t, "barrel", Barrel.String())
	assert.Equal(t, "endcap", Endcap.String())
	assert.Equal(t, "Kind(5)", Kind(5).String())
}
