package calorimeter

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cder-viz/cder/internal/coords"
)

func TestNewRing_CellLayout(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 3, 15, 30, 64} {
		r := mustRing(t, cylRing(0.5, n))
		cells := r.Cells()
		require.Len(t, cells, n)

		slot := 2 * math.Pi / float64(n)
		var total float64
		for i, c := range cells {
			assert.InDelta(t, float64(i)*slot, c.PhiCenter, 1e-12)
			assert.InDelta(t, PhiFill*slot, c.PhiWidth, 1e-12)
			total += c.PhiWidth

			// neighbours leave a gap and never overlap
			next := cells[(i+1)%n]
			gap := coords.AngularDifference(c.PhiCenter, next.PhiCenter) - (c.PhiWidth+next.PhiWidth)/2
			if n > 1 {
				assert.Greater(t, gap, 0.0, "n=%d cell %d", n, i)
			}
		}
		assert.InDelta(t, PhiFill*2*math.Pi, total, 1e-9, "n=%d", n)
	}
}

func TestNewRing_Invalid(t *testing.T) {
	t.Parallel()

	spec := cylRing(0, 0)
	_, err := NewRing(spec)
	assert.ErrorIs(t, err, ErrInvalidPhysicalQuantity)

	spec = cylRing(0, 4)
	spec.InnerRadius = 3
	_, err = NewRing(spec)
	assert.ErrorIs(t, err, ErrInvalidPhysicalQuantity)

	spec = cylRing(0, 4)
	spec.Geometry = Geometry(-1)
	_, err = NewRing(spec)
	assert.ErrorIs(t, err, ErrInvalidGeometryParameters)
}

func TestRing_YAngle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, mustRing(t, cylRing(0, 4)).YAngle())
	assert.InDelta(t, math.Atan2(1, 2), mustRing(t, cylRing(1, 4)).YAngle(), 1e-12)
	assert.InDelta(t, math.Atan2(-3, 2), mustRing(t, cylRing(-3, 4)).YAngle(), 1e-12)

	proj := RingSpec{
		Geometry:    Projective,
		InnerRadius: 1.5,
		OuterRadius: 1.95,
		AxisCenter:  1.2,
		AxisWidth:   0.2,
		Cells:       4,
	}
	assert.InDelta(t, math.Atan2(coords.ZFromEta(1.95, 1.2), 1.95), mustRing(t, proj).YAngle(), 1e-12)

	proj.AxisCenter = 0
	assert.Equal(t, 0.0, mustRing(t, proj).YAngle())
}

func TestRing_AnimationReachesRest(t *testing.T) {
	t.Parallel()

	r := mustRing(t, cylRing(0, 4))
	assert.False(t, r.InMotion())
	assert.Equal(t, 0.0, r.Distance())

	r.SetInMotion()
	require.True(t, r.InMotion())
	require.Equal(t, ImplodeDistance, r.Distance())

	prev := r.Distance()
	steps := 0
	for r.InMotion() {
		r.Update(ReferenceFrame)
		assert.LessOrEqual(t, r.Distance(), prev)
		prev = r.Distance()
		steps++
		require.Less(t, steps, 10000, "animation never settled")
	}
	assert.Equal(t, 0.0, r.Distance())
	assert.Greater(t, steps, 1)

	// At rest, updates do nothing.
	r.Update(time.Second)
	assert.Equal(t, 0.0, r.Distance())
	assert.False(t, r.InMotion())
}

func TestRing_AnimationStepIsTimeScaled(t *testing.T) {
	t.Parallel()

	r := mustRing(t, cylRing(0, 4))
	r.SetInMotion()
	r.Update(ReferenceFrame)
	assert.InDelta(t, 10-math.Log(1.001+2), r.Distance(), 1e-9)

	half := mustRing(t, cylRing(0, 4))
	half.SetInMotion()
	half.Update(ReferenceFrame / 2)
	assert.InDelta(t, 10-math.Log(1.001+2)/2, half.Distance(), 1e-6)

	still := mustRing(t, cylRing(0, 4))
	still.SetInMotion()
	still.Update(0)
	still.Update(-time.Second)
	assert.Equal(t, ImplodeDistance, still.Distance())
}

func TestRing_Park(t *testing.T) {
	t.Parallel()

	r := mustRing(t, cylRing(0, 4))
	r.Park()
	assert.Equal(t, ParkedDistance, r.Distance())
	assert.False(t, r.InMotion())

	r.Update(time.Second)
	assert.Equal(t, ParkedDistance, r.Distance(), "parked rings wait for SetInMotion")
}

func cellIndices(r *Ring, cells []*Cell) []int {
	ix := make(map[*Cell]int, len(r.Cells()))
	for i, c := range r.Cells() {
		ix[c] = i
	}
	out := make([]int, len(cells))
	for i, c := range cells {
		out[i] = ix[c]
	}
	return out
}

func TestRing_DrawOrder(t *testing.T) {
	t.Parallel()

	r := mustRing(t, cylRing(0, 8))
	slot := 2 * math.Pi / 8

	tests := []struct {
		name string
		phi  float64
		want []int
	}{
		{"facing cell 0", 0, []int{0, 1, 7, 2, 6, 3, 5, 4}},
		{"facing cell 3", 3 * slot, []int{3, 4, 2, 5, 1, 6, 0, 7}},
		{"negative azimuth", -slot, []int{7, 0, 6, 1, 5, 2, 4, 3}},
		{"wrapped azimuth", 2*math.Pi + 2*slot, []int{2, 3, 1, 4, 0, 5, 7, 6}},
		{"inside cell 5", 5*slot + 0.4*slot, []int{5, 6, 4, 7, 3, 0, 2, 1}},
		// 0.48 slot from cell 6 lies in the gap; nearest is cell 6
		{"gap falls back to nearest", 6*slot + 0.48*slot, []int{6, 7, 5, 0, 4, 1, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cellIndices(r, r.DrawOrder(tt.phi))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DrawOrder(%g) mismatch (-want +got):\n%s", tt.phi, diff)
			}
		})
	}
}

func TestRing_DrawOrderVisitsEveryCellOnce(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5, 30} {
		r := mustRing(t, cylRing(0, n))
		for phi := -7.0; phi < 7; phi += 0.37 {
			order := r.DrawOrder(phi)
			require.Len(t, order, n)
			seen := make(map[*Cell]bool, n)
			for _, c := range order {
				assert.False(t, seen[c], "n=%d phi=%g duplicated cell", n, phi)
				seen[c] = true
			}
		}
	}
}

func TestRing_DrawPropagatesDistance(t *testing.T) {
	t.Parallel()

	r := mustRing(t, cylRing(0, 6))
	r.SetInMotion()
	r.Update(ReferenceFrame)

	var rec recorder
	r.Draw(&rec, 0)
	require.Len(t, rec.calls, 6)
	for _, c := range r.Cells() {
		assert.Equal(t, r.Distance(), c.Distance())
	}
	// The first mesh drawn is the facing cell, pushed out along +x.
	assert.Same(t, r.Cells()[0].Mesh(), rec.calls[0].mesh)
	assert.InDelta(t, r.Distance(), rec.calls[0].offset.X, 1e-12)
}
