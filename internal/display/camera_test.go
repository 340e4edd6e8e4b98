package display

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewCamera_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCamera(DefaultCameraLimits())
	assert.Equal(t, DefaultYaw, c.Yaw)
	assert.Equal(t, DefaultPitch, c.Pitch)
	assert.Equal(t, DefaultZoom, c.Zoom)
	assert.False(t, c.Rotating)
}

func TestCamera_Clamps(t *testing.T) {
	t.Parallel()

	c := NewCamera(DefaultCameraLimits())

	c.Drag(0, 1000)
	assert.Equal(t, 90.0, c.Pitch)
	c.Drag(0, -1000)
	assert.Equal(t, -90.0, c.Pitch)

	c.Scroll(1000)
	assert.Equal(t, 30.0, c.Zoom)
	c.Scroll(-1000)
	assert.Equal(t, 3.0, c.Zoom)

	// 1000 * 0.5 = 500 degrees of yaw wraps to 140.
	c.Yaw = 0
	c.Drag(1000, 0)
	assert.InDelta(t, 140, c.Yaw, 1e-9)
}

func TestCamera_TightLimits(t *testing.T) {
	t.Parallel()

	l := DefaultCameraLimits()
	l.MinZoom, l.MaxZoom = 20, 25
	l.MinPitch, l.MaxPitch = -10, 10

	c := NewCamera(l)
	assert.Equal(t, 20.0, c.Zoom, "default zoom pulled into range")
	assert.Equal(t, -10.0, c.Pitch, "default pitch pulled into range")

	c.TransverseView()
	assert.Equal(t, 20.0, c.Zoom)
}

func TestCamera_Views(t *testing.T) {
	t.Parallel()

	c := NewCamera(DefaultCameraLimits())
	c.ToggleRotation()
	c.Scroll(10)

	c.TransverseView()
	assert.False(t, c.Rotating)
	assert.Equal(t, [3]float64{0, 0, DefaultZoom}, [3]float64{c.Yaw, c.Pitch, c.Zoom})

	c.ToggleRotation()
	c.LongitudinalView()
	assert.False(t, c.Rotating)
	assert.Equal(t, [3]float64{-90, 0, DefaultZoom}, [3]float64{c.Yaw, c.Pitch, c.Zoom})
}

func TestCamera_Rotation(t *testing.T) {
	t.Parallel()

	c := NewCamera(DefaultCameraLimits())
	c.Update(time.Second)
	assert.Equal(t, DefaultYaw, c.Yaw, "no rotation until toggled")

	c.ToggleRotation()
	c.Update(time.Second)
	assert.InDelta(t, DefaultYaw+10, c.Yaw, 1e-9)

	c.Yaw = 175
	c.Update(time.Second)
	assert.InDelta(t, -175, c.Yaw, 1e-9)

	c.Update(-time.Second)
	assert.InDelta(t, -175, c.Yaw, 1e-9)
}

func TestCamera_Geometry(t *testing.T) {
	t.Parallel()

	c := NewCamera(DefaultCameraLimits())

	c.TransverseView()
	d := c.Direction()
	assert.InDelta(t, 0, d.X, 1e-12)
	assert.InDelta(t, 0, d.Y, 1e-12)
	assert.InDelta(t, 1, d.Z, 1e-12)
	assert.InDelta(t, -DefaultZoom, c.Position().Z, 1e-12)

	theta, r, _ := c.ViewerAngles()
	assert.InDelta(t, 0, theta, 1e-9, "looking along the beam axis")
	assert.Equal(t, DefaultZoom, r)

	c.LongitudinalView()
	p := c.Position()
	assert.InDelta(t, DefaultZoom, p.X, 1e-9)
	theta, _, phi := c.ViewerAngles()
	assert.InDelta(t, math.Pi/2, theta, 1e-9, "side on")
	assert.InDelta(t, math.Pi, math.Abs(phi), 1e-9, "far side is -x")

	// Pitch tilts the view direction out of the horizontal plane.
	c.Pitch = -20
	theta, _, phi = c.ViewerAngles()
	assert.InDelta(t, math.Pi/2, theta, 1e-9)
	assert.InDelta(t, math.Pi-20*math.Pi/180, phi, 1e-9)
	assert.InDelta(t, 1, r3.Norm(c.Direction()), 1e-12)
}
