package display

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/coords"
)

// Camera presets, in degrees and scene units.
const (
	DefaultYaw   = -90.0
	DefaultPitch = -20.0
	DefaultZoom  = 15.0
)

// CameraLimits bound and scale camera motion. Angles are in degrees.
type CameraLimits struct {
	MinPitch, MaxPitch float64
	MinZoom, MaxZoom   float64

	YawSpeed   float64 // degrees per unit of horizontal drag
	PitchSpeed float64 // degrees per unit of vertical drag
	ZoomSpeed  float64 // zoom per scroll step

	RotationSpeed float64 // degrees per second while auto-rotating
}

// DefaultCameraLimits matches the stock configuration.
func DefaultCameraLimits() CameraLimits {
	return CameraLimits{
		MinPitch: -90, MaxPitch: 90,
		MinZoom: 3, MaxZoom: 30,
		YawSpeed: 0.5, PitchSpeed: 0.5, ZoomSpeed: 0.5,
		RotationSpeed: 10,
	}
}

// Camera orbits the interaction point. Yaw turns about the vertical axis,
// pitch tilts towards it, zoom is the distance to the origin.
//
// At yaw 0 and pitch 0 the camera sits on the -z side of the beam axis
// looking along +z (transverse view); at yaw -90 it looks at the detector
// side on (longitudinal view).
type Camera struct {
	Yaw, Pitch, Zoom float64
	Rotating         bool

	limits CameraLimits
}

// NewCamera returns a camera at the default viewpoint.
func NewCamera(limits CameraLimits) *Camera {
	c := &Camera{
		Yaw:    DefaultYaw,
		Pitch:  DefaultPitch,
		Zoom:   DefaultZoom,
		limits: limits,
	}
	c.clamp()
	return c
}

// Limits returns the bounds the camera was built with.
func (c *Camera) Limits() CameraLimits { return c.limits }

func (c *Camera) clamp() {
	c.Pitch = math.Max(c.limits.MinPitch, math.Min(c.limits.MaxPitch, c.Pitch))
	c.Zoom = math.Max(c.limits.MinZoom, math.Min(c.limits.MaxZoom, c.Zoom))
}

// wrapYaw keeps yaw in (-180, 180].
func (c *Camera) wrapYaw() {
	c.Yaw = coords.RadToDeg(coords.NormalizePi(coords.DegToRad(c.Yaw)))
}

// Drag rotates the camera by a pointer or key displacement.
func (c *Camera) Drag(dx, dy float64) {
	c.Yaw += dx * c.limits.YawSpeed
	c.Pitch += dy * c.limits.PitchSpeed
	c.wrapYaw()
	c.clamp()
}

// Scroll zooms by steps; positive steps move away.
func (c *Camera) Scroll(steps float64) {
	c.Zoom += steps * c.limits.ZoomSpeed
	c.clamp()
}

// TransverseView looks along the beam axis and stops rotation.
func (c *Camera) TransverseView() {
	c.Rotating = false
	c.Yaw, c.Pitch, c.Zoom = 0, 0, DefaultZoom
	c.clamp()
}

// LongitudinalView looks at the detector side on and stops rotation.
func (c *Camera) LongitudinalView() {
	c.Rotating = false
	c.Yaw, c.Pitch, c.Zoom = -90, 0, DefaultZoom
	c.clamp()
}

// ToggleRotation starts or stops automatic rotation about the vertical axis.
func (c *Camera) ToggleRotation() {
	c.Rotating = !c.Rotating
}

// Update advances automatic rotation by dt.
func (c *Camera) Update(dt time.Duration) {
	if !c.Rotating || dt <= 0 {
		return
	}
	c.Yaw += c.limits.RotationSpeed * dt.Seconds()
	c.wrapYaw()
}

// Direction is the unit vector the camera looks along, from its position
// towards the origin.
func (c *Camera) Direction() r3.Vec {
	yaw, pitch := coords.DegToRad(c.Yaw), coords.DegToRad(c.Pitch)
	return r3.Vec{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// Position is the camera location in detector coordinates.
func (c *Camera) Position() r3.Vec {
	return r3.Scale(-c.Zoom, c.Direction())
}

// ViewerAngles converts the camera orientation into the angles the
// calorimeters order their drawing by: the polar angle of the view direction
// about the beam axis, the viewer distance, and the azimuth of the view
// direction, which points at the far side of each ring.
func (c *Camera) ViewerAngles() (theta, r, phi float64) {
	d := c.Direction()
	// Re-express the direction from the x-polar frame to the beam frame.
	xTheta := math.Acos(math.Max(-1, math.Min(1, d.X)))
	xPhi := math.Atan2(d.Y, d.Z)
	theta, phi = coords.SphericalAxisChange(xTheta, xPhi)
	return theta, c.Zoom, phi
}
