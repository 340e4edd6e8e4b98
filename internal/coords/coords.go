// Package coords converts between the Cartesian frame of the scene and the
// detector coordinate systems: pseudorapidity (r, eta, phi) and cylindrical
// (r, z, phi). In both systems r is the distance from the beam line (the z
// axis), not from the collision point.
package coords

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const twoPi = 2 * math.Pi

// CartesianToPseudorapidity converts a Cartesian point to (r, eta, phi).
func CartesianToPseudorapidity(p r3.Vec) (r, eta, phi float64) {
	r = math.Hypot(p.X, p.Y)
	phi = math.Atan2(p.Y, p.X)
	theta := math.Atan2(r, p.Z)
	eta = -math.Log(math.Tan(theta / 2))
	return r, eta, phi
}

// PseudorapidityToCartesian converts (r, eta, phi) to a Cartesian point.
func PseudorapidityToCartesian(r, eta, phi float64) r3.Vec {
	return r3.Vec{
		X: r * math.Cos(phi),
		Y: r * math.Sin(phi),
		Z: ZFromEta(r, eta),
	}
}

// CartesianToCylindrical converts a Cartesian point to (r, z, phi).
func CartesianToCylindrical(p r3.Vec) (r, z, phi float64) {
	return math.Hypot(p.X, p.Y), p.Z, math.Atan2(p.Y, p.X)
}

// CylindricalToCartesian converts (r, z, phi) to a Cartesian point.
func CylindricalToCartesian(r, z, phi float64) r3.Vec {
	return r3.Vec{
		X: r * math.Cos(phi),
		Y: r * math.Sin(phi),
		Z: z,
	}
}

// ZFromEta returns the longitudinal position at which a direction of
// pseudorapidity eta reaches transverse radius r.
func ZFromEta(r, eta float64) float64 {
	theta := 2 * math.Atan(math.Exp(-eta))
	return r / math.Tan(theta)
}

// EtaFromZ returns the pseudorapidity of the point at transverse radius r and
// longitudinal position z.
func EtaFromZ(r, z float64) float64 {
	theta := math.Atan2(r, z)
	return -math.Log(math.Tan(theta / 2))
}

// RadiusFromZ returns the transverse radius at which a direction of
// pseudorapidity eta crosses the plane at longitudinal position z. The result
// is negative when the direction never reaches that plane (opposite sign of
// eta and z) and +Inf for eta == 0.
func RadiusFromZ(z, eta float64) float64 {
	return z / math.Sinh(eta)
}

// NormalizeTwoPi reduces phi into [0, 2π). The input must be finite; NaN and
// ±Inf produce NaN.
func NormalizeTwoPi(phi float64) float64 {
	phi = math.Mod(phi, twoPi)
	for phi >= twoPi {
		phi -= twoPi
	}
	for phi < 0 {
		phi += twoPi
	}
	// -tiny + 2π rounds to 2π
	if phi >= twoPi {
		phi = 0
	}
	return phi
}

// NormalizePi reduces phi into [-π, π). The input must be finite.
func NormalizePi(phi float64) float64 {
	phi = math.Mod(phi, twoPi)
	for phi >= math.Pi {
		phi -= twoPi
	}
	for phi < -math.Pi {
		phi += twoPi
	}
	return phi
}

// AngularDifference returns the unsigned smallest separation between two
// azimuthal angles, in [0, π].
func AngularDifference(phi1, phi2 float64) float64 {
	return math.Min(NormalizeTwoPi(phi1-phi2), NormalizeTwoPi(phi2-phi1))
}

// SphericalAxisChange converts spherical angles defined about the y axis into
// the equivalent angles about the z axis. It is used to turn the camera's
// yaw/pitch (y-up scene) into the polar angle and azimuth of the viewer in
// the detector frame.
func SphericalAxisChange(theta, phi float64) (newTheta, newPhi float64) {
	x := math.Cos(theta)
	z := math.Cos(phi) * math.Sin(theta)
	y := math.Sin(phi) * math.Sin(theta)

	// clamp rounding overshoot so Acos stays defined
	z = math.Max(-1, math.Min(1, z))

	return math.Acos(z), math.Atan2(y, x)
}

// DegToRad converts degrees to radians.
func DegToRad(angle float64) float64 {
	return angle * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(angle float64) float64 {
	return angle * 180 / math.Pi
}
