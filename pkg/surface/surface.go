// Package surface provides parametric surface functions.
//
// Every function maps (u, v) in [0,1]x[0,1] to a point in 3D space and
// rescales the parameters to its own domain internally. The functions are
// total over that square: they never return NaN or infinite coordinates.
package surface

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/carousel/pkg/math"
)

// Func maps a normalized parameter pair to a surface point.
type Func func(u, v float32) math.Vec3

const twoPi = 2 * math32.Pi

// Plane returns a flat w x h rectangle centered on the origin in the XY plane.
func Plane(w, h float32) Func {
	return func(u, v float32) math.Vec3 {
		return math.Vec3{X: (u - 0.5) * w, Y: (v - 0.5) * h}
	}
}

// Wave returns the sine sheet z = sin(pi*x) over x, y in [-1, 1].
func Wave() Func {
	return func(u, v float32) math.Vec3 {
		x := u*2 - 1
		y := v*2 - 1
		return math.Vec3{X: x, Y: y, Z: math32.Sin(x * math32.Pi)}
	}
}

// Sphere returns a UV sphere of radius r with poles on the Y axis.
func Sphere(r float32) Func {
	return Ellipsoid(r, r, r)
}

// Ellipsoid returns an ellipsoid with semi-axes a (X), b (Y) and c (Z).
func Ellipsoid(a, b, c float32) Func {
	return func(u, v float32) math.Vec3 {
		theta := u * twoPi
		phi := v * math32.Pi
		sinPhi := math32.Sin(phi)
		return math.Vec3{
			X: a * sinPhi * math32.Cos(theta),
			Y: b * math32.Cos(phi),
			Z: c * sinPhi * math32.Sin(theta),
		}
	}
}

// Torus returns a torus with ring radius R and tube radius r around the Z axis.
func Torus(R, r float32) Func {
	return func(u, v float32) math.Vec3 {
		s := u * twoPi
		t := v * twoPi
		ring := R + r*math32.Cos(t)
		return math.Vec3{
			X: ring * math32.Cos(s),
			Y: ring * math32.Sin(s),
			Z: r * math32.Sin(t),
		}
	}
}

// Cylinder returns an open tube of radius r and height h along the Y axis.
// The angle runs clockwise seen from +Y so that the grid winding faces outward.
func Cylinder(r, h float32) Func {
	return func(u, v float32) math.Vec3 {
		theta := u * twoPi
		return math.Vec3{
			X: r * math32.Cos(theta),
			Y: (v - 0.5) * h,
			Z: -r * math32.Sin(theta),
		}
	}
}

// Mobius returns a half-twist band of center radius R and half-width k.
// v spans the signed width [-1, 1].
func Mobius(R, k float32) Func {
	return func(u, v float32) math.Vec3 {
		s := u * twoPi
		w := (v*2 - 1) * k
		half := s / 2
		ring := R + w*math32.Cos(half)
		return math.Vec3{
			X: ring * math32.Cos(s),
			Y: ring * math32.Sin(s),
			Z: w * math32.Sin(half),
		}
	}
}

// Klein returns the figure-8 Klein bottle immersion with tube offset a.
// u is rescaled to [0, pi] and enters the immersion as a doubled angle,
// so the surface closes over a pi-periodic parameter.
func Klein(a float32) Func {
	return func(u, v float32) math.Vec3 {
		s := u * math32.Pi
		t := v * twoPi
		cs, ss := math32.Cos(s), math32.Sin(s)
		st, s2t := math32.Sin(t), math32.Sin(2*t)
		rho := a + cs*st - ss*s2t
		return math.Vec3{
			X: rho * math32.Cos(2*s),
			Y: rho * math32.Sin(2*s),
			Z: ss*st + cs*s2t,
		}
	}
}

// ConeLateral returns the side of a cone with base radius r and height h,
// base at y = -h/2. v in [0,1] covers the height fraction [0, top], where
// top < 1 leaves room for the apex fan built by the mesh builder. Like
// Cylinder, the angle runs clockwise seen from +Y.
func ConeLateral(r, h, top float32) Func {
	return func(u, v float32) math.Vec3 {
		theta := u * twoPi
		f := v * top
		radius := r * (1 - f)
		return math.Vec3{
			X: radius * math32.Cos(theta),
			Y: f*h - h/2,
			Z: -radius * math32.Sin(theta),
		}
	}
}

// ConeApex returns the apex point matching ConeLateral(r, h, _).
func ConeApex(h float32) math.Vec3 {
	return math.Vec3{Y: h / 2}
}
