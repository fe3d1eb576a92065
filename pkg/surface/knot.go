package surface

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/carousel/pkg/math"
)

// Default torus knot parameters.
const (
	KnotP    = 2
	KnotQ    = 3
	KnotTube = 0.4
)

// frameStep is the parameter offset used to estimate the curve tangent.
const frameStep = 0.01

// TorusKnot returns a tube of radius tube swept along the (p, q) torus knot.
// u is rescaled to [0, 2*pi*p] along the curve and v to [0, 2*pi] around the tube.
func TorusKnot(p, q int, tube float32) Func {
	pf, qf := float32(p), float32(q)
	return func(u, v float32) math.Vec3 {
		s := u * twoPi * pf
		t := v * twoPi

		p1 := knotCurve(s, pf, qf)
		p2 := knotCurve(s+frameStep, pf, qf)

		tangent := p2.Sub(p1)
		normal := p2.Add(p1)
		binormal := tangent.Cross(normal).Normalize()
		normal = binormal.Cross(tangent).Normalize()

		cx := -tube * math32.Cos(t)
		cy := tube * math32.Sin(t)
		return p1.Add(normal.Scale(cx)).Add(binormal.Scale(cy))
	}
}

// knotCurve returns the center line of the knot at curve parameter s.
func knotCurve(s, p, q float32) math.Vec3 {
	qs := q / p * s
	r := 2 + math32.Cos(qs)
	return math.Vec3{
		X: r * math32.Cos(s),
		Y: r * math32.Sin(s),
		Z: math32.Sin(qs),
	}
}
