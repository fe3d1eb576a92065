package carousel

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/pkg/math"
)

// Assembly errors.
var (
	ErrEmptyPool    = errors.New("empty shape pool")
	ErrInvalidCount = errors.New("decoration count must be positive")
	ErrInvalidRing  = errors.New("invalid ring radii")
)

// ringSegments is the angular resolution of every ring base.
const ringSegments = 32

// RingSpec describes one ring before assembly.
type RingSpec struct {
	Index         int
	InnerRadius   float32
	OuterRadius   float32
	Radius        float32 // decoration circle, 0 means midway across the ring
	Y             float32 // starting vertical position
	Decorations   int
	RotationSpeed float32
	MoveSpeed     float32 // default move speed
	Min, Max      float32
}

// Options controls decoration placement shared by every ring.
type Options struct {
	RandomTilt  bool    // static random Euler rotation per decoration
	DecorationZ float32 // decoration height above the ring plane
	SpotHeight  float32 // spot light height above its decoration
	Spot        lighting.Light
	StartMoving bool
}

// Decoration is a shape mounted on a ring at a fixed local offset.
type Decoration struct {
	ID       uuid.UUID
	Shape    mesh.Shape
	Mesh     *mesh.Mesh
	Angle    float32   // placement angle on the ring
	Offset   math.Vec3 // position in the ring frame
	Rotation math.Vec3 // static Euler XYZ orientation
	Light    lighting.Light
}

// Local returns the decoration matrix relative to its ring.
func (d *Decoration) Local() math.Mat4 {
	return math.Compose(d.Offset, d.Rotation, 1)
}

// PlacementAngles returns n angles evenly spaced by 2*pi/n starting at zero.
func PlacementAngles(n int) []float32 {
	angles := make([]float32, n)
	for i := range angles {
		angles[i] = float32(i) * 2 * math32.Pi / float32(n)
	}
	return angles
}

// Shuffle returns a Fisher-Yates permutation of pool drawn from rng.
// The input slice is left untouched.
func Shuffle(pool []mesh.Shape, rng *rand.Rand) []mesh.Shape {
	out := make([]mesh.Shape, len(pool))
	copy(out, pool)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// AssignShapes shuffles pool once and hands slots shapes by cycling through
// it, so every shape is used before any repeats.
func AssignShapes(pool []mesh.Shape, n int, rng *rand.Rand) ([]mesh.Shape, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	shuffled := Shuffle(pool, rng)
	slots := make([]mesh.Shape, n)
	for i := range slots {
		slots[i] = shuffled[i%len(shuffled)]
	}
	return slots, nil
}

// Assemble builds a ring and its decorations. Meshes come from cache so
// rings share one mesh per shape; rng drives the shuffle, the decoration
// ids and the optional tilt.
func Assemble(spec RingSpec, pool []mesh.Shape, rng *rand.Rand, cache *mesh.Cache, opts Options) (*Ring, error) {
	if spec.InnerRadius <= 0 || spec.OuterRadius <= spec.InnerRadius {
		return nil, fmt.Errorf("ring %d: %w: %v..%v", spec.Index, ErrInvalidRing, spec.InnerRadius, spec.OuterRadius)
	}
	shapes, err := AssignShapes(pool, spec.Decorations, rng)
	if err != nil {
		return nil, fmt.Errorf("ring %d: %w", spec.Index, err)
	}

	base, err := mesh.BuildAnnulus(fmt.Sprintf("ring-%d", spec.Index), spec.InnerRadius, spec.OuterRadius, ringSegments)
	if err != nil {
		return nil, fmt.Errorf("ring %d: %w", spec.Index, err)
	}

	ring := &Ring{
		Index:            spec.Index,
		InnerRadius:      spec.InnerRadius,
		OuterRadius:      spec.OuterRadius,
		Tilt:             -math32.Pi / 2,
		Position:         spec.Y,
		RotationSpeed:    spec.RotationSpeed,
		DefaultMoveSpeed: spec.MoveSpeed,
		Direction:        1,
		Min:              spec.Min,
		Max:              spec.Max,
		Base:             base,
		Decorations:      make([]*Decoration, 0, len(shapes)),
	}
	if opts.StartMoving {
		ring.MoveSpeed = spec.MoveSpeed
	}

	radius := spec.Radius
	if radius == 0 {
		radius = (spec.InnerRadius + spec.OuterRadius) / 2
	}
	for i, angle := range PlacementAngles(len(shapes)) {
		m, err := cache.Get(shapes[i])
		if err != nil {
			return nil, fmt.Errorf("ring %d slot %d: %w", spec.Index, i, err)
		}
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, fmt.Errorf("ring %d slot %d: decoration id: %w", spec.Index, i, err)
		}

		d := &Decoration{
			ID:    id,
			Shape: shapes[i],
			Mesh:  m,
			Angle: angle,
			Offset: math.Vec3{
				X: radius * math32.Cos(angle),
				Y: radius * math32.Sin(angle),
				Z: opts.DecorationZ,
			},
		}
		if opts.RandomTilt {
			d.Rotation = math.Vec3{
				X: rng.Float32() * 2 * math32.Pi,
				Y: rng.Float32() * 2 * math32.Pi,
				Z: rng.Float32() * 2 * math32.Pi,
			}
		}

		// The light hangs above the decoration in the ring frame and is
		// owned by the ring, not the decoration, so the tilt does not aim it.
		light := opts.Spot
		light.Category = lighting.Spot
		light.Position = d.Offset.Add(math.Vec3{Z: opts.SpotHeight}).Array()
		light.Target = d.Offset.Array()
		d.Light = light

		ring.Decorations = append(ring.Decorations, d)
	}
	return ring, nil
}

// DecorationLight returns decoration i's light resolved to world space.
func (r *Ring) DecorationLight(i int) lighting.LocalLight {
	return lighting.Resolve(r.Decorations[i].Light, r.Transform())
}
