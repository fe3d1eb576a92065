package carousel

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/pkg/math"
)

var sevenShapes = []mesh.Shape{
	mesh.ShapeWave, mesh.ShapeSphere, mesh.ShapeEllipsoid, mesh.ShapeTorus,
	mesh.ShapeMobius, mesh.ShapeKlein, mesh.ShapeCone,
}

func countShapes(shapes []mesh.Shape) map[mesh.Shape]int {
	counts := make(map[mesh.Shape]int)
	for _, s := range shapes {
		counts[s]++
	}
	return counts
}

func TestPlacementAnglesEvenlySpaced(t *testing.T) {
	for _, n := range []int{1, 3, 8, 13} {
		angles := PlacementAngles(n)
		require.Len(t, angles, n)
		step := 2 * math32.Pi / float32(n)
		for i, a := range angles {
			assert.InDelta(t, float32(i)*step, a, 1e-5, "n=%d angle %d", n, i)
		}
	}
}

func TestShuffleIsDeterministicPermutation(t *testing.T) {
	pool := append([]mesh.Shape(nil), sevenShapes...)

	a := Shuffle(pool, rand.New(rand.NewSource(11)))
	b := Shuffle(pool, rand.New(rand.NewSource(11)))
	assert.Equal(t, a, b, "same seed gives the same permutation")
	assert.ElementsMatch(t, sevenShapes, a)
	assert.Equal(t, sevenShapes, pool, "input pool is not modified")
}

func TestAssignShapesBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{1, 5, 7, 8, 14, 20, 31} {
		slots, err := AssignShapes(sevenShapes, n, rng)
		require.NoError(t, err)
		require.Len(t, slots, n)

		lo, hi := n/len(sevenShapes), (n+len(sevenShapes)-1)/len(sevenShapes)
		counts := countShapes(slots)
		for _, s := range sevenShapes {
			c := counts[s]
			assert.True(t, c >= lo && c <= hi, "n=%d shape %s used %d times, want [%d, %d]", n, s, c, lo, hi)
		}
	}
}

func TestAssignShapesErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := AssignShapes(nil, 8, rng)
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = AssignShapes(sevenShapes, 0, rng)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func testOptions() Options {
	return Options{
		DecorationZ: 0.35,
		SpotHeight:  1,
		Spot:        lighting.Light{Color: [3]float32{1, 1, 1}, Intensity: 1, Range: 3, Angle: math32.Pi / 6},
		StartMoving: true,
	}
}

func TestAssembleRadiusFourEightDecorations(t *testing.T) {
	spec := RingSpec{InnerRadius: 3.75, OuterRadius: 4.25, Decorations: 8, MoveSpeed: 0.02, Min: -1, Max: 1}
	ring, err := Assemble(spec, sevenShapes, rand.New(rand.NewSource(42)), mesh.NewCache(), testOptions())
	require.NoError(t, err)
	require.Len(t, ring.Decorations, 8)

	shapes := make([]mesh.Shape, 0, 8)
	for i, d := range ring.Decorations {
		shapes = append(shapes, d.Shape)
		assert.InDelta(t, float64(i)*45, float64(d.Angle*180/math32.Pi), 1e-4, "angle %d", i)
		assert.InDelta(t, 4, math.Vec3{X: d.Offset.X, Y: d.Offset.Y}.Length(), 1e-5, "radius %d", i)
		assert.InDelta(t, 0.35, d.Offset.Z, 1e-6)
		assert.NotNil(t, d.Mesh)
	}

	counts := countShapes(shapes)
	assert.Len(t, counts, 7, "every pool shape is used")
	repeated := 0
	for _, c := range counts {
		if c == 2 {
			repeated++
		}
		assert.LessOrEqual(t, c, 2)
	}
	assert.Equal(t, 1, repeated, "exactly one shape repeats")
}

func TestAssembleDeterministicWithSeed(t *testing.T) {
	spec := RingSpec{InnerRadius: 2, OuterRadius: 2.5, Decorations: 8, Min: -1, Max: 1}
	opts := testOptions()
	opts.RandomTilt = true

	a, err := Assemble(spec, sevenShapes, rand.New(rand.NewSource(5)), mesh.NewCache(), opts)
	require.NoError(t, err)
	b, err := Assemble(spec, sevenShapes, rand.New(rand.NewSource(5)), mesh.NewCache(), opts)
	require.NoError(t, err)

	for i := range a.Decorations {
		assert.Equal(t, a.Decorations[i].Shape, b.Decorations[i].Shape)
		assert.Equal(t, a.Decorations[i].ID, b.Decorations[i].ID)
		assert.Equal(t, a.Decorations[i].Rotation, b.Decorations[i].Rotation)
	}
	assert.NotEqual(t, a.Decorations[0].ID, a.Decorations[1].ID)
}

func TestAssembleSharesMeshesThroughCache(t *testing.T) {
	cache := mesh.NewCache()
	spec := RingSpec{InnerRadius: 2, OuterRadius: 2.5, Decorations: 4, Min: -1, Max: 1}
	pool := []mesh.Shape{mesh.ShapeTorus}

	ring, err := Assemble(spec, pool, rand.New(rand.NewSource(1)), cache, testOptions())
	require.NoError(t, err)
	for _, d := range ring.Decorations[1:] {
		assert.Same(t, ring.Decorations[0].Mesh, d.Mesh)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestAssembleErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cache := mesh.NewCache()
	good := RingSpec{InnerRadius: 2, OuterRadius: 2.5, Decorations: 8}

	_, err := Assemble(good, nil, rng, cache, testOptions())
	assert.ErrorIs(t, err, ErrEmptyPool)

	bad := good
	bad.Decorations = 0
	_, err = Assemble(bad, sevenShapes, rng, cache, testOptions())
	assert.ErrorIs(t, err, ErrInvalidCount)

	bad = good
	bad.OuterRadius = 1
	_, err = Assemble(bad, sevenShapes, rng, cache, testOptions())
	assert.ErrorIs(t, err, ErrInvalidRing)

	_, err = Assemble(good, []mesh.Shape{"teapot"}, rng, cache, testOptions())
	assert.ErrorIs(t, err, mesh.ErrUnknownShape)
}

func TestRingStartsStoppedWithoutStartMoving(t *testing.T) {
	opts := testOptions()
	opts.StartMoving = false
	spec := RingSpec{InnerRadius: 2, OuterRadius: 2.5, Decorations: 2, MoveSpeed: 0.02}

	ring, err := Assemble(spec, sevenShapes, rand.New(rand.NewSource(1)), mesh.NewCache(), opts)
	require.NoError(t, err)
	assert.False(t, ring.Moving())
	assert.Equal(t, float32(0.02), ring.DefaultMoveSpeed)
}

func TestDecorationSpotLightFollowsRing(t *testing.T) {
	spec := RingSpec{InnerRadius: 2, OuterRadius: 2.5, Decorations: 4, Y: 0.5}
	ring, err := Assemble(spec, sevenShapes, rand.New(rand.NewSource(9)), mesh.NewCache(), testOptions())
	require.NoError(t, err)

	ring.Angle = 0.7
	for i, d := range ring.Decorations {
		l := ring.DecorationLight(i)
		world := ring.DecorationTransform(i).Translation()

		// Above the decoration in world Y, pointing straight down at it.
		assert.InDelta(t, world.X, l.Position[0], 1e-4)
		assert.InDelta(t, world.Y+1, l.Position[1], 1e-4)
		assert.InDelta(t, world.Z, l.Position[2], 1e-4)
		assert.InDelta(t, -1, l.Direction[1], 1e-4)
		assert.Equal(t, lighting.Spot, d.Light.Category)
	}
}
