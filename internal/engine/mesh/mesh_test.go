package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/carousel/pkg/math"
	"github.com/Faultbox/carousel/pkg/surface"
)

func TestBuildParametricCounts(t *testing.T) {
	tests := []struct{ segU, segV int }{
		{1, 1}, {4, 3}, {10, 10}, {32, 16},
	}
	for _, tt := range tests {
		m, err := BuildParametric("plane", surface.Plane(1, 1), tt.segU, tt.segV)
		require.NoError(t, err)
		assert.Equal(t, (tt.segU+1)*(tt.segV+1), m.VertexCount(), "%dx%d vertices", tt.segU, tt.segV)
		assert.Equal(t, 2*tt.segU*tt.segV, m.TriangleCount(), "%dx%d triangles", tt.segU, tt.segV)
		assert.NoError(t, m.Validate())
	}
}

func TestBuildParametricRowMajor(t *testing.T) {
	m, err := BuildParametric("plane", surface.Plane(1, 1), 4, 2)
	require.NoError(t, err)

	// Vertex (i=3, j=1) lives at j*(segU+1)+i.
	v := m.Vertices[1*5+3]
	assert.Equal(t, [2]float32{0.75, 0.5}, v.TexCoord)
	assert.InDelta(t, 0.25, v.Position[0], 1e-6)
	assert.InDelta(t, 0.0, v.Position[1], 1e-6)
}

func TestGridWinding(t *testing.T) {
	m, err := BuildParametric("plane", surface.Plane(1, 1), 1, 1)
	require.NoError(t, err)

	// a=0 b=1 c=3 d=2 for a single cell.
	assert.Equal(t, []uint32{0, 1, 2, 1, 3, 2}, m.Indices)

	// Counter-clockwise in XY, so every normal faces +Z.
	for i, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal[2], 1e-6, "vertex %d", i)
	}
}

func TestBuildParametricRejectsBadSegments(t *testing.T) {
	for _, seg := range [][2]int{{0, 4}, {4, 0}, {-1, -1}} {
		_, err := BuildParametric("plane", surface.Plane(1, 1), seg[0], seg[1])
		assert.True(t, errors.Is(err, ErrInvalidSegments), "segments %v", seg)
	}
}

func TestBuildConeApexFan(t *testing.T) {
	const segU, segV = 12, 3
	m, err := BuildCone("cone", 1, 2, segU, segV)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, (segU+1)*(segV+1)+1, m.VertexCount())
	lateral := 2 * segU * segV
	assert.Equal(t, lateral+segU, m.TriangleCount())

	apex := uint32(m.VertexCount() - 1)
	assert.Equal(t, [3]float32{0, 1, 0}, m.Vertices[apex].Position)

	fan := m.Indices[lateral*3:]
	for i := 0; i < segU; i++ {
		assert.Equal(t, apex, fan[i*3+2], "fan triangle %d ends at the apex", i)
	}

	// The top grid row stays strictly below the apex.
	top := m.Vertices[segV*(segU+1)]
	assert.Less(t, top.Position[1], float32(1))
	assert.Greater(t, top.Position[0], float32(0))

	// Outward-facing side normals point away from the axis.
	side := m.Vertices[segU+1]
	assert.Greater(t, side.Normal[0], float32(0))
}

func TestComputeNormalsSphereOutward(t *testing.T) {
	m, err := BuildParametric("sphere", surface.Sphere(1), 24, 16)
	require.NoError(t, err)

	for i, v := range m.Vertices {
		p := math.FromArray(v.Position)
		n := math.FromArray(v.Normal)
		assert.InDelta(t, 1, n.Length(), 1e-4, "vertex %d normal is unit length", i)
		if p.Y > -0.95 && p.Y < 0.95 {
			assert.Greater(t, n.Dot(p), float32(0.9), "vertex %d normal faces outward", i)
		}
	}
}

func TestSmoothNormalsWeldsSeam(t *testing.T) {
	m, err := BuildParametric("torus", surface.Torus(1, 0.3), 16, 8)
	require.NoError(t, err)
	SmoothNormals(m.Vertices)

	// Column 0 and column segU share positions on a closed torus.
	for j := 0; j <= 8; j++ {
		first := m.Vertices[j*17]
		last := m.Vertices[j*17+16]
		for k := 0; k < 3; k++ {
			assert.InDelta(t, first.Normal[k], last.Normal[k], 1e-5, "row %d", j)
		}
	}
}

func TestAnnulus(t *testing.T) {
	m, err := BuildAnnulus("ring", 2, 2.5, 32)
	require.NoError(t, err)
	assert.Equal(t, 33*2, m.VertexCount())
	assert.Equal(t, 64, m.TriangleCount())

	for _, v := range m.Vertices {
		r := math.Vec3{X: v.Position[0], Y: v.Position[1]}.Length()
		assert.True(t, r > 1.999 && r < 2.501, "radius %v within annulus", r)
		assert.InDelta(t, 0, v.Position[2], 1e-6)
		assert.InDelta(t, 1, v.Normal[2], 1e-5)
	}

	_, err = BuildAnnulus("ring", 2, 2.5, 2)
	assert.ErrorIs(t, err, ErrInvalidSegments)
}

func TestRibbon(t *testing.T) {
	const segments = 100
	m, err := BuildRibbon("mobius-ribbon", 1, 0.2, segments)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, segments+1, m.VertexCount())
	assert.Equal(t, segments, m.TriangleCount())

	last := m.Indices[len(m.Indices)-3:]
	assert.Equal(t, []uint32{segments - 1, segments, 0}, last, "strip wraps to the first vertex")
}

func TestScaleUpdatesBounds(t *testing.T) {
	m, err := BuildParametric("sphere", surface.Sphere(1), 8, 8)
	require.NoError(t, err)
	m.Scale(0.5)

	for k := 0; k < 3; k++ {
		assert.InDelta(t, -0.5, m.Bounds.Min[k], 0.01)
		assert.InDelta(t, 0.5, m.Bounds.Max[k], 0.01)
	}
	for _, v := range m.Vertices {
		assert.InDelta(t, 0.5, math.FromArray(v.Position).Length(), 1e-4)
	}
}

func TestValidateCatchesBadIndex(t *testing.T) {
	m := &Mesh{Name: "broken", Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}}
	assert.Error(t, m.Validate())

	m.Indices = []uint32{0, 1}
	assert.Error(t, m.Validate())
}
