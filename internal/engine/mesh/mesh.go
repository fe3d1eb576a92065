package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/carousel/pkg/math"
	"github.com/Faultbox/carousel/pkg/surface"
)

// BuildParametric tessellates fn over a regular segU x segV grid.
// Vertices are laid out row-major with v selecting the row, so vertex (i, j)
// sits at index j*(segU+1)+i and was evaluated at (i/segU, j/segV).
func BuildParametric(name string, fn surface.Func, segU, segV int) (*Mesh, error) {
	if segU < 1 || segV < 1 {
		return nil, fmt.Errorf("%s: %dx%d grid: %w", name, segU, segV, ErrInvalidSegments)
	}

	m := &Mesh{Name: name}
	m.Vertices = gridVertices(fn, segU, segV)
	m.Indices = gridIndices(segU, segV)
	m.finish()
	return m, nil
}

// BuildCone tessellates the lateral surface of a cone with a regular grid
// and closes it with a fan from the top grid row to a single apex vertex
// appended after the grid.
func BuildCone(name string, radius, height float32, segU, segV int) (*Mesh, error) {
	if segU < 1 || segV < 1 {
		return nil, fmt.Errorf("%s: %dx%d grid: %w", name, segU, segV, ErrInvalidSegments)
	}

	// The grid covers segV of the segV+1 height bands; the fan covers the last.
	top := float32(segV) / float32(segV+1)
	fn := surface.ConeLateral(radius, height, top)

	m := &Mesh{Name: name}
	m.Vertices = gridVertices(fn, segU, segV)
	m.Indices = gridIndices(segU, segV)

	apex := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, Vertex{
		Position: surface.ConeApex(height).Array(),
		TexCoord: [2]float32{0.5, 1},
	})

	row := uint32(segV * (segU + 1))
	for i := uint32(0); i < uint32(segU); i++ {
		m.Indices = append(m.Indices, row+i, row+i+1, apex)
	}

	m.finish()
	return m, nil
}

// BuildAnnulus builds a flat ring in the local XY plane, facing +Z.
func BuildAnnulus(name string, inner, outer float32, segments int) (*Mesh, error) {
	if segments < 3 {
		return nil, fmt.Errorf("%s: %d segments: %w", name, segments, ErrInvalidSegments)
	}
	// v runs from the outer edge inward so the grid winding faces +Z.
	fn := func(u, v float32) math.Vec3 {
		theta := u * 2 * math32.Pi
		r := outer - (outer-inner)*v
		return math.Vec3{X: r * math32.Cos(theta), Y: r * math32.Sin(theta)}
	}
	return BuildParametric(name, fn, segments, 1)
}

// BuildRibbon builds the thin center-line band of a Mobius strip: one vertex
// per segment step along the twisted edge, stitched into a strip of triangles
// (i, i+1, i+2) that wraps around at the end.
func BuildRibbon(name string, radius, width float32, segments int) (*Mesh, error) {
	if segments < 3 {
		return nil, fmt.Errorf("%s: %d segments: %w", name, segments, ErrInvalidSegments)
	}

	edge := surface.Mobius(radius, width)
	m := &Mesh{Name: name}
	for i := 0; i <= segments; i++ {
		u := float32(i) / float32(segments)
		m.Vertices = append(m.Vertices, Vertex{
			Position: edge(u, 1).Array(),
			TexCoord: [2]float32{u, 0},
		})
	}

	count := uint32(segments + 1)
	for i := uint32(0); i < uint32(segments); i++ {
		m.Indices = append(m.Indices, i, i+1, (i+2)%count)
	}

	m.finish()
	return m, nil
}

// Scale applies a uniform scale to every vertex position and the bounds.
// Normals are unchanged by a uniform scale.
func (m *Mesh) Scale(factor float32) {
	for i := range m.Vertices {
		p := &m.Vertices[i].Position
		p[0] *= factor
		p[1] *= factor
		p[2] *= factor
	}
	for k := 0; k < 3; k++ {
		m.Bounds.Min[k] *= factor
		m.Bounds.Max[k] *= factor
	}
	if factor < 0 {
		m.Bounds.Min, m.Bounds.Max = m.Bounds.Max, m.Bounds.Min
	}
}

// Validate checks that every index refers to an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%s: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%s: index %d at %d out of range (%d vertices)", m.Name, idx, i, n)
		}
	}
	return nil
}

func gridVertices(fn surface.Func, segU, segV int) []Vertex {
	vertices := make([]Vertex, 0, (segU+1)*(segV+1))
	for j := 0; j <= segV; j++ {
		v := float32(j) / float32(segV)
		for i := 0; i <= segU; i++ {
			u := float32(i) / float32(segU)
			vertices = append(vertices, Vertex{
				Position: fn(u, v).Array(),
				TexCoord: [2]float32{u, v},
			})
		}
	}
	return vertices
}

// gridIndices splits every cell a=(i,j) b=(i+1,j) c=(i+1,j+1) d=(i,j+1)
// into triangles (a, b, d) and (b, c, d).
func gridIndices(segU, segV int) []uint32 {
	stride := uint32(segU + 1)
	indices := make([]uint32, 0, segU*segV*6)
	for j := uint32(0); j < uint32(segV); j++ {
		for i := uint32(0); i < uint32(segU); i++ {
			a := j*stride + i
			b := j*stride + i + 1
			c := (j+1)*stride + i + 1
			d := (j+1)*stride + i
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return indices
}

// finish derives normals and bounds from the final topology.
func (m *Mesh) finish() {
	ComputeNormals(m)
	m.Bounds = emptyBounds()
	for i := range m.Vertices {
		updateBounds(&m.Bounds, m.Vertices[i].Position)
	}
}

// ComputeNormals sets every vertex normal to the normalized sum of the
// normals of its adjacent faces. Larger faces weigh more because the
// unnormalized cross product is summed.
func ComputeNormals(m *Mesh) {
	sums := make([]math.Vec3, len(m.Vertices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		p0 := math.FromArray(m.Vertices[i0].Position)
		p1 := math.FromArray(m.Vertices[i1].Position)
		p2 := math.FromArray(m.Vertices[i2].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		sums[i0] = sums[i0].Add(n)
		sums[i1] = sums[i1].Add(n)
		sums[i2] = sums[i2].Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = normalize(sums[i])
	}
}

// SmoothNormals averages normals at shared vertex positions.
// Grid seams (u=0 and u=1 of a closed surface) duplicate positions; welding
// their normals removes the visible crease.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]int32{
			int32(math32.Round(p[0] / epsilon)),
			int32(math32.Round(p[1] / epsilon)),
			int32(math32.Round(p[2] / epsilon)),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(math.FromArray(vertices[idx].Normal))
		}

		avg := normalize(sum)
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// normalize returns a unit vector, falling back to +Y for degenerate input
// such as the collapsed rows at sphere poles.
func normalize(v math.Vec3) [3]float32 {
	if v.Length() < 1e-8 {
		return [3]float32{0, 1, 0}
	}
	return v.Normalize().Array()
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
