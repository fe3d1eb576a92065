// Package export writes scene geometry to mesh files.
package export

import (
	"errors"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/internal/game/carousel"
	"github.com/Faultbox/carousel/pkg/math"
)

// ErrNoTriangles is returned when there is nothing to write.
var ErrNoTriangles = errors.New("no triangles to export")

// MeshTriangles returns m's triangles transformed by model. Zero-area
// triangles are dropped since they have no facet normal.
func MeshTriangles(m *mesh.Mesh, model math.Mat4) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var p [3]math.Vec3
		for k := 0; k < 3; k++ {
			p[k] = math.FromArray(model.TransformPoint(m.Vertices[m.Indices[i+k]].Position))
		}
		if p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length() == 0 {
			continue
		}
		out = append(out, &sdf.Triangle3{toV3(p[0]), toV3(p[1]), toV3(p[2])})
	}
	return out
}

// SceneTriangles flattens every solid draw item into world-space
// triangles. The sky is skipped.
func SceneTriangles(items []carousel.DrawItem) []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for _, it := range items {
		if it.Kind == carousel.KindSky {
			continue
		}
		out = append(out, MeshTriangles(it.Mesh, it.Model)...)
	}
	return out
}

// WriteMesh saves a single mesh as binary STL and returns the facet count.
func WriteMesh(path string, m *mesh.Mesh) (int, error) {
	return write(path, MeshTriangles(m, math.Identity()))
}

// WriteScene saves the scene in its current pose as binary STL and returns
// the facet count.
func WriteScene(path string, scene *carousel.Scene) (int, error) {
	return write(path, SceneTriangles(scene.DrawItems(nil)))
}

func write(path string, tris []*sdf.Triangle3) (int, error) {
	if len(tris) == 0 {
		return 0, ErrNoTriangles
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return 0, err
	}
	return len(tris), nil
}

func toV3(p math.Vec3) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}
