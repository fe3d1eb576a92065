package mesh

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/carousel/pkg/surface"
)

// ErrUnknownShape is returned for shape names that are not in the catalog.
var ErrUnknownShape = errors.New("unknown shape")

// Shape identifies one of the decoration surfaces.
type Shape string

// Catalog shapes.
const (
	ShapePlane     Shape = "plane"
	ShapeWave      Shape = "wave"
	ShapeSphere    Shape = "sphere"
	ShapeEllipsoid Shape = "ellipsoid"
	ShapeTorus     Shape = "torus"
	ShapeTorusKnot Shape = "torusknot"
	ShapeMobius    Shape = "mobius"
	ShapeKlein     Shape = "klein"
	ShapeCone      Shape = "cone"
)

// ShapeSpec describes how a catalog shape is generated.
type ShapeSpec struct {
	Func  surface.Func
	SegU  int
	SegV  int
	Scale float32 // applied after building so shapes look comparable on a ring
	// Weld averages normals across the grid seam. Only orientable closed
	// surfaces qualify; Mobius and Klein seams meet with opposite normals.
	Weld bool
	cone bool
}

// Cone dimensions before scaling.
const (
	coneRadius = 1.0
	coneHeight = 2.0
)

var catalog = map[Shape]ShapeSpec{
	ShapePlane:     {Func: surface.Plane(2, 2), SegU: 4, SegV: 4, Scale: 0.4},
	ShapeWave:      {Func: surface.Wave(), SegU: 10, SegV: 10, Scale: 0.4},
	ShapeSphere:    {Func: surface.Sphere(1), SegU: 24, SegV: 16, Scale: 0.35, Weld: true},
	ShapeEllipsoid: {Func: surface.Ellipsoid(1, 0.6, 0.8), SegU: 24, SegV: 16, Scale: 0.4, Weld: true},
	ShapeTorus:     {Func: surface.Torus(1, 0.35), SegU: 32, SegV: 16, Scale: 0.3, Weld: true},
	ShapeTorusKnot: {Func: surface.TorusKnot(surface.KnotP, surface.KnotQ, surface.KnotTube), SegU: 96, SegV: 12, Scale: 0.15, Weld: true},
	ShapeMobius:    {Func: surface.Mobius(1, 0.4), SegU: 48, SegV: 4, Scale: 0.35},
	ShapeKlein:     {Func: surface.Klein(2), SegU: 48, SegV: 24, Scale: 0.1},
	ShapeCone:      {SegU: 24, SegV: 4, Scale: 0.25, cone: true},
}

// Shapes returns every catalog shape in name order.
func Shapes() []Shape {
	shapes := make([]Shape, 0, len(catalog))
	for s := range catalog {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i] < shapes[j] })
	return shapes
}

// Lookup returns the generation parameters for a shape.
func Lookup(s Shape) (ShapeSpec, bool) {
	spec, ok := catalog[s]
	return spec, ok
}

// ParseShape resolves a shape name case-insensitively.
func ParseShape(name string) (Shape, error) {
	s := Shape(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := catalog[s]; !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownShape)
	}
	return s, nil
}

// BuildShape builds a catalog shape at its default resolution and scale.
func BuildShape(s Shape) (*Mesh, error) {
	spec, ok := catalog[s]
	if !ok {
		return nil, fmt.Errorf("%q: %w", s, ErrUnknownShape)
	}
	return BuildShapeWith(s, spec.SegU, spec.SegV)
}

// BuildShapeWith builds a catalog shape at the given resolution, applying
// the shape's fixed scale factor.
func BuildShapeWith(s Shape, segU, segV int) (*Mesh, error) {
	spec, ok := catalog[s]
	if !ok {
		return nil, fmt.Errorf("%q: %w", s, ErrUnknownShape)
	}

	var (
		m   *Mesh
		err error
	)
	if spec.cone {
		m, err = BuildCone(string(s), coneRadius, coneHeight, segU, segV)
	} else {
		m, err = BuildParametric(string(s), spec.Func, segU, segV)
	}
	if err != nil {
		return nil, err
	}

	if spec.Weld {
		SmoothNormals(m.Vertices)
	}
	m.Scale(spec.Scale)
	return m, nil
}

// IsCone reports whether the shape is built with an apex fan.
func (spec ShapeSpec) IsCone() bool {
	return spec.cone
}

// Cache builds each shape once and hands out the shared immutable mesh.
// It is not safe for concurrent use.
type Cache struct {
	meshes map[Shape]*Mesh
}

// NewCache creates an empty shape cache.
func NewCache() *Cache {
	return &Cache{meshes: make(map[Shape]*Mesh)}
}

// Get returns the mesh for a shape, building it on first use.
func (c *Cache) Get(s Shape) (*Mesh, error) {
	if m, ok := c.meshes[s]; ok {
		return m, nil
	}
	m, err := BuildShape(s)
	if err != nil {
		return nil, err
	}
	c.meshes[s] = m
	return m, nil
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	return len(c.meshes)
}
