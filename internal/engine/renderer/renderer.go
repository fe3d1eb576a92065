// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/internal/engine/shader"
	"github.com/Faultbox/carousel/internal/logger"
	"github.com/Faultbox/carousel/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Item is one mesh instance to draw.
type Item struct {
	Mesh  *mesh.Mesh
	Model math.Mat4
	Color [3]float32
	Sky   bool // unlit gradient, seen from inside
}

// Frame is everything needed to draw one frame.
type Frame struct {
	Items    []Item
	Material int32

	Ambient  [3]float32
	SunDir   [3]float32
	SunColor [3]float32
	Lights   *lighting.LightBuffer

	Projection math.Mat4
	Views      []math.Mat4 // one view for mono, left then right for stereo
	Eye        [3]float32
}

// gpuMesh is a mesh uploaded to vertex and index buffers.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  map[*mesh.Mesh]*gpuMesh
	log     *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*mesh.Mesh]*gpuMesh),
		log:    logger.Named("renderer"),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Setup default OpenGL state. Thin rings and ribbons are seen from both
	// sides, so culling stays off and the shader flips back-face normals.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0.05, 0.05, 0.08, 1.0)

	var err error
	r.program, err = shader.New(sceneVertex, sceneFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.log.Debug("shader program created", zap.Uint32("program", r.program.ID))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for m, g := range r.meshes {
		gl.DeleteVertexArrays(1, &g.vao)
		gl.DeleteBuffers(1, &g.vbo)
		gl.DeleteBuffers(1, &g.ebo)
		delete(r.meshes, m)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport width over height.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Render draws the frame once per view.
func (r *Renderer) Render(f *Frame) {
	stereo := len(f.Views) == 2
	for i, view := range f.Views {
		if stereo {
			if i == 0 {
				gl.DrawBuffer(gl.BACK_LEFT)
			} else {
				gl.DrawBuffer(gl.BACK_RIGHT)
			}
		}
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		r.drawView(f, view)
	}
	if stereo {
		gl.DrawBuffer(gl.BACK)
	}
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

func (r *Renderer) drawView(f *Frame, view math.Mat4) {
	p := r.program
	p.Use()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", f.Projection)
	p.SetVec3("uEye", f.Eye)
	p.SetInt("uMaterial", f.Material)
	p.SetVec3("uAmbient", f.Ambient)
	p.SetVec3("uSunDir", f.SunDir)
	p.SetVec3("uSunColor", f.SunColor)

	count := int32(0)
	if f.Lights != nil {
		count = int32(f.Lights.Count)
		p.SetVec3Array("uLightPos", f.Lights.GetPositions())
		p.SetVec3Array("uLightDir", f.Lights.GetDirections())
		p.SetVec3Array("uLightColor", f.Lights.GetColors())
		p.SetFloatArray("uLightRange", f.Lights.GetRanges())
		p.SetFloatArray("uLightCutoff", f.Lights.GetCutoffs())
	}
	p.SetInt("uLightCount", count)

	for i := range f.Items {
		it := &f.Items[i]
		g := r.upload(it.Mesh)
		if g == nil {
			continue
		}
		sky := int32(0)
		if it.Sky {
			sky = 1
		}
		p.SetInt("uSky", sky)
		p.SetMat4("uModel", it.Model)
		p.SetMat4("uNormalMatrix", it.Model.NormalMatrix())
		p.SetVec3("uColor", it.Color)

		gl.BindVertexArray(g.vao)
		gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// upload returns the GPU copy of m, creating it on first use. Meshes are
// immutable so the copy never needs refreshing.
func (r *Renderer) upload(m *mesh.Mesh) *gpuMesh {
	if g, ok := r.meshes[m]; ok {
		return g
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil
	}

	g := &gpuMesh{count: int32(len(m.Indices))}
	stride := int32(unsafe.Sizeof(mesh.Vertex{}))

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	r.meshes[m] = g
	r.log.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()),
	)
	return g
}
