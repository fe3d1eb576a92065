// Package lighting provides scene light types and GPU upload buffers.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/carousel/pkg/math"
)

// MaxLocalLights is the maximum number of point and spot lights supported in shaders.
const MaxLocalLights = 32

// Category groups lights that are toggled together.
type Category int

const (
	Ambient Category = iota
	Directional
	Point
	Spot

	NumCategories
)

var categoryNames = [NumCategories]string{"ambient", "directional", "point", "spot"}

func (c Category) String() string {
	if c < 0 || c >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Light is a light source. Position is in the owner's local frame for
// point and spot lights and is the direction towards the light for
// directional lights.
type Light struct {
	Category  Category
	Color     [3]float32 // RGB color (0-1 range)
	Intensity float32
	Position  [3]float32
	Target    [3]float32 // spot lights aim at Target, same frame as Position
	Range     float32    // falloff distance, 0 means no falloff
	Angle     float32    // spot cone half-angle in radians
}

// Visibility holds the on/off switch for every light category.
type Visibility [NumCategories]bool

// AllVisible returns a Visibility with every category switched on.
func AllVisible() Visibility {
	return Visibility{true, true, true, true}
}

// FromHex converts a 0xRRGGBB color to RGB floats.
func FromHex(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xff) / 255.0,
		float32((hex>>8)&0xff) / 255.0,
		float32(hex&0xff) / 255.0,
	}
}

// LocalLight is a point or spot light resolved to world space for GPU upload.
type LocalLight struct {
	Position  [3]float32
	Direction [3]float32 // unit spot axis, zero for point lights
	Color     [3]float32
	Range     float32
	Intensity float32
	Cutoff    float32 // cosine of the spot half-angle, -1 for point lights
}

// Resolve transforms a point or spot light into world space with the owner's matrix.
func Resolve(l Light, world math.Mat4) LocalLight {
	out := LocalLight{
		Position:  world.TransformPoint(l.Position),
		Color:     l.Color,
		Range:     l.Range,
		Intensity: l.Intensity,
		Cutoff:    -1,
	}
	if l.Category == Spot {
		target := world.TransformPoint(l.Target)
		dir := math.FromArray(target).Sub(math.FromArray(out.Position)).Normalize()
		out.Direction = dir.Array()
		out.Cutoff = math32.Cos(l.Angle)
	}
	return out
}

// LightBuffer holds resolved local lights for GPU upload.
type LightBuffer struct {
	Lights []LocalLight
	Count  int
}

// NewLightBuffer creates an empty light buffer.
func NewLightBuffer() *LightBuffer {
	return &LightBuffer{
		Lights: make([]LocalLight, 0, MaxLocalLights),
	}
}

// Clear removes all lights from the buffer.
func (b *LightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// AddLight adds a light to the buffer.
// Returns false if buffer is full.
func (b *LightBuffer) AddLight(light LocalLight) bool {
	if b.Count >= MaxLocalLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// GetPositions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *LightBuffer) GetPositions() []float32 {
	result := make([]float32, MaxLocalLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// GetDirections returns spot axes as a flat float32 slice for GPU upload.
func (b *LightBuffer) GetDirections() []float32 {
	result := make([]float32, MaxLocalLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Direction[:])
	}
	return result
}

// GetColors returns intensity-weighted colors as a flat float32 slice for GPU upload.
// Format: [r0, g0, b0, r1, g1, b1, ...]
func (b *LightBuffer) GetColors() []float32 {
	result := make([]float32, MaxLocalLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Color[0] * light.Intensity
		result[i*3+1] = light.Color[1] * light.Intensity
		result[i*3+2] = light.Color[2] * light.Intensity
	}
	return result
}

// GetRanges returns ranges as a flat float32 slice for GPU upload.
func (b *LightBuffer) GetRanges() []float32 {
	result := make([]float32, MaxLocalLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// GetCutoffs returns spot cutoff cosines as a flat float32 slice for GPU upload.
func (b *LightBuffer) GetCutoffs() []float32 {
	result := make([]float32, MaxLocalLights)
	for i := range result {
		result[i] = -1
	}
	for i, light := range b.Lights {
		result[i] = light.Cutoff
	}
	return result
}
