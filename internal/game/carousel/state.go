// Package carousel holds the ring scene: ring assembly, the mutable scene
// state and the per-frame update rule.
package carousel

import (
	"fmt"
	"strings"

	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/pkg/math"
)

// ReflectMode selects how a ring turns around at its oscillation bounds.
type ReflectMode int

const (
	// ReflectOvershoot flips direction once the position has left the
	// bounds, leaving it outside for one frame.
	ReflectOvershoot ReflectMode = iota
	// ReflectExact mirrors the overshoot back inside the bounds.
	ReflectExact
)

func (m ReflectMode) String() string {
	switch m {
	case ReflectOvershoot:
		return "overshoot"
	case ReflectExact:
		return "exact"
	default:
		return fmt.Sprintf("ReflectMode(%d)", int(m))
	}
}

// ParseReflectMode parses "overshoot" or "exact".
func ParseReflectMode(s string) (ReflectMode, error) {
	switch strings.ToLower(s) {
	case "overshoot", "":
		return ReflectOvershoot, nil
	case "exact":
		return ReflectExact, nil
	}
	return 0, fmt.Errorf("unknown reflect mode %q", s)
}

// Material is the surface shading applied to every solid object.
type Material int

const (
	MaterialLambert Material = iota
	MaterialPhong
	MaterialToon
	MaterialNormal
	MaterialBasic

	NumMaterials
)

var materialNames = [NumMaterials]string{"lambert", "phong", "toon", "normal", "basic"}

func (m Material) String() string {
	if m < 0 || m >= NumMaterials {
		return "unknown"
	}
	return materialNames[m]
}

// Shaded reports whether the material responds to lights.
func (m Material) Shaded() bool {
	return m != MaterialBasic
}

// Ring is a flat annulus carrying decorations. Its registers are the only
// authoritative motion state; decorations derive their transforms from it.
type Ring struct {
	Index       int
	InnerRadius float32
	OuterRadius float32
	Tilt        float32 // fixed rotation about X laying the ring flat

	Position         float32 // vertical offset
	Angle            float32 // accumulated spin, never wrapped
	RotationSpeed    float32 // radians per frame
	MoveSpeed        float32
	DefaultMoveSpeed float32
	Direction        float32 // +1 or -1
	Min, Max         float32

	Base        *mesh.Mesh
	Decorations []*Decoration
}

// Transform returns the ring frame: translate(0, Position, 0) * Rx(Tilt) * Rz(Angle).
func (r *Ring) Transform() math.Mat4 {
	return math.Translate(0, r.Position, 0).Mul(math.EulerXYZ(r.Tilt, 0, r.Angle))
}

// DecorationTransform returns the world matrix of decoration i.
func (r *Ring) DecorationTransform(i int) math.Mat4 {
	return r.Transform().Mul(r.Decorations[i].Local())
}

// Moving reports whether the ring currently oscillates.
func (r *Ring) Moving() bool {
	return r.MoveSpeed != 0
}

// ToggleMotion switches the move speed between zero and its default.
func (r *Ring) ToggleMotion() {
	if r.Moving() {
		r.MoveSpeed = 0
		return
	}
	r.MoveSpeed = r.DefaultMoveSpeed
}

// State is the mutable scene state shared by the update rule and the input
// dispatcher. It is owned by the frame loop and is not safe for concurrent use.
type State struct {
	Rings      []*Ring
	Material   Material
	PrevShaded Material // last shaded material, restored when leaving Basic
	Lights     lighting.Visibility
	Reflect    ReflectMode
	Frame      uint64
}

// NewState creates the state with every light visible and Lambert shading.
func NewState(rings []*Ring, reflect ReflectMode) *State {
	return &State{
		Rings:      rings,
		Material:   MaterialLambert,
		PrevShaded: MaterialLambert,
		Lights:     lighting.AllVisible(),
		Reflect:    reflect,
	}
}

// SelectMaterial switches to m. Selecting a shaded material also makes it
// the one the Basic swap returns to.
func (s *State) SelectMaterial(m Material) bool {
	if m < 0 || m >= NumMaterials {
		return false
	}
	s.Material = m
	if m.Shaded() {
		s.PrevShaded = m
	}
	return true
}

// ToggleBasic swaps between Basic and the last shaded material.
func (s *State) ToggleBasic() {
	if s.Material.Shaded() {
		s.PrevShaded = s.Material
		s.Material = MaterialBasic
		return
	}
	s.Material = s.PrevShaded
}

// ToggleLights flips a category's visibility and returns the new value.
func (s *State) ToggleLights(c lighting.Category) bool {
	if c < 0 || c >= lighting.NumCategories {
		return false
	}
	s.Lights[c] = !s.Lights[c]
	return s.Lights[c]
}

// LightsVisible reports whether a category is switched on.
func (s *State) LightsVisible(c lighting.Category) bool {
	if c < 0 || c >= lighting.NumCategories {
		return false
	}
	return s.Lights[c]
}

// ToggleRingMotion toggles ring i's motion. Out of range indices are ignored.
func (s *State) ToggleRingMotion(i int) bool {
	if i < 0 || i >= len(s.Rings) {
		return false
	}
	s.Rings[i].ToggleMotion()
	return true
}
