package carousel

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel/internal/config"
	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/internal/logger"
	"github.com/Faultbox/carousel/pkg/math"
	"github.com/Faultbox/carousel/pkg/surface"
)

// Fixed scene geometry.
const (
	cylinderRadius   = 1
	cylinderHeight   = 2
	cylinderSegments = 32
	skyRadius        = 500
	decorationZ      = 0.35
	spotHeight       = 1.0
	ribbonRadius     = 1
	ribbonWidth      = 0.2
	ribbonSegments   = 100
	ribbonLightZ     = 0.3
)

// Object colours.
var (
	CylinderColor   = lighting.FromHex(0x00ff00)
	RingColor       = lighting.FromHex(0xff0000)
	DecorationColor = lighting.FromHex(0x0000ff)
	RibbonColor     = lighting.FromHex(0xffff00)
)

// Kind tells the renderer how to draw an item.
type Kind int

const (
	KindSolid       Kind = iota
	KindDoubleSided      // thin geometry seen from both sides
	KindSky              // drawn from the inside, unlit
)

// DrawItem is one immutable mesh placed in the world for a frame.
type DrawItem struct {
	Name  string
	Mesh  *mesh.Mesh
	Model math.Mat4
	Color [3]float32
	Kind  Kind
}

// Settings is everything Build needs to assemble a scene.
type Settings struct {
	Rings   []RingSpec
	Pool    []mesh.Shape
	Options Options
	Reflect ReflectMode
	Seed    int64 // 0 picks a time-based seed

	RibbonLights int
	RibbonSpeed  float32
	PointLight   lighting.Light // template for ribbon lights

	Ambient     lighting.Light
	Directional lighting.Light
}

// SettingsFromConfig converts a validated config into scene settings.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	reflect, err := ParseReflectMode(cfg.Animation.Reflect)
	if err != nil {
		return Settings{}, err
	}

	pool := make([]mesh.Shape, 0, len(cfg.Scene.Shapes))
	for _, name := range cfg.Scene.Shapes {
		s, err := mesh.ParseShape(name)
		if err != nil {
			return Settings{}, err
		}
		pool = append(pool, s)
	}
	if len(cfg.Animation.RotationSpeeds) == 0 {
		return Settings{}, fmt.Errorf("no rotation speeds configured")
	}

	sc := cfg.Scene
	anim := cfg.Animation
	rings := make([]RingSpec, sc.Rings)
	for i := range rings {
		inner := sc.InnerRadius + float32(i)*sc.Spacing
		rings[i] = RingSpec{
			Index:         i,
			InnerRadius:   inner,
			OuterRadius:   inner + sc.Width,
			Y:             sc.BaseY + float32(i)*sc.StackStep,
			Decorations:   sc.Decorations,
			RotationSpeed: anim.RotationSpeeds[i%len(anim.RotationSpeeds)],
			MoveSpeed:     anim.MoveSpeed,
			Min:           anim.Min,
			Max:           anim.Max,
		}
	}

	lc := cfg.Lights
	return Settings{
		Rings: rings,
		Pool:  pool,
		Options: Options{
			RandomTilt:  sc.RandomTilt,
			DecorationZ: decorationZ,
			SpotHeight:  spotHeight,
			Spot: lighting.Light{
				Category:  lighting.Spot,
				Color:     lighting.FromHex(lc.SpotColor),
				Intensity: lc.SpotIntensity,
				Range:     lc.SpotRange,
				Angle:     lc.SpotAngle * math32.Pi / 180,
			},
			StartMoving: anim.StartMoving,
		},
		Reflect:      reflect,
		Seed:         sc.Seed,
		RibbonLights: sc.RibbonLights,
		RibbonSpeed:  anim.RibbonSpeed,
		PointLight: lighting.Light{
			Category:  lighting.Point,
			Color:     lighting.FromHex(lc.PointColor),
			Intensity: lc.PointIntensity,
			Range:     lc.PointRange,
		},
		Ambient: lighting.Light{
			Category:  lighting.Ambient,
			Color:     lighting.FromHex(lc.AmbientColor),
			Intensity: lc.AmbientIntensity,
		},
		Directional: lighting.Light{
			Category:  lighting.Directional,
			Color:     lighting.FromHex(lc.DirectionalColor),
			Intensity: lc.DirectionalIntensity,
			Position:  math.FromArray(lc.DirectionalPosition).Normalize().Array(),
		},
	}, nil
}

// Ribbon is the Mobius centre-line strip around the cylinder. It spins in
// place and carries point lights.
type Ribbon struct {
	Mesh          *mesh.Mesh
	Tilt          float32
	Angle         float32
	RotationSpeed float32
	Lights        []lighting.Light // in the ribbon frame
}

// Transform returns the ribbon frame.
func (r *Ribbon) Transform() math.Mat4 {
	return math.EulerXYZ(r.Tilt, 0, r.Angle)
}

// Scene is the assembled world around a State.
type Scene struct {
	State       *State
	Cylinder    *mesh.Mesh
	Ribbon      *Ribbon
	Sky         *mesh.Mesh
	Ambient     lighting.Light
	Directional lighting.Light
	Seed        int64 // seed actually used, for reproducing a layout

	log *zap.Logger
}

// Build assembles the cylinder, rings, ribbon and sky.
func Build(s Settings) (*Scene, error) {
	log := logger.Named("carousel")

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	cache := mesh.NewCache()

	rings := make([]*Ring, 0, len(s.Rings))
	for _, spec := range s.Rings {
		r, err := Assemble(spec, s.Pool, rng, cache, s.Options)
		if err != nil {
			return nil, err
		}
		for _, d := range r.Decorations {
			log.Debug("decoration placed",
				zap.Int("ring", r.Index),
				zap.Stringer("id", d.ID),
				zap.String("shape", string(d.Shape)),
				zap.Float32("angle", d.Angle))
		}
		rings = append(rings, r)
	}

	cylinder, err := mesh.BuildParametric("cylinder", surface.Cylinder(cylinderRadius, cylinderHeight), cylinderSegments, 1)
	if err != nil {
		return nil, err
	}
	sky, err := mesh.BuildParametric("sky", surface.Sphere(skyRadius), 60, 40)
	if err != nil {
		return nil, err
	}
	strip, err := mesh.BuildRibbon("mobius-ribbon", ribbonRadius, ribbonWidth, ribbonSegments)
	if err != nil {
		return nil, err
	}

	ribbon := &Ribbon{
		Mesh:          strip,
		Tilt:          -math32.Pi / 2,
		RotationSpeed: s.RibbonSpeed,
	}
	for i, angle := range PlacementAngles(s.RibbonLights) {
		l := s.PointLight
		l.Category = lighting.Point
		l.Position = [3]float32{
			ribbonRadius * math32.Cos(angle),
			ribbonRadius * math32.Sin(angle),
			ribbonLightZ,
		}
		ribbon.Lights = append(ribbon.Lights, l)
		log.Debug("ribbon light placed", zap.Int("index", i), zap.Float32("angle", angle))
	}

	scene := &Scene{
		State:       NewState(rings, s.Reflect),
		Cylinder:    cylinder,
		Ribbon:      ribbon,
		Sky:         sky,
		Ambient:     s.Ambient,
		Directional: s.Directional,
		Seed:        seed,
		log:         log,
	}
	log.Info("scene assembled",
		zap.Int("rings", len(rings)),
		zap.Int("shapes", cache.Len()),
		zap.Int("triangles", scene.TriangleCount()),
		zap.Int64("seed", seed),
		zap.Stringer("reflect", s.Reflect))
	return scene, nil
}

// Tick advances the rings and the ribbon by one frame.
func (s *Scene) Tick() {
	s.State.Tick()
	s.Ribbon.Angle += s.Ribbon.RotationSpeed
}

// DrawItems appends every object with its current world matrix to dst.
func (s *Scene) DrawItems(dst []DrawItem) []DrawItem {
	dst = append(dst,
		DrawItem{Name: "sky", Mesh: s.Sky, Model: math.Identity(), Kind: KindSky},
		DrawItem{Name: "cylinder", Mesh: s.Cylinder, Model: math.Identity(), Color: CylinderColor},
		DrawItem{Name: "ribbon", Mesh: s.Ribbon.Mesh, Model: s.Ribbon.Transform(), Color: RibbonColor, Kind: KindDoubleSided},
	)
	for _, r := range s.State.Rings {
		ringModel := r.Transform()
		dst = append(dst, DrawItem{Name: r.Base.Name, Mesh: r.Base, Model: ringModel, Color: RingColor, Kind: KindDoubleSided})
		for _, d := range r.Decorations {
			dst = append(dst, DrawItem{
				Name:  string(d.Shape) + "-" + d.ID.String(),
				Mesh:  d.Mesh,
				Model: ringModel.Mul(d.Local()),
				Color: DecorationColor,
				Kind:  KindDoubleSided,
			})
		}
	}
	return dst
}

// GlobalLights holds the ambient and directional terms after visibility.
type GlobalLights struct {
	Ambient          [3]float32 // colour * intensity, zero when hidden
	Direction        [3]float32 // towards the light
	DirectionalColor [3]float32 // colour * intensity, zero when hidden
}

// Globals returns the ambient and directional lights for this frame.
func (s *Scene) Globals() GlobalLights {
	var g GlobalLights
	if s.State.LightsVisible(lighting.Ambient) {
		g.Ambient = scaled(s.Ambient)
	}
	g.Direction = s.Directional.Position
	if s.State.LightsVisible(lighting.Directional) {
		g.DirectionalColor = scaled(s.Directional)
	}
	return g
}

// FillLights resolves every visible point and spot light to world space
// into buf and returns how many did not fit.
func (s *Scene) FillLights(buf *lighting.LightBuffer) int {
	buf.Clear()
	dropped := 0
	add := func(l lighting.LocalLight) {
		if !buf.AddLight(l) {
			dropped++
		}
	}

	if s.State.LightsVisible(lighting.Point) {
		ribbonModel := s.Ribbon.Transform()
		for _, l := range s.Ribbon.Lights {
			add(lighting.Resolve(l, ribbonModel))
		}
	}
	if s.State.LightsVisible(lighting.Spot) {
		for _, r := range s.State.Rings {
			for i := range r.Decorations {
				add(r.DecorationLight(i))
			}
		}
	}
	return dropped
}

// TriangleCount returns the number of triangles drawn per frame.
func (s *Scene) TriangleCount() int {
	n := s.Cylinder.TriangleCount() + s.Ribbon.Mesh.TriangleCount() + s.Sky.TriangleCount()
	for _, r := range s.State.Rings {
		n += r.Base.TriangleCount()
		for _, d := range r.Decorations {
			n += d.Mesh.TriangleCount()
		}
	}
	return n
}

// ApplyAnimation updates motion settings in place, keeping positions,
// angles and directions. Rings that are currently stopped stay stopped.
func (s *Scene) ApplyAnimation(cfg config.AnimationConfig) error {
	reflect, err := ParseReflectMode(cfg.Reflect)
	if err != nil {
		return err
	}
	if len(cfg.RotationSpeeds) == 0 {
		return fmt.Errorf("no rotation speeds configured")
	}
	s.State.Reflect = reflect
	for i, r := range s.State.Rings {
		r.RotationSpeed = cfg.RotationSpeeds[i%len(cfg.RotationSpeeds)]
		r.Min, r.Max = cfg.Min, cfg.Max
		r.DefaultMoveSpeed = cfg.MoveSpeed
		if r.Moving() {
			r.MoveSpeed = cfg.MoveSpeed
		}
	}
	s.Ribbon.RotationSpeed = cfg.RibbonSpeed
	s.log.Info("animation settings reloaded",
		zap.Float32("move_speed", cfg.MoveSpeed),
		zap.Stringer("reflect", reflect))
	return nil
}

func scaled(l lighting.Light) [3]float32 {
	return [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
}
