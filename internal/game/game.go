// Package game implements the viewer loop around the carousel scene.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel/internal/config"
	"github.com/Faultbox/carousel/internal/engine/camera"
	"github.com/Faultbox/carousel/internal/engine/input"
	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/engine/renderer"
	"github.com/Faultbox/carousel/internal/engine/screenshot"
	"github.com/Faultbox/carousel/internal/engine/stats"
	"github.com/Faultbox/carousel/internal/engine/window"
	"github.com/Faultbox/carousel/internal/game/carousel"
	"github.com/Faultbox/carousel/internal/game/controls"
	"github.com/Faultbox/carousel/internal/logger"
)

const (
	title         = "Carousel"
	screenshotDir = "screenshots"
)

// Game is the viewer instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	scene    *carousel.Scene
	controls *controls.Dispatcher
	fps      *stats.Counter
	lights   *lighting.LightBuffer
	shots    *screenshot.Capture

	// wantShot defers a capture until the next frame is drawn.
	wantShot bool

	items []carousel.DrawItem
	frame renderer.Frame

	// reloads delivers validated configs when the config file changes.
	reloads <-chan *config.Config

	log *zap.Logger
}

// New assembles the scene and opens the window.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("stereo", cfg.Graphics.Stereo),
	)

	settings, err := carousel.SettingsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("scene settings: %w", err)
	}
	scene, err := carousel.Build(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	g := &Game{
		config:   cfg,
		camera:   camera.NewOrbitCamera(),
		scene:    scene,
		controls: controls.New(scene.State),
		fps:      stats.NewCounter(time.Second),
		lights:   lighting.NewLightBuffer(),
		shots:    screenshot.New(screenshotDir, "carousel"),
		log:      log,
	}

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Stereo:     cfg.Graphics.Stereo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()

	for _, b := range controls.Bindings() {
		log.Debug("key binding", zap.String("key", string(b.Key)), zap.Stringer("command", b.Command))
	}
	log.Info("viewer initialized", zap.Int64("seed", scene.Seed))
	return g, nil
}

// WatchConfig applies animation changes from the config file at path
// while the viewer runs.
func (g *Game) WatchConfig(ctx context.Context, path string) error {
	ch, err := config.Watch(ctx, path, func(err error) {
		g.log.Warn("config reload rejected", zap.Error(err))
	})
	if err != nil {
		return err
	}
	g.reloads = ch
	g.log.Info("watching config", zap.String("path", path))
	return nil
}

// Run starts the main loop and returns when the window closes or ctx is
// cancelled.
func (g *Game) Run(ctx context.Context) error {
	g.running = true
	budget := stats.FrameBudget(g.config.Graphics.FPSLimit)

	g.log.Info("starting viewer loop")

	for g.running {
		start := time.Now()

		select {
		case <-ctx.Done():
			g.log.Info("viewer interrupted")
			return nil
		case cfg, ok := <-g.reloads:
			if !ok {
				g.reloads = nil
				break
			}
			if err := g.scene.ApplyAnimation(cfg.Animation); err != nil {
				g.log.Warn("animation settings rejected", zap.Error(err))
			}
		default:
		}

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		// 2. Advance the scene
		g.scene.Tick()

		// 3. Render
		g.render()

		if g.wantShot {
			g.wantShot = false
			g.capture()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		now := time.Now()
		if g.fps.Frame(now) && g.config.Graphics.ShowFPS {
			g.window.SetTitle(fmt.Sprintf("%s - %s - %.0f fps", title, g.scene.State.Material, g.fps.FPS()))
		}
		if budget > 0 {
			if spent := now.Sub(start); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
				return
			case sdl.SCANCODE_F12:
				g.wantShot = true
				continue
			}
			if event.Rune != 0 {
				g.controls.Dispatch(event.Rune)
			}
		case input.EventMouseMove:
			if g.input.ButtonDown(sdl.BUTTON_LEFT) {
				g.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			g.camera.HandleZoom(float32(event.DeltaY))
		}
	}
}

// render converts the scene into a renderer frame and draws it.
func (g *Game) render() {
	g.items = g.scene.DrawItems(g.items[:0])
	if dropped := g.scene.FillLights(g.lights); dropped > 0 {
		g.log.Debug("lights over capacity", zap.Int("dropped", dropped))
	}
	globals := g.scene.Globals()

	f := &g.frame
	f.Items = f.Items[:0]
	for _, it := range g.items {
		f.Items = append(f.Items, renderer.Item{
			Mesh:  it.Mesh,
			Model: it.Model,
			Color: it.Color,
			Sky:   it.Kind == carousel.KindSky,
		})
	}
	f.Material = int32(g.scene.State.Material)
	f.Ambient = globals.Ambient
	f.SunDir = globals.Direction
	f.SunColor = globals.DirectionalColor
	f.Lights = g.lights
	f.Projection = g.camera.Projection(g.renderer.Aspect())
	f.Eye = g.camera.Position().Array()

	f.Views = f.Views[:0]
	if g.window.Stereo() {
		f.Views = append(f.Views, g.camera.EyeView(-1), g.camera.EyeView(1))
	} else {
		f.Views = append(f.Views, g.camera.ViewMatrix())
	}

	g.renderer.Render(f)
}

func (g *Game) capture() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Save(pixels, w, h, g.scene.State.Frame)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer", zap.Uint64("frames", g.fps.Total()))

	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
