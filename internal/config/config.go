// Package config handles carousel configuration loading and management.
package config

import (
	"io"

	"github.com/Faultbox/carousel/internal/logger"
)

// Reflect modes for the ring oscillation.
const (
	ReflectOvershoot = "overshoot"
	ReflectExact     = "exact"
)

// Config holds all carousel settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics" toml:"graphics"`
	Scene     SceneConfig     `yaml:"scene" toml:"scene"`
	Lights    LightsConfig    `yaml:"lights" toml:"lights"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width" toml:"width"`
	Height     int  `yaml:"height" toml:"height"`
	Fullscreen bool `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool `yaml:"vsync" toml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit" toml:"fps_limit"`
	Stereo     bool `yaml:"stereo" toml:"stereo"`
	ShowFPS    bool `yaml:"show_fps" toml:"show_fps"`
}

// SceneConfig holds the layout of the rings and their decorations.
type SceneConfig struct {
	Rings       int     `yaml:"rings" toml:"rings"`
	InnerRadius float32 `yaml:"inner_radius" toml:"inner_radius"` // innermost ring
	Width       float32 `yaml:"width" toml:"width"`               // outer minus inner radius
	Spacing     float32 `yaml:"spacing" toml:"spacing"`           // radius step between rings
	BaseY       float32 `yaml:"base_y" toml:"base_y"`
	StackStep   float32 `yaml:"stack_step" toml:"stack_step"` // height step between rings

	Decorations int      `yaml:"decorations" toml:"decorations"` // per ring
	Shapes      []string `yaml:"shapes" toml:"shapes"`
	RandomTilt  bool     `yaml:"random_tilt" toml:"random_tilt"`
	Seed        int64    `yaml:"seed" toml:"seed"` // 0 picks a time-based seed

	RibbonLights int `yaml:"ribbon_lights" toml:"ribbon_lights"`
}

// LightsConfig holds colours (0xRRGGBB) and intensities per light category.
type LightsConfig struct {
	AmbientColor     uint32  `yaml:"ambient_color" toml:"ambient_color"`
	AmbientIntensity float32 `yaml:"ambient_intensity" toml:"ambient_intensity"`

	DirectionalColor     uint32     `yaml:"directional_color" toml:"directional_color"`
	DirectionalIntensity float32    `yaml:"directional_intensity" toml:"directional_intensity"`
	DirectionalPosition  [3]float32 `yaml:"directional_position" toml:"directional_position"`

	PointColor     uint32  `yaml:"point_color" toml:"point_color"`
	PointIntensity float32 `yaml:"point_intensity" toml:"point_intensity"`
	PointRange     float32 `yaml:"point_range" toml:"point_range"`

	SpotColor     uint32  `yaml:"spot_color" toml:"spot_color"`
	SpotIntensity float32 `yaml:"spot_intensity" toml:"spot_intensity"`
	SpotRange     float32 `yaml:"spot_range" toml:"spot_range"`
	SpotAngle     float32 `yaml:"spot_angle" toml:"spot_angle"` // half-angle in degrees
}

// AnimationConfig holds the per-frame motion settings.
type AnimationConfig struct {
	MoveSpeed      float32   `yaml:"move_speed" toml:"move_speed"`
	RotationSpeeds []float32 `yaml:"rotation_speeds" toml:"rotation_speeds"` // per ring, cycled
	Min            float32   `yaml:"min" toml:"min"`
	Max            float32   `yaml:"max" toml:"max"`
	Reflect        string    `yaml:"reflect" toml:"reflect"`
	StartMoving    bool      `yaml:"start_moving" toml:"start_moving"`
	RibbonSpeed    float32   `yaml:"ribbon_speed" toml:"ribbon_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`

	// Rotation of LogFile.
	MaxSizeMB  int  `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool `yaml:"compress" toml:"compress"`
}

// Options converts the section into logger options writing to console.
func (l LoggingConfig) Options(console io.Writer) logger.Options {
	opts := logger.Options{Level: l.Level, Console: console}
	if l.LogFile != "" {
		opts.File = logger.FileConfig{
			Path:       l.LogFile,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		}
	}
	return opts
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Stereo:     false,
			ShowFPS:    true,
		},
		Scene: SceneConfig{
			Rings:        3,
			InnerRadius:  2,
			Width:        0.5,
			Spacing:      2,
			BaseY:        -1,
			StackStep:    0.5,
			Decorations:  8,
			Shapes:       []string{"wave", "sphere", "ellipsoid", "torus", "torusknot", "mobius", "klein", "cone"},
			RandomTilt:   true,
			Seed:         0,
			RibbonLights: 4,
		},
		Lights: LightsConfig{
			AmbientColor:         0xffa500,
			AmbientIntensity:     0.2,
			DirectionalColor:     0xffffff,
			DirectionalIntensity: 1,
			DirectionalPosition:  [3]float32{1, 1, 1},
			PointColor:           0x00ffff,
			PointIntensity:       1,
			PointRange:           6,
			SpotColor:            0xffffff,
			SpotIntensity:        1.5,
			SpotRange:            3,
			SpotAngle:            30,
		},
		Animation: AnimationConfig{
			MoveSpeed:      0.02,
			RotationSpeeds: []float32{0.01, -0.015, 0.02},
			Min:            -1,
			Max:            1,
			Reflect:        ReflectOvershoot,
			StartMoving:    true,
			RibbonSpeed:    0.005,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
