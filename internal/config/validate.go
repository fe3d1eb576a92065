package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/carousel/internal/logger"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first setting that cannot produce a scene.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Scene.Rings <= 0:
		return fmt.Errorf("%w: scene.rings must be positive, got %d", ErrInvalid, c.Scene.Rings)
	case c.Scene.InnerRadius <= 0 || c.Scene.Width <= 0:
		return fmt.Errorf("%w: ring radius %v and width %v must be positive", ErrInvalid, c.Scene.InnerRadius, c.Scene.Width)
	case c.Scene.Spacing < c.Scene.Width:
		return fmt.Errorf("%w: scene.spacing %v overlaps rings of width %v", ErrInvalid, c.Scene.Spacing, c.Scene.Width)
	case c.Scene.Decorations <= 0:
		return fmt.Errorf("%w: scene.decorations must be positive, got %d", ErrInvalid, c.Scene.Decorations)
	case len(c.Scene.Shapes) == 0:
		return fmt.Errorf("%w: scene.shapes is empty", ErrInvalid)
	case c.Scene.RibbonLights < 0:
		return fmt.Errorf("%w: scene.ribbon_lights is negative", ErrInvalid)
	case c.Animation.Min >= c.Animation.Max:
		return fmt.Errorf("%w: animation bounds [%v, %v]", ErrInvalid, c.Animation.Min, c.Animation.Max)
	case c.Animation.MoveSpeed < 0:
		return fmt.Errorf("%w: animation.move_speed is negative", ErrInvalid)
	case len(c.Animation.RotationSpeeds) == 0:
		return fmt.Errorf("%w: animation.rotation_speeds is empty", ErrInvalid)
	case c.Lights.SpotAngle <= 0 || c.Lights.SpotAngle >= 90:
		return fmt.Errorf("%w: lights.spot_angle %v outside (0, 90)", ErrInvalid, c.Lights.SpotAngle)
	case c.Logging.LogFile != "" && c.Logging.MaxSizeMB <= 0:
		return fmt.Errorf("%w: logging.max_size_mb must be positive, got %d", ErrInvalid, c.Logging.MaxSizeMB)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}

	switch c.Animation.Reflect {
	case ReflectOvershoot, ReflectExact:
	default:
		return fmt.Errorf("%w: unknown reflect mode %q", ErrInvalid, c.Animation.Reflect)
	}
	return nil
}
