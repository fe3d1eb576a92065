package camera

import (
	"testing"

	"github.com/chewxy/math32"
)

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestDefaultPosition(t *testing.T) {
	c := NewOrbitCamera()
	p := c.Position()
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, 10) {
		t.Errorf("Position() = %+v, want (0, 0, 10)", p)
	}
}

func TestViewMatrixMapsCenterAhead(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(120, -80)

	// The orbit center sits straight down the view axis at Distance.
	v := c.ViewMatrix().TransformPoint(c.Center.Array())
	if !near(v[0], 0) || !near(v[1], 0) || !near(v[2], -c.Distance) {
		t.Errorf("center in view space = %v, want (0, 0, %v)", v, -c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 10000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("pitch = %v, want clamp to %v", c.RotationX, c.MaxPitch)
	}
	c.HandleDrag(0, -20000)
	if c.RotationX != c.MinPitch {
		t.Errorf("pitch = %v, want clamp to %v", c.RotationX, c.MinPitch)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleZoom(1)
	if !near(c.Distance, 9) {
		t.Errorf("distance after one zoom step = %v, want 9", c.Distance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want clamp to %v", c.Distance, c.MinDistance)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %v, want clamp to %v", c.Distance, c.MaxDistance)
	}
}

func TestEyeViewsSeparate(t *testing.T) {
	c := NewOrbitCamera()
	left := c.EyeView(-1).TransformPoint(c.Center.Array())
	right := c.EyeView(1).TransformPoint(c.Center.Array())
	if !near(right[0]-left[0], -c.EyeSpacing) {
		t.Errorf("eye separation in view space = %v, want %v", right[0]-left[0], -c.EyeSpacing)
	}
}
