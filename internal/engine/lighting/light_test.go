package lighting

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/carousel/pkg/math"
)

func TestFromHex(t *testing.T) {
	got := FromHex(0xffa500)
	want := [3]float32{1, 165.0 / 255.0, 0}
	for i := range want {
		if math32.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("FromHex(0xffa500)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{Ambient, "ambient"},
		{Directional, "directional"},
		{Point, "point"},
		{Spot, "spot"},
		{Category(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestResolvePointLight(t *testing.T) {
	l := Light{Category: Point, Color: [3]float32{1, 1, 1}, Intensity: 2, Position: [3]float32{1, 0, 0}, Range: 5}
	out := Resolve(l, math.Translate(0, 3, 0))

	if out.Position != [3]float32{1, 3, 0} {
		t.Errorf("position = %v, want [1 3 0]", out.Position)
	}
	if out.Cutoff != -1 {
		t.Errorf("point light cutoff = %v, want -1", out.Cutoff)
	}
	if out.Direction != [3]float32{} {
		t.Errorf("point light direction = %v, want zero", out.Direction)
	}
}

func TestResolveSpotLightFollowsOwner(t *testing.T) {
	l := Light{
		Category: Spot,
		Position: [3]float32{0, 0, -1},
		Target:   [3]float32{0, 0, 0},
		Angle:    math32.Pi / 6,
	}
	// Tilting -90 degrees about X maps local +Z to world +Y.
	world := math.Translate(0, 2, 0).Mul(math.RotateX(-math32.Pi / 2))
	out := Resolve(l, world)

	wantPos := [3]float32{0, 1, 0}
	for i := range wantPos {
		if math32.Abs(out.Position[i]-wantPos[i]) > 1e-5 {
			t.Fatalf("position = %v, want %v", out.Position, wantPos)
		}
	}
	if math32.Abs(out.Direction[1]-1) > 1e-5 {
		t.Errorf("spot axis = %v, want +Y", out.Direction)
	}
	if math32.Abs(out.Cutoff-math32.Cos(math32.Pi/6)) > 1e-6 {
		t.Errorf("cutoff = %v, want cos(30deg)", out.Cutoff)
	}
}

func TestLightBufferCapacity(t *testing.T) {
	b := NewLightBuffer()
	for i := 0; i < MaxLocalLights; i++ {
		if !b.AddLight(LocalLight{Intensity: 1}) {
			t.Fatalf("AddLight %d rejected before buffer was full", i)
		}
	}
	if b.AddLight(LocalLight{}) {
		t.Error("AddLight accepted a light past MaxLocalLights")
	}
	if b.Count != MaxLocalLights {
		t.Errorf("Count = %d, want %d", b.Count, MaxLocalLights)
	}

	b.Clear()
	if b.Count != 0 || len(b.Lights) != 0 {
		t.Errorf("Clear left %d lights", b.Count)
	}
}

func TestLightBufferUploadLayout(t *testing.T) {
	b := NewLightBuffer()
	b.AddLight(LocalLight{Position: [3]float32{1, 2, 3}, Color: [3]float32{1, 0.5, 0}, Intensity: 2, Range: 7, Cutoff: 0.5})

	pos := b.GetPositions()
	if len(pos) != MaxLocalLights*3 {
		t.Fatalf("len(positions) = %d, want %d", len(pos), MaxLocalLights*3)
	}
	if pos[0] != 1 || pos[1] != 2 || pos[2] != 3 {
		t.Errorf("positions[0:3] = %v", pos[:3])
	}

	col := b.GetColors()
	if col[0] != 2 || col[1] != 1 || col[2] != 0 {
		t.Errorf("colors are not intensity weighted: %v", col[:3])
	}

	if r := b.GetRanges(); r[0] != 7 {
		t.Errorf("ranges[0] = %v, want 7", r[0])
	}

	cut := b.GetCutoffs()
	if cut[0] != 0.5 {
		t.Errorf("cutoffs[0] = %v, want 0.5", cut[0])
	}
	if cut[1] != -1 {
		t.Errorf("unused cutoff slot = %v, want -1", cut[1])
	}
}
