// carouseltool is a CLI utility for inspecting and exporting carousel scenes
// without opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/carousel/internal/config"
	"github.com/Faultbox/carousel/internal/engine/mesh"
	"github.com/Faultbox/carousel/internal/export"
	"github.com/Faultbox/carousel/internal/game/carousel"
	"github.com/Faultbox/carousel/internal/game/controls"
	"github.com/Faultbox/carousel/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Scene assembly logs through zap; keep the tool quiet unless something goes wrong.
	if err := logger.Init("warn", ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "shapes", "ls":
		cmdShapes(args)
	case "inspect":
		cmdInspect(args)
	case "simulate", "sim":
		cmdSimulate(args)
	case "export", "stl":
		cmdExport(args)
	case "config":
		cmdConfig(args)
	case "keys":
		cmdKeys(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`carouseltool - carousel scene utility

Usage:
  carouseltool <command> [options]

Commands:
  shapes                                  List decoration shapes
  inspect [-u N -v N] <shape>             Build one shape and show mesh stats
  simulate [-config F -frames N -keys K]  Run the update rule and print ring state
  export [-config F -frames N] <out.stl>  Write the scene (or -shape) as binary STL
  config [-toml] [path]                   Print or write the default config
  keys                                    List key bindings

Examples:
  carouseltool inspect -u 64 torusknot
  carouseltool simulate -frames 120 -every 30 -keys 1t
  carouseltool export -seed 42 scene.stl
  carouseltool config -toml carousel.toml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdShapes(args []string) {
	fs := flag.NewFlagSet("shapes", flag.ExitOnError)
	fs.Parse(args)

	fmt.Printf("%-12s %8s %8s %6s\n", "SHAPE", "VERTICES", "TRIS", "GRID")
	for _, s := range mesh.Shapes() {
		spec, _ := mesh.Lookup(s)
		m, err := mesh.BuildShape(s)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%-12s %8d %8d %3dx%-3d\n", s, m.VertexCount(), m.TriangleCount(), spec.SegU, spec.SegV)
	}
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	segU := fs.Int("u", 0, "Segments along u (0 = shape default)")
	segV := fs.Int("v", 0, "Segments along v (0 = shape default)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carouseltool inspect [-u N -v N] <shape>")
		os.Exit(1)
	}

	shape, err := mesh.ParseShape(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	spec, _ := mesh.Lookup(shape)
	u, v := spec.SegU, spec.SegV
	if *segU > 0 {
		u = *segU
	}
	if *segV > 0 {
		v = *segV
	}

	m, err := mesh.BuildShapeWith(shape, u, v)
	if err != nil {
		fail(err)
	}
	if err := m.Validate(); err != nil {
		fail(err)
	}

	size := m.Bounds.Size()
	fmt.Printf("Shape:     %s\n", shape)
	fmt.Printf("Grid:      %d x %d\n", u, v)
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Scale:     %.2f\n", spec.Scale)
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		m.Bounds.Min[0], m.Bounds.Min[1], m.Bounds.Min[2],
		m.Bounds.Max[0], m.Bounds.Max[1], m.Bounds.Max[2])
	fmt.Printf("Size:      %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
}

// sceneFlags are shared by commands that assemble a scene.
type sceneFlags struct {
	config *string
	seed   *int64
	frames *int
	keys   *string
}

func addSceneFlags(fs *flag.FlagSet) sceneFlags {
	return sceneFlags{
		config: fs.String("config", "", "Config file (default: built-in defaults)"),
		seed:   fs.Int64("seed", 1, "Shape shuffle seed (0 = random)"),
		frames: fs.Int("frames", 0, "Frames to advance before output"),
		keys:   fs.String("keys", "", "Key presses applied before the first frame"),
	}
}

// build assembles a scene, applies keys and advances it.
func (f sceneFlags) build() (*carousel.Scene, error) {
	cfg := config.Default()
	if *f.config != "" {
		loaded, err := config.LoadFile(*f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Scene.Seed = *f.seed

	settings, err := carousel.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	scene, err := carousel.Build(settings)
	if err != nil {
		return nil, err
	}

	d := controls.New(scene.State)
	for _, k := range *f.keys {
		if !d.Dispatch(k) {
			return nil, fmt.Errorf("unbound key %q", k)
		}
	}
	for i := 0; i < *f.frames; i++ {
		scene.Tick()
	}
	return scene, nil
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	sf := addSceneFlags(fs)
	every := fs.Int("every", 0, "Print ring state every N frames (0 = only at the end)")
	fs.Parse(args)

	frames := *sf.frames
	*sf.frames = 0
	scene, err := sf.build()
	if err != nil {
		fail(err)
	}

	fmt.Printf("Seed: %d  Material: %s  Reflect: %s\n", scene.Seed, scene.State.Material, scene.State.Reflect)
	for _, r := range scene.State.Rings {
		names := make([]string, len(r.Decorations))
		for i, d := range r.Decorations {
			names[i] = string(d.Shape)
		}
		fmt.Printf("Ring %d: %s\n", r.Index+1, strings.Join(names, " "))
	}

	printRings(os.Stdout, scene)
	for i := 1; i <= frames; i++ {
		scene.Tick()
		if (*every > 0 && i%*every == 0) || i == frames {
			printRings(os.Stdout, scene)
		}
	}
}

func printRings(w io.Writer, scene *carousel.Scene) {
	fmt.Fprintf(w, "frame %5d", scene.State.Frame)
	for _, r := range scene.State.Rings {
		fmt.Fprintf(w, "  | ring %d pos %+.3f dir %+.0f angle %+.3f", r.Index+1, r.Position, r.Direction, r.Angle)
	}
	fmt.Fprintln(w)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	sf := addSceneFlags(fs)
	shape := fs.String("shape", "", "Export a single shape instead of the scene")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carouseltool export [-config F -seed N -frames N | -shape S] <out.stl>")
		os.Exit(1)
	}
	out := fs.Arg(0)

	var (
		n   int
		err error
	)
	if *shape != "" {
		s, perr := mesh.ParseShape(*shape)
		if perr != nil {
			fail(perr)
		}
		m, berr := mesh.BuildShape(s)
		if berr != nil {
			fail(berr)
		}
		n, err = export.WriteMesh(out, m)
	} else {
		scene, berr := sf.build()
		if berr != nil {
			fail(berr)
		}
		n, err = export.WriteScene(out, scene)
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %d triangles to %s\n", n, out)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	asTOML := fs.Bool("toml", false, "Print TOML instead of YAML")
	fs.Parse(args)

	cfg := config.Default()
	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if err := cfg.SaveTo(path); err != nil {
			fail(err)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	data, err := cfg.Marshal(*asTOML)
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}

func cmdKeys(args []string) {
	fs := flag.NewFlagSet("keys", flag.ExitOnError)
	fs.Parse(args)

	for _, b := range controls.Bindings() {
		fmt.Printf("  %c  %s\n", b.Key, b.Command)
	}
}
