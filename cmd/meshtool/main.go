// meshtool is a CLI utility for inspecting meshes, terrain and uniform block layouts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/assets"
	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/engine/terrain"
	"github.com/Faultbox/meshforge/internal/engine/uniform"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/pkg/formats"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "obj":
		cmdOBJ(cfg, args)
	case "terrain":
		cmdTerrain(cfg, args)
	case "layout":
		cmdLayout(cfg, args)
	case "watch":
		cmdWatch(cfg, args)
	case "view":
		cmdView(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshtool - mesh, terrain and uniform layout utility

Usage:
  meshtool [global options] <command> [options]

Global options:
  -config <file>   Config file (.yaml or .toml)
  -debug           Enable debug logging
  -log <file>      Also write logs to a rotating file
  -seed <n>        Terrain noise seed
  -no-flip-v       Keep OBJ texture V as stored

Commands:
  obj <file.obj>           Parse an OBJ file and show vertex statistics
  terrain                  Generate terrain and show its statistics
  layout [block]           Show the byte layout of configured uniform blocks
  watch                    Reload models from search paths when they change
  view [file.obj]          Render a model, or terrain, in a window (build with -tags gl)

Examples:
  meshtool obj models/cube.obj
  meshtool terrain -rows 64 -cols 64
  meshtool -config blocks.toml layout Lights`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdOBJ(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("obj", flag.ExitOnError)
	flipV := fs.Bool("flipv", cfg.Model.FlipV, "Store texture V as 1-v")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshtool obj [-flipv=false] <file.obj>")
		os.Exit(1)
	}

	path := fs.Arg(0)
	m := assets.NewManager(logger.Named("assets"))
	if err := m.AddRoot(filepath.Dir(path)); err != nil {
		fail(err)
	}

	d, err := m.LoadMesh(filepath.Base(path), formats.OBJOptions{FlipV: *flipV})
	if err != nil {
		fail(err)
	}

	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Vertices:  %d\n", d.VertexCount())
	fmt.Printf("Indices:   %d\n", d.IndexCount())
	fmt.Printf("Triangles: %d\n", d.IndexCount()/3)
	fmt.Printf("Topology:  %s\n", d.Topology)
	fmt.Printf("Normals:   %v\n", d.HasNormals())
	fmt.Printf("UVs:       %v (flip v: %v)\n", d.HasUVs(), *flipV)
}

func cmdTerrain(cfg *config.Config, args []string) {
	params := cfg.TerrainParams()

	fs := flag.NewFlagSet("terrain", flag.ExitOnError)
	fs.IntVar(&params.Rows, "rows", params.Rows, "Grid rows")
	fs.IntVar(&params.Cols, "cols", params.Cols, "Grid columns")
	fs.Float64Var(&params.Frequency, "freq", params.Frequency, "Noise frequency divisor")
	fs.Float64Var(&params.Amplitude, "amp", params.Amplitude, "Noise amplitude")
	seed := fs.Int64("seed", cfg.Terrain.Seed, "Noise seed")
	flat := fs.Bool("flat", false, "Use flat noise")
	fs.Parse(args)

	noise := terrain.PerlinNoise(*seed)
	if *flat {
		noise = terrain.FlatNoise
	}

	t, err := terrain.Generate(params, noise)
	if err != nil {
		fail(err)
	}
	lo, hi := t.Heights.Range()

	logger.Debug("terrain generated",
		zap.Int("rows", params.Rows),
		zap.Int("cols", params.Cols),
		zap.Int64("seed", *seed))

	fmt.Printf("Grid:      %d x %d\n", params.Rows, params.Cols)
	fmt.Printf("Vertices:  %d\n", t.Mesh.VertexCount())
	fmt.Printf("Indices:   %d (%s)\n", t.Mesh.IndexCount(), t.Mesh.Topology)
	fmt.Printf("Heights:   %.4f .. %.4f\n", lo, hi)
	fmt.Printf("Bounds:    min %v max %v\n", t.Bounds.Min, t.Bounds.Max)
	fmt.Printf("Center:    %v\n", t.Bounds.Center())
}

func cmdLayout(cfg *config.Config, args []string) {
	r := uniform.NewRegistry(logger.Named("uniform"))
	if err := cfg.RegisterBlocks(r); err != nil {
		fail(err)
	}

	names := r.Names()
	if len(args) > 0 {
		names = args
	}

	for i, name := range names {
		b, err := r.Lookup(name)
		if err != nil {
			fail(err)
		}
		if i > 0 {
			fmt.Println()
		}
		printLayout(b)
	}
}

func printLayout(b *uniform.Block) {
	p := b.Plan()
	fmt.Printf("Block %s (%d bytes)\n", b.Name, p.TotalSize())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  FIELD\tTYPE\tOFFSET\tSIZE\tCHUNK")
	for _, pl := range p.Placements() {
		kind := pl.Kind.String()
		if pl.ArrayLength > 0 {
			kind = fmt.Sprintf("%s[%d]", kind, pl.ArrayLength)
		}
		fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%d\n", pl.Name, kind, pl.Offset, pl.Size(), pl.ChunkLength)
	}
	w.Flush()
}

func cmdWatch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	m := assets.NewManager(logger.Named("assets"))
	for _, dir := range cfg.Model.SearchPaths {
		if err := m.AddRoot(dir); err != nil {
			fail(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	changed := make(chan string, 16)
	go func() {
		for name := range changed {
			if filepath.Ext(name) != ".obj" {
				continue
			}
			d, err := m.LoadMesh(name, formats.OBJOptions{FlipV: cfg.Model.FlipV})
			if err != nil {
				logger.Warn("reload failed", zap.String("name", name), zap.Error(err))
				continue
			}
			logger.Info("reloaded",
				zap.String("name", name),
				zap.Int("vertices", d.VertexCount()),
				zap.Int("indices", d.IndexCount()))
		}
	}()

	logger.Info("watching", zap.Strings("roots", m.Roots()))
	err := m.Watch(ctx, changed)
	close(changed)
	if err != nil {
		fail(err)
	}
}
