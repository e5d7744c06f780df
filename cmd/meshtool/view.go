//go:build gl

package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/assets"
	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/engine/gpu"
	"github.com/Faultbox/meshforge/internal/engine/terrain"
	"github.com/Faultbox/meshforge/internal/engine/uniform"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/pkg/formats"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

const viewVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

layout(std140) uniform Matrices {
    mat4 projection;
    mat4 camera;
};

out vec3 vNormal;

void main() {
    vNormal = aNormal;
    gl_Position = projection * camera * vec4(aPosition, 1.0);
}
`

const viewFragmentShader = `#version 410 core
in vec3 vNormal;
out vec4 fragColor;

void main() {
    vec3 light = normalize(vec3(0.4, 1.0, 0.3));
    float diffuse = max(dot(normalize(vNormal), light), 0.0);
    fragColor = vec4(vec3(0.15) + vec3(0.75, 0.8, 0.7) * diffuse, 1.0);
}
`

// matricesFields is used when the config does not declare a Matrices block.
var matricesFields = []uniform.Field{
	{Name: "projection", Kind: uniform.Mat4},
	{Name: "camera", Kind: uniform.Mat4},
}

func cmdView(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	width := fs.Int("width", 1280, "Window width")
	height := fs.Int("height", 720, "Window height")
	flipV := fs.Bool("flipv", cfg.Model.FlipV, "Store texture V as 1-v")
	fs.Parse(args)

	d, title, err := viewMesh(cfg, fs.Arg(0), *flipV)
	if err != nil {
		fail(err)
	}
	if err := runViewer(cfg, d, title, *width, *height); err != nil {
		fail(err)
	}
}

// viewMesh loads the named OBJ file, or generates terrain when no file is given.
func viewMesh(cfg *config.Config, path string, flipV bool) (*mesh.Descriptor, string, error) {
	if path == "" {
		t, err := terrain.Generate(cfg.TerrainParams(), terrain.PerlinNoise(cfg.Terrain.Seed))
		if err != nil {
			return nil, "", err
		}
		return t.Mesh, fmt.Sprintf("terrain %dx%d", cfg.Terrain.Rows, cfg.Terrain.Cols), nil
	}

	m := assets.NewManager(logger.Named("assets"))
	if err := m.AddRoot(filepath.Dir(path)); err != nil {
		return nil, "", err
	}
	d, err := m.LoadMesh(filepath.Base(path), formats.OBJOptions{FlipV: flipV})
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

func runViewer(cfg *config.Config, d *mesh.Descriptor, title string, width, height int) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_Init failed: %w", err)
	}
	defer sdl.Quit()

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	window, err := sdl.CreateWindow("meshtool - "+title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		uint32(sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE))
	if err != nil {
		return fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}
	defer window.Destroy()

	glContext, err := window.GLCreateContext()
	if err != nil {
		return fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	defer sdl.GLDeleteContext(glContext)
	sdl.GLSetSwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	program, err := gpu.CompileProgram(viewVertexShader, viewFragmentShader)
	if err != nil {
		return err
	}
	defer gl.DeleteProgram(program)

	gm, err := gpu.UploadMesh(d)
	if err != nil {
		return err
	}
	defer gm.Delete()

	buffers, matrices, err := uploadBlocks(cfg, program)
	if err != nil {
		return err
	}
	defer func() {
		for _, ub := range buffers {
			ub.Delete()
		}
	}()

	center, radius := meshSphere(d)
	logger.Info("viewing",
		zap.String("mesh", title),
		zap.Int("vertices", d.VertexCount()),
		zap.Int("indices", d.IndexCount()),
		zap.Stringer("topology", d.Topology))

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.1, 0.1, 0.12, 1)

	start := time.Now()
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
			}
		}

		w, h := window.GLGetDrawableSize()
		gl.Viewport(0, 0, w, h)

		aspect := float32(w) / float32(max(h, 1))
		angle := float32(time.Since(start).Seconds()) * 0.5
		eye := center.Add(mgl32.Vec3{0, radius * 0.8, radius * 2.2})
		camera := mgl32.LookAtV(eye, center, mgl32.Vec3{0, 1, 0}).
			Mul4(mgl32.Translate3D(center[0], center[1], center[2])).
			Mul4(mgl32.HomogRotate3DY(angle)).
			Mul4(mgl32.Translate3D(-center[0], -center[1], -center[2]))

		if err := matrices.SetMat4("projection", mgl32.Perspective(mgl32.DegToRad(45), aspect, radius*0.01, radius*10)); err != nil {
			return err
		}
		if err := matrices.SetMat4("camera", camera); err != nil {
			return err
		}
		for _, ub := range buffers {
			ub.Sync()
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.UseProgram(program)
		gm.Draw()
		window.GLSwap()
	}
}

// uploadBlocks creates a uniform buffer per configured block, one binding
// point each, and returns the Matrices block the viewer drives.
func uploadBlocks(cfg *config.Config, program uint32) ([]*gpu.UniformBuffer, *uniform.Block, error) {
	r := uniform.NewRegistry(logger.Named("uniform"))
	if err := cfg.RegisterBlocks(r); err != nil {
		return nil, nil, err
	}
	matrices, err := r.Lookup("Matrices")
	if err != nil {
		if matrices, err = r.Register("Matrices", matricesFields); err != nil {
			return nil, nil, err
		}
	}

	var buffers []*gpu.UniformBuffer
	for i, name := range r.Names() {
		b, _ := r.Lookup(name)
		ub := gpu.NewUniformBuffer(b, uint32(i))
		if err := ub.Attach(program); err != nil {
			if !errors.Is(err, gpu.ErrBlockNotInProgram) {
				return nil, nil, err
			}
			logger.Debug("block unused by viewer program", zap.String("block", name))
		}
		buffers = append(buffers, ub)
	}
	return buffers, matrices, nil
}

// meshSphere returns the center of the mesh bounds and a radius enclosing them.
func meshSphere(d *mesh.Descriptor) (mgl32.Vec3, float32) {
	if d.VertexCount() == 0 {
		return mgl32.Vec3{}, 1
	}
	lo := mgl32.Vec3(d.Position(0))
	hi := lo
	for i := 1; i < d.VertexCount(); i++ {
		p := d.Position(i)
		for k := range 3 {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	radius := hi.Sub(lo).Len() / 2
	if radius == 0 {
		radius = 1
	}
	return lo.Add(hi).Mul(0.5), radius
}
