package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// Terrain configuration errors.
var (
	ErrInvalidDimensions = errors.New("terrain needs at least 2 rows and 2 columns")
	ErrInvalidFrequency  = errors.New("terrain frequency must be non-zero")
	ErrNilNoise          = errors.New("terrain noise function is nil")
	ErrTooManyVertices   = errors.New("terrain vertex count exceeds 32-bit indices")
)

// ConfigError reports an invalid terrain configuration.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("terrain config %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Validate checks the configuration before anything is allocated.
func (c Config) Validate() error {
	if c.Rows < 2 {
		return &ConfigError{Field: "rows", Value: c.Rows, Err: ErrInvalidDimensions}
	}
	if c.Cols < 2 {
		return &ConfigError{Field: "cols", Value: c.Cols, Err: ErrInvalidDimensions}
	}
	if uint64(c.Rows) > math.MaxUint32/uint64(c.Cols) {
		return &ConfigError{Field: "rows*cols", Value: fmt.Sprintf("%dx%d", c.Rows, c.Cols), Err: ErrTooManyVertices}
	}
	if c.Frequency == 0 {
		return &ConfigError{Field: "frequency", Value: c.Frequency, Err: ErrInvalidFrequency}
	}
	return nil
}

// IndexCount returns the strip length for the configured grid,
// including one degenerate pair per internal row boundary.
func (c Config) IndexCount() int {
	return (c.Rows-1)*c.Cols*2 + 2*(c.Rows-2)
}

// Generate builds a terrain mesh drawn as a single triangle strip.
// Rows run along Z and columns along X, centered on the origin.
func Generate(cfg Config, noise NoiseFunc) (*Terrain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		return nil, ErrNilNoise
	}

	heights := newHeightField(cfg, noise)
	positions, bounds := buildPositions(cfg, heights)

	return &Terrain{
		Mesh: &mesh.Descriptor{
			Indices:   buildStripIndices(cfg.Rows, cfg.Cols),
			Positions: positions,
			Normals:   buildNormals(heights),
			UVs:       buildUVs(cfg.Rows, cfg.Cols),
			Topology:  mesh.TriangleStrip,
		},
		Heights: heights,
		Bounds:  bounds,
	}, nil
}

// buildPositions lays vertices out row-major with heights from the field.
func buildPositions(cfg Config, heights *HeightField) ([]float32, Bounds) {
	startX := cfg.Width / -2
	startZ := cfg.Depth / -2
	incX := cfg.Width / float32(cfg.Cols-1)
	incZ := cfg.Depth / float32(cfg.Rows-1)

	bounds := Bounds{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}

	positions := make([]float32, 0, cfg.Rows*cfg.Cols*3)
	for row := range cfg.Rows {
		for col := range cfg.Cols {
			p := mgl32.Vec3{
				startX + float32(col)*incX,
				heights.At(row, col),
				startZ + float32(row)*incZ,
			}
			positions = append(positions, p[0], p[1], p[2])
			updateBounds(&bounds, p)
		}
	}
	return positions, bounds
}

// buildUVs spreads [0,1] over the grid. The last row and column are pinned
// to exactly 1 so accumulated float error never leaves a seam.
func buildUVs(rows, cols int) []float32 {
	incU := 1 / float32(cols-1)
	incV := 1 / float32(rows-1)

	uvs := make([]float32, 0, rows*cols*2)
	for row := range rows {
		for col := range cols {
			u := float32(col) * incU
			if col == cols-1 {
				u = 1
			}
			v := float32(row) * incV
			if row == rows-1 {
				v = 1
			}
			uvs = append(uvs, u, v)
		}
	}
	return uvs
}

// buildStripIndices zigzags between each row pair. Between row pairs it
// repeats the last index and the first index of the next row, producing
// zero-area triangles that let one strip cover the whole grid.
func buildStripIndices(rows, cols int) []uint32 {
	indices := make([]uint32, 0, (rows-1)*cols*2+2*(rows-2))
	for row := range rows - 1 {
		top := uint32(row * cols)
		bottom := uint32((row + 1) * cols)
		for col := range uint32(cols) {
			indices = append(indices, top+col, bottom+col)
		}
		if row < rows-2 {
			indices = append(indices, bottom+uint32(cols-1), bottom)
		}
	}
	return indices
}

// buildNormals estimates per-vertex normals with central differences.
// Neighbours outside the grid read the vertex's own height. The Y term of 2
// assumes unit spacing between the two samples on each axis.
func buildNormals(h *HeightField) []float32 {
	normals := make([]float32, 0, h.Rows*h.Cols*3)
	for row := range h.Rows {
		for col := range h.Cols {
			n := surfaceNormal(h, row, col)
			normals = append(normals, n[0], n[1], n[2])
		}
	}
	return normals
}

func surfaceNormal(h *HeightField, row, col int) mgl32.Vec3 {
	hl := h.At(row, col-1)
	hr := h.At(row, col+1)
	hu := h.At(row-1, col)
	hd := h.At(row+1, col)

	n := mgl32.Vec3{hl - hr, 2.0, hd - hu}
	l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	return n.Mul(1 / l)
}

// NormalLines returns line segment endpoints from each vertex along its
// normal, for debug drawing. Each vertex contributes 6 floats.
func (t *Terrain) NormalLines(length float32) []float32 {
	d := t.Mesh
	n := d.VertexCount()
	lines := make([]float32, 0, n*6)
	for i := range n {
		p := mgl32.Vec3(d.Position(i))
		q := p.Add(mgl32.Vec3(d.Normal(i)).Mul(length))
		lines = append(lines, p[0], p[1], p[2], q[0], q[1], q[2])
	}
	return lines
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := range 3 {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}
