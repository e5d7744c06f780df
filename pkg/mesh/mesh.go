// Package mesh defines the indexed mesh layout shared by the mesh producers
// and the GPU upload code.
package mesh

import (
	"errors"
	"fmt"
)

// Descriptor validation errors.
var (
	ErrPositionLength = errors.New("position array length is not a multiple of 3")
	ErrNormalLength   = errors.New("normal array does not match vertex count")
	ErrUVLength       = errors.New("uv array does not match vertex count")
	ErrIndexRange     = errors.New("index out of vertex range")
)

// Topology is the primitive assembly mode of a mesh.
type Topology uint8

// Topology constants.
const (
	Triangles Topology = iota
	TriangleStrip
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "Triangles"
	case TriangleStrip:
		return "TriangleStrip"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Descriptor is a flat, indexed mesh ready for GPU upload.
// Positions and Normals hold 3 floats per vertex, UVs hold 2.
// Normals and UVs may be empty when the source has none.
type Descriptor struct {
	Indices   []uint32
	Positions []float32
	Normals   []float32
	UVs       []float32
	Topology  Topology
}

// VertexCount returns the number of unique vertices.
func (d *Descriptor) VertexCount() int {
	return len(d.Positions) / 3
}

// IndexCount returns the number of indices.
func (d *Descriptor) IndexCount() int {
	return len(d.Indices)
}

// HasNormals reports whether per-vertex normals are present.
func (d *Descriptor) HasNormals() bool {
	return len(d.Normals) > 0
}

// HasUVs reports whether per-vertex texture coordinates are present.
func (d *Descriptor) HasUVs() bool {
	return len(d.UVs) > 0
}

// Validate checks the array length and index range invariants.
func (d *Descriptor) Validate() error {
	if len(d.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d", ErrPositionLength, len(d.Positions))
	}
	n := d.VertexCount()
	if len(d.Normals) != 0 && len(d.Normals) != 3*n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrNormalLength, len(d.Normals), n)
	}
	if len(d.UVs) != 0 && len(d.UVs) != 2*n {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrUVLength, len(d.UVs), n)
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: indices[%d]=%d, vertex count %d", ErrIndexRange, i, idx, n)
		}
	}
	return nil
}

// Position returns the position of vertex i.
func (d *Descriptor) Position(i int) [3]float32 {
	return [3]float32{d.Positions[i*3], d.Positions[i*3+1], d.Positions[i*3+2]}
}

// Normal returns the normal of vertex i, or zero when normals are absent.
func (d *Descriptor) Normal(i int) [3]float32 {
	if !d.HasNormals() {
		return [3]float32{}
	}
	return [3]float32{d.Normals[i*3], d.Normals[i*3+1], d.Normals[i*3+2]}
}

// UV returns the texture coordinate of vertex i, or zero when uvs are absent.
func (d *Descriptor) UV(i int) [2]float32 {
	if !d.HasUVs() {
		return [2]float32{}
	}
	return [2]float32{d.UVs[i*2], d.UVs[i*2+1]}
}
