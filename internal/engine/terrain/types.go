// Package terrain builds procedural heightfield meshes from an injected noise function.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// NoiseFunc is a deterministic 2D scalar field.
type NoiseFunc func(x, y float64) float64

// Config holds the grid and height parameters for Generate.
type Config struct {
	Rows int // vertex rows along Z, at least 2
	Cols int // vertex columns along X, at least 2

	Width float32 // world extent along X
	Depth float32 // world extent along Z

	// Frequency divides the 1-based row/column before sampling noise.
	Frequency float64
	// Amplitude scales the column sample coordinate, not the sampled height.
	Amplitude float64
	// Bias is added to every sampled height.
	Bias float32
}

// DefaultConfig returns the 10x10 unit, 20x20 vertex terrain.
func DefaultConfig() Config {
	return Config{
		Rows:      20,
		Cols:      20,
		Width:     10,
		Depth:     10,
		Frequency: 13,
		Amplitude: -3,
		Bias:      0.2,
	}
}

// Terrain is the result of Generate.
type Terrain struct {
	Mesh    *mesh.Descriptor
	Heights *HeightField
	Bounds  Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
