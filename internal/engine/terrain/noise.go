package terrain

import (
	perlin "github.com/aquilax/go-perlin"
)

// Perlin parameters: alpha is the per-octave weight, beta the per-octave
// frequency multiplier, octaves the number of summed layers.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// PerlinNoise returns seeded 2D Perlin noise.
func PerlinNoise(seed int64) NoiseFunc {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
	return p.Noise2D
}

// FlatNoise is zero everywhere.
func FlatNoise(x, y float64) float64 {
	return 0
}
