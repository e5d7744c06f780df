package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeightFieldAt(t *testing.T) {
	hf := &HeightField{
		Rows:    2,
		Cols:    3,
		Heights: []float32{1, 2, 3, 4, 5, 6},
	}

	tests := []struct {
		row, col int
		want     float32
	}{
		{0, 0, 1},
		{1, 2, 6},
		{-1, 1, 2},
		{0, -4, 1},
		{5, 1, 5},
		{1, 9, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hf.At(tt.row, tt.col), "At(%d, %d)", tt.row, tt.col)
	}
}

func TestHeightFieldRange(t *testing.T) {
	hf := &HeightField{Rows: 2, Cols: 2, Heights: []float32{0.5, -2, 3, 1}}
	lo, hi := hf.Range()
	assert.Equal(t, float32(-2), lo)
	assert.Equal(t, float32(3), hi)

	lo, hi = (&HeightField{}).Range()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}

func TestPerlinNoiseBounded(t *testing.T) {
	noise := PerlinNoise(1)
	for i := range 50 {
		v := noise(float64(i)/13, float64(i)/13*-3)
		assert.InDelta(t, 0, v, 2, "noise(%d)", i)
	}
}
