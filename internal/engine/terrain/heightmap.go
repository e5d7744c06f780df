package terrain

// HeightField is a row-major grid of sampled heights.
type HeightField struct {
	Rows    int
	Cols    int
	Heights []float32
}

// newHeightField samples noise over a rows x cols grid.
func newHeightField(cfg Config, noise NoiseFunc) *HeightField {
	hf := &HeightField{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Heights: make([]float32, cfg.Rows*cfg.Cols),
	}
	for row := range cfg.Rows {
		for col := range cfg.Cols {
			x := float64(row+1) / cfg.Frequency
			y := float64(col+1) / cfg.Frequency * cfg.Amplitude
			hf.Heights[row*cfg.Cols+col] = cfg.Bias + float32(noise(x, y))
		}
	}
	return hf
}

// At returns the height at (row, col), clamping coordinates to the grid.
func (h *HeightField) At(row, col int) float32 {
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if row >= h.Rows {
		row = h.Rows - 1
	}
	if col >= h.Cols {
		col = h.Cols - 1
	}
	return h.Heights[row*h.Cols+col]
}

// Range returns the minimum and maximum height.
func (h *HeightField) Range() (min, max float32) {
	if len(h.Heights) == 0 {
		return 0, 0
	}
	min, max = h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
