package mesh

import (
	"errors"
	"testing"
)

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want error
	}{
		{
			name: "valid with all attributes",
			d: Descriptor{
				Indices:   []uint32{0, 1, 2},
				Positions: make([]float32, 9),
				Normals:   make([]float32, 9),
				UVs:       make([]float32, 6),
			},
		},
		{
			name: "valid without normals and uvs",
			d: Descriptor{
				Indices:   []uint32{0, 1, 2},
				Positions: make([]float32, 9),
			},
		},
		{
			name: "ragged positions",
			d:    Descriptor{Positions: make([]float32, 7)},
			want: ErrPositionLength,
		},
		{
			name: "short normals",
			d:    Descriptor{Positions: make([]float32, 9), Normals: make([]float32, 6)},
			want: ErrNormalLength,
		},
		{
			name: "short uvs",
			d:    Descriptor{Positions: make([]float32, 9), UVs: make([]float32, 2)},
			want: ErrUVLength,
		},
		{
			name: "index out of range",
			d:    Descriptor{Indices: []uint32{0, 3}, Positions: make([]float32, 9)},
			want: ErrIndexRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescriptorAccessors(t *testing.T) {
	d := Descriptor{
		Indices:   []uint32{0, 1},
		Positions: []float32{1, 2, 3, 4, 5, 6},
		UVs:       []float32{0.5, 0.25, 1, 0},
	}

	if d.VertexCount() != 2 {
		t.Errorf("VertexCount() = %d, want 2", d.VertexCount())
	}
	if d.IndexCount() != 2 {
		t.Errorf("IndexCount() = %d, want 2", d.IndexCount())
	}
	if got := d.Position(1); got != [3]float32{4, 5, 6} {
		t.Errorf("Position(1) = %v", got)
	}
	if got := d.UV(0); got != [2]float32{0.5, 0.25} {
		t.Errorf("UV(0) = %v", got)
	}
	if d.HasNormals() {
		t.Error("expected HasNormals to be false")
	}
	if got := d.Normal(0); got != [3]float32{} {
		t.Errorf("Normal(0) = %v, want zero", got)
	}
}

func TestTopologyString(t *testing.T) {
	if Triangles.String() != "Triangles" {
		t.Errorf("got %s", Triangles)
	}
	if TriangleStrip.String() != "TriangleStrip" {
		t.Errorf("got %s", TriangleStrip)
	}
	if Topology(9).String() != "Unknown(9)" {
		t.Errorf("got %s", Topology(9))
	}
}
