package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrEmptyMesh is returned when uploading a mesh without vertices or indices.
var ErrEmptyMesh = errors.New("mesh has no vertices or indices")

// Attribute locations used by the vertex layout.
const (
	LocPosition = 0
	LocNormal   = 1
	LocUV       = 2
)

// Attrib describes one interleaved vertex attribute.
type Attrib struct {
	Location   uint32
	Components int32
	Offset     uintptr // bytes from the start of a vertex
}

// Layout describes an interleaved vertex buffer.
type Layout struct {
	Stride  int32 // bytes per vertex
	Attribs []Attrib
}

// Interleave packs a descriptor's attributes into one vertex stream:
// position, then normal and uv when present.
func Interleave(d *mesh.Descriptor) ([]float32, Layout) {
	layout := Layout{Attribs: []Attrib{{Location: LocPosition, Components: 3}}}
	floats := int32(3)
	if d.HasNormals() {
		layout.Attribs = append(layout.Attribs, Attrib{Location: LocNormal, Components: 3, Offset: uintptr(floats * 4)})
		floats += 3
	}
	if d.HasUVs() {
		layout.Attribs = append(layout.Attribs, Attrib{Location: LocUV, Components: 2, Offset: uintptr(floats * 4)})
		floats += 2
	}
	layout.Stride = floats * 4

	n := d.VertexCount()
	out := make([]float32, 0, n*int(floats))
	for i := range n {
		p := d.Position(i)
		out = append(out, p[0], p[1], p[2])
		if d.HasNormals() {
			nrm := d.Normal(i)
			out = append(out, nrm[0], nrm[1], nrm[2])
		}
		if d.HasUVs() {
			uv := d.UV(i)
			out = append(out, uv[0], uv[1])
		}
	}
	return out, layout
}

// DrawMode maps a mesh topology to the GL primitive type.
func DrawMode(t mesh.Topology) (uint32, error) {
	switch t {
	case mesh.Triangles:
		return gl.TRIANGLES, nil
	case mesh.TriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	}
	return 0, fmt.Errorf("unsupported topology %s", t)
}

// Mesh holds the GL objects of an uploaded descriptor.
type Mesh struct {
	VAO, VBO, EBO uint32
	Mode          uint32
	IndexCount    int32
}

// UploadMesh creates a vertex array with one interleaved buffer and an index buffer.
func UploadMesh(d *mesh.Descriptor) (*Mesh, error) {
	if d.VertexCount() == 0 || d.IndexCount() == 0 {
		return nil, ErrEmptyMesh
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	mode, err := DrawMode(d.Topology)
	if err != nil {
		return nil, err
	}

	vertices, layout := Interleave(d)
	m := &Mesh{Mode: mode, IndexCount: int32(d.IndexCount())}

	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	for _, a := range layout.Attribs {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, layout.Stride, a.Offset)
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices)*4, unsafe.Pointer(&d.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

// Draw issues one indexed draw call.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(m.Mode, m.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GL objects.
func (m *Mesh) Delete() {
	if m.VAO != 0 {
		gl.DeleteVertexArrays(1, &m.VAO)
	}
	if m.VBO != 0 {
		gl.DeleteBuffers(1, &m.VBO)
	}
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
	*m = Mesh{}
}
