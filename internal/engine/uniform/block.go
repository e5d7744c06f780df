package uniform

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Block owns the CPU-side bytes of one uniform block and tracks which
// range changed since the last upload. A Block has a single writer.
type Block struct {
	Handle uuid.UUID
	Name   string

	plan *Plan
	data []byte

	dirtyLo, dirtyHi uint32
}

// NewBlock allocates a zeroed buffer sized by the plan.
func NewBlock(name string, plan *Plan) *Block {
	return &Block{
		Handle: uuid.New(),
		Name:   name,
		plan:   plan,
		data:   make([]byte, plan.TotalSize()),
	}
}

// Plan returns the block layout.
func (b *Block) Plan() *Plan {
	return b.plan
}

// Bytes returns the backing buffer. Callers must not resize it.
func (b *Block) Bytes() []byte {
	return b.data
}

// Set writes raw bytes into a field and marks them dirty.
func (b *Block) Set(name string, value []byte) error {
	if err := b.plan.Write(b.data, name, value); err != nil {
		return fmt.Errorf("block %s: %w", b.Name, err)
	}
	pl, _ := b.plan.Placement(name)
	b.markDirty(pl.Offset, pl.Offset+pl.Size())
	return nil
}

// Dirty returns the byte range modified since the last ClearDirty.
func (b *Block) Dirty() (offset, size uint32, ok bool) {
	if b.dirtyHi <= b.dirtyLo {
		return 0, 0, false
	}
	return b.dirtyLo, b.dirtyHi - b.dirtyLo, true
}

// ClearDirty marks the whole block as uploaded.
func (b *Block) ClearDirty() {
	b.dirtyLo, b.dirtyHi = 0, 0
}

func (b *Block) markDirty(lo, hi uint32) {
	if b.dirtyHi <= b.dirtyLo {
		b.dirtyLo, b.dirtyHi = lo, hi
		return
	}
	b.dirtyLo = min(b.dirtyLo, lo)
	b.dirtyHi = max(b.dirtyHi, hi)
}

// SetFloat writes a float scalar.
func (b *Block) SetFloat(name string, v float32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return b.Set(name, buf)
}

// SetInt writes an int scalar.
func (b *Block) SetInt(name string, v int32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return b.Set(name, buf)
}

// SetBool writes a bool as a 32-bit 0 or 1.
func (b *Block) SetBool(name string, v bool) error {
	var n int32
	if v {
		n = 1
	}
	return b.SetInt(name, n)
}

// SetVec2 writes a vec2.
func (b *Block) SetVec2(name string, v mgl32.Vec2) error {
	return b.Set(name, encodeFloats(v[:], 8))
}

// SetVec3 writes a vec3 with its trailing pad word zeroed.
func (b *Block) SetVec3(name string, v mgl32.Vec3) error {
	return b.Set(name, encodeFloats(v[:], 16))
}

// SetVec4 writes a vec4.
func (b *Block) SetVec4(name string, v mgl32.Vec4) error {
	return b.Set(name, encodeFloats(v[:], 16))
}

// SetMat3 writes a column-major mat3, each column padded to a vec4.
func (b *Block) SetMat3(name string, m mgl32.Mat3) error {
	buf := make([]byte, 48)
	for col := range 3 {
		copy(buf[col*16:], encodeFloats(m[col*3:col*3+3], 16))
	}
	return b.Set(name, buf)
}

// SetMat4 writes a column-major mat4.
func (b *Block) SetMat4(name string, m mgl32.Mat4) error {
	return b.Set(name, encodeFloats(m[:], 64))
}

// SetFloatArray writes a float array, one element per chunk.
func (b *Block) SetFloatArray(name string, vs []float32) error {
	buf := make([]byte, len(vs)*ChunkSize)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*ChunkSize:], math.Float32bits(v))
	}
	return b.Set(name, buf)
}

// SetVec3Array writes a vec3 array, one element per chunk.
func (b *Block) SetVec3Array(name string, vs []mgl32.Vec3) error {
	buf := make([]byte, len(vs)*ChunkSize)
	for i, v := range vs {
		copy(buf[i*ChunkSize:], encodeFloats(v[:], ChunkSize))
	}
	return b.Set(name, buf)
}

// SetVec4Array writes a vec4 array.
func (b *Block) SetVec4Array(name string, vs []mgl32.Vec4) error {
	buf := make([]byte, len(vs)*ChunkSize)
	for i, v := range vs {
		copy(buf[i*ChunkSize:], encodeFloats(v[:], ChunkSize))
	}
	return b.Set(name, buf)
}

// encodeFloats packs little-endian float32s into a zero-padded buffer of size bytes.
func encodeFloats(vs []float32, size int) []byte {
	buf := make([]byte, size)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
