package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshforge/internal/engine/uniform"
)

// ErrBlockNotInProgram is returned when a program has no active block with the given name.
var ErrBlockNotInProgram = errors.New("uniform block not found in program")

// UniformBuffer mirrors a uniform.Block in a GL uniform buffer object.
type UniformBuffer struct {
	ID      uint32
	Binding uint32
	block   *uniform.Block
}

// NewUniformBuffer allocates a buffer sized to the block and binds it to a binding point.
// The whole block is uploaded on the first Sync.
func NewUniformBuffer(block *uniform.Block, binding uint32) *UniformBuffer {
	ub := &UniformBuffer{Binding: binding, block: block}
	size := len(block.Bytes())

	gl.GenBuffers(1, &ub.ID)
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.ID)
	if size > 0 {
		gl.BufferData(gl.UNIFORM_BUFFER, size, unsafe.Pointer(&block.Bytes()[0]), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, ub.ID)

	block.ClearDirty()
	return ub
}

// Sync uploads the range changed since the previous Sync. It reports whether anything was sent.
func (ub *UniformBuffer) Sync() bool {
	off, size, ok := ub.block.Dirty()
	if !ok {
		return false
	}
	data := ub.block.Bytes()
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.ID)
	gl.BufferSubData(gl.UNIFORM_BUFFER, int(off), int(size), unsafe.Pointer(&data[off]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	ub.block.ClearDirty()
	return true
}

// Attach points a program's named uniform block at this buffer's binding.
func (ub *UniformBuffer) Attach(program uint32) error {
	idx := gl.GetUniformBlockIndex(program, gl.Str(ub.block.Name+"\x00"))
	if idx == gl.INVALID_INDEX {
		return fmt.Errorf("%w: %s", ErrBlockNotInProgram, ub.block.Name)
	}
	gl.UniformBlockBinding(program, idx, ub.Binding)
	return nil
}

// Delete releases the buffer object.
func (ub *UniformBuffer) Delete() {
	if ub.ID != 0 {
		gl.DeleteBuffers(1, &ub.ID)
		ub.ID = 0
	}
}
