package uniform

import (
	"errors"
	"fmt"
	"math"
)

// Layout errors.
var (
	ErrEmptyFieldName = errors.New("uniform field name is empty")
	ErrDuplicateField = errors.New("duplicate uniform field")
	ErrUnknownKind    = errors.New("unknown uniform kind")
	ErrUnknownField   = errors.New("unknown uniform field")
	ErrSizeMismatch   = errors.New("uniform value size mismatch")
	ErrBufferTooSmall = errors.New("uniform buffer too small")
	ErrFieldTooLarge  = errors.New("uniform field does not fit in a 32-bit block")
)

// maxArrayLength keeps ArrayLength*ChunkSize within uint32.
const maxArrayLength = math.MaxUint32 / ChunkSize

// LookupError reports a write to a field the plan does not contain.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownField, e.Name)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownField
}

// Placement is where a field lives in the block.
type Placement struct {
	Field
	Offset uint32
	// ChunkLength is the field's size plus any padding folded onto it
	// when the following field had to start a new chunk.
	ChunkLength uint32
}

// Plan maps field names to byte ranges. It is immutable once built.
type Plan struct {
	placements []Placement
	byName     map[string]int
	totalSize  uint32
}

// NewPlan packs fields in declaration order.
//
// A field is placed directly after the previous one when it fits in what
// is left of the current 16-byte chunk. Otherwise the chunk is closed, its
// unused bytes are added to the previous field's ChunkLength, and the field
// starts on the next boundary. Arrays always start on a boundary and take
// ArrayLength whole chunks. The total is padded to a multiple of 16, again
// by growing the last field.
func NewPlan(fields []Field) (*Plan, error) {
	p := &Plan{
		placements: make([]Placement, 0, len(fields)),
		byName:     make(map[string]int, len(fields)),
	}

	var offset uint32
	remaining := uint32(ChunkSize)

	// closeChunk moves offset to the next boundary, padding the previous field.
	closeChunk := func() {
		if remaining == ChunkSize || len(p.placements) == 0 {
			return
		}
		p.placements[len(p.placements)-1].ChunkLength += remaining
		offset += remaining
		remaining = ChunkSize
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, ErrEmptyFieldName
		}
		if !f.Kind.Valid() {
			return nil, fmt.Errorf("%w: field %q kind %d", ErrUnknownKind, f.Name, f.Kind)
		}
		if _, dup := p.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}

		if f.ArrayLength > maxArrayLength {
			return nil, fmt.Errorf("%w: field %q has %d elements", ErrFieldTooLarge, f.Name, f.ArrayLength)
		}

		size := f.Size()
		// Worst case the field starts after a closed chunk and is padded to
		// the next boundary; all of it must still be addressable.
		if uint64(offset)+uint64(remaining)+uint64(size)+ChunkSize > math.MaxUint32 {
			return nil, fmt.Errorf("%w: field %q at offset %d", ErrFieldTooLarge, f.Name, offset)
		}
		if f.ArrayLength > 0 || size > remaining {
			closeChunk()
		}

		p.byName[f.Name] = len(p.placements)
		p.placements = append(p.placements, Placement{
			Field:       f,
			Offset:      offset,
			ChunkLength: size,
		})
		offset += size

		// An exactly filled chunk resets right away, so the next field
		// starts a fresh chunk without folding any padding.
		remaining = ChunkSize - offset%ChunkSize
	}

	if tail := offset % ChunkSize; tail != 0 {
		pad := ChunkSize - tail
		p.placements[len(p.placements)-1].ChunkLength += pad
		offset += pad
	}
	p.totalSize = offset

	return p, nil
}

// TotalSize returns the buffer size in bytes, a multiple of 16.
func (p *Plan) TotalSize() uint32 {
	return p.totalSize
}

// Len returns the number of fields.
func (p *Plan) Len() int {
	return len(p.placements)
}

// Placement returns the placement of the named field.
func (p *Plan) Placement(name string) (Placement, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Placement{}, false
	}
	return p.placements[i], true
}

// Placements returns all placements in declaration order.
func (p *Plan) Placements() []Placement {
	out := make([]Placement, len(p.placements))
	copy(out, p.placements)
	return out
}

// Write copies value into buf at the named field's offset.
// Only bytes in [offset, offset+size) are modified, and nothing is
// modified when an error is returned.
func (p *Plan) Write(buf []byte, name string, value []byte) error {
	pl, ok := p.Placement(name)
	if !ok {
		return &LookupError{Name: name}
	}
	size := pl.Size()
	if uint32(len(value)) != size {
		return fmt.Errorf("%w: field %q wants %d bytes, got %d", ErrSizeMismatch, name, size, len(value))
	}
	end := pl.Offset + size
	if uint32(len(buf)) < end {
		return fmt.Errorf("%w: field %q ends at %d, buffer is %d bytes", ErrBufferTooSmall, name, end, len(buf))
	}
	copy(buf[pl.Offset:end], value)
	return nil
}
