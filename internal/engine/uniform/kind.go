// Package uniform lays out uniform block fields in 16-byte chunks (std140 style)
// and writes values into the backing byte buffer.
package uniform

import (
	"fmt"
	"strings"
)

// ChunkSize is the alignment unit of the packing rule.
const ChunkSize = 16

// Kind is the data type of a uniform field.
type Kind uint8

// Field kinds. Scalar covers float, int and bool.
const (
	Scalar Kind = iota
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
)

// kindSizes are the std140 sizes in bytes. Vec3 carries 4 bytes of
// trailing padding and Mat3 stores each column as a vec4.
var kindSizes = [...]uint32{
	Scalar: 4,
	Vec2:   8,
	Vec3:   16,
	Vec4:   16,
	Mat3:   48,
	Mat4:   64,
}

var kindNames = [...]string{
	Scalar: "scalar",
	Vec2:   "vec2",
	Vec3:   "vec3",
	Vec4:   "vec4",
	Mat3:   "mat3",
	Mat4:   "mat4",
}

// Size returns the byte size of one value of this kind.
func (k Kind) Size() uint32 {
	if !k.Valid() {
		return 0
	}
	return kindSizes[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindSizes)
}

// String returns the GLSL-style kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Unknown(%d)", k)
	}
	return kindNames[k]
}

// ParseKind converts a GLSL type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "float", "int", "uint", "bool":
		return Scalar, nil
	case "vec2":
		return Vec2, nil
	case "vec3":
		return Vec3, nil
	case "vec4":
		return Vec4, nil
	case "mat3":
		return Mat3, nil
	case "mat4":
		return Mat4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Field declares one named member of a uniform block.
type Field struct {
	Name string
	Kind Kind
	// ArrayLength is the element count, 0 for a non-array field.
	ArrayLength uint32
}

// Size returns the number of bytes a value for this field occupies.
// Array elements are strided to a full chunk each. NewPlan rejects
// lengths whose size does not fit in a uint32.
func (f Field) Size() uint32 {
	if f.ArrayLength > 0 {
		return f.ArrayLength * ChunkSize
	}
	return f.Kind.Size()
}
