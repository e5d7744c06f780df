// Package formats provides parsers for mesh interchange formats.
//
// Parsers return *mesh.Descriptor values ready for upload. OBJ is the only
// format implemented so far; see ParseOBJ.
package formats
